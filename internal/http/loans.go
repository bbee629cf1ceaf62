package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lending/internal/database/loans"
	"github.com/mrlokans/lending/internal/entities"
)

// ErrInvalidCriteria is returned when loan search parameters cannot be parsed.
var ErrInvalidCriteria = errors.New("invalid loan criteria")

type LoansController struct{}

func NewLoansController() *LoansController {
	return &LoansController{}
}

// loanRequest is the body accepted by the create and update endpoints.
type loanRequest struct {
	StartDate  string `json:"start_date" binding:"required"`
	DueDate    string `json:"due_date" binding:"required"`
	ReturnDate string `json:"return_date"`
	State      string `json:"state"`
	UserID     uint   `json:"user_id" binding:"required"`
	CopyID     uint   `json:"copy_id" binding:"required"`
}

func (r loanRequest) toLoan() (*entities.Loan, error) {
	start, err := parseDate(r.StartDate)
	if err != nil {
		return nil, err
	}
	due, err := parseDate(r.DueDate)
	if err != nil {
		return nil, err
	}
	returned, err := parseDate(r.ReturnDate)
	if err != nil {
		return nil, err
	}
	loan := &entities.Loan{
		StartDate:  *start,
		DueDate:    *due,
		ReturnDate: returned,
		UserID:     r.UserID,
		CopyID:     r.CopyID,
	}
	if r.State != "" {
		if loan.State, err = entities.ParseLoanState(r.State); err != nil {
			return nil, err
		}
	}
	return loan, nil
}

// parseCriteria builds loan criteria from the status, from and to query
// parameters. A range with a single bound is ignored.
func parseCriteria(c *gin.Context) (loans.Criteria, error) {
	criteria := loans.NewCriteria()

	if status := c.Query("status"); status != "" {
		state, err := entities.ParseLoanState(status)
		if err != nil {
			return criteria, fmt.Errorf("%w: %v", ErrInvalidCriteria, err)
		}
		criteria = criteria.WithStatus(state)
	}

	from, err := parseDate(c.Query("from"))
	if err != nil {
		return criteria, fmt.Errorf("%w: from: %v", ErrInvalidCriteria, err)
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		return criteria, fmt.Errorf("%w: to: %v", ErrInvalidCriteria, err)
	}
	criteria.StartDateFrom = from
	criteria.StartDateTo = to

	return criteria, nil
}

// Search returns the loans matching the optional status and start date range.
// GET /api/loans?status=ACTIVE&from=2024-01-01&to=2024-01-31
func (lc *LoansController) Search(c *gin.Context) {
	criteria, err := parseCriteria(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	found, err := loans.NewRepository(requestSession(c)).FindByCriteria(criteria)
	if err != nil {
		respondInternalError(c, err, "search loans")
		return
	}

	c.JSON(http.StatusOK, gin.H{"loans": found, "total": len(found)})
}

// GetLoan returns a single loan.
// GET /api/loans/:id
func (lc *LoansController) GetLoan(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	loan, found, err := loans.NewRepository(requestSession(c)).FindByID(id)
	if err != nil {
		respondInternalError(c, err, "get loan")
		return
	}
	if !found {
		respondNotFound(c, "loan")
		return
	}

	c.JSON(http.StatusOK, loan)
}

// CreateLoan registers a new loan.
// POST /api/loans
func (lc *LoansController) CreateLoan(c *gin.Context) {
	var req loanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	loan, err := req.toLoan()
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	created, err := loans.NewRepository(requestSession(c)).Create(loan)
	if err != nil {
		respondInternalError(c, err, "create loan")
		return
	}
	if !created {
		respondConflict(c, "loan was rejected")
		return
	}

	respondCreated(c, loan)
}

// UpdateLoan merges the request into the loan with the given id.
// PUT /api/loans/:id
func (lc *LoansController) UpdateLoan(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req loanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	loan, err := req.toLoan()
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	loan.ID = id

	stored, err := loans.NewRepository(requestSession(c)).Update(loan)
	if err != nil {
		respondInternalError(c, err, "update loan")
		return
	}
	if stored == loan {
		respondConflict(c, "loan update was rejected")
		return
	}

	c.JSON(http.StatusOK, stored)
}

// DeleteLoan removes a loan.
// DELETE /api/loans/:id
func (lc *LoansController) DeleteLoan(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := loans.NewRepository(requestSession(c)).Delete(&entities.Loan{ID: id})
	if err != nil {
		respondInternalError(c, err, "delete loan")
		return
	}
	if !deleted {
		respondNotFound(c, "loan")
		return
	}

	respondSuccess(c, "loan deleted")
}
