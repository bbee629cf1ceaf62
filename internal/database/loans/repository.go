// Package loans provides database operations for loans, including the
// criteria search.
//
// # Usage
//
//	repo := loans.NewRepository(session)
//	active, err := repo.FindByCriteria(loans.NewCriteria().WithStatus(entities.LoanStateActive))
package loans

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/database/repository"
	"github.com/mrlokans/lending/internal/entities"
)

// Repository handles all loan database operations.
type Repository struct {
	*repository.Repository[entities.Loan]
}

// NewRepository creates a new loans repository.
func NewRepository(session *database.Session) *Repository {
	return &Repository{Repository: repository.New[entities.Loan](session)}
}

// FindByStatus returns the loans in the given state.
func (r *Repository) FindByStatus(status entities.LoanState) ([]entities.Loan, error) {
	return r.FindByCriteria(NewCriteria().WithStatus(status))
}

// FindByCriteria returns the loans matching every filter present in c, in
// store order. Empty criteria return all loans.
func (r *Repository) FindByCriteria(c Criteria) ([]entities.Loan, error) {
	predicate, args := c.Predicate()
	return r.Query(func(db *gorm.DB) *gorm.DB {
		return db.Where(predicate, args...)
	})
}

// MarkOverdue moves ACTIVE loans whose due date is before asOf to OVERDUE and
// returns how many were changed.
func (r *Repository) MarkOverdue(asOf time.Time) (int64, error) {
	var changed int64
	_, err := r.Session().Transact("mark overdue", r.Entity(), func(tx *gorm.DB) (bool, error) {
		res := tx.Model(&entities.Loan{}).
			Where("state = ? AND due_date < ?", entities.LoanStateActive, entities.Day(asOf)).
			Update("state", entities.LoanStateOverdue)
		if res.Error != nil {
			return false, res.Error
		}
		changed = res.RowsAffected
		return true, nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue loans: %w", err)
	}
	return changed, nil
}
