package loans

import (
	"strings"
	"time"

	"github.com/mrlokans/lending/internal/entities"
)

// Criteria holds the optional filters of a loan search. A nil field means the
// filter is absent. The start date range applies only when both bounds are
// set; a half-open range is ignored.
type Criteria struct {
	Status        *entities.LoanState
	StartDateFrom *time.Time
	StartDateTo   *time.Time
}

// NewCriteria returns criteria matching every loan.
func NewCriteria() Criteria {
	return Criteria{}
}

func (c Criteria) WithStatus(status entities.LoanState) Criteria {
	c.Status = &status
	return c
}

// WithStartDateBetween restricts the start date to [from, to], both days
// included. from after to is kept as is and matches nothing.
func (c Criteria) WithStartDateBetween(from, to time.Time) Criteria {
	c.StartDateFrom = &from
	c.StartDateTo = &to
	return c
}

func (c Criteria) HasStatus() bool {
	return c.Status != nil
}

func (c Criteria) HasStartDateRange() bool {
	return c.StartDateFrom != nil && c.StartDateTo != nil
}

// Predicate builds the WHERE clause and its bind arguments. Each filter adds
// its placeholders together with their arguments, so the two always match.
func (c Criteria) Predicate() (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, 3)

	sb.WriteString("1=1")
	if c.HasStatus() {
		sb.WriteString(" AND state = ?")
		args = append(args, *c.Status)
	}
	if c.HasStartDateRange() {
		sb.WriteString(" AND start_date BETWEEN ? AND ?")
		args = append(args, entities.Day(*c.StartDateFrom), entities.Day(*c.StartDateTo))
	}
	return sb.String(), args
}
