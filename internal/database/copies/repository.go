// Package copies provides database operations for physical book copies.
package copies

import (
	"gorm.io/gorm"

	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/database/repository"
	"github.com/mrlokans/lending/internal/entities"
)

// Repository handles all copy database operations.
type Repository struct {
	*repository.Repository[entities.Copy]
}

// NewRepository creates a new copies repository.
func NewRepository(session *database.Session) *Repository {
	return &Repository{Repository: repository.New[entities.Copy](session)}
}

// FindByCode retrieves a copy by its inventory code.
func (r *Repository) FindByCode(code string) (*entities.Copy, bool, error) {
	return r.FindOne(func(db *gorm.DB) *gorm.DB {
		return db.Where("code = ?", code)
	})
}

// FindByBook returns every copy of a book.
func (r *Repository) FindByBook(bookID uint) ([]entities.Copy, error) {
	return r.Query(func(db *gorm.DB) *gorm.DB {
		return db.Where("book_id = ?", bookID)
	})
}

// ActiveLoan returns the ACTIVE loan of a copy, if any. Keeping at most one
// active loan per copy is up to the caller.
func (r *Repository) ActiveLoan(copyID uint) (*entities.Loan, bool, error) {
	loans := repository.New[entities.Loan](r.Session())
	return loans.FindOne(func(db *gorm.DB) *gorm.DB {
		return db.Where("copy_id = ? AND state = ?", copyID, entities.LoanStateActive).Order("start_date DESC")
	})
}
