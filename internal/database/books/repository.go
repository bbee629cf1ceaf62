// Package books provides database operations for the book catalogue.
//
// # Usage
//
//	repo := books.NewRepository(session)
//	book, found, err := repo.FindByISBN("9780441478125")
//	author, err := book.Author.Get() // lazy, needs the session open
package books

import (
	"gorm.io/gorm"

	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/database/repository"
	"github.com/mrlokans/lending/internal/entities"
)

// Repository handles all book database operations. Deleting a book does not
// touch the copies, loans, ratings or favourites that point at it.
type Repository struct {
	*repository.Repository[entities.Book]
}

// NewRepository creates a new books repository.
func NewRepository(session *database.Session) *Repository {
	return &Repository{Repository: repository.New[entities.Book](session)}
}

// FindByISBN retrieves a book by ISBN.
func (r *Repository) FindByISBN(isbn string) (*entities.Book, bool, error) {
	return r.FindOne(func(db *gorm.DB) *gorm.DB {
		return db.Where("isbn = ?", isbn)
	})
}

// FindByAuthor returns the books written by an author.
func (r *Repository) FindByAuthor(authorID uint) ([]entities.Book, error) {
	return r.Query(func(db *gorm.DB) *gorm.DB {
		return db.Where("author_id = ?", authorID)
	})
}

// FindByCategory returns the books filed under a category.
func (r *Repository) FindByCategory(categoryID uint) ([]entities.Book, error) {
	return r.Query(func(db *gorm.DB) *gorm.DB {
		return db.Where("category_id = ?", categoryID)
	})
}

// FavoritingUsers is the inverse side of User.FavoriteBooks, computed from the
// join table on every call.
func (r *Repository) FavoritingUsers(bookID uint) ([]entities.User, error) {
	users := repository.New[entities.User](r.Session(), repository.WithPreload("Loans", "Ratings"))
	return users.Query(func(db *gorm.DB) *gorm.DB {
		return db.Select("users.*").
			Joins("JOIN user_favorite_books ufb ON ufb.user_id = users.id").
			Where("ufb.book_id = ?", bookID)
	})
}
