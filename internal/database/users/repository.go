// Package users provides database operations for library members and their
// favourite books.
//
// Loans and ratings are eager: they are loaded with the user and deleted with
// it. Favourites are managed from the user side only.
//
// # Usage
//
//	repo := users.NewRepository(session)
//	user, found, err := repo.FindByDNI("12345678A")
package users

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/database/repository"
	"github.com/mrlokans/lending/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	*repository.Repository[entities.User]
}

// FavoriteCount pairs a user with the number of books they favourited.
type FavoriteCount struct {
	User  entities.User
	Count int64
}

// NewRepository creates a new users repository.
func NewRepository(session *database.Session) *Repository {
	return &Repository{
		Repository: repository.New[entities.User](session, repository.WithPreload("Loans", "Ratings")),
	}
}

// FindByDNI retrieves a user by national identity number.
func (r *Repository) FindByDNI(dni string) (*entities.User, bool, error) {
	return r.FindOne(func(db *gorm.DB) *gorm.DB {
		return db.Where("dni = ?", dni)
	})
}

// FindByEmail retrieves a user by email address.
func (r *Repository) FindByEmail(email string) (*entities.User, bool, error) {
	return r.FindOne(func(db *gorm.DB) *gorm.DB {
		return db.Where("email = ?", email)
	})
}

// FavoriteBooks loads the books a user favourited.
func (r *Repository) FavoriteBooks(userID uint) ([]entities.Book, error) {
	books := repository.New[entities.Book](r.Session())
	return books.Query(func(db *gorm.DB) *gorm.DB {
		return db.Select("books.*").
			Joins("JOIN user_favorite_books ufb ON ufb.book_id = books.id").
			Where("ufb.user_id = ?", userID)
	})
}

// AddFavorite records book as a favourite of user. Adding an existing
// favourite succeeds without change. If user.FavoriteBooks is loaded, the
// caller keeps it in sync.
func (r *Repository) AddFavorite(user *entities.User, book *entities.Book) (bool, error) {
	return r.Session().Transact("add favourite", r.Entity(), func(tx *gorm.DB) (bool, error) {
		if err := requireRows(tx, user.ID, book.ID); err != nil {
			return false, err
		}
		err := tx.Exec("INSERT OR IGNORE INTO user_favorite_books (user_id, book_id) VALUES (?, ?)", user.ID, book.ID).Error
		if err != nil {
			return false, err
		}
		return true, nil
	})
}

// RemoveFavorite deletes the favourite link between user and book. It
// returns false when the link did not exist.
func (r *Repository) RemoveFavorite(user *entities.User, book *entities.Book) (bool, error) {
	return r.Session().Transact("remove favourite", r.Entity(), func(tx *gorm.DB) (bool, error) {
		res := tx.Exec("DELETE FROM user_favorite_books WHERE user_id = ? AND book_id = ?", user.ID, book.ID)
		if res.Error != nil {
			return false, res.Error
		}
		return res.RowsAffected > 0, nil
	})
}

// FavoriteCounts returns every user with the number of books they favourited,
// including users with none.
func (r *Repository) FavoriteCounts() ([]FavoriteCount, error) {
	db, err := r.Session().DB()
	if err != nil {
		return nil, err
	}

	var rows []struct {
		UserID    uint
		Favorites int64
	}
	err = db.Table("users").
		Select("users.id AS user_id, COUNT(ufb.book_id) AS favorites").
		Joins("LEFT JOIN user_favorite_books ufb ON ufb.user_id = users.id").
		Group("users.id").
		Order("users.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count favourites: %w", err)
	}

	all, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]entities.User, len(all))
	for _, u := range all {
		byID[u.ID] = u
	}

	counts := make([]FavoriteCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, FavoriteCount{User: byID[row.UserID], Count: row.Favorites})
	}
	return counts, nil
}

func requireRows(tx *gorm.DB, userID, bookID uint) error {
	var n int64
	if err := tx.Model(&entities.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", userID, gorm.ErrRecordNotFound)
	}
	if err := tx.Model(&entities.Book{}).Where("id = ?", bookID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("book %d: %w", bookID, gorm.ErrRecordNotFound)
	}
	return nil
}
