// Package ratings provides database operations for user ratings of books,
// identified by the (user, book, category) key rather than a surrogate ID.
package ratings

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/entities"
)

const entityName = "Rating"

// Repository handles all rating database operations.
type Repository struct {
	session *database.Session
}

// NewRepository creates a new ratings repository.
func NewRepository(session *database.Session) *Repository {
	return &Repository{session: session}
}

func byKey(db *gorm.DB, key entities.RatingKey) *gorm.DB {
	return db.Where("user_id = ? AND book_id = ? AND category_id = ?", key.UserID, key.BookID, key.CategoryID)
}

// Create inserts a rating. A second rating with the same key is rejected.
func (r *Repository) Create(rating *entities.Rating) (bool, error) {
	return r.session.Transact("create", entityName, func(tx *gorm.DB) (bool, error) {
		if err := tx.Create(rating).Error; err != nil {
			return false, err
		}
		return true, nil
	})
}

// Find looks up a rating by its key.
func (r *Repository) Find(key entities.RatingKey) (*entities.Rating, bool, error) {
	db, err := r.session.DB()
	if err != nil {
		return nil, false, err
	}
	var rating entities.Rating
	res := byKey(db, key).Limit(1).Find(&rating)
	if res.Error != nil {
		return nil, false, fmt.Errorf("failed to find rating %+v: %w", key, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}
	r.session.Bind(&rating)
	return &rating, true, nil
}

// FindByUser returns every rating a user gave.
func (r *Repository) FindByUser(userID uint) ([]entities.Rating, error) {
	db, err := r.session.DB()
	if err != nil {
		return nil, err
	}
	var ratings []entities.Rating
	if err := db.Where("user_id = ?", userID).Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("failed to load ratings of user %d: %w", userID, err)
	}
	for i := range ratings {
		r.session.Bind(&ratings[i])
	}
	return ratings, nil
}

// Update merges rating into the store, inserting it when the key is new. On
// rejection the argument is returned unchanged.
func (r *Repository) Update(rating *entities.Rating) (*entities.Rating, error) {
	merged := *rating
	var stored entities.Rating
	ok, err := r.session.Transact("update", entityName, func(tx *gorm.DB) (bool, error) {
		if err := tx.Save(&merged).Error; err != nil {
			return false, err
		}
		if err := byKey(tx, merged.Key()).First(&stored).Error; err != nil {
			return false, err
		}
		return true, nil
	})
	if !ok {
		return rating, err
	}
	r.session.Bind(&stored)
	return &stored, nil
}

// Delete removes the rating with rating's key. It returns false when there is
// none.
func (r *Repository) Delete(rating *entities.Rating) (bool, error) {
	key := rating.Key()
	return r.session.Transact("delete", entityName, func(tx *gorm.DB) (bool, error) {
		res := byKey(tx, key).Delete(&entities.Rating{})
		if res.Error != nil {
			return false, res.Error
		}
		return res.RowsAffected > 0, nil
	})
}
