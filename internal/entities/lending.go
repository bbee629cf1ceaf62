package entities

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type LoanState string

const (
	LoanStateActive   LoanState = "ACTIVE"
	LoanStateReturned LoanState = "RETURNED"
	LoanStateOverdue  LoanState = "OVERDUE"
)

// ParseLoanState accepts a loan state name in any case.
func ParseLoanState(s string) (LoanState, error) {
	state := LoanState(strings.ToUpper(strings.TrimSpace(s)))
	switch state {
	case LoanStateActive, LoanStateReturned, LoanStateOverdue:
		return state, nil
	}
	return "", fmt.Errorf("unknown loan state %q", s)
}

// User is a library member. Loans and ratings are owned by the user: they are
// loaded with it and deleted with it.
type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	DNI           string     `gorm:"column:dni;uniqueIndex;size:20;not null" json:"dni"`
	FirstName     string     `gorm:"size:100;not null" json:"first_name"`
	LastName      string     `gorm:"size:100;not null" json:"last_name"`
	Email         string     `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone         string     `gorm:"size:20" json:"phone,omitempty"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	RegisteredAt  time.Time  `json:"registered_at"`
	Loans         []Loan     `gorm:"foreignKey:UserID" json:"loans,omitempty"`
	Ratings       []Rating   `gorm:"foreignKey:UserID" json:"ratings,omitempty"`
	FavoriteBooks []Book     `gorm:"many2many:user_favorite_books;" json:"favorite_books,omitempty"`
}

// Loan records a Copy lent to a User. Dates are kept at day granularity.
type Loan struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	StartDate  time.Time  `gorm:"index;not null" json:"start_date"`
	DueDate    time.Time  `gorm:"not null" json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	State      LoanState  `gorm:"size:20;index;not null;default:'ACTIVE'" json:"state"`
	UserID     uint       `gorm:"index;not null" json:"user_id"`
	User       Ref[User]  `gorm:"-" json:"-"`
	CopyID     uint       `gorm:"index;not null" json:"copy_id"`
	Copy       Ref[Copy]  `gorm:"-" json:"-"`
}

// RatingKey identifies a Rating. It is comparable and can be used as a map key.
type RatingKey struct {
	UserID     uint `json:"user_id"`
	BookID     uint `json:"book_id"`
	CategoryID uint `json:"category_id"`
}

// Rating is the score a user gives a book within a category.
type Rating struct {
	UserID     uint          `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	BookID     uint          `gorm:"primaryKey;autoIncrement:false" json:"book_id"`
	CategoryID uint          `gorm:"primaryKey;autoIncrement:false" json:"category_id"`
	Score      int           `gorm:"not null;default:0" json:"score"`
	Book       Ref[Book]     `gorm:"-" json:"-"`
	Category   Ref[Category] `gorm:"-" json:"-"`
}

func (u User) EntityID() uint { return u.ID }
func (l Loan) EntityID() uint { return l.ID }

func (r Rating) Key() RatingKey {
	return RatingKey{UserID: r.UserID, BookID: r.BookID, CategoryID: r.CategoryID}
}

func (User) TableName() string {
	return "users"
}

func (Loan) TableName() string {
	return "loans"
}

func (Rating) TableName() string {
	return "ratings"
}

func (u *User) BindSession(loader Loader) {
	for i := range u.Loans {
		u.Loans[i].BindSession(loader)
	}
	for i := range u.Ratings {
		u.Ratings[i].BindSession(loader)
	}
	for i := range u.FavoriteBooks {
		u.FavoriteBooks[i].BindSession(loader)
	}
}

func (u *User) SnapshotOwnedKeys() func() {
	loans := make([][2]uint, len(u.Loans))
	for i, l := range u.Loans {
		loans[i] = [2]uint{l.ID, l.UserID}
	}
	ratings := make([]uint, len(u.Ratings))
	for i, r := range u.Ratings {
		ratings[i] = r.UserID
	}
	return func() {
		for i := range u.Loans {
			if i < len(loans) {
				u.Loans[i].ID, u.Loans[i].UserID = loans[i][0], loans[i][1]
			}
		}
		for i := range u.Ratings {
			if i < len(ratings) {
				u.Ratings[i].UserID = ratings[i]
			}
		}
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.RegisteredAt.IsZero() {
		u.RegisteredAt = time.Now().UTC()
	}
	return nil
}

// BeforeDelete removes everything the user owns in the same transaction.
func (u *User) BeforeDelete(tx *gorm.DB) error {
	if u.ID == 0 {
		return nil
	}
	if err := tx.Where("user_id = ?", u.ID).Delete(&Loan{}).Error; err != nil {
		return fmt.Errorf("failed to delete loans of user %d: %w", u.ID, err)
	}
	if err := tx.Where("user_id = ?", u.ID).Delete(&Rating{}).Error; err != nil {
		return fmt.Errorf("failed to delete ratings of user %d: %w", u.ID, err)
	}
	if err := tx.Model(u).Association("FavoriteBooks").Clear(); err != nil {
		return fmt.Errorf("failed to clear favourites of user %d: %w", u.ID, err)
	}
	return nil
}

func (l *Loan) BindSession(loader Loader) {
	l.User = rebind(l.User, l.UserID, loader)
	l.Copy = rebind(l.Copy, l.CopyID, loader)
}

func (l *Loan) BeforeSave(tx *gorm.DB) error {
	if l.User.Loaded() {
		l.UserID = l.User.ID()
	}
	if l.Copy.Loaded() {
		l.CopyID = l.Copy.ID()
	}
	if l.State == "" {
		l.State = LoanStateActive
	}
	l.StartDate = Day(l.StartDate)
	l.DueDate = Day(l.DueDate)
	l.ReturnDate = dayPtr(l.ReturnDate)
	return nil
}

func (r *Rating) BindSession(loader Loader) {
	r.Book = rebind(r.Book, r.BookID, loader)
	r.Category = rebind(r.Category, r.CategoryID, loader)
}

func (r *Rating) BeforeSave(tx *gorm.DB) error {
	if r.Book.Loaded() {
		r.BookID = r.Book.ID()
	}
	if r.Category.Loaded() {
		r.CategoryID = r.Category.ID()
	}
	return nil
}
