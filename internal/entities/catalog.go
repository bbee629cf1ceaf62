package entities

import (
	"time"

	"gorm.io/gorm"
)

type Author struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	FirstName   string     `gorm:"size:100;not null" json:"first_name"`
	LastName    string     `gorm:"size:150" json:"last_name"`
	Nationality string     `gorm:"size:50" json:"nationality,omitempty"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}

// Book is a title in the catalogue. Its author and category are lazy.
// The users that favourited a book are not stored here; see
// books.Repository.FavoritingUsers.
type Book struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	ISBN        string        `gorm:"uniqueIndex;size:20;not null" json:"isbn"`
	Title       string        `gorm:"size:200;not null" json:"title"`
	PublishedOn *time.Time    `json:"published_on,omitempty"`
	Pages       int           `json:"pages,omitempty"`
	Publisher   string        `gorm:"size:100" json:"publisher,omitempty"`
	AuthorID    uint          `gorm:"index" json:"author_id"`
	Author      Ref[Author]   `gorm:"-" json:"-"`
	CategoryID  uint          `gorm:"index" json:"category_id"`
	Category    Ref[Category] `gorm:"-" json:"-"`
}

type CopyState string

const (
	CopyStateAvailable   CopyState = "AVAILABLE"
	CopyStateLoaned      CopyState = "LOANED"
	CopyStateMaintenance CopyState = "MAINTENANCE"
)

// Copy is one physical, individually loanable instance of a Book.
type Copy struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Code     string    `gorm:"uniqueIndex;size:50;not null" json:"code"`
	State    CopyState `gorm:"size:20;not null;default:'AVAILABLE'" json:"state"`
	Location string    `gorm:"size:100" json:"location,omitempty"`
	BookID   uint      `gorm:"index;not null" json:"book_id"`
	Book     Ref[Book] `gorm:"-" json:"-"`
}

func (a Author) EntityID() uint   { return a.ID }
func (c Category) EntityID() uint { return c.ID }
func (b Book) EntityID() uint     { return b.ID }
func (c Copy) EntityID() uint     { return c.ID }

func (Author) TableName() string {
	return "authors"
}

func (Category) TableName() string {
	return "categories"
}

func (Book) TableName() string {
	return "books"
}

func (Copy) TableName() string {
	return "copies"
}

func (b *Book) BindSession(loader Loader) {
	b.Author = rebind(b.Author, b.AuthorID, loader)
	b.Category = rebind(b.Category, b.CategoryID, loader)
}

// BeforeSave copies the keys of references assigned with Ref.Set.
func (b *Book) BeforeSave(tx *gorm.DB) error {
	if b.Author.Loaded() {
		b.AuthorID = b.Author.ID()
	}
	if b.Category.Loaded() {
		b.CategoryID = b.Category.ID()
	}
	b.PublishedOn = dayPtr(b.PublishedOn)
	return nil
}

func (c *Copy) BindSession(loader Loader) {
	c.Book = rebind(c.Book, c.BookID, loader)
}

func (c *Copy) BeforeSave(tx *gorm.DB) error {
	if c.Book.Loaded() {
		c.BookID = c.Book.ID()
	}
	if c.State == "" {
		c.State = CopyStateAvailable
	}
	return nil
}
