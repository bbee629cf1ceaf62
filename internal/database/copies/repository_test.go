package copies

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/database/repository"
	"github.com/mrlokans/lending/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *database.Session, func()) {
	t.Helper()
	dbPath := "./test_copies_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath, database.WithLogLevel(logger.Silent))
	require.NoError(t, err)

	session := db.OpenSession()
	cleanup := func() {
		session.Close()
		db.Close()
		os.Remove(dbPath)
	}
	return NewRepository(session), session, cleanup
}

func TestRepository_FindByCodeAndBook(t *testing.T) {
	repo, session, cleanup := setupTestDB(t)
	defer cleanup()

	book := &entities.Book{ISBN: "111", Title: "Dune"}
	_, err := repository.New[entities.Book](session).Create(book)
	require.NoError(t, err)

	first := &entities.Copy{Code: "C-1", Location: "Shelf A"}
	first.Book.Set(book)
	second := &entities.Copy{Code: "C-2", BookID: book.ID, State: entities.CopyStateMaintenance}
	for _, c := range []*entities.Copy{first, second} {
		ok, err := repo.Create(c)
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, err := repo.Create(&entities.Copy{Code: "C-1", BookID: book.ID})
	require.NoError(t, err)
	assert.False(t, ok, "copy codes are unique")

	found, exists, err := repo.FindByCode("C-2")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, entities.CopyStateMaintenance, found.State)

	all, err := repo.FindByBook(book.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepository_ActiveLoan(t *testing.T) {
	repo, session, cleanup := setupTestDB(t)
	defer cleanup()
	loans := repository.New[entities.Loan](session)

	bookCopy := &entities.Copy{Code: "C-1", BookID: 1}
	_, err := repo.Create(bookCopy)
	require.NoError(t, err)

	_, exists, err := repo.ActiveLoan(bookCopy.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	returned := entities.Date(2024, 1, 10)
	_, err = loans.Create(&entities.Loan{
		StartDate: entities.Date(2024, 1, 1), DueDate: entities.Date(2024, 1, 15), ReturnDate: &returned,
		State: entities.LoanStateReturned, UserID: 1, CopyID: bookCopy.ID,
	})
	require.NoError(t, err)
	active := &entities.Loan{StartDate: entities.Date(2024, 2, 1), DueDate: entities.Date(2024, 2, 15), UserID: 2, CopyID: bookCopy.ID}
	_, err = loans.Create(active)
	require.NoError(t, err)

	loan, exists, err := repo.ActiveLoan(bookCopy.ID)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, active.ID, loan.ID)
}
