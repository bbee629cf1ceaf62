package entrypoint

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/lending/internal/config"
	"github.com/mrlokans/lending/internal/database/repository"
	"github.com/mrlokans/lending/internal/entities"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database:     config.Database{Path: filepath.Join(t.TempDir(), "lending.db"), LogLevel: "silent"},
		OverdueSweep: config.OverdueSweep{Enabled: true, Schedule: "0 * * * *"},
	}
}

func TestMigrate_CreatesSchema(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, Migrate(cfg))

	db, err := OpenDatabase(cfg)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"authors", "categories", "books", "copies", "users", "loans", "ratings", "user_favorite_books"} {
		assert.True(t, db.DB.Migrator().HasTable(table), table)
	}
}

func TestSweepOverdue(t *testing.T) {
	cfg := testConfig(t)

	db, err := OpenDatabase(cfg)
	require.NoError(t, err)
	session := db.OpenSession()
	_, err = repository.New[entities.Loan](session).Create(&entities.Loan{
		StartDate: entities.Date(2020, 1, 1), DueDate: entities.Date(2020, 1, 15), UserID: 1, CopyID: 1,
	})
	require.NoError(t, err)
	session.Close()
	require.NoError(t, db.Close())

	marked, err := SweepOverdue(cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)
}

func TestOpenDatabase_UsesConfiguredPath(t *testing.T) {
	cfg := testConfig(t)
	db, err := OpenDatabase(cfg)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, cfg.Database.Path)
}
