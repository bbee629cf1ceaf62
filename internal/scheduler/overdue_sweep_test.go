package scheduler

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/lending/internal/config"
	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/database/repository"
	"github.com/mrlokans/lending/internal/entities"
)

func setupTestDB(t *testing.T) (*database.Database, func()) {
	t.Helper()
	dbPath := "./test_scheduler_" + t.Name() + ".db"
	db, err := database.NewDatabase(dbPath, database.WithLogLevel(logger.Silent))
	require.NoError(t, err)
	return db, func() {
		db.Close()
		os.Remove(dbPath)
	}
}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 * * * *"))
	assert.NoError(t, ValidateCronSchedule("*/15 * * * *"))
	assert.Error(t, ValidateCronSchedule("every hour"))
	assert.Error(t, ValidateCronSchedule("0 0 * * * *"))
}

func TestOverdueSweepScheduler_RunNow(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	session := db.OpenSession()
	loans := repository.New[entities.Loan](session)
	late := &entities.Loan{StartDate: entities.Date(2024, 1, 1), DueDate: entities.Date(2024, 1, 15), UserID: 1, CopyID: 1}
	onTime := &entities.Loan{StartDate: entities.Date(2024, 1, 10), DueDate: entities.Date(2024, 1, 24), UserID: 1, CopyID: 2}
	for _, l := range []*entities.Loan{late, onTime} {
		_, err := loans.Create(l)
		require.NoError(t, err)
	}

	s := NewOverdueSweepScheduler(db, config.OverdueSweep{Enabled: true, Schedule: "0 * * * *"})
	s.now = func() time.Time { return time.Date(2024, 1, 20, 9, 30, 0, 0, time.UTC) }

	marked, err := s.RunNow()
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)

	got, _, err := loans.FindByID(late.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.LoanStateOverdue, got.State)
	got, _, err = loans.FindByID(onTime.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.LoanStateActive, got.State)

	marked, err = s.RunNow()
	require.NoError(t, err)
	assert.Zero(t, marked)
	session.Close()
}

func TestOverdueSweepScheduler_StartStop(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	disabled := NewOverdueSweepScheduler(db, config.OverdueSweep{Enabled: false, Schedule: "0 * * * *"})
	require.NoError(t, disabled.Start(context.Background()))
	assert.False(t, disabled.IsRunning())
	assert.Nil(t, disabled.GetNextRunTime())

	invalid := NewOverdueSweepScheduler(db, config.OverdueSweep{Enabled: true, Schedule: "nope"})
	assert.Error(t, invalid.Start(context.Background()))
	assert.False(t, invalid.IsRunning())

	s := NewOverdueSweepScheduler(db, config.OverdueSweep{Enabled: true, Schedule: "0 * * * *"})
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	next := s.GetNextRunTime()
	require.NotNil(t, next)
	assert.Zero(t, next.Minute())

	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestOverdueSweepScheduler_StopsWithContext(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	s := NewOverdueSweepScheduler(db, config.OverdueSweep{Enabled: true, Schedule: "0 * * * *"})
	require.NoError(t, s.Start(ctx))

	cancel()
	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
}
