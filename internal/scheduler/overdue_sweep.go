package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/lending/internal/config"
	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/database/loans"
)

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks that schedule is a five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := scheduleParser.Parse(schedule)
	return err
}

// OverdueSweepScheduler periodically flips active loans past their due date
// to OVERDUE.
type OverdueSweepScheduler struct {
	db     *database.Database
	config config.OverdueSweep
	now    func() time.Time

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewOverdueSweepScheduler creates a new scheduler instance
func NewOverdueSweepScheduler(db *database.Database, cfg config.OverdueSweep) *OverdueSweepScheduler {
	return &OverdueSweepScheduler{
		db:     db,
		config: cfg,
		now:    time.Now,
		cron:   cron.New(cron.WithParser(scheduleParser)),
	}
}

// Start begins the scheduler if the sweep is enabled
func (s *OverdueSweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Overdue sweep scheduler: disabled")
		return nil
	}

	schedule, err := scheduleParser.Parse(s.config.Schedule)
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.Schedule, err)
	}

	s.entryID = s.cron.Schedule(schedule, cron.FuncJob(func() {
		if _, err := s.RunNow(); err != nil {
			log.Printf("Overdue sweep: %v", err)
		}
	}))

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Overdue sweep scheduler: started with schedule '%s'. Next run: %v",
		s.config.Schedule, schedule.Next(time.Now()))

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running sweep to finish and stops the scheduler.
func (s *OverdueSweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Printf("Overdue sweep scheduler: stopped")
}

// IsRunning returns whether the scheduler is active
func (s *OverdueSweepScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next sweep will occur
func (s *OverdueSweepScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() {
		return nil
	}
	// the cron loop fills in Next asynchronously after Start
	t := entry.Next
	if t.IsZero() {
		t = entry.Schedule.Next(time.Now())
	}
	return &t
}

// RunNow sweeps synchronously in a fresh session and returns the number of
// loans marked overdue.
func (s *OverdueSweepScheduler) RunNow() (int64, error) {
	startTime := time.Now()

	session := s.db.OpenSession()
	defer session.Close()

	marked, err := loans.NewRepository(session).MarkOverdue(s.now())
	if err != nil {
		return 0, fmt.Errorf("overdue sweep failed: %w", err)
	}

	log.Printf("Overdue sweep: marked %d loans overdue in %v", marked, time.Since(startTime).Round(time.Millisecond))
	return marked, nil
}
