package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/mrlokans/lending/internal/entities"
)

// Session is the unit of work repositories run against. Every mutating
// repository call gets its own transaction through Transact; reads go
// straight to the connection.
//
// A Session is not safe for concurrent use.
type Session struct {
	db     *gorm.DB
	closed bool
}

var _ entities.Loader = (*Session)(nil)

// NewSession wraps an existing gorm handle.
func NewSession(db *gorm.DB) *Session {
	return &Session{db: db}
}

// DB returns the handle for non-transactional reads.
func (s *Session) DB() (*gorm.DB, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.db, nil
}

// Close ends the session. Lazy references obtained from it stop resolving.
func (s *Session) Close() {
	s.closed = true
}

func (s *Session) Closed() bool {
	return s.closed
}

// Load fetches dest by primary key and binds it to the session.
func (s *Session) Load(dest any, id uint) error {
	if s.closed {
		return entities.ErrDetachedReference
	}
	err := s.db.First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %T with id %d", entities.ErrReferenceNotFound, dest, id)
	}
	if err != nil {
		return err
	}
	s.Bind(dest)
	return nil
}

// Bind attaches the lazy references of the entity pointed to by v.
func (s *Session) Bind(v any) {
	if b, ok := v.(entities.SessionBinder); ok {
		b.BindSession(s)
	}
}

// Transact runs fn inside a transaction that is always released before it
// returns: committed when fn reports commit, rolled back otherwise (including
// when fn panics).
//
// A failure reported by fn is an expected outcome: the transaction is rolled
// back and Transact returns (false, nil). Only a transaction that cannot be
// begun, committed or rolled back yields a *FatalError.
func (s *Session) Transact(op, entity string, fn func(tx *gorm.DB) (commit bool, err error)) (bool, error) {
	if s.closed {
		return false, &FatalError{Op: op, Entity: entity, Err: ErrSessionClosed}
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return false, &FatalError{Op: op, Entity: entity, Err: tx.Error}
	}

	released := false
	defer func() {
		if !released {
			tx.Rollback()
		}
	}()

	commit, err := fn(tx)
	if err != nil || !commit {
		released = true
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return false, &FatalError{Op: op, Entity: entity, Err: errors.Join(err, rbErr)}
		}
		if err != nil {
			logRejected(op, entity, err)
		}
		return false, nil
	}

	released = true
	if err := tx.Commit().Error; err != nil {
		// a failed commit leaves no transaction to roll back
		return false, &FatalError{Op: op, Entity: entity, Err: err}
	}
	return true, nil
}

func logRejected(op, entity string, err error) {
	if IsConstraintViolation(err) {
		log.Printf("%s %s rejected by constraint: %v", op, entity, err)
		return
	}
	log.Printf("%s %s rolled back: %v", op, entity, err)
}
