// Package repository provides the transactional CRUD contract shared by all
// entity repositories.
//
// Every mutating call runs in its own transaction (see database.Session.Transact).
// Rejected writes are ordinary results: Create and Delete return false,
// Update echoes its argument. An error is returned only when the session or
// connection is unusable, as a *database.FatalError for writes.
//
// # Usage
//
//	session := db.OpenSession()
//	defer session.Close()
//
//	authors := repository.New[entities.Author](session)
//	ok, err := authors.Create(&entities.Author{FirstName: "Ursula", LastName: "Le Guin"})
package repository

import (
	"errors"
	"fmt"
	"reflect"

	"gorm.io/gorm"

	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/entities"
)

// Repository persists entities of a single type T.
type Repository[T entities.Entity] struct {
	session  *database.Session
	entity   string
	preloads []string
}

// Option customises a Repository.
type Option func(*settings)

type settings struct {
	preloads []string
}

// WithPreload loads the named associations eagerly on every read.
func WithPreload(associations ...string) Option {
	return func(s *settings) {
		s.preloads = append(s.preloads, associations...)
	}
}

// New creates a repository for T bound to session.
func New[T entities.Entity](session *database.Session, opts ...Option) *Repository[T] {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return &Repository[T]{
		session:  session,
		entity:   reflect.TypeOf((*T)(nil)).Elem().Name(),
		preloads: s.preloads,
	}
}

// Session returns the session the repository runs against.
func (r *Repository[T]) Session() *database.Session {
	return r.session
}

// Entity returns the entity type name used in errors and logs.
func (r *Repository[T]) Entity() string {
	return r.entity
}

// Create inserts e and assigns its ID. On a rejected insert e is left as it
// was passed in and false is returned.
func (r *Repository[T]) Create(e *T) (bool, error) {
	snapshot := *e
	restoreOwned := snapshotOwned(e)
	ok, err := r.session.Transact("create", r.entity, func(tx *gorm.DB) (bool, error) {
		if err := tx.Create(e).Error; err != nil {
			return false, err
		}
		return true, nil
	})
	if !ok {
		*e = snapshot
		restoreOwned()
		return false, err
	}
	r.session.Bind(e)
	return true, nil
}

// FindByID looks up an entity without a transaction. A missing row is
// reported through found, not as an error.
func (r *Repository[T]) FindByID(id uint) (*T, bool, error) {
	return r.FindOne(func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	})
}

// Update merges e into the store and returns the stored state as a new value.
// An entity without ID is inserted. Owned collections are written in full
// together with e. If the merge is rejected the argument itself is returned,
// so callers detect failure by pointer identity.
func (r *Repository[T]) Update(e *T) (*T, error) {
	merged := *e
	restoreOwned := snapshotOwned(e)
	var stored T
	ok, err := r.session.Transact("update", r.entity, func(tx *gorm.DB) (bool, error) {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&merged).Error; err != nil {
			return false, err
		}
		if err := r.preload(tx).First(&stored, merged.EntityID()).Error; err != nil {
			return false, err
		}
		return true, nil
	})
	if !ok {
		restoreOwned()
		return e, err
	}
	r.session.Bind(&stored)
	return &stored, nil
}

// Delete removes the row carrying e's ID. It returns false when no such row
// exists or the removal is rejected.
func (r *Repository[T]) Delete(e *T) (bool, error) {
	id := (*e).EntityID()
	return r.session.Transact("delete", r.entity, func(tx *gorm.DB) (bool, error) {
		var found T
		res := tx.Limit(1).Find(&found, id)
		if res.Error != nil {
			return false, res.Error
		}
		if res.RowsAffected == 0 {
			return false, nil
		}
		if err := tx.Delete(&found).Error; err != nil {
			return false, err
		}
		return true, nil
	})
}

// FindAll returns every stored entity in store order.
func (r *Repository[T]) FindAll() ([]T, error) {
	return r.Query(func(db *gorm.DB) *gorm.DB {
		return db
	})
}

// Query runs a read built by scope and binds the results to the session.
func (r *Repository[T]) Query(scope func(db *gorm.DB) *gorm.DB) ([]T, error) {
	db, err := r.session.DB()
	if err != nil {
		return nil, err
	}
	var items []T
	if err := scope(r.preload(db)).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.entity, err)
	}
	for i := range items {
		r.session.Bind(&items[i])
	}
	return items, nil
}

// FindOne runs a single-row read built by scope.
func (r *Repository[T]) FindOne(scope func(db *gorm.DB) *gorm.DB) (*T, bool, error) {
	db, err := r.session.DB()
	if err != nil {
		return nil, false, err
	}
	var e T
	res := scope(r.preload(db)).Limit(1).Find(&e)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to find %s: %w", r.entity, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}
	r.session.Bind(&e)
	return &e, true, nil
}

// snapshotOwned returns a func restoring the keys of rows owned by e. The
// slices of a shallow copy share their elements with e, so they are saved
// separately.
func snapshotOwned(e any) func() {
	if o, ok := e.(entities.OwnedKeys); ok {
		return o.SnapshotOwnedKeys()
	}
	return func() {}
}

func (r *Repository[T]) preload(db *gorm.DB) *gorm.DB {
	for _, association := range r.preloads {
		db = db.Preload(association)
	}
	return db
}
