package entities

import (
	"errors"
)

var (
	// ErrDetachedReference is returned when a lazy reference is resolved after
	// the session that produced it has been closed, or when it was never bound.
	ErrDetachedReference = errors.New("lazy reference accessed outside its session")

	// ErrReferenceNotFound is returned when a reference points to a row that
	// does not exist (e.g. a Copy whose Book was deleted).
	ErrReferenceNotFound = errors.New("referenced entity not found")
)

// Loader resolves entities by primary key. It is implemented by database.Session.
type Loader interface {
	Load(dest any, id uint) error
	Closed() bool
}

// Ref is a many-to-one reference that is materialized on first access.
// It is either unloaded (only the key is known) or loaded (value cached).
type Ref[T Entity] struct {
	id     uint
	value  *T
	loader Loader
}

// NewRef returns an unloaded reference resolved through loader.
func NewRef[T Entity](id uint, loader Loader) Ref[T] {
	return Ref[T]{id: id, loader: loader}
}

// LoadedRef returns a reference that already holds v.
func LoadedRef[T Entity](v *T) Ref[T] {
	r := Ref[T]{}
	r.Set(v)
	return r
}

// ID returns the referenced key without loading anything.
func (r Ref[T]) ID() uint {
	if r.value != nil {
		return (*r.value).EntityID()
	}
	return r.id
}

// Loaded reports whether the referenced value is already materialized.
func (r Ref[T]) Loaded() bool {
	return r.value != nil
}

// Set replaces the referenced value. The owning entity copies its key into the
// foreign key column before the next save.
func (r *Ref[T]) Set(v *T) {
	r.value = v
	if v != nil {
		r.id = (*v).EntityID()
	}
}

// Get returns the referenced value, loading it through the bound session on
// first access.
func (r *Ref[T]) Get() (*T, error) {
	if r.value != nil {
		return r.value, nil
	}
	if r.loader == nil || r.loader.Closed() {
		return nil, ErrDetachedReference
	}
	if r.id == 0 {
		return nil, ErrReferenceNotFound
	}

	var v T
	if err := r.loader.Load(&v, r.id); err != nil {
		return nil, err
	}
	r.value = &v
	return r.value, nil
}

// rebind attaches the reference to loader. A loaded value is kept only when it
// still matches the stored key.
func rebind[T Entity](r Ref[T], id uint, loader Loader) Ref[T] {
	if r.value != nil && r.ID() == id {
		r.loader = loader
		return r
	}
	return NewRef[T](id, loader)
}
