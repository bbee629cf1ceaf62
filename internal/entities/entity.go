package entities

import "time"

// Entity is implemented by every record identified by a surrogate key.
// A zero EntityID means the record has not been persisted yet.
type Entity interface {
	EntityID() uint
}

// SessionBinder is implemented by entities holding lazy references.
// Repositories call BindSession on everything they read so the references
// can be resolved while the session is open.
type SessionBinder interface {
	BindSession(loader Loader)
}

// OwnedKeys is implemented by entities whose save also writes rows they own.
// SnapshotOwnedKeys records the keys of those rows and returns a func that
// puts them back, undoing what a rolled back insert assigned.
type OwnedKeys interface {
	SnapshotOwnedKeys() (restore func())
}

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Day truncates t to midnight UTC of its calendar day, keeping the date as seen
// in t's own location. The zero time is returned unchanged.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return Date(y, m, d)
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := Day(*t)
	return &d
}
