package interfaces

// This file contains compile-time interface implementation checks.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/entities"
)

// =============================================================================
// Lazy references
// =============================================================================

var _ entities.Loader = (*database.Session)(nil)

// =============================================================================
// Entities
// =============================================================================

var _ entities.Entity = entities.Author{}
var _ entities.Entity = entities.Category{}
var _ entities.Entity = entities.Book{}
var _ entities.Entity = entities.Copy{}
var _ entities.Entity = entities.User{}
var _ entities.Entity = entities.Loan{}

// Entities with lazy references
var _ entities.SessionBinder = (*entities.Book)(nil)
var _ entities.SessionBinder = (*entities.Copy)(nil)
var _ entities.SessionBinder = (*entities.User)(nil)
var _ entities.SessionBinder = (*entities.Loan)(nil)
var _ entities.SessionBinder = (*entities.Rating)(nil)
