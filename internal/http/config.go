package http

import (
	"github.com/mrlokans/lending/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	Database *database.Database

	// Application info
	Version string
}
