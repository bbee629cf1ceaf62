package http

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lending/internal/database"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{
		db:      db,
		version: version,
	}
}

// Status reports whether the database answers and still carries every
// lending table.
// GET /health
func (h *HealthController) Status(c *gin.Context) {
	checks := map[string]string{
		"database": "not configured",
		"schema":   "not checked",
	}
	healthy := true

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			healthy = false
		} else {
			checks["database"] = "ok"
			if missing := h.db.MissingTables(); len(missing) > 0 {
				sort.Strings(missing)
				checks["schema"] = "missing tables: " + strings.Join(missing, ", ")
				healthy = false
			} else {
				checks["schema"] = "ok"
			}
		}
	}

	status, statusCode := "healthy", http.StatusOK
	if !healthy {
		status, statusCode = "unhealthy", http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}
