package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lending/internal/database"
)

const contextKeySession = "db_session"

// SessionMiddleware gives every request its own unit of work. The session is
// closed once the handler chain returns, so references left unloaded by a
// handler can no longer be resolved.
func SessionMiddleware(db *database.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := db.OpenSession()
		defer session.Close()

		c.Set(contextKeySession, session)
		c.Next()
	}
}

// requestSession returns the session opened by SessionMiddleware.
func requestSession(c *gin.Context) *database.Session {
	return c.MustGet(contextKeySession).(*database.Session)
}
