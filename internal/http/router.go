package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api", SessionMiddleware(cfg.Database))

	loansController := NewLoansController()
	api.GET("/loans", loansController.Search)
	api.GET("/loans/:id", loansController.GetLoan)
	api.POST("/loans", loansController.CreateLoan)
	api.PUT("/loans/:id", loansController.UpdateLoan)
	api.DELETE("/loans/:id", loansController.DeleteLoan)

	usersController := NewUsersController()
	api.GET("/users/:id", usersController.GetUser)
	api.GET("/users/:id/favorites", usersController.ListFavorites)
	api.POST("/users/:id/favorites/:bookId", usersController.AddFavorite)
	api.DELETE("/users/:id/favorites/:bookId", usersController.RemoveFavorite)
	api.GET("/favorites/counts", usersController.FavoriteCounts)

	return router
}
