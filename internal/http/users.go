package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lending/internal/database/repository"
	"github.com/mrlokans/lending/internal/database/users"
	"github.com/mrlokans/lending/internal/entities"
)

type UsersController struct{}

func NewUsersController() *UsersController {
	return &UsersController{}
}

// FavoriteCountResponse is one row of the favourites report.
type FavoriteCountResponse struct {
	UserID    uint   `json:"user_id"`
	DNI       string `json:"dni"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Favorites int64  `json:"favorites"`
}

// GetUser returns a user with its loans and ratings.
// GET /api/users/:id
func (uc *UsersController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, found, err := users.NewRepository(requestSession(c)).FindByID(id)
	if err != nil {
		respondInternalError(c, err, "get user")
		return
	}
	if !found {
		respondNotFound(c, "user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListFavorites returns the books a user marked as favourite.
// GET /api/users/:id/favorites
func (uc *UsersController) ListFavorites(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	session := requestSession(c)
	_, found, err := repository.New[entities.User](session).FindByID(id)
	if err != nil {
		respondInternalError(c, err, "list favorites")
		return
	}
	if !found {
		respondNotFound(c, "user")
		return
	}

	books, err := users.NewRepository(session).FavoriteBooks(id)
	if err != nil {
		respondInternalError(c, err, "list favorites")
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": books, "total": len(books)})
}

// AddFavorite links a book to a user's favourites.
// POST /api/users/:id/favorites/:bookId
func (uc *UsersController) AddFavorite(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	added, err := users.NewRepository(requestSession(c)).AddFavorite(&entities.User{ID: userID}, &entities.Book{ID: bookID})
	if err != nil {
		respondInternalError(c, err, "add favorite")
		return
	}
	if !added {
		respondNotFound(c, "user or book")
		return
	}

	respondSuccess(c, "favorite added")
}

// RemoveFavorite unlinks a book from a user's favourites.
// DELETE /api/users/:id/favorites/:bookId
func (uc *UsersController) RemoveFavorite(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	removed, err := users.NewRepository(requestSession(c)).RemoveFavorite(&entities.User{ID: userID}, &entities.Book{ID: bookID})
	if err != nil {
		respondInternalError(c, err, "remove favorite")
		return
	}
	if !removed {
		respondNotFound(c, "favorite")
		return
	}

	respondSuccess(c, "favorite removed")
}

// FavoriteCounts reports how many favourite books every user has.
// GET /api/favorites/counts
func (uc *UsersController) FavoriteCounts(c *gin.Context) {
	counts, err := users.NewRepository(requestSession(c)).FavoriteCounts()
	if err != nil {
		respondInternalError(c, err, "favorite counts")
		return
	}

	response := make([]FavoriteCountResponse, 0, len(counts))
	for _, fc := range counts {
		response = append(response, FavoriteCountResponse{
			UserID:    fc.User.ID,
			DNI:       fc.User.DNI,
			FirstName: fc.User.FirstName,
			LastName:  fc.User.LastName,
			Favorites: fc.Count,
		})
	}

	c.JSON(http.StatusOK, response)
}
