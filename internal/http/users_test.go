package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/database/repository"
	"github.com/mrlokans/lending/internal/entities"
)

func seedUsersAndBook(t *testing.T, db *database.Database) {
	t.Helper()
	session := db.OpenSession()
	defer session.Close()

	userRepo := repository.New[entities.User](session)
	for _, u := range []*entities.User{
		{DNI: "1A", FirstName: "Ana", LastName: "Lopez", Email: "ana@example.com"},
		{DNI: "2B", FirstName: "Bea", LastName: "Marin", Email: "bea@example.com"},
	} {
		ok, err := userRepo.Create(u)
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, err := repository.New[entities.Book](session).Create(&entities.Book{ISBN: "111", Title: "Dune"})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestUsersController_GetUser(t *testing.T) {
	router, db, cleanup := setupRouterTestDB(t)
	defer cleanup()
	seedUsersAndBook(t, db)
	seedLoan(t, db, &entities.Loan{StartDate: entities.Date(2024, 1, 5), DueDate: entities.Date(2024, 1, 19), UserID: 1, CopyID: 1})

	w := doRequest(router, "GET", "/api/users/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var user entities.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "1A", user.DNI)
	assert.Len(t, user.Loans, 1)

	w = doRequest(router, "GET", "/api/users/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUsersController_Favorites(t *testing.T) {
	router, db, cleanup := setupRouterTestDB(t)
	defer cleanup()
	seedUsersAndBook(t, db)

	w := doRequest(router, "POST", "/api/users/1/favorites/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "POST", "/api/users/1/favorites/42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, "GET", "/api/users/1/favorites", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Books []entities.Book `json:"books"`
		Total int             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, "Dune", list.Books[0].Title)

	w = doRequest(router, "GET", "/api/favorites/counts", "")
	require.Equal(t, http.StatusOK, w.Code)
	var counts []FavoriteCountResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &counts))
	require.Len(t, counts, 2)
	byDNI := map[string]int64{}
	for _, c := range counts {
		byDNI[c.DNI] = c.Favorites
	}
	assert.Equal(t, int64(1), byDNI["1A"])
	assert.Equal(t, int64(0), byDNI["2B"])

	w = doRequest(router, "DELETE", "/api/users/1/favorites/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(router, "DELETE", "/api/users/1/favorites/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUsersController_ListFavoritesUnknownUser(t *testing.T) {
	router, db, cleanup := setupRouterTestDB(t)
	defer cleanup()
	seedUsersAndBook(t, db)

	w := doRequest(router, "GET", "/api/users/2/favorites", "")
	require.Equal(t, http.StatusOK, w.Code, "known user without favourites")

	w = doRequest(router, "GET", "/api/users/99/favorites", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, "POST", "/api/users/99/favorites/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUsersController_InvalidIDs(t *testing.T) {
	router, _, cleanup := setupRouterTestDB(t)
	defer cleanup()

	w := doRequest(router, "GET", "/api/users/x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, "POST", "/api/users/1/favorites/x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
