package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/tokens"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "password",
	}

	rec := env.doJSON(http.MethodPost, "/api/register", payload, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, env.DB.Where("email = ?", "alice@example.com").First(&user).Error)
	require.Equal(t, "Alice", user.Name)
	require.Equal(t, "user", user.Role)
	require.NotEqual(t, "password", user.PasswordHash)

	rec = env.doJSON(http.MethodPost, "/api/register", payload, "")
	require.Equal(t, http.StatusConflict, rec.Code)

	var count int64
	env.DB.Model(&models.User{}).Count(&count)
	require.Equal(t, int64(1), count)
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/api/register", map[string]string{"email": "x@y.z"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := env.createUser("bob@example.com", "user")

	rec := env.doJSON(http.MethodPost, "/api/login", map[string]string{
		"email":    "bob@example.com",
		"password": "password",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	claims, err := tokens.AccessClaimsFromToken(resp.Token, env.Secret)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
	require.Equal(t, "bob@example.com", claims.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("bob@example.com", "user")

	rec := env.doJSON(http.MethodPost, "/api/login", map[string]string{
		"email":    "bob@example.com",
		"password": "nope",
	}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/api/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "password",
	}, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodGet, "/api/cart", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRouteTamperedToken(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser("bob@example.com", "user")

	rec := env.doJSON(http.MethodGet, "/api/cart", nil, token+"x")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProtectedRouteExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := env.createUser("bob@example.com", "user")

	expired := signExpiredToken(t, userID, env.Secret)
	rec := env.doJSON(http.MethodGet, "/api/cart", nil, expired)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
