package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_backend/internal/events"
	"github.com/Skotchmaster/shop_backend/internal/hash"
	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
	"github.com/Skotchmaster/shop_backend/internal/search"
	"github.com/Skotchmaster/shop_backend/internal/service"
	"github.com/Skotchmaster/shop_backend/internal/tokens"
)

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	Repo   *repo.GormRepo
	Secret []byte
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// every new connection to :memory: gets its own empty database, so the
	// pool must stay on a single shared connection
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	secret := []byte("test_secret")
	gormRepo := &repo.GormRepo{DB: db}
	producer := &events.Producer{}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler: &AuthHTTP{
			Svc:      &service.AuthService{Repo: gormRepo, JWTSecret: secret},
			Producer: producer,
		},
		CatalogHandler: &CatalogHTTP{
			Svc:      &service.CatalogService{Repo: gormRepo, Index: search.ProductIndex},
			Producer: producer,
		},
		CartHandler: &CartHTTP{
			Svc:      &service.CartService{Repo: gormRepo, MergeLines: true},
			Producer: producer,
		},
		OrderHandler: &OrderHTTP{
			Svc:      &service.OrderService{Repo: gormRepo},
			Producer: producer,
		},
		JWTSecret: secret,
	})

	return &testEnv{T: t, E: e, DB: db, Repo: gormRepo, Secret: secret}
}

func (env *testEnv) doJSON(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

// createUser inserts the user directly and returns a valid access token.
func (env *testEnv) createUser(email, role string) (uint, string) {
	pwHash, err := hash.HashPassword("password")
	require.NoError(env.T, err)

	user := models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
	}
	require.NoError(env.T, env.DB.Create(&user).Error)

	token, err := tokens.SignAccessToken(user.ID, user.Email, user.Role, env.Secret)
	require.NoError(env.T, err)

	return user.ID, token
}

func signExpiredToken(t *testing.T, userID uint, secret []byte) string {
	t.Helper()

	claims := tokens.AccessClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func (env *testEnv) createProduct(name string, price float64, stock int) models.Product {
	prod := models.Product{
		Name:     name,
		Price:    price,
		Category: "test",
		Stock:    stock,
	}
	require.NoError(env.T, env.DB.Create(&prod).Error)
	return prod
}
