package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_backend/internal/models"
)

func TestGetProducts(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.createProduct("Keyboard", 49.90, 10)
	p2 := env.createProduct("Mouse", 19.90, 25)

	rec := env.doJSON(http.MethodGet, "/api/products", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	require.Equal(t, p1.Name, resp[0].Name)
	require.Equal(t, p1.Price, resp[0].Price)
	require.Equal(t, p1.Stock, resp[0].Stock)
	require.Equal(t, p2.Name, resp[1].Name)
	require.Equal(t, p2.Price, resp[1].Price)
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)
	prod := env.createProduct("Keyboard", 49.90, 10)

	rec := env.doJSON(http.MethodGet, fmt.Sprintf("/api/products/%d", prod.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, prod.ID, resp.ID)
	require.Equal(t, "Keyboard", resp.Name)
}

func TestGetProductNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodGet, "/api/products/999", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchFallsBackToSQL(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct("Mechanical Keyboard", 89.90, 5)
	env.createProduct("Mouse", 19.90, 25)

	rec := env.doJSON(http.MethodGet, "/api/products/search?q=keyboard", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Total    int64            `json:"total"`
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Products, 1)
	require.Equal(t, "Mechanical Keyboard", resp.Products[0].Name)
}

func TestSearchRequiresQuery(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodGet, "/api/products/search", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminCreateProduct(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser("admin@example.com", "admin")

	payload := map[string]any{
		"name":     "Monitor",
		"price":    199.0,
		"category": "displays",
		"stock":    7,
	}
	rec := env.doJSON(http.MethodPost, "/api/admin/products", payload, adminToken)
	require.Equal(t, http.StatusCreated, rec.Code)

	var prod models.Product
	require.NoError(t, env.DB.Where("name = ?", "Monitor").First(&prod).Error)
	require.Equal(t, 199.0, prod.Price)
	require.Equal(t, 7, prod.Stock)
}

func TestAdminRoutesRejectNonAdmin(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.createUser("user@example.com", "user")

	rec := env.doJSON(http.MethodPost, "/api/admin/products", map[string]any{"name": "X", "price": 1.0}, userToken)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminPatchProduct(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser("admin@example.com", "admin")
	prod := env.createProduct("Keyboard", 49.90, 10)

	rec := env.doJSON(http.MethodPatch, fmt.Sprintf("/api/admin/products/%d", prod.ID), map[string]any{"price": 39.90}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Product
	require.NoError(t, env.DB.First(&updated, prod.ID).Error)
	require.Equal(t, 39.90, updated.Price)
	require.Equal(t, "Keyboard", updated.Name)
	require.Equal(t, 10, updated.Stock)
}

func TestAdminDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser("admin@example.com", "admin")
	prod := env.createProduct("Keyboard", 49.90, 10)

	rec := env.doJSON(http.MethodDelete, fmt.Sprintf("/api/admin/products/%d", prod.ID), nil, adminToken)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.doJSON(http.MethodDelete, fmt.Sprintf("/api/admin/products/%d", prod.ID), nil, adminToken)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
