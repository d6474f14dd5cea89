package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/amrtikande/shoop/internal/domain"
)

func TestListProducts_Public(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "Mangoes", 10, 5)
	env.seedProduct(t, "Tea", 2.5, 10)

	rec := env.do(t, http.MethodGet, "/api/products", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var products []domain.Product
	decodeBody(t, rec, &products)
	require.Len(t, products, 2)
	assert.Equal(t, "Tea", products[0].Name) // newest first
}

func TestGetProduct_Public(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Mangoes", 10, 5)

	rec := env.do(t, http.MethodGet, "/api/products/"+p.ID.Hex(), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.Product
	decodeBody(t, rec, &got)
	assert.Equal(t, "Mangoes", got.Name)
	assert.Equal(t, 5, got.Stock)
}

func TestGetProduct_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/products/"+primitive.NewObjectID().Hex(), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/products/not-a-hex-id", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProduct_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]interface{}{"name": "Mangoes", "price": 10, "stock": 5}

	rec := env.do(t, http.MethodPost, "/api/products", payload, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body ErrorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "missing_token", body.Code)
}

func TestCreateProduct(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]interface{}{
		"name":        "Mangoes",
		"description": "Sweet Kent mangoes",
		"price":       10,
		"stock":       5,
	}

	rec := env.do(t, http.MethodPost, "/api/products", payload, env.adminToken(t))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Product
	decodeBody(t, rec, &created)
	assert.False(t, created.ID.IsZero())
	assert.Equal(t, "Mangoes", created.Name)
	assert.Equal(t, domain.DefaultEmoji, created.Emoji)
	assert.True(t, created.Available)
}

func TestCreateProduct_Validation(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	rec := env.do(t, http.MethodPost, "/api/products",
		map[string]interface{}{"price": 10, "stock": 5}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/products",
		map[string]interface{}{"name": "Mangoes", "price": -1, "stock": 5}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/products",
		map[string]interface{}{"name": "Mangoes", "price": 10, "stock": -5}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProduct_PartialFields(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Mangoes", 10, 5)

	rec := env.do(t, http.MethodPut, "/api/products/"+p.ID.Hex(),
		map[string]interface{}{"price": 12.5}, env.adminToken(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated domain.Product
	decodeBody(t, rec, &updated)
	assert.Equal(t, 12.5, updated.Price)
	assert.Equal(t, "Mangoes", updated.Name)
	assert.Equal(t, 5, updated.Stock)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/products/"+primitive.NewObjectID().Hex(),
		map[string]interface{}{"price": 12.5}, env.adminToken(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Mangoes", 10, 5)
	token := env.adminToken(t)

	rec := env.do(t, http.MethodDelete, "/api/products/"+p.ID.Hex(), nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/products/"+p.ID.Hex(), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/products/"+p.ID.Hex(), nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
