package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-service/internal/broker"
	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
	"storefront-service/internal/service"
	"storefront-service/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := catalog.Load()
	require.NoError(t, err)

	publisher := broker.NoopPublisher{}
	handler := NewHandler(
		service.NewCatalogService(store),
		service.NewCartService(session.NewMemoryStore(), store, publisher),
		service.NewNewsletterService(service.NewMemorySubscribers(), publisher, 0),
	)

	router := gin.New()
	handler.SetupRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "cart_session", Value: "test-session"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthAndReady(t *testing.T) {
	router := newTestRouter(t)

	assert.Equal(t, http.StatusOK, doJSON(t, router, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, doJSON(t, router, http.MethodGet, "/ready", "").Code)
}

func TestListProducts(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/products", "")
	require.Equal(t, http.StatusOK, w.Code)

	var products []models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	assert.Len(t, products, 12)
}

func TestListProductsWithFilters(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/products?category=Sleep&maxPrice=60", "")
	require.Equal(t, http.StatusOK, w.Code)

	var products []models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "blackout-sleep-mask", products[0].ID)
}

func TestListProductsUnmatchedFilterReturnsEmptyArray(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/products?tag=Nonexistent", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestGetProduct(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/products/pemf-mat", "")
	require.Equal(t, http.StatusOK, w.Code)

	var product models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.Equal(t, int64(899), product.Price)

	w = doJSON(t, router, http.MethodGet, "/api/v1/products/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListBundlesFeatured(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/bundles?featured=true", "")
	require.Equal(t, http.StatusOK, w.Code)

	var bundles []models.Bundle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bundles))
	require.Len(t, bundles, 3)
	for _, b := range bundles {
		assert.True(t, b.Featured)
	}
}

func TestGetBundleWithResolvedProducts(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/bundles/ultimate-sleep-bundle", "")
	require.Equal(t, http.StatusOK, w.Code)

	var detail service.BundleDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, int64(77), detail.Savings)
	assert.Len(t, detail.Products, 4)
}

func TestCartFlow(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, w.Code)

	var v service.CartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Empty(t, v.Lines)

	w = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", `{"id":"blue-light-glasses-night","kind":"product"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", `{"id":"blue-light-glasses-night","kind":"product"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	require.Len(t, v.Lines, 1)
	assert.Equal(t, 2, v.Lines[0].Quantity)
	assert.Equal(t, int64(178), v.Total)

	w = doJSON(t, router, http.MethodPatch, "/api/v1/cart/items/blue-light-glasses-night", `{"quantity":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Empty(t, v.Lines)
}

func TestAddUnknownCartItem(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", `{"id":"ghost","kind":"product"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutStub(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", `{"id":"ultimate-sleep-bundle","kind":"bundle"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/checkout", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "checkout_started")
}

func TestSessionCookieIssuedWhenMissing(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == "cart_session" && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestNewsletterSubscribe(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/newsletter", `{"email":"jo@example.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/newsletter", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
