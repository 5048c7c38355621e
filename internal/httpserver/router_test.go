package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/metrics"
	"storefront/internal/storefront"
)

func testCatalog() []domain.Product {
	return []domain.Product{
		{ID: 1, Title: "Shirt", Price: decimal.NewFromInt(20), Image: "https://img/1.png"},
		{ID: 2, Title: "Hat", Price: decimal.NewFromInt(15), Image: "https://img/2.png"},
	}
}

func newTestRouter(t *testing.T, provider catalog.Provider, load bool) (*gin.Engine, *storefront.Session) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	session := storefront.New(provider, cart.NewStore(m), zerolog.Nop(), m)
	if load {
		<-session.Load(context.Background())
	}
	router, err := buildRouter(zerolog.Nop(), Deps{Session: session, Gatherer: reg, CORSOrigins: []string{"*"}})
	require.NoError(t, err)
	return router, session
}

func staticCatalog() catalog.Provider {
	return catalog.ProviderFunc(func(context.Context) ([]domain.Product, error) {
		return testCatalog(), nil
	})
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestBuildRouterRequiresSession(t *testing.T) {
	_, err := buildRouter(zerolog.Nop(), Deps{})
	assert.Error(t, err)
}

func TestHealthAndReady(t *testing.T) {
	router, _ := newTestRouter(t, staticCatalog(), true)

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/healthz", "").Code)

	rec := do(router, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"products":2`)
}

func TestReadyReportsFetchFailure(t *testing.T) {
	failing := catalog.ProviderFunc(func(context.Context) ([]domain.Product, error) {
		return nil, errors.New("dns failure")
	})
	router, _ := newTestRouter(t, failing, true)

	rec := do(router, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "dns failure")

	list := decode[productListResponse](t, do(router, http.MethodGet, "/products", ""))
	assert.Zero(t, list.Count)
	assert.Empty(t, list.Results)
}

func TestListProducts(t *testing.T) {
	router, _ := newTestRouter(t, staticCatalog(), true)

	rec := do(router, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[productListResponse](t, rec)
	require.Equal(t, 2, list.Count)
	assert.Equal(t, "Shirt", list.Results[0].Title)
	assert.Equal(t, "20.00", list.Results[0].Price)

	list = decode[productListResponse](t, do(router, http.MethodGet, "/products?q=HAT", ""))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, int64(2), list.Results[0].ID)
	assert.Equal(t, "HAT", list.Query)
}

func TestSetSearchQuery(t *testing.T) {
	router, session := newTestRouter(t, staticCatalog(), true)

	rec := do(router, http.MethodPut, "/search", `{"query":"shi"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[productListResponse](t, rec)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "shi", session.SearchQuery())

	list = decode[productListResponse](t, do(router, http.MethodGet, "/products", ""))
	assert.Equal(t, 1, list.Count)

	rec = do(router, http.MethodPut, "/search", `{"query":""}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[productListResponse](t, rec).Count)

	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPut, "/search", `{}`).Code)
	assert.Contains(t, do(router, http.MethodGet, "/search", "").Body.String(), `"query":""`)
}

func TestGetProduct(t *testing.T) {
	router, _ := newTestRouter(t, staticCatalog(), true)

	rec := do(router, http.MethodGet, "/products/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hat", decode[productResponse](t, rec).Title)

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/products/9", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/products/abc", "").Code)
}

func TestCartFlow(t *testing.T) {
	router, _ := newTestRouter(t, staticCatalog(), true)

	for _, id := range []string{"2", "2", "1"} {
		rec := do(router, http.MethodPost, "/cart/items", `{"productId":`+id+`}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := do(router, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[cartResponse](t, rec)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, int64(2), got.Lines[0].ProductID)
	assert.Equal(t, 2, got.Lines[0].Quantity)
	assert.Equal(t, "30.00", got.Lines[0].Subtotal)
	assert.Equal(t, int64(1), got.Lines[1].ProductID)
	assert.Equal(t, "50.00", got.Total)
	assert.Equal(t, 3, got.TotalQuantity)

	rec = do(router, http.MethodDelete, "/cart/items/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[cartResponse](t, rec)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "20.00", got.Total)

	rec = do(router, http.MethodDelete, "/cart/items/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[cartResponse](t, rec).Lines, 1)
}

func TestAddCartItemErrors(t *testing.T) {
	router, _ := newTestRouter(t, staticCatalog(), true)

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodPost, "/cart/items", `{"productId":42}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/cart/items", `{"productId":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/cart/items", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodDelete, "/cart/items/x", "").Code)
}

func TestAddCartItemZeroID(t *testing.T) {
	provider := catalog.ProviderFunc(func(context.Context) ([]domain.Product, error) {
		return []domain.Product{{ID: 0, Title: "Gift card", Price: decimal.NewFromInt(5)}}, nil
	})
	router, _ := newTestRouter(t, provider, true)

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/products/0", "").Code)

	rec := do(router, http.MethodPost, "/cart/items", `{"productId":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[cartResponse](t, rec)
	require.Len(t, body.Lines, 1)
	assert.Equal(t, int64(0), body.Lines[0].ProductID)
	assert.Equal(t, 1, body.Lines[0].Quantity)
}

func TestCartETag(t *testing.T) {
	router, _ := newTestRouter(t, staticCatalog(), true)
	do(router, http.MethodPost, "/cart/items", `{"productId":1}`)

	rec := do(router, http.MethodGet, "/cart", "")
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	do(router, http.MethodPost, "/cart/items", `{"productId":1}`)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReloadCatalog(t *testing.T) {
	router, session := newTestRouter(t, staticCatalog(), false)
	assert.Equal(t, storefront.StateIdle, session.Status().State)

	rec := do(router, http.MethodPost, "/catalog/reload", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	<-session.Load(context.Background())
	assert.Equal(t, storefront.StateLoaded, session.Status().State)
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, staticCatalog(), true)
	do(router, http.MethodPost, "/cart/items", `{"productId":1}`)

	rec := do(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_cart_adds_total 1")
	assert.Contains(t, rec.Body.String(), `storefront_catalog_fetches_total{outcome="success"} 1`)
}
