package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"goflare.io/atelier"
	"goflare.io/atelier/catalog"
	"goflare.io/atelier/checkout"
	"goflare.io/atelier/metrics"
	"goflare.io/atelier/models"
	"goflare.io/atelier/order"
)

const testAdminToken = "s3cret"

// stubService records what the handlers pass in. Unused methods fall through
// to the nil embedded interface.
type stubService struct {
	atelier.Service

	sessions    []string
	cart        models.Cart
	addErr      error
	checkoutErr error
	placed      *models.Order
	filter      order.ListFilter
	signedOut   string
	panicOnList bool
}

func (s *stubService) ListProducts(context.Context) ([]*models.Product, error) {
	if s.panicOnList {
		panic("boom")
	}
	return nil, nil
}

func (s *stubService) GetCart(_ context.Context, sessionID string) models.Cart {
	s.sessions = append(s.sessions, sessionID)
	return s.cart
}

func (s *stubService) AddToCart(_ context.Context, sessionID, _ string) (models.Cart, error) {
	s.sessions = append(s.sessions, sessionID)
	return s.cart, s.addErr
}

func (s *stubService) UpdateCartQuantity(_ context.Context, sessionID, _ string, _ int) models.Cart {
	s.sessions = append(s.sessions, sessionID)
	return s.cart
}

func (s *stubService) Checkout(_ context.Context, sessionID string, _ checkout.Customer) (*models.Order, error) {
	s.sessions = append(s.sessions, sessionID)
	return s.placed, s.checkoutErr
}

func (s *stubService) SignOut(_ context.Context, sessionID string) {
	s.signedOut = sessionID
}

func (s *stubService) ListAllProducts(context.Context) ([]*models.Product, error) {
	return []*models.Product{{ID: "p1", Title: "Vaso"}}, nil
}

func (s *stubService) Dashboard(_ context.Context, filter order.ListFilter) (*order.Dashboard, error) {
	s.filter = filter
	return &order.Dashboard{}, nil
}

func newTestRouter(t *testing.T, svc atelier.Service) (http.Handler, *metrics.ServerMetrics) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.NewServerMetricsWith(reg, reg)
	return NewRouter(svc, Options{
		AdminToken:     testAdminToken,
		RequestTimeout: 5 * time.Second,
		Metrics:        m,
		Logger:         zap.NewNop(),
	}), m
}

func do(t *testing.T, h http.Handler, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range header {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sampleCart() models.Cart {
	return models.Cart{Lines: []models.CartLine{
		{Product: models.Product{ID: "vase", Title: "Vaso", Price: decimal.NewFromInt(45)}, Quantity: 2},
		{Product: models.Product{ID: "bowl", Title: "Taça", Price: decimal.NewFromInt(38)}, Quantity: 1},
	}}
}

func TestCart_MintsSession(t *testing.T) {
	svc := &stubService{}
	h, _ := newTestRouter(t, svc)

	rec := do(t, h, http.MethodGet, "/api/v1/cart", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, svc.sessions, 1)
	_, err := uuid.Parse(svc.sessions[0])
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, svc.sessions[0], cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	var got CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
	assert.Zero(t, got.TotalItems)
}

func TestCart_ReusesSession(t *testing.T) {
	svc := &stubService{}
	h, _ := newTestRouter(t, svc)
	id := uuid.NewString()

	do(t, h, http.MethodGet, "/api/v1/cart", nil, http.Header{SessionHeader: {id}})
	do(t, h, http.MethodGet, "/api/v1/cart", nil, http.Header{"Cookie": {SessionCookie + "=" + id}})
	do(t, h, http.MethodGet, "/api/v1/cart", nil, http.Header{SessionHeader: {"not-a-uuid"}})

	require.Len(t, svc.sessions, 3)
	assert.Equal(t, id, svc.sessions[0])
	assert.Equal(t, id, svc.sessions[1])
	assert.NotEqual(t, "not-a-uuid", svc.sessions[2])
}

func TestCart_ResponseShape(t *testing.T) {
	svc := &stubService{cart: sampleCart()}
	h, _ := newTestRouter(t, svc)

	rec := do(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "vase"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.JSONEq(t, `3`, string(raw["total_items"]))
	assert.JSONEq(t, `"128"`, string(raw["total_price"]))

	var items []map[string]any
	require.NoError(t, json.Unmarshal(raw["items"], &items))
	require.Len(t, items, 2)
	assert.Equal(t, "vase", items[0]["product"].(map[string]any)["id"])
	assert.EqualValues(t, 2, items[0]["quantity"])
}

func TestCart_AddItemErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		err    error
		status int
	}{
		{"malformed body", "{", nil, http.StatusBadRequest},
		{"unknown field", `{"product":"vase"}`, nil, http.StatusBadRequest},
		{"missing id", AddItemRequest{}, nil, http.StatusBadRequest},
		{"unknown product", AddItemRequest{ProductID: "nope"}, catalog.ErrProductNotFound, http.StatusNotFound},
		{"backend down", AddItemRequest{ProductID: "vase"}, fmt.Errorf("failed to get product: %w", context.DeadlineExceeded), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestRouter(t, &stubService{addErr: tt.err})
			rec := do(t, h, http.MethodPost, "/api/v1/cart/items", tt.body, nil)
			assert.Equal(t, tt.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestCart_UpdateQuantityRequiresQuantity(t *testing.T) {
	h, _ := newTestRouter(t, &stubService{})

	rec := do(t, h, http.MethodPut, "/api/v1/cart/items/vase", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/v1/cart/items/vase", `{"quantity":0}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckout(t *testing.T) {
	customer := checkout.Customer{Name: "Ana", Email: "ana@example.com"}

	t.Run("placed", func(t *testing.T) {
		svc := &stubService{placed: &models.Order{ID: "order-1", CustomerName: "Ana"}}
		h, m := newTestRouter(t, svc)

		rec := do(t, h, http.MethodPost, "/api/v1/checkout", customer, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":"order-1"`)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.Checkouts.WithLabelValues("placed")))
	})

	t.Run("invalid", func(t *testing.T) {
		svc := &stubService{checkoutErr: &checkout.ValidationError{Err: checkout.ErrEmptyCart}}
		h, m := newTestRouter(t, svc)

		rec := do(t, h, http.MethodPost, "/api/v1/checkout", customer, nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "cart is empty")
		assert.Equal(t, 1.0, testutil.ToFloat64(m.Checkouts.WithLabelValues("invalid")))
	})

	t.Run("failed", func(t *testing.T) {
		svc := &stubService{checkoutErr: fmt.Errorf("%w: smtp down", checkout.ErrSubmissionFailed)}
		h, m := newTestRouter(t, svc)

		rec := do(t, h, http.MethodPost, "/api/v1/checkout", customer, nil)
		require.Equal(t, http.StatusBadGateway, rec.Code)
		assert.NotContains(t, rec.Body.String(), "smtp")
		assert.Equal(t, 1.0, testutil.ToFloat64(m.Checkouts.WithLabelValues("failed")))
	})
}

func TestSignOut(t *testing.T) {
	svc := &stubService{}
	h, _ := newTestRouter(t, svc)
	id := uuid.NewString()

	rec := do(t, h, http.MethodPost, "/api/v1/session/signout", nil, http.Header{SessionHeader: {id}})
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, id, svc.signedOut)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, -1, cookies[len(cookies)-1].MaxAge)
}

func TestAdmin_RequiresToken(t *testing.T) {
	h, _ := newTestRouter(t, &stubService{})

	tests := []struct {
		name   string
		header http.Header
		status int
	}{
		{"missing", nil, http.StatusUnauthorized},
		{"wrong scheme", http.Header{"Authorization": {"Basic " + testAdminToken}}, http.StatusUnauthorized},
		{"wrong token", http.Header{"Authorization": {"Bearer nope"}}, http.StatusUnauthorized},
		{"valid", http.Header{"Authorization": {"Bearer " + testAdminToken}}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/api/v1/admin/products", nil, tt.header)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAdmin_EmptyTokenLocksAdmin(t *testing.T) {
	h := NewRouter(&stubService{}, Options{Logger: zap.NewNop()})

	rec := do(t, h, http.MethodGet, "/api/v1/admin/products", nil, http.Header{"Authorization": {"Bearer "}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdmin_DashboardFilter(t *testing.T) {
	auth := http.Header{"Authorization": {"Bearer " + testAdminToken}}

	t.Run("parses range", func(t *testing.T) {
		svc := &stubService{}
		h, _ := newTestRouter(t, svc)

		rec := do(t, h, http.MethodGet, "/api/v1/admin/orders?from=2025-01-01&to=2025-01-31&limit=20", nil, auth)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), svc.filter.From)
		assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), svc.filter.To)
		assert.Equal(t, 20, svc.filter.Limit)
		assert.JSONEq(t, `[]`, string(mustField(t, rec.Body.Bytes(), "orders")))
		assert.JSONEq(t, `[]`, string(mustField(t, rec.Body.Bytes(), "products")))
	})

	for _, query := range []string{"from=01/02/2025", "to=yesterday", "limit=-1", "from=2025-02-01&to=2025-01-01"} {
		t.Run(query, func(t *testing.T) {
			h, _ := newTestRouter(t, &stubService{})
			rec := do(t, h, http.MethodGet, "/api/v1/admin/orders?"+query, nil, auth)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestOps(t *testing.T) {
	svc := &stubService{panicOnList: true}
	h, m := newTestRouter(t, svc)

	rec := do(t, h, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/products", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("/healthz", http.MethodGet, "200")))

	rec = do(t, h, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "atelier_http_requests_total")
}

func mustField(t *testing.T, body []byte, field string) json.RawMessage {
	t.Helper()
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	return raw[field]
}
