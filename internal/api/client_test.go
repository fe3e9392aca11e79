package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/shopfront/internal/errs"
	"github.com/and161185/shopfront/internal/model"
)

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": status < 400, "data": data})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg})
}

func newTestClient(t *testing.T, h http.Handler, cfg Config) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg.BaseURL = srv.URL + "/api"
	if cfg.Logger == nil {
		cfg.Logger = zaptest.NewLogger(t)
	}
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	require.Error(t, err)
	_, err = New(Config{BaseURL: "ftp://x"})
	require.Error(t, err)
	c, err := New(Config{BaseURL: "http://localhost:8080/api/"})
	require.NoError(t, err)
	require.NotNil(t, c.Admin.Orders)
}

func TestClient_DecodesEnvelopeAndSendsJSON(t *testing.T) {
	t.Parallel()

	var gotCT, gotPath, gotQty string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		gotQty = r.URL.Query().Get("quantity")
		writeData(w, http.StatusOK, model.Cart{
			Items:      []model.CartItem{{ProductID: "p1", Price: 100, Quantity: 3}},
			TotalPrice: 300,
		})
	})
	c := newTestClient(t, h, Config{})

	cart, err := c.Cart.UpdateItem(context.Background(), "p1", 3)
	require.NoError(t, err)
	require.Equal(t, "application/json", gotCT)
	require.Equal(t, "/api/cart/update/p1", gotPath)
	require.Equal(t, "3", gotQty)
	require.Equal(t, 300.0, cart.TotalPrice)
	require.Len(t, cart.Items, 1)
}

func TestClient_EscapesPathSegments(t *testing.T) {
	t.Parallel()

	var raw string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw = r.URL.EscapedPath()
		writeData(w, http.StatusOK, model.Product{ID: "a/b"})
	})
	c := newTestClient(t, h, Config{})

	_, err := c.Products.Get(context.Background(), "a/b")
	require.NoError(t, err)
	require.Equal(t, "/api/products/a%2Fb", raw)
}

func TestClient_PaginatedList(t *testing.T) {
	t.Parallel()

	var gotQ, gotPage string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQ, gotPage = r.URL.Query().Get("q"), r.URL.Query().Get("page")
		writeData(w, http.StatusOK, map[string]any{
			"content":    []model.Product{{ID: "p1", Name: "Runner"}},
			"totalPages": 4,
			"number":     2,
		})
	})
	c := newTestClient(t, h, Config{})

	page, err := c.Products.Search(context.Background(), "shoes", model.PageQuery{Page: 2})
	require.NoError(t, err)
	require.Equal(t, "shoes", gotQ)
	require.Equal(t, "2", gotPage)
	require.Equal(t, 4, page.TotalPages)
	require.Equal(t, "Runner", page.Content[0].Name)
}

func TestClient_ServerErrorCarriesMessage(t *testing.T) {
	t.Parallel()

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusBadRequest, "Insufficient stock")
	})
	var fired atomic.Int32
	c := newTestClient(t, h, Config{OnUnauthorized: func(*http.Request) { fired.Add(1) }})

	_, err := c.Cart.AddItem(context.Background(), "p1", 99)
	var ae *errs.APIError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, http.StatusBadRequest, ae.Status)
	require.Equal(t, "Insufficient stock", ae.Message)
	require.Equal(t, errs.KindServer, errs.Classify(err))
	require.Zero(t, fired.Load())
}

func TestClient_401RunsPolicyOnceRegardlessOfEndpoint(t *testing.T) {
	t.Parallel()

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusUnauthorized, "Token expired")
	})
	var fired atomic.Int32
	c := newTestClient(t, h, Config{
		Tokens:         func() string { return "expired" },
		OnUnauthorized: func(*http.Request) { fired.Add(1) },
	})
	ctx := context.Background()

	_, err := c.Cart.Get(ctx)
	require.ErrorIs(t, err, errs.ErrUnauthorized)
	require.EqualValues(t, 1, fired.Load())

	_, err = c.Orders.List(ctx, model.PageQuery{})
	require.ErrorIs(t, err, errs.ErrUnauthorized)
	err = c.Wishlist.Add(ctx, "p1")
	require.ErrorIs(t, err, errs.ErrUnauthorized)
	require.EqualValues(t, 3, fired.Load())
}

func TestClient_BearerFollowsTokenSource(t *testing.T) {
	t.Parallel()

	var auth atomic.Value
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		writeData(w, http.StatusOK, model.UserProfile{ID: "u1"})
	})
	var token atomic.Value
	token.Store("t1")
	c := newTestClient(t, h, Config{Tokens: func() string { return token.Load().(string) }})

	_, err := c.Users.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer t1", auth.Load())

	token.Store("")
	_, err = c.Users.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "", auth.Load())
}

func TestClient_TimeoutIsDistinguishable(t *testing.T) {
	t.Parallel()

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	c := newTestClient(t, h, Config{Timeout: 50 * time.Millisecond})

	_, err := c.Cart.Get(context.Background())
	require.ErrorIs(t, err, errs.ErrTimeout)
	var ae *errs.APIError
	require.False(t, errors.As(err, &ae))
	require.Equal(t, errs.KindTimeout, errs.Classify(err))
}

func TestClient_TimeoutWhileReadingBody(t *testing.T) {
	t.Parallel()

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":`))
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	c := newTestClient(t, h, Config{Timeout: 100 * time.Millisecond})

	_, err := c.Cart.Get(context.Background())
	require.ErrorIs(t, err, errs.ErrTimeout)
	require.Equal(t, errs.KindTimeout, errs.Classify(err))
}

func TestClient_MalformedBodyIsNotTransportError(t *testing.T) {
	t.Parallel()

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[}`))
	})
	c := newTestClient(t, h, Config{})

	_, err := c.Cart.Get(context.Background())
	require.Error(t, err)
	require.False(t, errors.Is(err, errs.ErrTimeout))
	require.False(t, errors.Is(err, errs.ErrNetwork))
}

func TestClient_NetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := New(Config{BaseURL: base, Timeout: time.Second})
	require.NoError(t, err)
	_, err = c.Categories.List(context.Background())
	require.ErrorIs(t, err, errs.ErrNetwork)
}

func TestClient_CanceledContext(t *testing.T) {
	t.Parallel()

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, nil)
	})
	c := newTestClient(t, h, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Cart.Get(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, errors.Is(err, errs.ErrTimeout))
}

func TestClient_NoDataAndRaw(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/cart/clear", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, nil)
	})
	mux.HandleFunc("GET /api/orders/o1/invoice", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	})
	c := newTestClient(t, mux, Config{})

	require.NoError(t, c.Cart.Clear(context.Background()))
	b, err := c.Orders.Invoice(context.Background(), "o1")
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4", string(b))
}

func TestAdmin_UpdateOrderStatusQuery(t *testing.T) {
	t.Parallel()

	var got *http.Request
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		writeData(w, http.StatusOK, model.Order{ID: "o1", Status: model.OrderShipped})
	})
	c := newTestClient(t, h, Config{})

	o, err := c.Admin.Orders.UpdateStatus(context.Background(), "o1", model.OrderShipped)
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, got.Method)
	require.Equal(t, "/api/admin/orders/o1/status", got.URL.Path)
	require.Equal(t, "SHIPPED", got.URL.Query().Get("status"))
	require.Equal(t, model.OrderShipped, o.Status)
}
