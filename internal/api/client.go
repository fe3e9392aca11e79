// Package api is the REST client for the storefront backend.
//
// Every call goes through one middleware chain (request id, logging, 401
// policy, bearer attachment), so cross-cutting rules apply uniformly no
// matter which resource method issued the request.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/shopfront/internal/errs"
	"github.com/and161185/shopfront/internal/model"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// Tokens supplies the bearer token for each request.
	Tokens TokenSource
	// OnUnauthorized is called once per 401 response.
	OnUnauthorized UnauthorizedHandler

	Logger *zap.Logger
	// Transport overrides the underlying round tripper (tests).
	Transport http.RoundTripper
}

// Envelope is the {data: ...} wrapper used by every backend response.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// Client talks to the backend. Resource groups hang off it.
type Client struct {
	base *url.URL
	doer Doer
	log  *zap.Logger

	Auth       *AuthAPI
	Products   *ProductsAPI
	Categories *CategoriesAPI
	Cart       *CartAPI
	Orders     *OrdersAPI
	Reviews    *ReviewsAPI
	Users      *UsersAPI
	Wishlist   *WishlistAPI
	Coupons    *CouponsAPI
	Admin      *AdminAPI
}

// New builds a client from cfg.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("api: empty base url")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api: unsupported scheme %q", base.Scheme)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	hc := &http.Client{Timeout: cfg.Timeout, Transport: cfg.Transport}
	c := &Client{
		base: base,
		log:  log,
		doer: Chain(hc,
			RequestID(),
			Logging(log),
			Unauthorized(cfg.OnUnauthorized),
			Bearer(cfg.Tokens),
		),
	}
	c.Auth = &AuthAPI{c: c}
	c.Products = &ProductsAPI{c: c}
	c.Categories = &CategoriesAPI{c: c}
	c.Cart = &CartAPI{c: c}
	c.Orders = &OrdersAPI{c: c}
	c.Reviews = &ReviewsAPI{c: c}
	c.Users = &UsersAPI{c: c}
	c.Wishlist = &WishlistAPI{c: c}
	c.Coupons = &CouponsAPI{c: c}
	c.Admin = newAdminAPI(c)
	return c, nil
}

// Do sends a JSON request and decodes the envelope's data into out (may be nil).
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	resp, err := c.send(ctx, method, path, query, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if readFailed(ctx, err) {
			return transportErr(ctx, err)
		}
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("api: decode %s %s data: %w", method, path, err)
	}
	return nil
}

// DoRaw sends a request and returns the raw body (invoice/export downloads).
func (c *Client) DoRaw(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	resp, err := c.send(ctx, method, path, query, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportErr(ctx, err)
	}
	return b, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, in any) (*http.Response, error) {
	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, transportErr(ctx, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}
	return resp, nil
}

// transportErr separates timeouts from other no-response failures.
func transportErr(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) && ctx.Err() == context.Canceled {
		return err
	}
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%w: %v", errs.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", errs.ErrNetwork, err)
}

// readFailed reports whether a body read stopped on a deadline or
// cancellation rather than on malformed JSON.
func readFailed(ctx context.Context, err error) bool {
	var ne net.Error
	return errors.Is(err, context.DeadlineExceeded) ||
		(errors.Is(err, context.Canceled) && ctx.Err() != nil) ||
		(errors.As(err, &ne) && ne.Timeout())
}

func decodeAPIError(resp *http.Response) error {
	ae := &errs.APIError{Status: resp.StatusCode}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(b, &body) == nil {
		ae.Message = body.Message
		if ae.Message == "" {
			ae.Message = body.Error
		}
	}
	return ae
}

func pageValues(p model.PageQuery) url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Size > 0 {
		v.Set("size", strconv.Itoa(p.Size))
	}
	if p.Sort != "" {
		v.Set("sort", p.Sort)
	}
	return v
}

func seg(id string) string { return url.PathEscape(id) }
