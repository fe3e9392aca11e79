package api

import (
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// Doer executes a single HTTP request. *http.Client implements it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to Doer.
type DoerFunc func(req *http.Request) (*http.Response, error)

// Do calls f(req).
func (f DoerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// Middleware decorates a Doer with a cross-cutting policy.
type Middleware func(next Doer) Doer

// Chain wraps d so that mws[0] is the outermost stage.
func Chain(d Doer, mws ...Middleware) Doer {
	for i := len(mws) - 1; i >= 0; i-- {
		d = mws[i](d)
	}
	return d
}

// TokenSource returns the bearer token currently held, or "" when anonymous.
type TokenSource func() string

// UnauthorizedHandler is invoked once for every response carrying HTTP 401.
type UnauthorizedHandler func(req *http.Request)

// HeaderRequestID carries a per-request correlation id.
const HeaderRequestID = "X-Request-ID"

// Bearer attaches "Authorization: Bearer <token>" when src yields a token
// and strips the header otherwise.
func Bearer(src TokenSource) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			req = req.Clone(req.Context())
			tok := ""
			if src != nil {
				tok = src()
			}
			if tok != "" {
				req.Header.Set("Authorization", "Bearer "+tok)
			} else {
				req.Header.Del("Authorization")
			}
			return next.Do(req)
		})
	}
}

// Unauthorized runs h synchronously on a 401 response before the response
// reaches the caller. The response itself is passed through unchanged.
func Unauthorized(h UnauthorizedHandler) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.Do(req)
			if err == nil && resp.StatusCode == http.StatusUnauthorized && h != nil {
				h(req)
			}
			return resp, err
		})
	}
}

// RequestID sets X-Request-ID to a fresh UUIDv4 unless the caller set one.
func RequestID() Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(HeaderRequestID) == "" {
				if id, err := uuid.NewV4(); err == nil {
					req = req.Clone(req.Context())
					req.Header.Set(HeaderRequestID, id.String())
				}
			}
			return next.Do(req)
		})
	}
}

// Logging records one line per request. Only metadata, never bodies or credentials.
func Logging(log *zap.Logger) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.Do(req)
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("request_id", req.Header.Get(HeaderRequestID)),
				zap.Duration("dur", time.Since(start)),
			}
			if err != nil {
				log.Warn("http", append(fields, zap.Error(err))...)
				return resp, err
			}
			fields = append(fields, zap.Int("status", resp.StatusCode))
			if resp.StatusCode >= http.StatusInternalServerError {
				log.Warn("http", fields...)
			} else {
				log.Debug("http", fields...)
			}
			return resp, err
		})
	}
}
