package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/thai-travel-share/internal/domain"
)

type stubAuthenticator struct {
	user *domain.UserView
	err  error
	seen string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*domain.UserView, error) {
	s.seen = token
	return s.user, s.err
}

func principalEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := GetPrincipal(r.Context())
		require.True(t, ok)
		w.Write([]byte(principal.Username))
	})
}

func TestAuthMiddleware(t *testing.T) {
	user := &domain.UserView{ID: uuid.New(), Username: "somchai"}

	tests := []struct {
		name       string
		header     string
		auth       *stubAuthenticator
		wantStatus int
		wantBody   string
	}{
		{"missing header", "", &stubAuthenticator{}, http.StatusUnauthorized, "missing authorization header"},
		{"wrong scheme", "Basic abc", &stubAuthenticator{}, http.StatusUnauthorized, "invalid authorization header format"},
		{"empty token", "Bearer ", &stubAuthenticator{}, http.StatusUnauthorized, "invalid authorization header format"},
		{"invalid token", "Bearer nope", &stubAuthenticator{err: domain.ErrUnauthenticated}, http.StatusUnauthorized, "Could not validate credentials"},
		{"inactive user", "Bearer tok", &stubAuthenticator{err: domain.ErrInactiveAccount}, http.StatusBadRequest, "Inactive user"},
		{"valid", "Bearer tok", &stubAuthenticator{user: user}, http.StatusOK, "somchai"},
		{"lowercase scheme", "bearer tok", &stubAuthenticator{user: user}, http.StatusOK, "somchai"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			NewAuthMiddleware(tt.auth).Authenticate(principalEcho(t)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

type stubLimiter struct {
	allowed   bool
	remaining int
	err       error
	key       string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, int, time.Time, error) {
	s.key = key
	return s.allowed, s.remaining, time.Now().Add(30 * time.Second), s.err
}

func (s *stubLimiter) Limit() int { return 60 }

func TestRateLimitMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	user := &domain.UserView{ID: uuid.New()}

	t.Run("allowed", func(t *testing.T) {
		limiter := &stubLimiter{allowed: true, remaining: 59}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithPrincipal(req.Context(), user))
		rec := httptest.NewRecorder()

		NewRateLimitMiddleware(limiter).Limit(ok).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "60", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "59", rec.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, "user:"+user.ID.String(), limiter.key)
	})

	t.Run("exceeded", func(t *testing.T) {
		limiter := &stubLimiter{allowed: false}
		rec := httptest.NewRecorder()

		NewRateLimitMiddleware(limiter).Limit(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
		assert.Contains(t, limiter.key, "ip:")
	})

	t.Run("anonymous callers are keyed by host", func(t *testing.T) {
		limiter := &stubLimiter{allowed: true}
		handler := NewRateLimitMiddleware(limiter).Limit(ok)

		keys := []string{}
		for _, addr := range []string{"203.0.113.7:40001", "203.0.113.7:40002"} {
			req := httptest.NewRequest(http.MethodPost, "/v1/users/login", nil)
			req.RemoteAddr = addr
			handler.ServeHTTP(httptest.NewRecorder(), req)
			keys = append(keys, limiter.key)
		}

		assert.Equal(t, []string{"ip:203.0.113.7", "ip:203.0.113.7"}, keys)
	})

	t.Run("address without port is used as is", func(t *testing.T) {
		limiter := &stubLimiter{allowed: true}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "198.51.100.4"

		NewRateLimitMiddleware(limiter).Limit(ok).ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "ip:198.51.100.4", limiter.key)
	})

	t.Run("limiter failure fails open", func(t *testing.T) {
		limiter := &stubLimiter{err: errors.New("redis down")}
		rec := httptest.NewRecorder()

		NewRateLimitMiddleware(limiter).Limit(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestHTTPMetricsRecordsRoutePattern(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics, err := NewHTTPMetrics(HTTPMetricsOptions{Registerer: registry})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(metrics.Handler)
	r.Get("/v1/provinces/{provinceID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/provinces/3", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	labels := prometheus.Labels{"method": http.MethodGet, "route": "/v1/provinces/{provinceID}", "status": "201"}
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Requests.With(labels)))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.InFlight))
	assert.NotZero(t, testutil.CollectAndCount(metrics.Duration))

	again, err := NewHTTPMetrics(HTTPMetricsOptions{Registerer: registry})
	require.NoError(t, err)
	assert.Same(t, metrics.Requests, again.Requests)
}

func TestHTTPMetricsCollapsesUnmatchedPaths(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics, err := NewHTTPMetrics(HTTPMetricsOptions{Registerer: registry})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(metrics.Handler)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {})

	for _, path := range []string{"/wp-login.php", "/.env", "/admin/config.php"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	labels := prometheus.Labels{"method": http.MethodGet, "route": "unmatched", "status": "404"}
	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.Requests.With(labels)))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.Requests))
}

func TestHTTPMetricsNilPassesThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	var metrics *HTTPMetrics
	metrics.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestLoggerKeepsStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("ok"))
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/travel-plans", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
