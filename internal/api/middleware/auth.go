package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/thai-travel-share/internal/api/response"
	"github.com/Rrens/thai-travel-share/internal/domain"
)

type contextKey string

const PrincipalKey contextKey = "principal"

// Authenticator resolves a bearer access token to an active user
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.UserView, error)
}

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	auth Authenticator
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Authenticate validates the bearer token and stores the principal in the
// request context
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
			response.Unauthorized(w, "invalid authorization header format")
			return
		}

		principal, err := m.auth.Authenticate(r.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			response.FromError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// WithPrincipal returns a copy of ctx carrying the authenticated user
func WithPrincipal(ctx context.Context, principal *domain.UserView) context.Context {
	return context.WithValue(ctx, PrincipalKey, principal)
}

// GetPrincipal gets the authenticated user from context
func GetPrincipal(ctx context.Context) (*domain.UserView, bool) {
	principal, ok := ctx.Value(PrincipalKey).(*domain.UserView)
	return principal, ok && principal != nil
}

// Limiter counts requests per key within a window
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, reset time.Time, err error)
	Limit() int
}

// RateLimitMiddleware handles rate limiting
type RateLimitMiddleware struct {
	limiter Limiter
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(limiter Limiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// Limit applies rate limiting per authenticated user, falling back to the
// client address for anonymous requests
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "ip:" + clientIP(r)
		if principal, ok := GetPrincipal(r.Context()); ok {
			key = "user:" + principal.ID.String()
		}

		allowed, remaining, reset, err := m.limiter.Allow(r.Context(), key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, allowing request")
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.limiter.Limit()))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter(reset)))
			response.TooManyRequests(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP drops the port from RemoteAddr so every connection from one host
// shares a counter
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func retryAfter(reset time.Time) int {
	seconds := int(time.Until(reset).Seconds())
	if seconds < 1 {
		return 1
	}
	return seconds
}
