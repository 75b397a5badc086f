// Package auth resolves the caller's identity from an opaque session token.
//
// Sessions are issued elsewhere (the auth frontend writes
// "session:<token>" → user id into Redis); this package only consumes them.
// Every protected route gets a user id in the request context or a 401
// before any service logic runs.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionCookie is the cookie carrying the session token. A bearer token in
// the Authorization header is accepted as an equivalent for non-browser
// clients.
const SessionCookie = "zt_session"

// ErrNoSession is returned when a token is absent, unknown, or expired.
var ErrNoSession = errors.New("no valid session")

// SessionResolver turns a session token into a user id.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// RedisResolver resolves sessions from Redis with a sliding expiry: every
// successful resolution pushes the session's TTL forward.
type RedisResolver struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisResolver returns a RedisResolver. ttl is the sliding session
// lifetime applied on each hit.
func NewRedisResolver(rdb *redis.Client, ttl time.Duration) *RedisResolver {
	return &RedisResolver{rdb: rdb, ttl: ttl}
}

func (r *RedisResolver) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := r.rdb.Get(ctx, "session:"+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	// Best-effort TTL refresh; a failure here must not fail the request.
	r.rdb.Expire(ctx, "session:"+token, r.ttl)
	return userID, nil
}

// ─── Request context plumbing ────────────────────────────────────────────────

type ctxKey struct{}

// WithUser returns a context carrying the given user id. Exposed for tests
// and internal tooling that bypasses the HTTP middleware.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserID extracts the authenticated user id set by Middleware.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// Middleware rejects requests without a resolvable session and stores the
// user id in the request context otherwise.
func Middleware(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				unauthorized(w, "missing session token")
				return
			}

			userID, err := resolver.Resolve(r.Context(), token)
			if errors.Is(err, ErrNoSession) {
				unauthorized(w, "invalid or expired session")
				return
			}
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": "session lookup failed"})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
