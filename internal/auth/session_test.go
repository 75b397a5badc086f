package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masadamsahid/zol-track/internal/auth"
)

type mapResolver map[string]string

func (m mapResolver) Resolve(_ context.Context, token string) (string, error) {
	userID, ok := m[token]
	if !ok {
		return "", auth.ErrNoSession
	}
	return userID, nil
}

func protectedEcho(t *testing.T) (http.Handler, *string) {
	t.Helper()
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserID(r.Context())
		require.True(t, ok, "middleware must set the user id before the handler runs")
		seen = userID
		w.WriteHeader(http.StatusOK)
	})
	mw := auth.Middleware(mapResolver{"tok-alice": "alice"})
	return mw(next), &seen
}

func TestMiddleware_MissingToken(t *testing.T) {
	h, _ := protectedEcho(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/applications", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing session token")
}

func TestMiddleware_UnknownToken(t *testing.T) {
	h, seen := protectedEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/applications", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "tok-bogus"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, *seen, "handler must not run for an invalid session")
}

func TestMiddleware_CookieToken(t *testing.T) {
	h, seen := protectedEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/applications", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "tok-alice"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", *seen)
}

func TestMiddleware_BearerToken(t *testing.T) {
	h, seen := protectedEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/applications", nil)
	req.Header.Set("Authorization", "Bearer tok-alice")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", *seen)
}

func TestUserID_AbsentFromBareContext(t *testing.T) {
	_, ok := auth.UserID(context.Background())
	assert.False(t, ok)
}
