package apps_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masadamsahid/zol-track/internal/apps"
	"github.com/masadamsahid/zol-track/internal/auth"
)

// newTestRouter mounts the handler behind a middleware that injects userID
// as the authenticated caller. With userID == "" no identity is injected,
// which exercises the unauthenticated path.
func newTestRouter(svc *apps.Service, userID string) http.Handler {
	r := chi.NewRouter()
	if userID != "" {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(auth.WithUser(req.Context(), userID)))
			})
		})
	}
	apps.NewHandler(svc).RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_RequiresIdentity(t *testing.T) {
	svc, _, _ := newTestService()
	h := newTestRouter(svc, "")

	rec := doJSON(t, h, http.MethodGet, "/applications", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_CreateAndGet(t *testing.T) {
	svc, _, _ := newTestService()
	h := newTestRouter(svc, "u1")

	rec := doJSON(t, h, http.MethodPost, "/applications", map[string]any{
		"position": "Backend Engineer",
		"remote":   "REMOTE",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created apps.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, apps.StatusListed, created.Status)
	assert.Positive(t, created.ID)

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/applications/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got apps.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Backend Engineer", got.Position)
}

func TestHandler_CreateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	h := newTestRouter(svc, "u1")

	cases := []struct {
		name string
		body any
	}{
		{"missing position", map[string]any{"remote": "REMOTE"}},
		{"missing remote", map[string]any{"position": "Engineer"}},
		{"bad remote", map[string]any{"position": "Engineer", "remote": "OFFICE"}},
		{"bad status", map[string]any{"position": "Engineer", "remote": "REMOTE", "status": "HIRED"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/applications", c.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	t.Run("malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/applications", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_GetUnknownID(t *testing.T) {
	svc, _, _ := newTestService()
	h := newTestRouter(svc, "u1")

	rec := doJSON(t, h, http.MethodGet, "/applications/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/applications/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_StatusOnlyUpdate(t *testing.T) {
	svc, _, _ := newTestService()
	h := newTestRouter(svc, "u1")

	app := mustCreate(t, svc, "u1", apps.CreateParams{Position: "Engineer", Remote: apps.RemoteOnsite})

	rec := doJSON(t, h, http.MethodPut, fmt.Sprintf("/applications/%d", app.ID),
		map[string]any{"status": "INTERVIEW"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated apps.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, apps.StatusInterview, updated.Status)
	assert.Equal(t, app.Position, updated.Position, "untouched fields survive a partial update")
}

func TestHandler_Archive(t *testing.T) {
	svc, _, _ := newTestService()
	h := newTestRouter(svc, "u1")

	app := mustCreate(t, svc, "u1", apps.CreateParams{Position: "Engineer", Remote: apps.RemoteOnsite})

	rec := doJSON(t, h, http.MethodPost, fmt.Sprintf("/applications/%d/archive", app.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var archived apps.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &archived))
	assert.NotNil(t, archived.ArchivedAt)

	rec = doJSON(t, h, http.MethodGet, "/applications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = doJSON(t, h, http.MethodPost, "/applications/999/archive", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_ListQueryParsing(t *testing.T) {
	svc, _, _ := newTestService()
	h := newTestRouter(svc, "u1")

	companyID := int64(1)
	// A company-less application and one with a (fake) company reference.
	mustCreate(t, svc, "u1", apps.CreateParams{Position: "Backend Engineer", Remote: apps.RemoteRemote})
	mustCreate(t, svc, "u1", apps.CreateParams{Position: "Data Engineer", Remote: apps.RemoteOnsite, CompanyID: &companyID})

	listLen := func(target string) int {
		rec := doJSON(t, h, http.MethodGet, target, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var list []apps.Application
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		return len(list)
	}

	assert.Equal(t, 2, listLen("/applications"))
	assert.Equal(t, 2, listLen("/applications?search=eng"))
	assert.Equal(t, 1, listLen("/applications?remote=REMOTE"))
	assert.Equal(t, 1, listLen("/applications?companyIds=1,7"))

	// Empty companyIds is "no constraint", not "match nothing".
	assert.Equal(t, 2, listLen("/applications?companyIds="))

	rec := doJSON(t, h, http.MethodGet, "/applications?remote=SOMETIMES", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/applications?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
