// HTTP surface for the applications domain.
//
// Routes (all behind the session middleware):
//
//	GET  /applications                   → list with filters + cursor pagination
//	POST /applications                   → create
//	GET  /applications/{id}              → fetch one (archived included)
//	PUT  /applications/{id}              → partial update (status changes ride here)
//	POST /applications/{id}/archive      → archive
package apps

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/masadamsahid/zol-track/internal/auth"
)

// Handler maps HTTP requests onto the Service and domain errors onto status
// codes.
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the applications routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/applications", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{applicationID}", h.get)
		r.Put("/{applicationID}", h.update)
		r.Post("/{applicationID}/archive", h.archive)
	})
}

// applicationBody is the create/update request shape. Every field is a
// pointer so a partial update can distinguish "absent" from "zero".
type applicationBody struct {
	Position       *string `json:"position"`
	Remote         *string `json:"remote"`
	Status         *string `json:"status"`
	CompanyID      *int64  `json:"companyId"`
	Location       *string `json:"location"`
	Notes          *string `json:"notes"`
	SalaryCurrency *string `json:"salaryCurrency"`
	MinSalary      *int64  `json:"minSalary"`
	MaxSalary      *int64  `json:"maxSalary"`
	JobURL         *string `json:"jobUrl"`
	JobDescription *string `json:"jobDescription"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		jsonError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	f, err := filterFromQuery(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	apps, err := h.svc.ListForUser(r.Context(), userID, f)
	if err != nil {
		h.writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, apps)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		jsonError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	id, err := applicationID(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	app, err := h.svc.GetByID(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, app)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		jsonError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var body applicationBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if body.Position == nil || *body.Position == "" {
		jsonError(w, "position is required", http.StatusBadRequest)
		return
	}
	if body.Remote == nil || *body.Remote == "" {
		jsonError(w, "remote is required", http.StatusBadRequest)
		return
	}

	p := CreateParams{
		Position:       *body.Position,
		Remote:         RemoteType(*body.Remote),
		CompanyID:      body.CompanyID,
		Location:       body.Location,
		Notes:          body.Notes,
		SalaryCurrency: body.SalaryCurrency,
		MinSalary:      body.MinSalary,
		MaxSalary:      body.MaxSalary,
		JobURL:         body.JobURL,
		JobDescription: body.JobDescription,
	}
	if body.Status != nil {
		p.Status = Status(*body.Status)
	}

	app, err := h.svc.Create(r.Context(), userID, p)
	if err != nil {
		h.writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, app)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		jsonError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	id, err := applicationID(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body applicationBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	p := UpdateParams{
		Position:       body.Position,
		CompanyID:      body.CompanyID,
		Location:       body.Location,
		Notes:          body.Notes,
		SalaryCurrency: body.SalaryCurrency,
		MinSalary:      body.MinSalary,
		MaxSalary:      body.MaxSalary,
		JobURL:         body.JobURL,
		JobDescription: body.JobDescription,
	}
	if body.Remote != nil {
		rt := RemoteType(*body.Remote)
		p.Remote = &rt
	}
	if body.Status != nil {
		st := Status(*body.Status)
		p.Status = &st
	}

	app, err := h.svc.Update(r.Context(), userID, id, p)
	if err != nil {
		h.writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, app)
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		jsonError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	id, err := applicationID(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	app, err := h.svc.Archive(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, app)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func applicationID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "applicationID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("application id must be a positive integer")
	}
	return id, nil
}

// filterFromQuery builds a Filter from the list query string. companyIds
// accepts both repeated params and comma-separated values; an empty value
// contributes nothing, so ?companyIds= behaves like the param being absent.
func filterFromQuery(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	f := Filter{
		Search:   q.Get("search"),
		Location: q.Get("location"),
	}

	if raw := q.Get("remote"); raw != "" {
		rt, err := ParseRemoteType(raw)
		if err != nil {
			return Filter{}, err
		}
		f.Remote = &rt
	}

	for _, group := range q["companyIds"] {
		for _, part := range strings.Split(group, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return Filter{}, errors.New("companyIds must be integers")
			}
			f.CompanyIDs = append(f.CompanyIDs, id)
		}
	}

	if raw := q.Get("cursorId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 0 {
			return Filter{}, errors.New("cursorId must be a non-negative integer")
		}
		f.CursorID = id
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Filter{}, errors.New("limit must be a positive integer")
		}
		f.Limit = n
	}
	return f, nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var vErr *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &vErr):
		jsonError(w, vErr.Msg, http.StatusBadRequest)
	default:
		slog.Error("applications handler error", "err", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

func jsonResponse(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	jsonResponse(w, code, map[string]string{"error": msg})
}
