package apps

import (
	"encoding/json"
	"fmt"
	"time"
)

// Application is one tracked job application. It is also the JSON shape
// returned to the web client.
type Application struct {
	ID             int64           `json:"id"`
	UserID         string          `json:"userId"`
	CompanyID      *int64          `json:"companyId"`
	Position       string          `json:"position"`
	JobURL         *string         `json:"jobUrl"`
	JobDescription *string         `json:"jobDescription"`
	Notes          *string         `json:"notes"`
	SalaryCurrency *string         `json:"salaryCurrency"`
	MinSalary      *int64          `json:"minSalary"`
	MaxSalary      *int64          `json:"maxSalary"`
	Location       *string         `json:"location"`
	Remote         RemoteType      `json:"remote"`
	Status         Status          `json:"status"`
	StatusHistory  json.RawMessage `json:"statusHistory,omitempty"`
	ArchivedAt     *time.Time      `json:"archivedAt"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`

	// Company is resolved via LEFT JOIN when a company is linked.
	Company *CompanyRef `json:"company"`
}

// CompanyRef is the subset of a company row embedded in application
// responses. Company CRUD itself lives outside this service.
type CompanyRef struct {
	ID      int64   `json:"id"`
	Name    *string `json:"name"`
	Slug    *string `json:"slug"`
	LogoURL *string `json:"logoUrl"`
}

// CreateParams are the accepted fields for inserting a new application.
// Position and Remote are required; Status defaults to LISTED.
type CreateParams struct {
	Position       string
	Remote         RemoteType
	Status         Status
	CompanyID      *int64
	Location       *string
	Notes          *string
	SalaryCurrency *string
	MinSalary      *int64
	MaxSalary      *int64
	JobURL         *string
	JobDescription *string
}

// UpdateParams is a partial update: nil fields are left untouched. Modeling
// the "any subset" body as explicit optional fields keeps every accepted
// field enumerable and independently validated.
type UpdateParams struct {
	Position       *string
	Remote         *RemoteType
	Status         *Status
	CompanyID      *int64
	Location       *string
	Notes          *string
	SalaryCurrency *string
	MinSalary      *int64
	MaxSalary      *int64
	JobURL         *string
	JobDescription *string
}

// IsEmpty reports whether the update carries no fields at all.
func (p UpdateParams) IsEmpty() bool {
	return p.Position == nil && p.Remote == nil && p.Status == nil &&
		p.CompanyID == nil && p.Location == nil && p.Notes == nil &&
		p.SalaryCurrency == nil && p.MinSalary == nil && p.MaxSalary == nil &&
		p.JobURL == nil && p.JobDescription == nil
}

// ─── Sentinel errors ─────────────────────────────────────────────────────────

// ErrNotFound is returned when an application is missing, soft-deleted, or
// does not belong to the requesting user. Ownership mismatches deliberately
// look identical to absence so ids cannot be probed.
var ErrNotFound = fmt.Errorf("application not found")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
