package apps

import (
	"fmt"
	"strings"
)

// List pagination bounds, matching the public API contract.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Filter is the list query contract shared by the backend list endpoint and
// the client board fetch. Absent fields constrain nothing; present fields
// AND together.
type Filter struct {
	// Search matches position case-insensitively as a substring.
	Search string
	// Location matches location case-insensitively as a substring.
	Location string
	// Remote matches the work-location enum exactly.
	Remote *RemoteType
	// CompanyIDs restricts to the given companies. An empty slice is
	// identical to nil: no constraint, not "match nothing".
	CompanyIDs []int64

	// CursorID and Limit page through results in ascending id order.
	// CursorID is exclusive; zero means "from the beginning".
	CursorID int64
	Limit    int
}

// EffectiveLimit returns the page size clamped to [1, MaxLimit], defaulting
// to DefaultLimit when unset.
func (f Filter) EffectiveLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultLimit
	case f.Limit > MaxLimit:
		return MaxLimit
	}
	return f.Limit
}

// Match reports whether a single application satisfies every provided
// constraint. This is the same predicate the SQL conditions express; the
// client board uses it to re-filter locally without a round trip.
func (f Filter) Match(a Application) bool {
	if f.Search != "" &&
		!strings.Contains(strings.ToLower(a.Position), strings.ToLower(f.Search)) {
		return false
	}
	if f.Location != "" {
		if a.Location == nil ||
			!strings.Contains(strings.ToLower(*a.Location), strings.ToLower(f.Location)) {
			return false
		}
	}
	if f.Remote != nil && a.Remote != *f.Remote {
		return false
	}
	if len(f.CompanyIDs) > 0 {
		if a.CompanyID == nil {
			return false
		}
		found := false
		for _, id := range f.CompanyIDs {
			if *a.CompanyID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// conditions appends the filter's SQL predicates and their arguments to the
// given slices. Placeholders continue from len(args)+1.
func (f Filter) conditions(conds []string, args []any) ([]string, []any) {
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		conds = append(conds, fmt.Sprintf("a.position ILIKE $%d", len(args)))
	}
	if f.Location != "" {
		args = append(args, "%"+f.Location+"%")
		conds = append(conds, fmt.Sprintf("a.location ILIKE $%d", len(args)))
	}
	if f.Remote != nil {
		args = append(args, string(*f.Remote))
		conds = append(conds, fmt.Sprintf("a.remote = $%d::work_location_type", len(args)))
	}
	if len(f.CompanyIDs) > 0 {
		args = append(args, f.CompanyIDs)
		conds = append(conds, fmt.Sprintf("a.company_id = ANY($%d)", len(args)))
	}
	if f.CursorID > 0 {
		args = append(args, f.CursorID)
		conds = append(conds, fmt.Sprintf("a.id > $%d", len(args)))
	}
	return conds, args
}
