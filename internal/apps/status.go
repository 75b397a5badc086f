// Package apps contains the applications domain: the status lifecycle,
// the list filter contract, and the service that owns every write path.
// It is transport-agnostic — the HTTP layer lives in handler.go and maps
// domain errors to status codes.
package apps

import "fmt"

// Status is the stage of an application in the hiring pipeline.
// Values mirror the job_application_status enum in PostgreSQL.
type Status string

const (
	StatusListed    Status = "LISTED"
	StatusApplied   Status = "APPLIED"
	StatusInterview Status = "INTERVIEW"
	StatusOffer     Status = "OFFER"
	StatusSigned    Status = "SIGNED"
	StatusRejected  Status = "REJECTED"
	StatusDeclined  Status = "DECLINED"
)

// ColumnOrder is the board's left-to-right column layout. It also serves as
// the canonical enumeration of all statuses.
var ColumnOrder = []Status{
	StatusListed,
	StatusApplied,
	StatusInterview,
	StatusOffer,
	StatusSigned,
	StatusDeclined,
	StatusRejected,
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values. Any status may transition to any other status — the
// pipeline is a label, not a state machine — so membership is the only check
// the service ever performs on a transition.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusListed, StatusApplied, StatusInterview, StatusOffer,
		StatusSigned, StatusRejected, StatusDeclined:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// RemoteType is the work-location arrangement of a position.
// Values mirror the work_location_type enum in PostgreSQL.
type RemoteType string

const (
	RemoteOnsite RemoteType = "ONSITE"
	RemoteRemote RemoteType = "REMOTE"
	RemoteHybrid RemoteType = "HYBRID"
)

// ParseRemoteType converts a raw string to a RemoteType, returning an error
// for unknown values.
func ParseRemoteType(s string) (RemoteType, error) {
	rt := RemoteType(s)
	switch rt {
	case RemoteOnsite, RemoteRemote, RemoteHybrid:
		return rt, nil
	}
	return "", fmt.Errorf("unknown work location type %q", s)
}
