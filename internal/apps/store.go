package apps

import "context"

// Store is the persistence contract for applications. PgStore is the real
// implementation; tests substitute an in-memory one.
//
// Every method scopes by userID — an id that exists but belongs to someone
// else behaves exactly like a missing row (ErrNotFound).
type Store interface {
	// List returns the caller's non-archived, non-deleted applications
	// matching the filter, ascending by id.
	List(ctx context.Context, userID string, f Filter) ([]Application, error)
	// Get returns one application by id, archived or not.
	Get(ctx context.Context, userID string, id int64) (*Application, error)
	// Insert persists a new application and returns it with generated fields.
	Insert(ctx context.Context, userID string, p CreateParams) (*Application, error)
	// Update applies the non-nil fields of p. When history is non-nil it is
	// appended to the status_history log in the same statement.
	Update(ctx context.Context, userID string, id int64, p UpdateParams, history []byte) (*Application, error)
	// Archive stamps archived_at with the current time. Re-archiving an
	// already archived application just re-stamps it.
	Archive(ctx context.Context, userID string, id int64) (*Application, error)
}
