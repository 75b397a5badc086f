package board

import (
	"context"
	"sync"

	"github.com/masadamsahid/zol-track/internal/apps"
)

// Updater persists a status change. The real implementation issues
// PUT /applications/{id} with a status-only body.
type Updater interface {
	UpdateStatus(ctx context.Context, applicationID int64, status apps.Status) error
}

// Syncer owns the live board state and keeps it consistent with the server
// under drag-and-drop: moves are applied optimistically, persisted, and
// rolled back when persistence fails.
//
// Moves are processed strictly in call order; the mutex is held across the
// persistence call, which mirrors the UI event loop serializing gestures.
type Syncer struct {
	mu      sync.Mutex
	state   State
	updater Updater
}

// NewSyncer returns a Syncer starting from the given state.
func NewSyncer(initial State, updater Updater) *Syncer {
	return &Syncer{state: initial, updater: updater}
}

// State returns a copy of the current board state.
func (s *Syncer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Replace swaps in a freshly fetched board (after a filter change).
func (s *Syncer) Replace(next State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = next
}

// HandleDrop translates and applies a completed drag gesture. Drops outside
// a column and same-position drops are silent no-ops.
func (s *Syncer) HandleDrop(ctx context.Context, res DropResult) error {
	move, ok := TranslateDrop(res)
	if !ok {
		return nil
	}
	return s.HandleMove(ctx, move)
}

// HandleMove applies a move optimistically and persists the status change.
// On persistence failure the pre-move state is restored and the error is
// returned for the UI to surface; no automatic retry. A same-position move
// returns nil without issuing any request.
func (s *Syncer) HandleMove(ctx context.Context, m MoveEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	next, persist, err := Apply(prev, m)
	if err != nil {
		return err
	}
	if !persist {
		return nil
	}

	s.state = next

	if err := s.updater.UpdateStatus(ctx, m.ApplicationID, m.DestColumn); err != nil {
		s.state = prev
		return err
	}
	return nil
}
