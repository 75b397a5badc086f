// Package board holds the kanban board state: a partition of the user's
// active applications into one ordered column per status.
//
// The transition function (Apply) is pure — no network, no timers — so the
// reducer logic is unit-testable on its own. Persistence and fetch live in
// Syncer and SearchController, which wrap it.
package board

import (
	"errors"
	"fmt"

	"github.com/masadamsahid/zol-track/internal/apps"
)

// State maps each status to its ordered column. Invariant: every application
// appears exactly once, in the column matching its Status field.
type State map[apps.Status][]apps.Application

// MoveEvent is one completed drag: identity of the dragged card plus source
// and destination coordinates.
type MoveEvent struct {
	ApplicationID int64
	SourceColumn  apps.Status
	SourceIndex   int
	DestColumn    apps.Status
	DestIndex     int
}

// ErrStateInconsistency signals that a move no longer matches the board —
// a stale index or a card that changed identity between gesture start and
// drop. It is a recoverable, caller-visible condition, not a crash.
var ErrStateInconsistency = errors.New("board state inconsistent with move")

// NewState returns a board with an empty column for every status.
func NewState() State {
	s := make(State, len(apps.ColumnOrder))
	for _, st := range apps.ColumnOrder {
		s[st] = []apps.Application{}
	}
	return s
}

// Build partitions a freshly fetched application list into columns, keeping
// the list's order within each column. Archived applications never reach the
// board, so they are skipped defensively here.
func Build(list []apps.Application) State {
	s := NewState()
	for _, a := range list {
		if a.ArchivedAt != nil {
			continue
		}
		s[a.Status] = append(s[a.Status], a)
	}
	return s
}

// Clone returns a deep-enough copy: new map, new column slices. Application
// values are copied by value; their pointer fields are treated as immutable.
func (s State) Clone() State {
	out := make(State, len(s))
	for st, col := range s {
		out[st] = append([]apps.Application(nil), col...)
	}
	return out
}

// Apply computes the board state after a move. It returns the new state and
// whether a persistence request must be issued.
//
//   - Same source and destination position: no-op, original state, no request.
//   - Stale source index or id mismatch: ErrStateInconsistency.
//   - Otherwise: the card is removed from the source column, its status field
//     set to the destination column, and inserted at the destination index
//     (clamped to the column's bounds).
//
// The input state is never mutated.
func Apply(s State, m MoveEvent) (State, bool, error) {
	if m.SourceColumn == m.DestColumn && m.SourceIndex == m.DestIndex {
		return s, false, nil
	}

	src := s[m.SourceColumn]
	if m.SourceIndex < 0 || m.SourceIndex >= len(src) {
		return nil, false, fmt.Errorf("%w: no card at %s[%d]",
			ErrStateInconsistency, m.SourceColumn, m.SourceIndex)
	}

	moved := src[m.SourceIndex]
	if moved.ID != m.ApplicationID {
		return nil, false, fmt.Errorf("%w: card at %s[%d] is %d, expected %d",
			ErrStateInconsistency, m.SourceColumn, m.SourceIndex, moved.ID, m.ApplicationID)
	}

	out := s.Clone()

	src = out[m.SourceColumn]
	src = append(src[:m.SourceIndex], src[m.SourceIndex+1:]...)
	out[m.SourceColumn] = src

	moved.Status = m.DestColumn

	dest := out[m.DestColumn]
	idx := m.DestIndex
	if idx < 0 {
		idx = 0
	}
	if idx > len(dest) {
		idx = len(dest)
	}
	dest = append(dest, apps.Application{})
	copy(dest[idx+1:], dest[idx:])
	dest[idx] = moved
	out[m.DestColumn] = dest

	return out, true, nil
}
