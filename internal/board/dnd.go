package board

import "github.com/masadamsahid/zol-track/internal/apps"

// DropPosition is one end of a drag gesture: a column and an index within it.
type DropPosition struct {
	Column apps.Status
	Index  int
}

// DropResult is the raw outcome reported by the drag-gesture recognizer.
// Destination is nil when the card was released outside any column.
type DropResult struct {
	DraggableID int64
	Source      DropPosition
	Destination *DropPosition
}

// TranslateDrop converts a raw drop result into at most one MoveEvent.
// A drop outside any valid column yields no event — that gesture is a no-op,
// not an error.
func TranslateDrop(res DropResult) (MoveEvent, bool) {
	if res.Destination == nil {
		return MoveEvent{}, false
	}
	return MoveEvent{
		ApplicationID: res.DraggableID,
		SourceColumn:  res.Source.Column,
		SourceIndex:   res.Source.Index,
		DestColumn:    res.Destination.Column,
		DestIndex:     res.Destination.Index,
	}, true
}
