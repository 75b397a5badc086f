package board_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masadamsahid/zol-track/internal/apps"
	"github.com/masadamsahid/zol-track/internal/board"
)

type updateCall struct {
	id     int64
	status apps.Status
}

type fakeUpdater struct {
	calls []updateCall
	err   error
}

func (f *fakeUpdater) UpdateStatus(_ context.Context, id int64, status apps.Status) error {
	f.calls = append(f.calls, updateCall{id: id, status: status})
	return f.err
}

func newTestSyncer(updater *fakeUpdater) *board.Syncer {
	initial := board.Build([]apps.Application{
		mkApp(1, apps.StatusListed),
		mkApp(2, apps.StatusListed),
		mkApp(3, apps.StatusInterview),
	})
	return board.NewSyncer(initial, updater)
}

func TestSyncer_SuccessKeepsOptimisticState(t *testing.T) {
	updater := &fakeUpdater{}
	s := newTestSyncer(updater)

	err := s.HandleMove(context.Background(), board.MoveEvent{
		ApplicationID: 1,
		SourceColumn:  apps.StatusListed, SourceIndex: 0,
		DestColumn: apps.StatusInterview, DestIndex: 1,
	})
	require.NoError(t, err)

	state := s.State()
	assert.Equal(t, []int64{2}, ids(state[apps.StatusListed]))
	assert.Equal(t, []int64{3, 1}, ids(state[apps.StatusInterview]))
	assert.Equal(t, []updateCall{{id: 1, status: apps.StatusInterview}}, updater.calls)
}

func TestSyncer_FailureRollsBack(t *testing.T) {
	boom := errors.New("500 from server")
	updater := &fakeUpdater{err: boom}
	s := newTestSyncer(updater)

	before := s.State()

	err := s.HandleMove(context.Background(), board.MoveEvent{
		ApplicationID: 1,
		SourceColumn:  apps.StatusListed, SourceIndex: 0,
		DestColumn: apps.StatusInterview, DestIndex: 0,
	})
	require.ErrorIs(t, err, boom, "the failure surfaces to the UI layer")

	assert.Equal(t, before, s.State(), "state reverts to the pre-move board")
	assert.Len(t, updater.calls, 1, "no automatic retry")
}

func TestSyncer_SamePositionIssuesNoRequest(t *testing.T) {
	updater := &fakeUpdater{}
	s := newTestSyncer(updater)

	err := s.HandleMove(context.Background(), board.MoveEvent{
		ApplicationID: 1,
		SourceColumn:  apps.StatusListed, SourceIndex: 0,
		DestColumn: apps.StatusListed, DestIndex: 0,
	})
	require.NoError(t, err)
	assert.Empty(t, updater.calls)
}

func TestSyncer_DropOutsideIsSilent(t *testing.T) {
	updater := &fakeUpdater{}
	s := newTestSyncer(updater)
	before := s.State()

	err := s.HandleDrop(context.Background(), board.DropResult{
		DraggableID: 1,
		Source:      board.DropPosition{Column: apps.StatusListed, Index: 0},
		Destination: nil,
	})
	require.NoError(t, err)
	assert.Empty(t, updater.calls)
	assert.Equal(t, before, s.State())
}

func TestSyncer_StaleMoveLeavesStateUntouched(t *testing.T) {
	updater := &fakeUpdater{}
	s := newTestSyncer(updater)
	before := s.State()

	err := s.HandleMove(context.Background(), board.MoveEvent{
		ApplicationID: 1,
		SourceColumn:  apps.StatusListed, SourceIndex: 9,
		DestColumn: apps.StatusOffer, DestIndex: 0,
	})
	require.ErrorIs(t, err, board.ErrStateInconsistency)
	assert.Empty(t, updater.calls)
	assert.Equal(t, before, s.State())
}

func TestSyncer_MovesApplyInCallOrder(t *testing.T) {
	updater := &fakeUpdater{}
	s := newTestSyncer(updater)
	ctx := context.Background()

	require.NoError(t, s.HandleMove(ctx, board.MoveEvent{
		ApplicationID: 1,
		SourceColumn:  apps.StatusListed, SourceIndex: 0,
		DestColumn: apps.StatusApplied, DestIndex: 0,
	}))
	require.NoError(t, s.HandleMove(ctx, board.MoveEvent{
		ApplicationID: 2,
		SourceColumn:  apps.StatusListed, SourceIndex: 0,
		DestColumn: apps.StatusApplied, DestIndex: 0,
	}))

	state := s.State()
	assert.Empty(t, state[apps.StatusListed])
	assert.Equal(t, []int64{2, 1}, ids(state[apps.StatusApplied]))
	assert.Equal(t, []updateCall{
		{id: 1, status: apps.StatusApplied},
		{id: 2, status: apps.StatusApplied},
	}, updater.calls)
}

func TestSyncer_ReplaceSwapsBoard(t *testing.T) {
	updater := &fakeUpdater{}
	s := newTestSyncer(updater)

	s.Replace(board.Build([]apps.Application{mkApp(9, apps.StatusOffer)}))

	state := s.State()
	assert.Equal(t, []int64{9}, ids(state[apps.StatusOffer]))
	assert.Empty(t, state[apps.StatusListed])
}
