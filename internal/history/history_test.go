package history_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/undo-tic-tac-toe/internal/history"
)

// counterAction is a tiny action set for exercising the wrapper without
// any game rules.
type counterAction struct {
	op    history.Op
	delta int
}

func add(n int) counterAction             { return counterAction{delta: n} }
func undo() counterAction                 { return counterAction{op: history.Undo} }
func redo() counterAction                 { return counterAction{op: history.Redo} }
func classify(a counterAction) history.Op { return a.op }

// adder rejects zero deltas so the wrapper sees both outcomes.
func adder(present int, a counterAction) (int, bool) {
	if a.delta == 0 {
		return present, false
	}
	return present + a.delta, true
}

func apply(t *testing.T, r history.Undoable[int, counterAction], s history.State[int], actions ...counterAction) history.State[int] {
	t.Helper()
	for _, a := range actions {
		s, _ = r(s, a)
	}
	return s
}

func TestUndoRedoAtBoundariesAreNoops(t *testing.T) {
	r := history.Wrap(adder, classify)
	s := history.New(7)

	got, ok := r(s, undo())
	assert.False(t, ok)
	assert.Equal(t, s, got)

	got, ok = r(s, redo())
	assert.False(t, ok)
	assert.Equal(t, s, got)
	assert.False(t, got.CanUndo())
	assert.False(t, got.CanRedo())
}

func TestAcceptedActionPushesPresent(t *testing.T) {
	r := history.Wrap(adder, classify)
	s := apply(t, r, history.New(0), add(1), add(2))

	assert.Equal(t, 3, s.Present)
	assert.Equal(t, []int{0, 1}, s.Past)
	assert.Empty(t, s.Future)
	assert.True(t, s.CanUndo())
}

func TestRejectedActionCreatesNoEntry(t *testing.T) {
	r := history.Wrap(adder, classify)
	s := apply(t, r, history.New(0), add(1), undo())
	require.True(t, s.CanRedo())

	got, ok := r(s, add(0))
	assert.False(t, ok)
	assert.Equal(t, s, got, "rejected action must not truncate the future")
}

func TestUndoIsInverseOfLastMove(t *testing.T) {
	r := history.Wrap(adder, classify)
	h := apply(t, r, history.New(0), add(5), add(-2))

	moved, ok := r(h, add(10))
	require.True(t, ok)
	back, ok := r(moved, undo())
	require.True(t, ok)
	assert.Equal(t, h.Present, back.Present)
	assert.Equal(t, h.Past, back.Past)
	assert.Equal(t, []int{13}, back.Future)
}

func TestRedoAfterUndoRestores(t *testing.T) {
	r := history.Wrap(adder, classify)
	h := apply(t, r, history.New(0), add(1), add(1), add(1))

	undone := apply(t, r, h, undo(), undo())
	assert.Equal(t, 1, undone.Present)
	assert.Equal(t, []int{2, 3}, undone.Future, "future runs nearest to farthest")

	redone := apply(t, r, undone, redo(), redo())
	assert.Equal(t, h, redone)
}

func TestNewMoveAfterUndoTruncatesFuture(t *testing.T) {
	r := history.Wrap(adder, classify)
	s := apply(t, r, history.New(0), add(1), add(1), undo(), undo())
	require.Len(t, s.Future, 2)

	s = apply(t, r, s, add(10))
	assert.Equal(t, 10, s.Present)
	assert.Empty(t, s.Future)
	assert.Equal(t, []int{0}, s.Past)

	_, ok := r(s, redo())
	assert.False(t, ok)
}

func TestSnapshotsDoNotShareStorage(t *testing.T) {
	r := history.Wrap(adder, classify)
	base := apply(t, r, history.New(0), add(1), add(1), add(1), undo())

	// Two branches taken from the same state must not see each other.
	a := apply(t, r, base, add(100))
	b := apply(t, r, base, undo())

	assert.Equal(t, []int{0, 1}, base.Past)
	assert.Equal(t, []int{3}, base.Future)
	assert.Equal(t, []int{0, 1, 2}, a.Past)
	assert.Equal(t, []int{0}, b.Past)
	assert.Equal(t, []int{2, 3}, b.Future)
}

func TestWithLimitDropsOldest(t *testing.T) {
	r := history.Wrap(adder, classify, history.WithLimit(2))
	s := apply(t, r, history.New(0), add(1), add(1), add(1), add(1))

	assert.Equal(t, 4, s.Present)
	assert.Equal(t, []int{2, 3}, s.Past)

	s = apply(t, r, s, undo(), undo(), undo())
	assert.Equal(t, 2, s.Present)
	assert.False(t, s.CanUndo())
}
