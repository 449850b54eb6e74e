package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/undo-tic-tac-toe/internal/domain"
	"github.com/jaminalder/undo-tic-tac-toe/internal/history"
)

func dispatch(r *Reducer, root Root, actions ...domain.Action) Root {
	for _, a := range actions {
		root, _ = r.Reduce(root, a)
	}
	return root
}

func TestPlayUndoScenario(t *testing.T) {
	r := NewReducer()
	root := dispatch(r, Initial(),
		domain.Action{Type: domain.PlayX, Position: 4},
		domain.Action{Type: domain.PlayO, Position: 0},
		domain.Action{Type: domain.Undo},
	)

	assert.Equal(t, domain.Board{4: domain.X}, root.Board.Present)
	v := Derive(root)
	assert.True(t, v.CanRedo)
	assert.True(t, v.CanUndo)
	assert.Equal(t, domain.O, v.CurrentPlayer)
	assert.False(t, v.Finished)
}

func TestOccupiedCellCreatesNoHistory(t *testing.T) {
	r := NewReducer()
	root := dispatch(r, Initial(), domain.Play(domain.X, 4))

	next, ok := r.Reduce(root, domain.Play(domain.O, 4))
	assert.False(t, ok)
	assert.Equal(t, root, next)
	assert.Len(t, next.Board.Past, 1)
}

func TestFinishOnlyTouchesScore(t *testing.T) {
	r := NewReducer()
	root := dispatch(r, Initial(),
		domain.Play(domain.X, 0), domain.Play(domain.O, 3),
		domain.Play(domain.X, 1), domain.Play(domain.O, 4),
		domain.Play(domain.X, 2),
	)
	require.Equal(t, domain.X, Derive(root).Winner)

	next, ok := r.Reduce(root, domain.Action{Type: domain.Finish, Winner: domain.X})
	require.True(t, ok)
	assert.Equal(t, domain.Score{X: 1}, next.Score)
	assert.Equal(t, root.Board, next.Board)
}

func TestNewGameKeepsScore(t *testing.T) {
	r := NewReducer()
	root := dispatch(r, Initial(),
		domain.Play(domain.X, 0),
		domain.Action{Type: domain.Finish, Winner: domain.Empty},
		domain.Action{Type: domain.NewGame},
	)
	assert.Equal(t, domain.Score{Draw: 1}, root.Score)
	assert.Equal(t, history.New(domain.Board{}), root.Board)

	_, ok := r.Reduce(root, domain.Action{Type: domain.NewGame})
	assert.False(t, ok, "new game on a pristine board is a no-op")
}

func TestUndoAtStartIsNoop(t *testing.T) {
	r := NewReducer()
	root := Initial()
	for _, a := range []domain.Action{{Type: domain.Undo}, {Type: domain.Redo}} {
		next, ok := r.Reduce(root, a)
		assert.False(t, ok)
		assert.Equal(t, root, next)
	}
}

func TestHistoryLimitOption(t *testing.T) {
	r := NewReducer(history.WithLimit(1))
	root := dispatch(r, Initial(),
		domain.Play(domain.X, 0), domain.Play(domain.O, 1), domain.Play(domain.X, 2),
		domain.Action{Type: domain.Undo}, domain.Action{Type: domain.Undo},
	)
	assert.Equal(t, domain.Board{domain.X, domain.O}, root.Board.Present)
	assert.False(t, Derive(root).CanUndo)
}

func TestDeriveFinishedAndTurn(t *testing.T) {
	cases := []struct {
		name     string
		board    domain.Board
		player   domain.Cell
		winner   domain.Cell
		finished bool
	}{
		{"empty", domain.Board{}, domain.X, domain.Empty, false},
		{"after X", domain.Board{4: domain.X}, domain.O, domain.Empty, false},
		{"O ahead", domain.Board{0: domain.O}, domain.X, domain.Empty, false},
		{"diagonal", domain.Board{1, -1, 1, -1, 1, -1, 1, 0, 0}, domain.O, domain.X, true},
		{"draw", domain.Board{1, -1, 1, 1, -1, -1, -1, 1, 1}, domain.O, domain.Empty, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := Derive(Root{Board: history.New(tc.board)})
			assert.Equal(t, tc.player, v.CurrentPlayer)
			assert.Equal(t, tc.winner, v.Winner)
			assert.Equal(t, tc.finished, v.Finished)
			assert.False(t, v.CanUndo)
			assert.False(t, v.CanRedo)
		})
	}
}
