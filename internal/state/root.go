// Package state composes the board and score reducers into the root
// state of a game session, and derives the read-only view from it.
package state

import (
	"github.com/jaminalder/undo-tic-tac-toe/internal/domain"
	"github.com/jaminalder/undo-tic-tac-toe/internal/history"
)

// Root is the single source of truth for one session.
type Root struct {
	Board history.State[domain.Board] `json:"board"`
	Score domain.Score                `json:"score"`
}

// Reducer applies actions to a Root.
type Reducer struct {
	board history.Undoable[domain.Board, domain.Action]
}

// NewReducer builds the root reducer. Options are passed to the board history.
func NewReducer(opts ...history.Option) *Reducer {
	return &Reducer{board: history.Wrap(domain.ReduceBoard, classify, opts...)}
}

// Initial returns the root of a fresh session.
func Initial() Root {
	return Root{Board: history.New(domain.Board{})}
}

func classify(a domain.Action) history.Op {
	switch a.Type {
	case domain.Undo:
		return history.Undo
	case domain.Redo:
		return history.Redo
	default:
		return history.None
	}
}

// Reduce hands a to every slice of the root and reports whether anything
// changed. NEW_GAME starts an empty board with no history and keeps the score.
func (r *Reducer) Reduce(root Root, a domain.Action) (Root, bool) {
	if a.Type == domain.NewGame {
		if !root.Board.CanUndo() && !root.Board.CanRedo() && root.Board.Present == (domain.Board{}) {
			return root, false
		}
		root.Board = history.New(domain.Board{})
		return root, true
	}
	board, boardChanged := r.board(root.Board, a)
	score, scoreChanged := domain.ReduceScore(root.Score, a)
	if !boardChanged && !scoreChanged {
		return root, false
	}
	return Root{Board: board, Score: score}, true
}
