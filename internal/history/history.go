// Package history adds undo and redo to any reducer.
//
// The wrapper keeps past and future snapshots of whatever value the inner
// reducer manages. It never looks inside that value: the inner reducer
// reports whether it accepted an action, and only accepted actions create
// history entries.
package history

import "slices"

// Op is the history operation an action stands for.
type Op int

const (
	None Op = iota
	Undo
	Redo
)

// Reducer computes the next value for an action and reports whether the
// action was accepted. A rejected action must return present unchanged.
type Reducer[T, A any] func(present T, action A) (T, bool)

// Undoable is a Reducer over State lifted by Wrap.
type Undoable[T, A any] func(s State[T], action A) (State[T], bool)

// State holds the present value plus the snapshots around it.
// Past runs oldest to newest; Future runs nearest to farthest.
type State[T any] struct {
	Past    []T `json:"past"`
	Present T   `json:"present"`
	Future  []T `json:"future"`
}

// New returns a State with no history.
func New[T any](present T) State[T] {
	return State[T]{Present: present}
}

// CanUndo reports whether Undo would change the state.
func (s State[T]) CanUndo() bool { return len(s.Past) > 0 }

// CanRedo reports whether Redo would change the state.
func (s State[T]) CanRedo() bool { return len(s.Future) > 0 }

// Undo steps back to the newest past entry. It is a no-op when there is
// nothing to undo.
func (s State[T]) Undo() (State[T], bool) {
	n := len(s.Past)
	if n == 0 {
		return s, false
	}
	future := make([]T, 0, len(s.Future)+1)
	future = append(future, s.Present)
	future = append(future, s.Future...)
	return State[T]{
		Past:    clone(s.Past[:n-1]),
		Present: s.Past[n-1],
		Future:  future,
	}, true
}

// Redo steps forward to the nearest future entry. It is a no-op when
// there is nothing to redo.
func (s State[T]) Redo() (State[T], bool) {
	if len(s.Future) == 0 {
		return s, false
	}
	past := make([]T, 0, len(s.Past)+1)
	past = append(past, s.Past...)
	past = append(past, s.Present)
	return State[T]{
		Past:    past,
		Present: s.Future[0],
		Future:  clone(s.Future[1:]),
	}, true
}

// Push records next as the new present. The old present moves to Past and
// Future is dropped. With limit > 0 the oldest entries beyond limit are
// discarded.
func (s State[T]) Push(next T, limit int) State[T] {
	past := make([]T, 0, len(s.Past)+1)
	past = append(past, s.Past...)
	past = append(past, s.Present)
	if limit > 0 && len(past) > limit {
		past = past[len(past)-limit:]
	}
	return State[T]{Past: past, Present: next}
}

// clone copies s so that no two states share a backing array.
func clone[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return slices.Clone(s)
}

type options struct {
	limit int
}

// Option configures Wrap.
type Option func(*options)

// WithLimit caps the number of undo steps kept. Zero means unlimited.
func WithLimit(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.limit = n
	}
}

// Wrap lifts inner into a reducer over State. classify tells which actions
// are undo or redo requests; everything else goes to inner.
func Wrap[T, A any](inner Reducer[T, A], classify func(A) Op, opts ...Option) Undoable[T, A] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return func(s State[T], action A) (State[T], bool) {
		switch classify(action) {
		case Undo:
			return s.Undo()
		case Redo:
			return s.Redo()
		}
		next, ok := inner(s.Present, action)
		if !ok {
			return s, false
		}
		return s.Push(next, o.limit), true
	}
}
