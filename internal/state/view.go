package state

import "github.com/jaminalder/undo-tic-tac-toe/internal/domain"

// View is derived from a Root on every read and never stored.
type View struct {
	CurrentPlayer domain.Cell `json:"currentPlayer"`
	Winner        domain.Cell `json:"winner"`
	Finished      bool        `json:"finished"`
	CanUndo       bool        `json:"canUndo"`
	CanRedo       bool        `json:"canRedo"`
}

// Derive projects root into its view. X moves whenever the board sum is
// not positive, since X moves first and each side adds its own sign.
func Derive(root Root) View {
	b := root.Board.Present
	v := View{
		CurrentPlayer: domain.O,
		Winner:        domain.CheckWinner(b),
		CanUndo:       root.Board.CanUndo(),
		CanRedo:       root.Board.CanRedo(),
	}
	if domain.Sum(b) <= 0 {
		v.CurrentPlayer = domain.X
	}
	v.Finished = v.Winner != domain.Empty || domain.IsFull(b)
	return v
}
