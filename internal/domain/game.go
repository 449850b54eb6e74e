package domain

// Cell represents a board cell state. The values are chosen so that a
// line of three identical marks sums to +3 (X) or -3 (O).
type Cell int8

const (
	O     Cell = -1
	Empty Cell = 0
	X     Cell = 1
)

func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// lines enumerates every winning line in a fixed order.
var lines = [8][3]int{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// ReduceBoard returns the board that results from applying a to b, and
// whether the action was accepted. A rejected action returns b unchanged.
//
// Only PLAY_X and PLAY_O affect the board. Moves into an occupied cell or
// outside 0..8 are rejected. Turn order is not checked here.
func ReduceBoard(b Board, a Action) (Board, bool) {
	var mark Cell
	switch a.Type {
	case PlayX:
		mark = X
	case PlayO:
		mark = O
	default:
		return b, false
	}
	if a.Position < 0 || a.Position >= len(b) {
		return b, false
	}
	if b[a.Position] != Empty {
		return b, false
	}
	b[a.Position] = mark
	return b, true
}

// CheckWinner returns X or O when that side holds a full line, Empty otherwise.
func CheckWinner(b Board) Cell {
	for _, ln := range lines {
		switch b[ln[0]] + b[ln[1]] + b[ln[2]] {
		case 3 * X:
			return X
		case 3 * O:
			return O
		}
	}
	return Empty
}

// IsFull reports whether no cell is empty.
func IsFull(b Board) bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

// Sum adds up all cells. It is 0 when both sides have moved equally often
// and 1 after X has moved once more than O.
func Sum(b Board) int {
	total := 0
	for _, c := range b {
		total += int(c)
	}
	return total
}

// WinningLine returns the first completed line in enumeration order.
func WinningLine(b Board) ([3]int, bool) {
	for _, ln := range lines {
		if s := b[ln[0]] + b[ln[1]] + b[ln[2]]; s == 3*X || s == 3*O {
			return ln, true
		}
	}
	return [3]int{}, false
}
