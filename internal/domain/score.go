package domain

// Score tallies finished games. Draws get their own counter.
type Score struct {
	X    int `json:"x"`
	O    int `json:"o"`
	Draw int `json:"draw"`
}

// ReduceScore counts the result carried by a FINISH action. Every other
// action, and a FINISH with an invalid winner, leaves s unchanged.
func ReduceScore(s Score, a Action) (Score, bool) {
	if a.Type != Finish {
		return s, false
	}
	switch a.Winner {
	case X:
		s.X++
	case O:
		s.O++
	case Empty:
		s.Draw++
	default:
		return s, false
	}
	return s, true
}

// Games returns the number of finished games.
func (s Score) Games() int { return s.X + s.O + s.Draw }
