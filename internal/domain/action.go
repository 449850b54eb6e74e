package domain

import (
	"errors"
	"fmt"
)

// ActionType tags an Action.
type ActionType string

const (
	PlayX   ActionType = "PLAY_X"
	PlayO   ActionType = "PLAY_O"
	Undo    ActionType = "UNDO"
	Redo    ActionType = "REDO"
	Finish  ActionType = "FINISH"
	NewGame ActionType = "NEW_GAME"
)

// ErrUnknownAction is returned by ParseActionType for an unrecognized tag.
var ErrUnknownAction = errors.New("unknown action")

// Action is a dispatched event. Position is used by PLAY_X and PLAY_O,
// Winner by FINISH; other action types ignore both.
type Action struct {
	Type     ActionType
	Position int
	Winner   Cell
}

// Play returns the move action for side at position.
func Play(side Cell, pos int) Action {
	if side == O {
		return Action{Type: PlayO, Position: pos}
	}
	return Action{Type: PlayX, Position: pos}
}

// ParseActionType validates a wire tag such as "PLAY_X".
func ParseActionType(s string) (ActionType, error) {
	switch t := ActionType(s); t {
	case PlayX, PlayO, Undo, Redo, Finish, NewGame:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

func (a Action) String() string {
	switch a.Type {
	case PlayX, PlayO:
		return fmt.Sprintf("%s@%d", a.Type, a.Position)
	case Finish:
		return fmt.Sprintf("%s(%d)", a.Type, a.Winner)
	default:
		return string(a.Type)
	}
}
