package domain

import "strconv"

// Action is the wire code of a motion primitive. Codes outside the known set are
// carried through unchanged.
type Action int

const (
	ActionStop     Action = 0
	ActionForward  Action = 1
	ActionBackward Action = 2
	ActionLeft     Action = 3
	ActionRight    Action = 4

	// ActionInvalid marks a code that could not be parsed as an integer.
	ActionInvalid Action = -1
)

func (a Action) Known() bool {
	switch a {
	case ActionStop, ActionForward, ActionBackward, ActionLeft, ActionRight:
		return true
	default:
		return false
	}
}

// Opposite maps an action to the one that undoes it. Unknown codes map to themselves.
func (a Action) Opposite() Action {
	switch a {
	case ActionForward:
		return ActionBackward
	case ActionBackward:
		return ActionForward
	case ActionLeft:
		return ActionRight
	case ActionRight:
		return ActionLeft
	default:
		return a
	}
}

// Turn reports whether the action has a fixed duration and ignores magnitude.
func (a Action) Turn() bool {
	return a == ActionLeft || a == ActionRight
}

func (a Action) Linear() bool {
	return a == ActionForward || a == ActionBackward
}

func (a Action) String() string {
	switch a {
	case ActionStop:
		return "STOP"
	case ActionForward:
		return "FORWARD"
	case ActionBackward:
		return "BACKWARD"
	case ActionLeft:
		return "LEFT"
	case ActionRight:
		return "RIGHT"
	case ActionInvalid:
		return "INVALID"
	default:
		return strconv.Itoa(int(a))
	}
}
