package scrub

// Action is an abstract input event. Device bindings live in the UI layer.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionCancel
	ActionConfirm
	ActionLeft
	ActionRight
	ActionUp
	ActionDown
)

var actionNames = [...]string{
	ActionNone:    "none",
	ActionQuit:    "quit",
	ActionCancel:  "cancel",
	ActionConfirm: "confirm",
	ActionLeft:    "left",
	ActionRight:   "right",
	ActionUp:      "up",
	ActionDown:    "down",
}

// String returns the action name.
func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// Direction returns the direction for directional actions.
func (a Action) Direction() (Direction, bool) {
	switch a {
	case ActionLeft:
		return Left, true
	case ActionRight:
		return Right, true
	case ActionUp:
		return Up, true
	case ActionDown:
		return Down, true
	default:
		return 0, false
	}
}
