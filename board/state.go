package board

type State uint8

const (
	// StateUnknown is when game state is unknown.
	StateUnknown State = iota

	// StateRunning is when the side to move has at least one legal move.
	StateRunning

	// StatePass is when the side to move has no legal move but the opponent does.
	StatePass

	// StateFinished is when the board is full or neither side can move.
	StateFinished
)

func (s State) IsRunning() bool {
	return s == StateRunning || s == StatePass
}

func (s State) IsFinished() bool {
	return s == StateFinished
}

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "StateUnknown"
	case StateRunning:
		return "StateRunning"
	case StatePass:
		return "StatePass"
	case StateFinished:
		return "StateFinished"
	default:
		return ""
	}
}
