package board

// Side is the state of a single cell, and doubles as the identity of a player. The ordinal values are
// the base-3 digits used by Fingerprint.
type Side uint8

const (
	SideEmpty Side = iota
	SideDark
	SideLight
)

// SideFirst is the side to move in the initial position.
const SideFirst = SideDark

func (s Side) String() string {
	switch s {
	case SideDark:
		return "Dark"
	case SideLight:
		return "Light"
	case SideEmpty:
		return "Empty"
	default:
		return ""
	}
}

func (s Side) Opposite() Side {
	switch s {
	case SideDark:
		return SideLight
	case SideLight:
		return SideDark
	default:
		return SideEmpty
	}
}

func (s Side) Symbol() rune {
	switch s {
	case SideDark:
		return 'X'
	case SideLight:
		return 'O'
	default:
		return '.'
	}
}
