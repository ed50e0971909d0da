package board

import "github.com/daystram/reversi/position"

// Move places a disk for IsSide at Pos, capturing along every direction in Directions. A zero
// Directions set with IsPass marks a forced pass.
type Move struct {
	Pos        position.Pos
	IsSide     Side
	Directions Direction
	Flips      uint8
	IsPass     bool
}

func (m Move) String() string {
	if m.IsPass {
		return "pass"
	}
	return m.Pos.Notation()
}

func (m Move) Equals(other Move) bool {
	return m.Pos == other.Pos && m.IsSide == other.IsSide && m.IsPass == other.IsPass
}
