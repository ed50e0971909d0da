package board

import (
	"github.com/daystram/reversi/position"
)

const (
	MinDimension = 4
	MaxDimension = position.MaxComponentScalar

	TotalCells = position.TotalCells
)

// Direction is a bit set over the 8 compass directions a capture can run in.
type Direction uint8

const (
	DirectionN Direction = 1 << iota
	DirectionNE
	DirectionE
	DirectionSE
	DirectionS
	DirectionSW
	DirectionW
	DirectionNW
)

var (
	maskCol   [position.MaxComponentScalar]bitmap
	maskRow   [position.MaxComponentScalar]bitmap
	maskCell  [TotalCells]bitmap
	maskBoard [MaxDimension + 1]bitmap

	directions = [8]struct {
		d     Direction
		shift func(bitmap) bitmap
	}{
		{DirectionN, ShiftN},
		{DirectionNE, ShiftNE},
		{DirectionE, ShiftE},
		{DirectionSE, ShiftSE},
		{DirectionS, ShiftS},
		{DirectionSW, ShiftSW},
		{DirectionW, ShiftW},
		{DirectionNW, ShiftNW},
	}

	// scanTransforms[dim][t][i] is the image of the i-th cell in scan order under transform t.
	scanTransforms [MaxDimension + 1][position.TotalTransforms][]position.Pos
)

func init() {
	for pos := position.Pos(0); pos < TotalCells; pos++ {
		maskCell[pos] = bitmap(1) << pos
		maskCol[pos.X()] |= maskCell[pos]
		maskRow[pos.Y()] |= maskCell[pos]
	}
	for dim := position.Pos(MinDimension); dim <= MaxDimension; dim += 2 {
		for pos := position.Pos(0); pos < TotalCells; pos++ {
			if pos.Within(dim) {
				maskBoard[dim] |= maskCell[pos]
			}
		}
		for _, t := range position.AllTransforms {
			scan := make([]position.Pos, 0, dim*dim)
			for y := position.Pos(0); y < dim; y++ {
				for x := position.Pos(0); x < dim; x++ {
					scan = append(scan, t.Apply(position.NewPos(x, y), dim))
				}
			}
			scanTransforms[dim][t] = scan
		}
	}
}

func (d Direction) String() string {
	names := [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	s := ""
	for i, n := range names {
		if d&(1<<i) != 0 {
			if s != "" {
				s += ","
			}
			s += n
		}
	}
	return s
}
