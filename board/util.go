package board

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/daystram/reversi/position"
)

// bitmap uses one bit per position.Pos, so boards smaller than the full grid occupy the top-left
// corner and every result must be masked with the board mask of its dimension.
type bitmap uint64

func ShiftN(bm bitmap) bitmap {
	return bm >> 8
}

func ShiftNE(bm bitmap) bitmap {
	return (bm >> 7) &^ maskCol[0]
}

func ShiftE(bm bitmap) bitmap {
	return (bm << 1) &^ maskCol[0]
}

func ShiftSE(bm bitmap) bitmap {
	return (bm << 9) &^ maskCol[0]
}

func ShiftS(bm bitmap) bitmap {
	return bm << 8
}

func ShiftSW(bm bitmap) bitmap {
	return (bm << 7) &^ maskCol[position.MaxComponentScalar-1]
}

func ShiftW(bm bitmap) bitmap {
	return (bm >> 1) &^ maskCol[position.MaxComponentScalar-1]
}

func ShiftNW(bm bitmap) bitmap {
	return (bm >> 9) &^ maskCol[position.MaxComponentScalar-1]
}

func Union(bms ...bitmap) bitmap {
	var u bitmap
	for _, bm := range bms {
		u |= bm
	}
	return u
}

func (bm *bitmap) Set(pos position.Pos) {
	*bm |= maskCell[pos]
}

func (bm *bitmap) Unset(pos position.Pos) {
	*bm &^= maskCell[pos]
}

func (bm bitmap) Has(pos position.Pos) bool {
	return bm&maskCell[pos] != 0
}

func (bm bitmap) LS1B() position.Pos {
	return position.Pos(bits.TrailingZeros64(uint64(bm)))
}

func (bm bitmap) BitCount() uint8 {
	return uint8(bits.OnesCount64(uint64(bm)))
}

func (bm bitmap) Dump(dim position.Pos, sym ...rune) string {
	builder := strings.Builder{}
	for y := position.Pos(0); y < dim; y++ {
		_, _ = builder.WriteString(fmt.Sprintf(" %d |", y+1))
		for x := position.Pos(0); x < dim; x++ {
			if bm.Has(position.NewPos(x, y)) {
				s := "#"
				if len(sym) == 1 {
					s = string(sym[0])
				}
				_, _ = builder.WriteString(fmt.Sprintf(" %s ", s))
			} else {
				_, _ = builder.WriteString(" . ")
			}
		}
		_, _ = builder.WriteString("\n")
	}
	_, _ = builder.WriteString("    " + strings.Repeat("---", int(dim)) + "\n    ")
	for x := position.Pos(0); x < dim; x++ {
		_, _ = builder.WriteString(fmt.Sprintf(" %s ", x.NotationComponentX()))
	}
	return builder.String()
}
