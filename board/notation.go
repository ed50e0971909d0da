package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/daystram/reversi/position"
)

var ErrInvalidNotation = errors.New("invalid board notation")

// Notation lists the rows top to bottom separated by '/', one symbol per cell ('X' dark, 'O' light,
// '.' empty), followed by the side to move ('x' or 'o'). The initial 4x4 board is "..../.OX./.XO./.... x".
func (b *Board) Notation() string {
	builder := strings.Builder{}
	for y := position.Pos(0); y < b.dim; y++ {
		if y > 0 {
			_ = builder.WriteByte('/')
		}
		for x := position.Pos(0); x < b.dim; x++ {
			_, _ = builder.WriteRune(b.At(position.NewPos(x, y)).Symbol())
		}
	}
	_ = builder.WriteByte(' ')
	_, _ = builder.WriteString(strings.ToLower(string(b.turn.Symbol())))
	return builder.String()
}

func UnmarshalNotation(notation string, b *Board) error {
	parts := strings.Fields(notation)
	if len(parts) != 2 {
		return fmt.Errorf("%w: expected rows and side to move", ErrInvalidNotation)
	}

	rows := strings.Split(parts[0], "/")
	dim := len(rows)
	if err := ValidateDimension(dim); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidNotation, err)
	}
	var sides [3]bitmap
	for y, row := range rows {
		if len(row) != dim {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidNotation, y+1, len(row), dim)
		}
		for x, c := range row {
			pos := position.NewPos(position.Pos(x), position.Pos(y))
			switch c {
			case 'X', 'x':
				sides[SideDark].Set(pos)
			case 'O', 'o':
				sides[SideLight].Set(pos)
			case '.', '-':
			default:
				return fmt.Errorf("%w: unknown cell symbol %q", ErrInvalidNotation, c)
			}
		}
	}

	var turn Side
	switch parts[1] {
	case "x", "X":
		turn = SideDark
	case "o", "O":
		turn = SideLight
	default:
		return fmt.Errorf("%w: unknown side to move %q", ErrInvalidNotation, parts[1])
	}

	b.dim = position.Pos(dim)
	b.sides = sides
	b.turn = turn
	return nil
}
