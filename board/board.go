package board

import (
	"errors"
	"fmt"
	"iter"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/daystram/reversi/position"
)

var (
	ErrInvalidDimension = errors.New("invalid board dimension")

	colorDark  = color.New(color.BgGreen, color.FgBlack, color.Bold)
	colorLight = color.New(color.BgGreen, color.FgHiWhite, color.Bold)
	colorEmpty = color.New(color.BgGreen, color.FgGreen)
	colorLabel = color.New(color.Bold)
)

// Board is an immutable game position. Applying a move always yields a new Board.
type Board struct {
	dim   position.Pos
	sides [3]bitmap // indexed by Side, SideEmpty unused
	turn  Side

	fpOnce sync.Once
	fp     Fingerprint
}

type boardConfig struct {
	dim         position.Pos
	notation    string
	hasNotation bool
}

type BoardOption func(*boardConfig)

func WithDimension(dim int) BoardOption {
	return func(cfg *boardConfig) {
		cfg.dim = position.Pos(dim)
	}
}

func WithNotation(notation string) BoardOption {
	return func(cfg *boardConfig) {
		cfg.notation = notation
		cfg.hasNotation = true
	}
}

// NewBoard returns the initial position of the requested dimension, or the position described by
// WithNotation when given.
func NewBoard(opts ...BoardOption) (*Board, error) {
	cfg := &boardConfig{
		dim: MaxDimension,
	}
	for _, f := range opts {
		f(cfg)
	}
	if cfg.hasNotation {
		b := &Board{}
		if err := UnmarshalNotation(cfg.notation, b); err != nil {
			return nil, err
		}
		return b, nil
	}
	if err := ValidateDimension(int(cfg.dim)); err != nil {
		return nil, err
	}

	b := &Board{
		dim:  cfg.dim,
		turn: SideFirst,
	}
	hi := cfg.dim / 2
	lo := hi - 1
	b.sides[SideLight].Set(position.NewPos(lo, lo))
	b.sides[SideLight].Set(position.NewPos(hi, hi))
	b.sides[SideDark].Set(position.NewPos(hi, lo))
	b.sides[SideDark].Set(position.NewPos(lo, hi))
	return b, nil
}

func ValidateDimension(dim int) error {
	if dim < MinDimension || dim > int(MaxDimension) || dim%2 != 0 {
		return fmt.Errorf("%w: %d (must be even, between %d and %d)", ErrInvalidDimension, dim, MinDimension, MaxDimension)
	}
	return nil
}

func (b *Board) Dimension() int {
	return int(b.dim)
}

// Area is the number of cells on the board.
func (b *Board) Area() int {
	return int(b.dim) * int(b.dim)
}

func (b *Board) Turn() Side {
	return b.turn
}

// Level is the number of disks on the board.
func (b *Board) Level() int {
	return int((b.sides[SideDark] | b.sides[SideLight]).BitCount())
}

func (b *Board) Count(s Side) int {
	switch s {
	case SideDark, SideLight:
		return int(b.sides[s].BitCount())
	default:
		return b.Area() - b.Level()
	}
}

func (b *Board) At(pos position.Pos) Side {
	switch {
	case b.sides[SideDark].Has(pos):
		return SideDark
	case b.sides[SideLight].Has(pos):
		return SideLight
	default:
		return SideEmpty
	}
}

func (b *Board) IsFull() bool {
	return b.Level() == b.Area()
}

// ScoreDifference is the disk count of the side to move minus the opponent's.
func (b *Board) ScoreDifference() int {
	return b.Count(b.turn) - b.Count(b.turn.Opposite())
}

// Winner returns the side holding the majority of disks, or SideEmpty on a tie.
func (b *Board) Winner() Side {
	dark, light := b.Count(SideDark), b.Count(SideLight)
	switch {
	case dark > light:
		return SideDark
	case light > dark:
		return SideLight
	default:
		return SideEmpty
	}
}

func (b *Board) State() State {
	if b.IsFull() {
		return StateFinished
	}
	if b.movesBitmap(b.turn) != 0 {
		return StateRunning
	}
	if b.movesBitmap(b.turn.Opposite()) != 0 {
		return StatePass
	}
	return StateFinished
}

func (b *Board) HasMoves() bool {
	return b.movesBitmap(b.turn) != 0
}

// movesBitmap floods each direction from the side's disks through runs of opponent disks and keeps the
// empty cells the runs end on.
func (b *Board) movesBitmap(s Side) bitmap {
	own, opp := b.sides[s], b.sides[s.Opposite()]
	empty := maskBoard[b.dim] &^ (own | opp)
	var mvs bitmap
	for _, dir := range directions {
		run := dir.shift(own) & opp
		for i := 0; i < int(MaxDimension)-3; i++ {
			run |= dir.shift(run) & opp
		}
		mvs |= dir.shift(run) & empty
	}
	return mvs
}

// captures returns the opponent disks flipped by placing at pos, and the directions they lie in.
func (b *Board) captures(pos position.Pos) (bitmap, Direction) {
	own, opp := b.sides[b.turn], b.sides[b.turn.Opposite()]
	cell := maskCell[pos]
	var flips bitmap
	var dirs Direction
	for _, dir := range directions {
		var run bitmap
		next := dir.shift(cell) & maskBoard[b.dim]
		for next&opp != 0 {
			run |= next
			next = dir.shift(next) & maskBoard[b.dim]
		}
		if run != 0 && next&own != 0 {
			flips |= run
			dirs |= dir.d
		}
	}
	return flips, dirs
}

// LegalMoves yields every legal move of the side to move together with the resulting position, in
// ascending position order. The sequence is lazy and may be ranged over any number of times.
func (b *Board) LegalMoves() iter.Seq2[Move, *Board] {
	return func(yield func(Move, *Board) bool) {
		for mvs := b.movesBitmap(b.turn); mvs != 0; mvs &= mvs - 1 {
			pos := mvs.LS1B()
			flips, dirs := b.captures(pos)
			mv := Move{
				Pos:        pos,
				IsSide:     b.turn,
				Directions: dirs,
				Flips:      flips.BitCount(),
			}
			if !yield(mv, b.apply(pos, flips)) {
				return
			}
		}
	}
}

// Moves collects LegalMoves without the resulting positions.
func (b *Board) Moves() []Move {
	var mvs []Move
	for mv := range b.LegalMoves() {
		mvs = append(mvs, mv)
	}
	return mvs
}

// Children collects the positions reachable in one move. When sorted, children are ordered by
// descending disk differential from the child's side to move, so moves flipping the fewest disks come
// first.
func (b *Board) Children(sorted bool) []*Board {
	var children []*Board
	for _, child := range b.LegalMoves() {
		children = append(children, child)
	}
	if sorted {
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].ScoreDifference() > children[j].ScoreDifference()
		})
	}
	return children
}

// Apply plays mv and returns the resulting position. Illegal moves return ok=false.
func (b *Board) Apply(mv Move) (*Board, bool) {
	if mv.IsPass {
		if b.HasMoves() {
			return nil, false
		}
		return b.Pass(), true
	}
	if !mv.Pos.Within(b.dim) || b.movesBitmap(b.turn)&maskCell[mv.Pos] == 0 {
		return nil, false
	}
	flips, _ := b.captures(mv.Pos)
	return b.apply(mv.Pos, flips), true
}

func (b *Board) apply(pos position.Pos, flips bitmap) *Board {
	bb := &Board{
		dim:   b.dim,
		sides: b.sides,
		turn:  b.turn.Opposite(),
	}
	bb.sides[b.turn] |= flips | maskCell[pos]
	bb.sides[b.turn.Opposite()] &^= flips
	return bb
}

// Pass returns a copy of the position with the side to move switched.
func (b *Board) Pass() *Board {
	return &Board{
		dim:   b.dim,
		sides: b.sides,
		turn:  b.turn.Opposite(),
	}
}

func (b *Board) Clone() *Board {
	return &Board{
		dim:   b.dim,
		sides: b.sides,
		turn:  b.turn,
	}
}

func (b *Board) Dump() string {
	builder := strings.Builder{}
	border := "   +" + strings.Repeat("---+", int(b.dim)) + "\n"
	for y := position.Pos(0); y < b.dim; y++ {
		_, _ = builder.WriteString(border)
		_, _ = builder.WriteString(fmt.Sprintf(" %d |", y+1))
		for x := position.Pos(0); x < b.dim; x++ {
			sym := b.At(position.NewPos(x, y)).Symbol()
			if sym == '.' {
				sym = ' '
			}
			_, _ = builder.WriteString(fmt.Sprintf(" %c |", sym))
		}
		_, _ = builder.WriteString("\n")
	}
	_, _ = builder.WriteString(border + "   ")
	for x := position.Pos(0); x < b.dim; x++ {
		_, _ = builder.WriteString(fmt.Sprintf("  %s ", x.NotationComponentX()))
	}
	return builder.String()
}

func (b *Board) Draw() string {
	builder := strings.Builder{}
	hints := b.movesBitmap(b.turn)
	for y := position.Pos(0); y < b.dim; y++ {
		_, _ = builder.WriteString(colorLabel.Sprintf(" %d ", y+1))
		for x := position.Pos(0); x < b.dim; x++ {
			pos := position.NewPos(x, y)
			switch b.At(pos) {
			case SideDark:
				_, _ = builder.WriteString(colorDark.Sprint(" ● "))
			case SideLight:
				_, _ = builder.WriteString(colorLight.Sprint(" ● "))
			default:
				if hints.Has(pos) {
					_, _ = builder.WriteString(colorEmpty.Sprint(" · "))
				} else {
					_, _ = builder.WriteString(colorEmpty.Sprint("   "))
				}
			}
		}
		_, _ = builder.WriteString("\n")
	}
	_, _ = builder.WriteString("   ")
	for x := position.Pos(0); x < b.dim; x++ {
		_, _ = builder.WriteString(colorLabel.Sprintf(" %s ", x.NotationComponentX()))
	}
	return builder.String()
}

func (b *Board) DebugString() string {
	return fmt.Sprintf("turn: %s\ndark: %4d\nlite: %4d\nlevl: %4d\nstat: %s\nfing: %s",
		b.turn, b.Count(SideDark), b.Count(SideLight), b.Level(), b.State(), b.Fingerprint())
}
