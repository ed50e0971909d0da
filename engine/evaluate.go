package engine

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/daystram/reversi/board"
	"github.com/daystram/reversi/position"
)

const (
	// ScoreBound limits every move-ordering score, positive favoring the side to move.
	ScoreBound = math.MaxInt8

	weightCorner   = 20
	weightXSquare  = -7
	weightCSquare  = -3
	weightEdge     = 2
	weightInterior = 1
)

// Evaluator scores a position from the perspective of its side to move. Errors and panics are treated as
// "no score".
type Evaluator interface {
	Evaluate(b *board.Board) (int, error)
}

type EvaluatorFunc func(b *board.Board) (int, error)

func (f EvaluatorFunc) Evaluate(b *board.Board) (int, error) {
	return f(b)
}

// Evaluators selects the evaluator used for leaves at a given level. A missing level leaves those leaves
// unscored.
type Evaluators map[int]Evaluator

func (es Evaluators) For(level int) Evaluator {
	if es == nil {
		return nil
	}
	return es[level]
}

// DiskDifference scores a position by its disk differential.
var DiskDifference = EvaluatorFunc(func(b *board.Board) (int, error) {
	return b.ScoreDifference(), nil
})

// WeightedSquares scores a position by summing per-cell weights, counting the mover's disks positively
// and the opponent's negatively.
type WeightedSquares struct {
	dim     int
	weights []float64
}

func NewWeightedSquares(dim int, weights []float64) (*WeightedSquares, error) {
	if err := board.ValidateDimension(dim); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if len(weights) != dim*dim {
		return nil, fmt.Errorf("%w: %d square weights for a %dx%d board", ErrInvalidConfig, len(weights), dim, dim)
	}
	return &WeightedSquares{
		dim:     dim,
		weights: weights,
	}, nil
}

// DefaultSquareWeights favors corners and edges, and penalizes the cells that give corners away.
func DefaultSquareWeights(dim int) []float64 {
	weights := make([]float64, dim*dim)
	last := dim - 1
	isEdge := func(v int) bool { return v == 0 || v == last }
	isNearEdge := func(v int) bool { return v == 1 || v == last-1 }
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			var w float64
			switch {
			case isEdge(x) && isEdge(y):
				w = weightCorner
			case isNearEdge(x) && isNearEdge(y) && dim > 4:
				w = weightXSquare
			case (isEdge(x) && isNearEdge(y)) || (isNearEdge(x) && isEdge(y)):
				w = weightCSquare
			case isEdge(x) || isEdge(y):
				w = weightEdge
			default:
				w = weightInterior
			}
			weights[y*dim+x] = w
		}
	}
	return weights
}

func (ws *WeightedSquares) Evaluate(b *board.Board) (int, error) {
	if b.Dimension() != ws.dim {
		return 0, fmt.Errorf("%w: evaluator built for %dx%d, got %dx%d", ErrInvalidConfig, ws.dim, ws.dim, b.Dimension(), b.Dimension())
	}
	features := make([]float64, len(ws.weights))
	mover := b.Turn()
	for y := 0; y < ws.dim; y++ {
		for x := 0; x < ws.dim; x++ {
			switch b.At(position.NewPos(position.Pos(x), position.Pos(y))) {
			case mover:
				features[y*ws.dim+x] = 1
			case mover.Opposite():
				features[y*ws.dim+x] = -1
			}
		}
	}
	return int(math.Round(floats.Dot(ws.weights, features))), nil
}

func clampScore(v int) int8 {
	return int8(clamp(v, -ScoreBound, ScoreBound))
}
