package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daystram/reversi/board"
)

func TestWeightedSquares(t *testing.T) {
	t.Parallel()
	ws, err := NewWeightedSquares(4, DefaultSquareWeights(4))
	require.NoError(t, err)

	tests := []struct {
		name     string
		notation string
		want     int
	}{
		{name: "initial", notation: "..../.OX./.XO./.... x", want: 0},
		{name: "own corner", notation: "X.../.OX./.XO./.... x", want: weightCorner},
		{name: "opponent corner", notation: "X.../.OX./.XO./.... o", want: -weightCorner},
		{name: "edge next to corner", notation: ".X../.XX./.XO./.... x", want: weightCSquare + 3*weightInterior - weightInterior},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ws.Evaluate(mustBoard(tt.notation))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err = ws.Evaluate(mustBoard("....../....../..OX../..XO../....../...... x"))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDefaultSquareWeightsSymmetric(t *testing.T) {
	t.Parallel()
	for _, dim := range []int{4, 6, 8} {
		weights := DefaultSquareWeights(dim)
		require.Len(t, weights, dim*dim)
		for y := 0; y < dim; y++ {
			for x := 0; x < dim; x++ {
				w := weights[y*dim+x]
				require.Equal(t, w, weights[x*dim+y])
				require.Equal(t, w, weights[y*dim+(dim-1-x)])
				require.Equal(t, w, weights[(dim-1-y)*dim+x])
			}
		}
		require.Equal(t, float64(weightCorner), weights[0])
	}
}

func TestNewWeightedSquaresInvalid(t *testing.T) {
	t.Parallel()
	_, err := NewWeightedSquares(6, DefaultSquareWeights(4))
	require.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewWeightedSquares(5, make([]float64, 25))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestEvaluatorsFor(t *testing.T) {
	t.Parallel()
	var none Evaluators
	require.Nil(t, none.For(10))

	es := Evaluators{10: DiskDifference}
	require.NotNil(t, es.For(10))
	require.Nil(t, es.For(11))

	b := mustBoard("X.../.OX./.XO./.... x")
	v, err := es.For(10).Evaluate(b)
	require.NoError(t, err)
	require.Equal(t, b.ScoreDifference(), v)
}

func TestClampScore(t *testing.T) {
	t.Parallel()
	require.Equal(t, int8(ScoreBound), clampScore(500))
	require.Equal(t, int8(-ScoreBound), clampScore(-500))
	require.Equal(t, int8(-12), clampScore(-12))
}

func TestOutcome(t *testing.T) {
	t.Parallel()
	require.Equal(t, OutcomeOpponentWins, OutcomeMoverWins.Flip())
	require.Equal(t, OutcomeMoverWins, OutcomeOpponentWins.Flip())
	require.Equal(t, OutcomeDraw, OutcomeDraw.Flip())
	require.Equal(t, outcomeAbandoned, outcomeAbandoned.Flip())
	require.False(t, outcomeAbandoned.IsResolved())
	require.False(t, OutcomeUnknown.IsResolved())

	require.Equal(t, board.SideLight, OutcomeMoverWins.Winner(board.SideLight))
	require.Equal(t, board.SideDark, OutcomeOpponentWins.Winner(board.SideLight))
	require.Equal(t, board.SideEmpty, OutcomeDraw.Winner(board.SideDark))
}
