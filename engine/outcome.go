package engine

import "github.com/daystram/reversi/board"

// Outcome is a game-theoretic result relative to the side to move in the position it describes.
type Outcome uint8

const (
	OutcomeUnknown Outcome = iota
	OutcomeMoverWins
	OutcomeOpponentWins
	OutcomeDraw

	// outcomeAbandoned marks a subtree left unresolved after a sibling task proved a win. It never
	// reaches the exact table nor a caller of Solve.
	outcomeAbandoned
)

// Flip returns the same result seen from the other side.
func (o Outcome) Flip() Outcome {
	switch o {
	case OutcomeMoverWins:
		return OutcomeOpponentWins
	case OutcomeOpponentWins:
		return OutcomeMoverWins
	default:
		return o
	}
}

// IsResolved reports whether the outcome is proven.
func (o Outcome) IsResolved() bool {
	return o == OutcomeMoverWins || o == OutcomeOpponentWins || o == OutcomeDraw
}

// Winner maps the outcome onto a side, given the side to move. A draw maps to board.SideEmpty.
func (o Outcome) Winner(mover board.Side) board.Side {
	switch o {
	case OutcomeMoverWins:
		return mover
	case OutcomeOpponentWins:
		return mover.Opposite()
	default:
		return board.SideEmpty
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeMoverWins:
		return "MoverWins"
	case OutcomeOpponentWins:
		return "OpponentWins"
	case OutcomeDraw:
		return "Draw"
	case outcomeAbandoned:
		return "Abandoned"
	default:
		return "Unknown"
	}
}

// terminalOutcome scores a finished game by disk majority.
func terminalOutcome(b *board.Board) Outcome {
	switch diff := b.ScoreDifference(); {
	case diff > 0:
		return OutcomeMoverWins
	case diff < 0:
		return OutcomeOpponentWins
	default:
		return OutcomeDraw
	}
}
