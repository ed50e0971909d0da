package engine

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/daystram/reversi/board"
)

// Ranked is a child position with the score its parent's mover expects from playing into it.
type Ranked struct {
	Board *board.Board
	Score int8
}

// orderer runs a bounded negamax below a single node to rank its children. It never proves an outcome.
type orderer struct {
	store     *Store
	evaluator Evaluator
	cutoff    int // leaves are evaluated at this level
	retainTil int // heuristic table used for nodes at or above this level
	logger    zerolog.Logger
}

// order ranks the children of b by descending score. The second result is b's score. b must have at
// least one legal move. Children cut off by pruning keep the partial score that ruled them out.
func (o *orderer) order(b *board.Board) ([]Ranked, int8) {
	var ranked []Ranked
	var best int8
	scored := false
	for _, child := range b.Children(true) {
		var bound *int8
		if scored {
			bound = &best
		}
		score := -o.childScore(b.Level(), child, bound)
		if !scored || score > best {
			best, scored = score, true
		}
		ranked = append(ranked, Ranked{Board: child, Score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, best
}

// childScore returns the score of child from its own mover's perspective, consulting and filling the
// heuristic table when the parent lies within the retention window.
func (o *orderer) childScore(parentLevel int, child *board.Board, bound *int8) int8 {
	retained := parentLevel <= o.retainTil
	if retained {
		if score, ok := o.store.LookupHeuristic(child.Level(), child.Fingerprint()); ok {
			return score
		}
	}
	score, complete := o.search(child, 0, bound)
	if retained && complete {
		o.store.InsertHeuristic(child.Level(), child.Fingerprint(), score)
	}
	return score
}

// search returns the negamax score of b for its side to move. When bound is set it is the best score the
// parent has so far, and the search stops as soon as b can no longer be worse for the parent than that;
// complete is false in that case.
func (o *orderer) search(b *board.Board, passes int, bound *int8) (score int8, complete bool) {
	if passes == 2 {
		return o.unscored(b), true
	}
	if b.Level() >= o.cutoff {
		if v, ok := o.evaluate(b); ok {
			return v, true
		}
		return o.unscored(b), true
	}
	if !b.HasMoves() {
		v, _ := o.search(b.Pass(), passes+1, nil)
		return -v, true
	}

	var best int8
	scored := false
	for _, child := range b.Children(true) {
		var childBound *int8
		if scored {
			childBound = &best
		}
		v := -o.childScore(b.Level(), child, childBound)
		if !scored || v > best {
			best, scored = v, true
		}
		if bound != nil && -best <= *bound {
			return best, false
		}
	}
	return best, true
}

// evaluate calls the evaluator, treating errors and panics as "no score".
func (o *orderer) evaluate(b *board.Board) (score int8, ok bool) {
	if o.evaluator == nil {
		return 0, false
	}
	defer func() {
		if r := recover(); r != nil {
			o.logger.Debug().Interface("panic", r).Str("board", b.Notation()).Msg("evaluator-panicked")
			score, ok = 0, false
		}
	}()
	v, err := o.evaluator.Evaluate(b)
	if err != nil {
		o.logger.Debug().Err(err).Str("board", b.Notation()).Msg("evaluator-failed")
		return 0, false
	}
	return clampScore(v), true
}

// unscored is the fallback value of a position without an evaluation.
func (o *orderer) unscored(b *board.Board) int8 {
	return clampScore(b.ScoreDifference())
}
