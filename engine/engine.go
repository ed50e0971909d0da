package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/daystram/reversi/board"
)

type EngineConfig struct {
	Search SearchConfig
	// Evaluators scores the move orderer's leaves, keyed by the level the leaves lie at.
	Evaluators Evaluators
	Sink       ProgressSink
	Logger     *zerolog.Logger
	// Store lets several engines share, or pre-load, one transposition store. It must have been built
	// for the same board dimension.
	Store *Store
}

// Engine proves the outcome of a position under optimal play.
type Engine struct {
	cfg        SearchConfig
	lookahead  lookaheadTable
	store      *Store
	evaluators Evaluators
	sink       ProgressSink
	logger     zerolog.Logger
}

func NewEngine(cfg *EngineConfig) (*Engine, error) {
	if err := cfg.Search.Validate(); err != nil {
		return nil, err
	}
	search := cfg.Search.withDefaults()

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	sink := cfg.Sink
	if sink == nil {
		sink = NopSink{}
	}

	store := cfg.Store
	if store == nil {
		evictionLimit := search.Area()
		if search.MultithreadingDepth > 0 {
			evictionLimit = search.MultithreadingDepth
		}
		store = NewStore(search.BoardDimension, search.ExactTableCapacity, search.InitialExactFloor,
			WithEvictionLimit(evictionLimit),
			WithStoreLogger(logger),
		)
	} else if store.dim != search.BoardDimension {
		return nil, fmt.Errorf("%w: store built for dimension %d, search uses %d", ErrInvalidConfig, store.dim, search.BoardDimension)
	}

	return &Engine{
		cfg:        search,
		lookahead:  newLookaheadTable(search.MinimaxLookahead, search.Area()),
		store:      store,
		evaluators: cfg.Evaluators,
		sink:       sink,
		logger:     logger,
	}, nil
}

func (e *Engine) Config() SearchConfig {
	return e.cfg
}

func (e *Engine) Store() *Store {
	return e.store
}

// Lookahead is the number of plies the move orderer searches ahead at level.
func (e *Engine) Lookahead(level int) int {
	return e.lookahead.At(level)
}

// Solve proves the outcome of b for its side to move. The exact table is kept between calls; the
// returned outcome does not depend on its contents.
func (e *Engine) Solve(ctx context.Context, b *board.Board) (Outcome, error) {
	if b.Dimension() != e.cfg.BoardDimension {
		return OutcomeUnknown, fmt.Errorf("%w: board dimension %d, engine uses %d", ErrInvalidConfig, b.Dimension(), e.cfg.BoardDimension)
	}
	if err := ctx.Err(); err != nil {
		return OutcomeUnknown, err
	}

	runID := uuid.New()
	logger := e.logger.With().Str("run", runID.String()).Logger()
	trackTill := e.cfg.MultithreadingDepth
	if trackTill == 0 {
		trackTill = e.cfg.Area() + 1
	}
	r := &run{
		engine: e,
		logger: logger,
		stats:  newCollector(runID, e.cfg.Area(), e.cfg.StatsReportInterval, trackTill, e.sink, e.store),
	}
	stop := context.AfterFunc(ctx, func() {
		r.canceled.Store(true)
	})
	defer stop()

	logger.Info().
		Int("dimension", e.cfg.BoardDimension).
		Int("level", b.Level()).
		Int("multithreading_depth", e.cfg.MultithreadingDepth).
		Int("capacity", e.cfg.ExactTableCapacity).
		Int("exact_floor", e.store.ExactFloor()).
		Str("lookahead", e.lookahead.String()).
		Msg("solve-started")

	startTime := time.Now()
	o, err := r.exactSearch(b, 0, nil)
	if err != nil {
		logger.Error().Err(err).Msg("solve-failed")
		return OutcomeUnknown, err
	}
	if !o.IsResolved() {
		if err := ctx.Err(); err != nil {
			return OutcomeUnknown, err
		}
		return OutcomeUnknown, fmt.Errorf("%w: search ended unresolved", ErrTaskFailed)
	}

	r.stats.report(true)
	logger.Info().
		Str("outcome", o.String()).
		Str("winner", o.Winner(b.Turn()).String()).
		Str("states", message.NewPrinter(language.English).Sprintf("%d", r.stats.states.Load())).
		Dur("elapsed", time.Since(startTime)).
		Msg("solve-finished")
	return o, nil
}

// Estimate runs the move orderer configured for b's level and returns its score for b's side to move,
// and the children ranked best first. ok is false when no lookahead applies or b has no move.
func (e *Engine) Estimate(b *board.Board) (ranked []Ranked, score int8, ok bool) {
	if !b.HasMoves() || e.lookahead.At(b.Level()) == 0 {
		return nil, 0, false
	}
	ranked, score = e.newOrderer(b.Level(), e.logger).order(b)
	return ranked, score, true
}

func (e *Engine) newOrderer(level int, logger zerolog.Logger) *orderer {
	cutoff := level + e.lookahead.At(level)
	return &orderer{
		store:     e.store,
		evaluator: e.evaluators.For(cutoff),
		cutoff:    cutoff,
		retainTil: level + e.cfg.MinimaxCacheRetentionPlies,
		logger:    logger,
	}
}

// run holds the state of one Solve call.
type run struct {
	engine   *Engine
	logger   zerolog.Logger
	stats    *collector
	canceled atomic.Bool
}

// exactSearch returns the outcome of b for its side to move. passes counts the consecutive passes that
// led to b. sig is set inside a fan-out task.
func (r *run) exactSearch(b *board.Board, passes int, sig *signals) (Outcome, error) {
	if r.canceled.Load() || sig.abandoned() {
		return outcomeAbandoned, nil
	}

	level := b.Level()
	if passes == 2 || b.IsFull() {
		r.stats.resolvedAt(level)
		return terminalOutcome(b), nil
	}
	if o, ok := r.engine.store.LookupExact(level, b.Fingerprint()); ok {
		return o, nil
	}

	if !b.HasMoves() {
		o, err := r.exactSearch(b.Pass(), passes+1, sig)
		if err != nil {
			return OutcomeUnknown, err
		}
		return r.resolve(b, o.Flip(), sig), nil
	}

	children := r.children(b)
	r.stats.expanded(level, len(children))

	if level == r.engine.cfg.MultithreadingDepth && sig == nil {
		o, err := fanOut(children, r.logger, func(child *board.Board, sig *signals) (Outcome, error) {
			o, err := r.exactSearch(child, 0, sig)
			return o.Flip(), err
		})
		if err != nil {
			return OutcomeUnknown, err
		}
		return r.resolve(b, o, sig), nil
	}

	drawSeen := false
	for _, child := range children {
		o, err := r.exactSearch(child, 0, sig)
		if err != nil {
			return OutcomeUnknown, err
		}
		r.stats.searched(level)
		switch o {
		case outcomeAbandoned:
			return outcomeAbandoned, nil
		case OutcomeOpponentWins:
			return r.resolve(b, OutcomeMoverWins, sig), nil
		case OutcomeDraw:
			drawSeen = true
		}
	}
	if drawSeen {
		return r.resolve(b, OutcomeDraw, sig), nil
	}
	return r.resolve(b, OutcomeOpponentWins, sig), nil
}

// children lists the positions reachable from b, ranked by the move orderer where a lookahead applies.
func (r *run) children(b *board.Board) []*board.Board {
	level := b.Level()
	if r.engine.lookahead.At(level) == 0 {
		return b.Children(true)
	}
	ranked, _ := r.engine.newOrderer(level, r.logger).order(b)
	children := make([]*board.Board, len(ranked))
	for i, rk := range ranked {
		children[i] = rk.Board
	}
	return children
}

// resolve records a proven outcome of b before it is returned. The exact table may evict only outside
// fan-out tasks.
func (r *run) resolve(b *board.Board, o Outcome, sig *signals) Outcome {
	if !o.IsResolved() {
		return o
	}
	level := b.Level()
	r.stats.resolvedAt(level)
	r.engine.store.insertExact(level, b.Fingerprint(), o, sig == nil)
	if r.engine.lookahead.widensAt(level) {
		r.engine.store.ResetHeuristic(level, level+r.engine.lookahead.At(level))
	}
	return o
}
