package engine

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/daystram/reversi/board"
)

var ErrTaskFailed = errors.New("search task failed")

// signals is shared by the tasks of a single fan-out. Outcomes are recorded from the perspective of the
// side to move at the fan-out node.
type signals struct {
	winFound  atomic.Bool
	drawFound atomic.Bool
	abandon   atomic.Bool // a task gave up before resolving its child
	halt      atomic.Bool // a task failed
}

// abandoned reports whether searches under this fan-out should stop. A nil receiver never stops.
func (s *signals) abandoned() bool {
	if s == nil {
		return false
	}
	return s.winFound.Load() || s.halt.Load()
}

func (s *signals) record(o Outcome) {
	switch o {
	case OutcomeMoverWins:
		s.winFound.Store(true)
	case OutcomeDraw:
		s.drawFound.Store(true)
	case outcomeAbandoned:
		s.abandon.Store(true)
	}
}

// consume aggregates the recorded outcomes by priority (win, then unresolved, then draw) and clears
// every flag.
func (s *signals) consume() Outcome {
	defer s.reset()
	switch {
	case s.winFound.Load():
		return OutcomeMoverWins
	case s.abandon.Load():
		return outcomeAbandoned
	case s.drawFound.Load():
		return OutcomeDraw
	default:
		return OutcomeOpponentWins
	}
}

func (s *signals) reset() {
	s.winFound.Store(false)
	s.drawFound.Store(false)
	s.abandon.Store(false)
	s.halt.Store(false)
}

// searchTask resolves child and returns its outcome for the side to move at the fan-out node.
type searchTask func(child *board.Board, sig *signals) (Outcome, error)

// fanOut runs one task per child and waits for all of them. A task that proves a win makes its siblings
// wind down at their next recursion. A task error or panic fails the whole fan-out.
func fanOut(children []*board.Board, logger zerolog.Logger, task searchTask) (Outcome, error) {
	sig := &signals{}
	logger.Debug().Int("tasks", len(children)).Msg("fan-out-started")

	g := errgroup.Group{}
	for i, child := range children {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: task %d panicked: %v", ErrTaskFailed, i, r)
				} else if err != nil && !errors.Is(err, ErrTaskFailed) {
					err = fmt.Errorf("%w: task %d: %w", ErrTaskFailed, i, err)
				}
				if err != nil {
					sig.halt.Store(true)
					logger.Error().Err(err).Int("task", i).Msg("fan-out-task-failed")
				}
			}()
			o, err := task(child, sig)
			if err != nil {
				return err
			}
			sig.record(o)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		sig.reset()
		return OutcomeUnknown, err
	}

	o := sig.consume()
	logger.Debug().Int("tasks", len(children)).Str("outcome", o.String()).Msg("fan-out-finished")
	return o, nil
}
