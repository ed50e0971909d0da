package engine

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/floats"
)

// Progress is a point-in-time view of the search counters. Slices are indexed by level.
type Progress struct {
	RunID        uuid.UUID
	States       uint64
	Resolved     []uint64
	Hits         []uint64
	Branching    []uint64
	ExactFloor   int
	ExactEntries int64
	Elapsed      time.Duration
	Final        bool
}

// TotalResolved is the number of positions whose outcome was established, cache hits excluded.
func (p Progress) TotalResolved() uint64 {
	return lo.Sum(p.Resolved)
}

func (p Progress) TotalHits() uint64 {
	return lo.Sum(p.Hits)
}

// MinLevelReached is the shallowest level with a resolved position, or 0 if none.
func (p Progress) MinLevelReached() int {
	_, level, ok := lo.FindIndexOf(p.Resolved, func(n uint64) bool { return n > 0 })
	if !ok {
		return 0
	}
	return level
}

// BranchingFactors divides the resolved count of each level by that of the level above it.
func (p Progress) BranchingFactors() []float64 {
	bfs := make([]float64, len(p.Resolved))
	for level := 1; level < len(p.Resolved); level++ {
		if p.Resolved[level-1] > 0 {
			bfs[level] = float64(p.Resolved[level]) / float64(p.Resolved[level-1])
		}
	}
	return bfs
}

// Acceleration estimates how many positions memoization and symmetry spared, as the product over levels
// of (resolved+hits)/resolved.
func (p Progress) Acceleration() float64 {
	ratios := lo.FilterMap(p.Resolved, func(n uint64, level int) (float64, bool) {
		if n == 0 || level >= len(p.Hits) {
			return 0, false
		}
		return float64(n+p.Hits[level]) / float64(n), true
	})
	if len(ratios) == 0 {
		return 1
	}
	return floats.Prod(ratios)
}

// ProgressSink receives counters while a search runs. Reports may arrive from several goroutines.
type ProgressSink interface {
	Report(p Progress)
}

type ProgressSinkFunc func(p Progress)

func (f ProgressSinkFunc) Report(p Progress) {
	f(p)
}

type NopSink struct{}

func (NopSink) Report(Progress) {}

// LogSink writes reports through a zerolog logger.
type LogSink struct {
	logger  zerolog.Logger
	printer *message.Printer
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{
		logger:  logger,
		printer: message.NewPrinter(language.English),
	}
}

func (s *LogSink) Report(p Progress) {
	event := s.logger.Info()
	if !p.Final {
		event = s.logger.Debug()
	}
	event.
		Str("run", p.RunID.String()).
		Str("states", s.printer.Sprintf("%d", p.States)).
		Str("resolved", s.printer.Sprintf("%d", p.TotalResolved())).
		Str("reused", s.printer.Sprintf("%d", p.TotalHits())).
		Int("min_level", p.MinLevelReached()).
		Int("exact_floor", p.ExactFloor).
		Str("exact_entries", s.printer.Sprintf("%d", p.ExactEntries)).
		Float64("acceleration", p.Acceleration()).
		Str("branching", formatLevels(p.Branching)).
		Dur("elapsed", p.Elapsed).
		Msg("progress")
}

func formatLevels(counts []uint64) string {
	parts := lo.FilterMap(counts, func(n uint64, level int) (string, bool) {
		return fmt.Sprintf("%d:%d", level, n), n > 0
	})
	return strings.Join(parts, " ")
}

// collector owns the counters of one Solve call.
type collector struct {
	runID     uuid.UUID
	interval  uint64
	trackTill int
	start     time.Time
	sink      ProgressSink
	store     *Store

	states    atomic.Uint64
	resolved  []atomic.Uint64
	branching []atomic.Uint64
	reportMu  sync.Mutex
}

func newCollector(runID uuid.UUID, area int, interval uint64, trackTill int, sink ProgressSink, store *Store) *collector {
	return &collector{
		runID:     runID,
		interval:  interval,
		trackTill: trackTill,
		start:     time.Now(),
		sink:      sink,
		store:     store,
		resolved:  make([]atomic.Uint64, area+1),
		branching: make([]atomic.Uint64, area+1),
	}
}

// expanded counts a position whose children are about to be searched. Branching factors are only
// tracked on the single-goroutine part of the tree.
func (c *collector) expanded(level, moves int) {
	if level < c.trackTill {
		c.branching[level].Store(uint64(moves))
	}
	if n := c.states.Add(1); n%c.interval == 0 {
		c.report(false)
	}
}

// searched marks one more child of a tracked level as done.
func (c *collector) searched(level int) {
	if level < c.trackTill {
		c.branching[level].Add(^uint64(0))
	}
}

func (c *collector) resolvedAt(level int) {
	c.resolved[level].Add(1)
}

func (c *collector) report(final bool) {
	c.reportMu.Lock()
	defer c.reportMu.Unlock()
	c.sink.Report(c.snapshot(final))
}

func (c *collector) snapshot(final bool) Progress {
	area := len(c.resolved) - 1
	p := Progress{
		RunID:        c.runID,
		States:       c.states.Load(),
		Resolved:     make([]uint64, area+1),
		Hits:         make([]uint64, area+1),
		Branching:    make([]uint64, area+1),
		ExactFloor:   c.store.ExactFloor(),
		ExactEntries: c.store.ExactCount(),
		Elapsed:      time.Since(c.start),
		Final:        final,
	}
	for level := 0; level <= area; level++ {
		p.Resolved[level] = c.resolved[level].Load()
		p.Hits[level] = c.store.ExactHits(level)
		p.Branching[level] = c.branching[level].Load()
	}
	return p
}
