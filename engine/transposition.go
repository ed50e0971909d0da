package engine

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/daystram/reversi/board"
)

// table is a single level of the store. Entries are written once and never replaced.
type table[V any] struct {
	mu      sync.RWMutex
	entries map[board.Fingerprint]V
}

func newTable[V any]() *table[V] {
	return &table[V]{entries: make(map[board.Fingerprint]V)}
}

func (t *table[V]) load(fp board.Fingerprint) (V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.entries[fp]
	return v, ok
}

// loadOrStore returns the existing value for fp if present. Otherwise it stores v and returns it with
// stored=true.
func (t *table[V]) loadOrStore(fp board.Fingerprint, v V) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if actual, ok := t.entries[fp]; ok {
		return actual, false
	}
	t.entries[fp] = v
	return v, true
}

// reset drops every entry and returns how many there were.
func (t *table[V]) reset() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(t.entries)
	t.entries = make(map[board.Fingerprint]V)
	return n
}

func (t *table[V]) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func (t *table[V]) each(fn func(board.Fingerprint, V)) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for fp, v := range t.entries {
		fn(fp, v)
	}
}

// Store memoizes proven outcomes and move-ordering scores per level. Exact entries are kept only for
// levels at or below the exact floor; when the number of exact entries exceeds the capacity, the whole
// level at the floor is dropped and the floor moves one level towards the root.
type Store struct {
	dim           int
	area          int
	capacity      int64
	evictionLimit int

	floor atomic.Int32
	count atomic.Int64
	evict sync.Mutex

	exact     []*table[Outcome]
	heuristic []*table[int8]

	exactHits     []atomic.Uint64
	heuristicHits atomic.Uint64

	logger zerolog.Logger
}

type StoreOption func(*Store)

// WithEvictionLimit restricts eviction triggered by InsertExact to insertions at or below level. Deeper
// levels may be written by concurrent tasks, so the floor only moves while a single goroutine is
// searching.
func WithEvictionLimit(level int) StoreOption {
	return func(s *Store) {
		s.evictionLimit = level
	}
}

func WithStoreLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

func NewStore(dim, capacity, floor int, opts ...StoreOption) *Store {
	area := dim * dim
	s := &Store{
		dim:           dim,
		area:          area,
		capacity:      int64(capacity),
		evictionLimit: area,
		exact:         make([]*table[Outcome], area+1),
		heuristic:     make([]*table[int8], area+1),
		exactHits:     make([]atomic.Uint64, area+1),
		logger:        zerolog.Nop(),
	}
	for _, f := range opts {
		f(s)
	}
	for level := 0; level <= area; level++ {
		s.exact[level] = newTable[Outcome]()
		s.heuristic[level] = newTable[int8]()
	}
	s.floor.Store(int32(min(max(floor, 0), area)))
	return s
}

// ExactFloor is the deepest level whose exact entries are still retained.
func (s *Store) ExactFloor() int {
	return int(s.floor.Load())
}

// ExactCount is the number of exact entries across every retained level.
func (s *Store) ExactCount() int64 {
	return s.count.Load()
}

func (s *Store) ExactLen(level int) int {
	if !s.within(level) {
		return 0
	}
	return s.exact[level].len()
}

func (s *Store) HeuristicLen(level int) int {
	if !s.within(level) {
		return 0
	}
	return s.heuristic[level].len()
}

func (s *Store) ExactHits(level int) uint64 {
	if !s.within(level) {
		return 0
	}
	return s.exactHits[level].Load()
}

func (s *Store) HeuristicHits() uint64 {
	return s.heuristicHits.Load()
}

func (s *Store) within(level int) bool {
	return level >= 0 && level <= s.area
}

func (s *Store) retains(level int) bool {
	return s.within(level) && level <= s.ExactFloor()
}

// LookupExact returns the proven outcome of the position with fingerprint fp, relative to its side to
// move.
func (s *Store) LookupExact(level int, fp board.Fingerprint) (Outcome, bool) {
	if !s.retains(level) {
		return OutcomeUnknown, false
	}
	o, ok := s.exact[level].load(fp)
	if ok {
		s.exactHits[level].Add(1)
	}
	return o, ok
}

// InsertExact records a proven outcome. The first writer wins: later inserts for the same fingerprint
// leave the table unchanged and report false.
func (s *Store) InsertExact(level int, fp board.Fingerprint, o Outcome) bool {
	return s.insertExact(level, fp, o, level <= s.evictionLimit)
}

// insertExact is InsertExact with the eviction decision left to the caller, which must only allow it
// while no other goroutine writes to the store.
func (s *Store) insertExact(level int, fp board.Fingerprint, o Outcome, evict bool) bool {
	if !o.IsResolved() || !s.retains(level) {
		return false
	}
	if _, stored := s.exact[level].loadOrStore(fp, o); !stored {
		return false
	}
	s.count.Add(1)
	if evict {
		s.maybeEvict()
	}
	return true
}

func (s *Store) maybeEvict() {
	if s.count.Load() <= s.capacity {
		return
	}
	s.evict.Lock()
	defer s.evict.Unlock()
	floor := s.ExactFloor()
	if s.count.Load() <= s.capacity || floor <= 1 {
		return
	}
	s.floor.Store(int32(floor - 1))
	dropped := s.exact[floor].reset()
	remaining := s.count.Add(-int64(dropped))
	s.logger.Info().
		Int("floor", floor-1).
		Int("dropped", dropped).
		Int64("remaining", remaining).
		Msg("exact-floor-lowered")
}

// LookupHeuristic returns the move-ordering score of the position, relative to its side to move.
func (s *Store) LookupHeuristic(level int, fp board.Fingerprint) (int8, bool) {
	if !s.within(level) {
		return 0, false
	}
	score, ok := s.heuristic[level].load(fp)
	if ok {
		s.heuristicHits.Add(1)
	}
	return score, ok
}

func (s *Store) InsertHeuristic(level int, fp board.Fingerprint, score int8) bool {
	if !s.within(level) {
		return false
	}
	_, stored := s.heuristic[level].loadOrStore(fp, score)
	return stored
}

// ResetHeuristic clears the heuristic tables of every level in [from, to].
func (s *Store) ResetHeuristic(from, to int) {
	from, to = max(from, 0), min(to, s.area)
	cleared := 0
	for level := from; level <= to; level++ {
		cleared += s.heuristic[level].reset()
	}
	s.logger.Debug().Int("from", from).Int("to", to).Int("cleared", cleared).Msg("heuristic-window-reset")
}

// Clear empties both tables. The exact floor stays where it is.
func (s *Store) Clear() {
	s.evict.Lock()
	defer s.evict.Unlock()
	for level := 0; level <= s.area; level++ {
		s.count.Add(-int64(s.exact[level].reset()))
		s.heuristic[level].reset()
		s.exactHits[level].Store(0)
	}
	s.heuristicHits.Store(0)
}
