package engine

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/daystram/reversi/board"
)

const (
	DefaultBoardDimension      = 6
	DefaultExactTableCapacity  = 1 << 24 // number of entries
	DefaultStatsReportInterval = 1 << 20 // number of states
	DefaultRetentionPlies      = 9

	defaultExactFloorMargin = 4
)

var ErrInvalidConfig = errors.New("invalid search config")

// SearchConfig is loaded once and never changes while an Engine uses it. Levels count the disks on the
// board.
type SearchConfig struct {
	BoardDimension int `yaml:"board_dimension"`
	// MultithreadingDepth is the level at which the search fans out one task per move. Zero disables
	// fan-out.
	MultithreadingDepth int `yaml:"multithreading_depth"`
	// MinimaxLookahead maps a level to the number of plies the move orderer searches ahead. Levels without
	// an entry inherit the previous level's lookahead minus one.
	MinimaxLookahead           map[int]int `yaml:"minimax_lookahead"`
	MinimaxCacheRetentionPlies int         `yaml:"minimax_cache_retention_plies"`
	ExactTableCapacity         int         `yaml:"exact_table_capacity"`
	InitialExactFloor          int         `yaml:"initial_exact_floor"`
	StatsReportInterval        uint64      `yaml:"stats_report_interval"`
}

// DefaultSearchConfig returns the tuning used for the 6x6 board.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		BoardDimension:             DefaultBoardDimension,
		MultithreadingDepth:        22,
		MinimaxLookahead:           map[int]int{5: 13, 13: 7},
		MinimaxCacheRetentionPlies: DefaultRetentionPlies,
		ExactTableCapacity:         DefaultExactTableCapacity,
		StatsReportInterval:        DefaultStatsReportInterval,
	}
}

func ParseSearchConfig(data []byte) (SearchConfig, error) {
	cfg := SearchConfig{BoardDimension: DefaultBoardDimension}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SearchConfig{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return SearchConfig{}, err
	}
	return cfg, nil
}

func LoadSearchConfig(path string) (SearchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SearchConfig{}, err
	}
	return ParseSearchConfig(data)
}

func (c SearchConfig) Area() int {
	return c.BoardDimension * c.BoardDimension
}

func (c SearchConfig) Validate() error {
	if err := board.ValidateDimension(c.BoardDimension); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	area := c.Area()
	if c.MultithreadingDepth < 0 || c.MultithreadingDepth > area {
		return fmt.Errorf("%w: multithreading_depth %d outside [0, %d]", ErrInvalidConfig, c.MultithreadingDepth, area)
	}
	for level, plies := range c.MinimaxLookahead {
		if level < 1 || level > area {
			return fmt.Errorf("%w: minimax_lookahead level %d outside [1, %d]", ErrInvalidConfig, level, area)
		}
		if plies < 0 {
			return fmt.Errorf("%w: minimax_lookahead at level %d is negative", ErrInvalidConfig, level)
		}
	}
	if c.MinimaxCacheRetentionPlies < 0 {
		return fmt.Errorf("%w: minimax_cache_retention_plies is negative", ErrInvalidConfig)
	}
	if c.ExactTableCapacity < 0 {
		return fmt.Errorf("%w: exact_table_capacity is negative", ErrInvalidConfig)
	}
	if c.InitialExactFloor < 0 || c.InitialExactFloor > area {
		return fmt.Errorf("%w: initial_exact_floor %d outside [0, %d]", ErrInvalidConfig, c.InitialExactFloor, area)
	}
	return nil
}

// withDefaults fills zero values that mean "use the default".
func (c SearchConfig) withDefaults() SearchConfig {
	if c.ExactTableCapacity == 0 {
		c.ExactTableCapacity = DefaultExactTableCapacity
	}
	if c.InitialExactFloor == 0 {
		c.InitialExactFloor = max(c.Area()-defaultExactFloorMargin, 1)
	}
	if c.StatsReportInterval == 0 {
		c.StatsReportInterval = DefaultStatsReportInterval
	}
	return c
}

// lookaheadTable holds the move orderer lookahead of every level, with the decay rule already applied.
type lookaheadTable []int

func newLookaheadTable(entries map[int]int, area int) lookaheadTable {
	t := make(lookaheadTable, area+1)
	for level := 1; level <= area; level++ {
		if plies, ok := entries[level]; ok && plies > 0 {
			t[level] = plies
			continue
		}
		if t[level-1] > 0 {
			t[level] = t[level-1] - 1
		}
	}
	return t
}

func (t lookaheadTable) At(level int) int {
	if level < 0 || level >= len(t) {
		return 0
	}
	return t[level]
}

// widensAt reports whether the lookahead grows when the search descends from level-1 to level.
func (t lookaheadTable) widensAt(level int) bool {
	return t.At(level) > t.At(level-1)
}

func (t lookaheadTable) String() string {
	s := ""
	for level, plies := range t {
		if plies > 0 {
			s += fmt.Sprintf("%d:%d ", level, plies)
		}
	}
	return strings.TrimSpace(s)
}
