package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daystram/reversi/board"
)

func TestSearchConfigValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		cfg     SearchConfig
		wantErr error
	}{
		{name: "default", cfg: DefaultSearchConfig()},
		{name: "minimal", cfg: SearchConfig{BoardDimension: 4}},
		{name: "odd dimension", cfg: SearchConfig{BoardDimension: 5}, wantErr: board.ErrInvalidDimension},
		{name: "zero dimension", cfg: SearchConfig{}, wantErr: ErrInvalidConfig},
		{name: "fan-out beyond board", cfg: SearchConfig{BoardDimension: 4, MultithreadingDepth: 17}, wantErr: ErrInvalidConfig},
		{name: "negative fan-out", cfg: SearchConfig{BoardDimension: 4, MultithreadingDepth: -1}, wantErr: ErrInvalidConfig},
		{name: "lookahead level zero", cfg: SearchConfig{BoardDimension: 4, MinimaxLookahead: map[int]int{0: 2}}, wantErr: ErrInvalidConfig},
		{name: "lookahead level beyond board", cfg: SearchConfig{BoardDimension: 4, MinimaxLookahead: map[int]int{20: 2}}, wantErr: ErrInvalidConfig},
		{name: "negative lookahead", cfg: SearchConfig{BoardDimension: 4, MinimaxLookahead: map[int]int{5: -1}}, wantErr: ErrInvalidConfig},
		{name: "negative retention", cfg: SearchConfig{BoardDimension: 4, MinimaxCacheRetentionPlies: -1}, wantErr: ErrInvalidConfig},
		{name: "negative capacity", cfg: SearchConfig{BoardDimension: 4, ExactTableCapacity: -1}, wantErr: ErrInvalidConfig},
		{name: "floor beyond board", cfg: SearchConfig{BoardDimension: 4, InitialExactFloor: 17}, wantErr: ErrInvalidConfig},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	t.Parallel()
	_, err := NewEngine(&EngineConfig{Search: SearchConfig{BoardDimension: 7}})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewEngine(&EngineConfig{
		Search: SearchConfig{BoardDimension: 6},
		Store:  NewStore(4, 10, 10),
	})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestWithDefaults(t *testing.T) {
	t.Parallel()
	cfg := SearchConfig{BoardDimension: 6}.withDefaults()
	require.Equal(t, DefaultExactTableCapacity, cfg.ExactTableCapacity)
	require.Equal(t, 32, cfg.InitialExactFloor)
	require.Equal(t, uint64(DefaultStatsReportInterval), cfg.StatsReportInterval)

	cfg = SearchConfig{BoardDimension: 6, ExactTableCapacity: 10, InitialExactFloor: 20, StatsReportInterval: 5}.withDefaults()
	require.Equal(t, 10, cfg.ExactTableCapacity)
	require.Equal(t, 20, cfg.InitialExactFloor)
	require.Equal(t, uint64(5), cfg.StatsReportInterval)
}

func TestLookaheadTable(t *testing.T) {
	t.Parallel()
	table := newLookaheadTable(map[int]int{5: 13, 13: 7}, 36)

	want := map[int]int{
		4: 0, 5: 13, 6: 12, 12: 6, 13: 7, 14: 6, 19: 1, 20: 0, 36: 0,
	}
	for level, plies := range want {
		require.Equal(t, plies, table.At(level), "level=%d", level)
	}
	require.Zero(t, table.At(-1))
	require.Zero(t, table.At(37))

	require.True(t, table.widensAt(5))
	require.True(t, table.widensAt(13))
	require.False(t, table.widensAt(6))
	require.False(t, table.widensAt(20))
	require.Equal(t, "5:13", table.String()[:4])
}

func TestParseSearchConfig(t *testing.T) {
	t.Parallel()
	data := []byte(`
board_dimension: 4
multithreading_depth: 6
minimax_lookahead:
  5: 4
  9: 2
minimax_cache_retention_plies: 3
exact_table_capacity: 1000
stats_report_interval: 64
`)
	cfg, err := ParseSearchConfig(data)
	require.NoError(t, err)
	require.Equal(t, SearchConfig{
		BoardDimension:             4,
		MultithreadingDepth:        6,
		MinimaxLookahead:           map[int]int{5: 4, 9: 2},
		MinimaxCacheRetentionPlies: 3,
		ExactTableCapacity:         1000,
		StatsReportInterval:        64,
	}, cfg)

	cfg, err = ParseSearchConfig([]byte("multithreading_depth: 20\n"))
	require.NoError(t, err)
	require.Equal(t, DefaultBoardDimension, cfg.BoardDimension)

	_, err = ParseSearchConfig([]byte("board_dimension: 3\n"))
	require.ErrorIs(t, err, ErrInvalidConfig)
	_, err = ParseSearchConfig([]byte("board_dimension: [\n"))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadSearchConfig(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "search.yaml")
	require.NoError(t, os.WriteFile(path, []byte("board_dimension: 8\nmultithreading_depth: 40\n"), 0o600))

	cfg, err := LoadSearchConfig(path)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.BoardDimension)
	require.Equal(t, 40, cfg.MultithreadingDepth)

	_, err = LoadSearchConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
