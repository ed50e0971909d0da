package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/daystram/reversi/board"
	"github.com/daystram/reversi/engine"
)

func TestSearchConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "search.yaml")
	require.NoError(t, os.WriteFile(path, []byte("board_dimension: 4\nmultithreading_depth: 8\n"), 0o644))

	tests := []struct {
		name    string
		path    string
		dim     int
		mt      int
		wantDim int
		wantMT  int
		wantErr bool
	}{
		{name: "defaults", dim: 0, mt: -1, wantDim: 6, wantMT: 22},
		{name: "dimension override drops tuning", dim: 4, mt: -1, wantDim: 4, wantMT: 0},
		{name: "dimension and mt override", dim: 4, mt: 6, wantDim: 4, wantMT: 6},
		{name: "mt beyond area", dim: 4, mt: 20, wantErr: true},
		{name: "file", path: path, dim: 0, mt: -1, wantDim: 4, wantMT: 8},
		{name: "file with mt override", path: path, dim: 0, mt: 0, wantDim: 4, wantMT: 0},
		{name: "missing file", path: filepath.Join(dir, "missing.yaml"), mt: -1, wantErr: true},
		{name: "odd dimension", dim: 5, mt: 0, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := searchConfig(tt.path, tt.dim, tt.mt)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantDim, cfg.BoardDimension)
			require.Equal(t, tt.wantMT, cfg.MultithreadingDepth)
		})
	}
}

func TestSample(t *testing.T) {
	t.Parallel()
	var first, second bytes.Buffer
	require.NoError(t, sample(&first, 6, 12, 42))
	require.NoError(t, sample(&second, 6, 12, 42))
	require.Equal(t, first.String(), second.String())
	require.Contains(t, first.String(), "notation: ")
	require.Contains(t, first.String(), "fingerprint: ")

	require.Error(t, sample(&first, 6, 2, 1))
	require.Error(t, sample(&first, 6, 37, 1))
	require.Error(t, sample(&first, 5, 10, 1))
}

func TestSnapshotDirectory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	logger := zerolog.Nop()

	src := engine.NewStore(4, 1000, 12)
	for level := 4; level <= 8; level++ {
		for i := 0; i < level; i++ {
			require.True(t, src.InsertExact(level, board.Fingerprint{uint64(level), uint64(i)}, engine.OutcomeDraw))
		}
	}
	require.False(t, src.InsertExact(13, board.Fingerprint{13, 0}, engine.OutcomeDraw))

	n, err := saveSnapshot(dir, src, uuid.New(), logger)
	require.NoError(t, err)
	require.Equal(t, 4+5+6+7+8, n)
	require.FileExists(t, snapshotPath(dir, 4))
	require.FileExists(t, snapshotPath(dir, 8))
	require.NoFileExists(t, snapshotPath(dir, 9))

	dst := engine.NewStore(4, 1000, 12)
	n, err = loadSnapshot(dir, dst, logger)
	require.NoError(t, err)
	require.Equal(t, 4+5+6+7+8, n)
	for level := 4; level <= 8; level++ {
		require.Equal(t, src.ExactLen(level), dst.ExactLen(level))
	}
	o, ok := dst.LookupExact(7, board.Fingerprint{7, 3})
	require.True(t, ok)
	require.Equal(t, engine.OutcomeDraw, o)

	// Levels deeper than the floor of the receiving store are rejected.
	shallow := engine.NewStore(4, 1000, 6)
	_, err = loadSnapshot(dir, shallow, logger)
	require.ErrorIs(t, err, engine.ErrInvalidSnapshot)

	n, err = loadSnapshot(filepath.Join(dir, "empty"), dst, logger)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestPrintOutcome(t *testing.T) {
	t.Parallel()
	b, err := board.NewBoard(board.WithDimension(4))
	require.NoError(t, err)

	tests := []struct {
		outcome engine.Outcome
		want    string
	}{
		{outcome: engine.OutcomeMoverWins, want: "Dark wins"},
		{outcome: engine.OutcomeOpponentWins, want: "Light wins"},
		{outcome: engine.OutcomeDraw, want: "draw"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.outcome.String(), func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			printOutcome(&buf, b, tt.outcome, 0)
			require.Contains(t, buf.String(), tt.want)
			require.Contains(t, buf.String(), "Dark to move")
		})
	}
}
