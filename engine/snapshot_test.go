package engine

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/daystram/reversi/board"
)

func TestSnapshotRestoresSolvedLevels(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, SearchConfig{BoardDimension: 4}, nil)
	initial := mustBoard("..../.OX./.XO./.... x")
	want, err := e.Solve(context.Background(), initial)
	require.NoError(t, err)

	runID := uuid.New()
	restored := NewStore(4, DefaultExactTableCapacity, 12)
	for level := 4; level <= e.Store().ExactFloor(); level++ {
		buf := bytes.Buffer{}
		n, err := e.Store().ExportExact(&buf, level, runID)
		require.NoError(t, err)
		require.Equal(t, e.Store().ExactLen(level), n)

		header, err := restored.ImportExact(&buf)
		require.NoError(t, err)
		require.Equal(t, SnapshotHeader{Version: snapshotVersion, Dimension: 4, Level: level, Count: n, RunID: runID}, header)
		require.Equal(t, n, restored.ExactLen(level))
	}
	require.Equal(t, e.Store().ExactCount(), restored.ExactCount())

	// the root is answered straight from the imported table
	fresh, err := NewEngine(&EngineConfig{Search: SearchConfig{BoardDimension: 4}, Store: restored})
	require.NoError(t, err)
	got, err := fresh.Solve(context.Background(), initial)
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Equal(t, uint64(1), restored.ExactHits(4))
}

func TestImportExactRejects(t *testing.T) {
	t.Parallel()
	source := NewStore(4, 100, 12)
	require.True(t, source.InsertExact(10, board.Fingerprint{1, 2}, OutcomeDraw))
	blob := bytes.Buffer{}
	_, err := source.ExportExact(&blob, 10, uuid.Nil)
	require.NoError(t, err)

	tests := []struct {
		name  string
		store *Store
		data  []byte
	}{
		{name: "other dimension", store: NewStore(6, 100, 32), data: blob.Bytes()},
		{name: "level not retained", store: NewStore(4, 100, 8), data: blob.Bytes()},
		{name: "not zstd", store: NewStore(4, 100, 12), data: []byte("definitely not a snapshot")},
		{name: "truncated", store: NewStore(4, 100, 12), data: blob.Bytes()[:len(blob.Bytes())/2]},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tt.store.ImportExact(bytes.NewReader(tt.data))
			require.Error(t, err)
			require.Zero(t, tt.store.ExactCount())
		})
	}

	_, err = source.ExportExact(&bytes.Buffer{}, 40, uuid.Nil)
	require.ErrorIs(t, err, ErrInvalidSnapshot)
}

func TestImportExactKeepsExisting(t *testing.T) {
	t.Parallel()
	source := NewStore(4, 100, 12)
	require.True(t, source.InsertExact(9, board.Fingerprint{7, 7}, OutcomeMoverWins))
	require.True(t, source.InsertExact(9, board.Fingerprint{8, 8}, OutcomeDraw))
	blob := bytes.Buffer{}
	_, err := source.ExportExact(&blob, 9, uuid.New())
	require.NoError(t, err)

	target := NewStore(4, 100, 12)
	require.True(t, target.InsertExact(9, board.Fingerprint{7, 7}, OutcomeOpponentWins))
	_, err = target.ImportExact(&blob)
	require.NoError(t, err)

	got, ok := target.LookupExact(9, board.Fingerprint{7, 7})
	require.True(t, ok)
	require.Equal(t, OutcomeOpponentWins, got)
	require.Equal(t, int64(2), target.ExactCount())
}

func TestImportExactAllOrNothing(t *testing.T) {
	t.Parallel()
	source := NewStore(4, 100, 12)
	for i := uint64(0); i < 3; i++ {
		require.True(t, source.InsertExact(10, board.Fingerprint{i, i}, OutcomeMoverWins))
	}
	blob := bytes.Buffer{}
	_, err := source.ExportExact(&blob, 10, uuid.New())
	require.NoError(t, err)

	decoder, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer decoder.Close()
	data, err := decoder.DecodeAll(blob.Bytes(), nil)
	require.NoError(t, err)
	data[len(data)-1] = byte(OutcomeUnknown)

	encoder, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer encoder.Close()
	corrupted := encoder.EncodeAll(data, nil)

	target := NewStore(4, 100, 12)
	_, err = target.ImportExact(bytes.NewReader(corrupted))
	require.ErrorIs(t, err, ErrInvalidSnapshot)
	require.Zero(t, target.ExactLen(10))
	require.Zero(t, target.ExactCount())
}
