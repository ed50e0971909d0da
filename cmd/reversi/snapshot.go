package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/daystram/reversi/engine"
)

const snapshotPattern = "exact-*.rvx.zst"

func snapshotPath(dir string, level int) string {
	return filepath.Join(dir, fmt.Sprintf("exact-%02d.rvx.zst", level))
}

// saveSnapshot writes one file per non-empty retained level of the exact table and returns the number of
// entries written.
func saveSnapshot(dir string, store *engine.Store, runID uuid.UUID, logger zerolog.Logger) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	total := 0
	for level := 0; level <= store.ExactFloor(); level++ {
		if store.ExactLen(level) == 0 {
			continue
		}
		n, err := saveLevel(snapshotPath(dir, level), store, level, runID)
		if err != nil {
			return total, fmt.Errorf("save level %d: %w", level, err)
		}
		logger.Debug().Int("level", level).Int("entries", n).Msg("snapshot-level-saved")
		total += n
	}
	return total, nil
}

func saveLevel(path string, store *engine.Store, level int, runID uuid.UUID) (n int, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return store.ExportExact(f, level, runID)
}

// loadSnapshot imports every snapshot file in dir, shallowest level first, and returns the number of
// entries they held.
func loadSnapshot(dir string, store *engine.Store, logger zerolog.Logger) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, snapshotPattern))
	if err != nil {
		return 0, err
	}
	sort.Strings(paths)

	total := 0
	for _, path := range paths {
		hdr, err := loadLevel(path, store)
		if err != nil {
			return total, fmt.Errorf("load %s: %w", filepath.Base(path), err)
		}
		logger.Debug().
			Int("level", hdr.Level).
			Int("entries", hdr.Count).
			Str("source_run", hdr.RunID.String()).
			Msg("snapshot-level-loaded")
		total += hdr.Count
	}
	return total, nil
}

func loadLevel(path string, store *engine.Store) (engine.SnapshotHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return engine.SnapshotHeader{}, err
	}
	defer f.Close()
	return store.ImportExact(f)
}
