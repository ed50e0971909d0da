package main

import (
	"fmt"
	"io"

	"github.com/daystram/reversi/board"
)

// sample plays a seeded random game from the initial position up to level and prints where it stopped.
func sample(w io.Writer, dim, level int, seed uint64) error {
	b, err := board.NewBoard(board.WithDimension(dim))
	if err != nil {
		return err
	}
	if level < b.Level() || level > b.Area() {
		return fmt.Errorf("sample level %d outside [%d, %d]", level, b.Level(), b.Area())
	}

	r := board.NewPseudoRand()
	r.Seed(seed)
	b = board.RandomPlayout(b, level, r)

	fmt.Fprintln(w, b.Draw())
	fmt.Fprintln(w, "notation:", b.Notation())
	fmt.Fprintln(w, "level:", b.Level())
	fmt.Fprintln(w, "state:", b.State())
	fmt.Fprintln(w, "fingerprint:", b.Fingerprint())
	return nil
}
