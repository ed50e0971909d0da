package main

import (
	"fmt"

	"github.com/daystram/reversi/bench"
	"github.com/daystram/reversi/board"
)

func perft(depth int, notation string, dim int, parallel bool) error {
	b, err := startingBoard(notation, dim)
	if err != nil {
		return err
	}
	fmt.Println(b.Draw())

	out := make(chan string, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for s := range out {
			fmt.Println(s)
		}
	}()
	_, err = bench.Perft(depth, b.Notation(), parallel, true, out)
	close(out)
	<-done
	return err
}

// startingBoard parses notation, or returns the initial position of dim when notation is empty.
func startingBoard(notation string, dim int) (*board.Board, error) {
	if notation != "" {
		return board.NewBoard(board.WithNotation(notation))
	}
	return board.NewBoard(board.WithDimension(dim))
}
