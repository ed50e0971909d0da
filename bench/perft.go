package bench

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/daystram/reversi/board"
)

// Counters tallies the leaves of a perft run. A forced pass counts as a single move.
type Counters struct {
	Nodes    uint64
	Flips    uint64 // disks flipped by the last move into each leaf
	Passes   uint64 // forced passes anywhere in the tree
	Finished uint64 // games that ended before the requested depth
}

func Perft(depth int, notation string, parallel, verbose bool, out chan string) (Counters, error) {
	var c Counters
	b, err := board.NewBoard(
		board.WithNotation(notation),
	)
	if err != nil {
		return c, err
	}

	var run perftFunc
	if parallel {
		run = runPerftParallel
	} else {
		run = runPerft
	}

	start := time.Now()
	run(b, depth, true, verbose, out, &c)
	end := time.Now()

	out <- message.NewPrinter(language.English).
		Sprintf("d=%d nodes=%d rate=%dn/s flips=%d passes=%d finished=%d (%.3fs elapsed)",
			depth, c.Nodes, int(float64(c.Nodes)/end.Sub(start).Seconds()), c.Flips, c.Passes, c.Finished, end.Sub(start).Seconds())

	return c, nil
}

type perftFunc func(b *board.Board, d int, root, verbose bool, out chan string, c *Counters) uint64

func runPerft(b *board.Board, d int, root, verbose bool, out chan string, c *Counters) uint64 {
	if d == 0 {
		c.Nodes++
		return 1
	}

	switch b.State() {
	case board.StateFinished:
		c.Nodes++
		c.Finished++
		return 1
	case board.StatePass:
		c.Passes++
		child := runPerft(b.Pass(), d-1, false, verbose, out, c)
		if verbose && root {
			out <- fmt.Sprintf("pass: %d", child)
		}
		return child
	}

	var sum uint64
	for mv, bb := range b.LegalMoves() {
		var child uint64
		if d != 1 {
			child = runPerft(bb, d-1, false, verbose, out, c)
		} else {
			child = 1
			c.Nodes++
			c.Flips += uint64(mv.Flips)
		}
		if verbose && root {
			out <- fmt.Sprintf("%s: %d", mv, child)
		}
		sum += child
	}
	return sum
}

func runPerftParallel(b *board.Board, d int, root, verbose bool, out chan string, c *Counters) uint64 {
	if d == 0 {
		atomic.AddUint64(&c.Nodes, 1)
		return 1
	}

	switch b.State() {
	case board.StateFinished:
		atomic.AddUint64(&c.Nodes, 1)
		atomic.AddUint64(&c.Finished, 1)
		return 1
	case board.StatePass:
		atomic.AddUint64(&c.Passes, 1)
		child := runPerftParallel(b.Pass(), d-1, false, verbose, out, c)
		if verbose && root {
			out <- fmt.Sprintf("pass: %d", child)
		}
		return child
	}

	var sum uint64
	var wg sync.WaitGroup
	for mv, bb := range b.LegalMoves() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var child uint64
			if d != 1 {
				child = runPerftParallel(bb, d-1, false, verbose, out, c)
			} else {
				child = 1
				atomic.AddUint64(&c.Nodes, 1)
				atomic.AddUint64(&c.Flips, uint64(mv.Flips))
			}
			if verbose && root {
				out <- fmt.Sprintf("%s: %d", mv, child)
			}
			atomic.AddUint64(&sum, child)
		}()
	}
	wg.Wait()
	return sum
}
