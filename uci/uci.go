package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/daystram/reversi/bench"
	"github.com/daystram/reversi/board"
	"github.com/daystram/reversi/engine"
	"github.com/daystram/reversi/position"
)

var (
	EngineName   = "Reversi"
	EngineAuthor = "Danny August Ramaputra"

	defaultOptions = options{
		parallelPerft: true,
	}
)

type options struct {
	parallelPerft bool
}

// Interface drives a board and an engine through a line-based text protocol.
type Interface struct {
	in     io.Reader
	out    io.Writer
	outMu  sync.Mutex
	logger zerolog.Logger

	board   *board.Board
	engine  *engine.Engine
	search  engine.SearchConfig
	options options

	mu            sync.Mutex
	engineRunning bool
	engineCancel  context.CancelFunc
	wg            sync.WaitGroup
}

func NewInterface(in io.Reader, out io.Writer, search engine.SearchConfig, logger zerolog.Logger) *Interface {
	return &Interface{
		in:      in,
		out:     out,
		logger:  logger,
		search:  search,
		options: defaultOptions,
	}
}

// Run reads commands until "quit" or the end of input. A solve still running at the end of input is
// waited for; "quit" stops it first.
func (i *Interface) Run(ctx context.Context) error {
	i.reset(ctx)
	defer i.wg.Wait()

	scanner := bufio.NewScanner(i.in)
	for scanner.Scan() {
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "uci":
			i.commandUCI(ctx)
		case "ucinewgame":
			i.reset(ctx)
		case "isready":
			i.commandReady(ctx)
		case "setoption":
			i.commandSetOption(ctx, args[1:])
		case "position":
			i.commandPosition(ctx, args[1:])
		case "d":
			i.commandDraw(ctx)
		case "moves":
			i.commandMoves(ctx)
		case "fingerprint":
			i.commandFingerprint(ctx)
		case "eval":
			i.commandEval(ctx)
		case "go":
			i.commandGo(ctx, args[1:])
		case "stop":
			i.commandStop(ctx)
		case "quit":
			i.commandStop(ctx)
			return nil
		default:
			i.println(fmt.Sprintf("unknown command: %s", args[0]))
		}
	}
	return scanner.Err()
}

func (i *Interface) commandUCI(_ context.Context) {
	i.println(fmt.Sprintf("id name %s", EngineName))
	i.println(fmt.Sprintf("id author %s", EngineAuthor))
	i.println(fmt.Sprintf("option Dimension type spin default %d min %d max %d", i.search.BoardDimension, board.MinDimension, board.MaxDimension))
	i.println(fmt.Sprintf("option Multithreading type spin default %d min 0 max %d", i.search.MultithreadingDepth, board.TotalCells))
	i.println("option Lookahead type string default <empty>")
	i.println(fmt.Sprintf("option Retention type spin default %d min 0 max %d", i.search.MinimaxCacheRetentionPlies, board.TotalCells))
	i.println(fmt.Sprintf("option Capacity type spin default %d min 0 max %d", engine.DefaultExactTableCapacity, 1<<30))
	i.println(fmt.Sprintf("option ParallelPerft type check default %v", defaultOptions.parallelPerft))
	i.println("uciok")
}

func (i *Interface) commandReady(_ context.Context) {
	if i.board != nil {
		i.println("readyok")
	}
}

func (i *Interface) commandSetOption(ctx context.Context, args []string) {
	if len(args) < 4 || args[0] != "name" || args[2] != "value" {
		return
	}
	if i.isRunning() {
		i.println("info string engine is running")
		return
	}

	search := i.search
	switch name, valueStr := strings.ToLower(args[1]), strings.Join(args[3:], " "); name {
	case "dimension":
		value, err := strconv.Atoi(valueStr)
		if err != nil {
			return
		}
		search.BoardDimension = value
	case "multithreading":
		value, err := strconv.Atoi(valueStr)
		if err != nil {
			return
		}
		search.MultithreadingDepth = value
	case "lookahead":
		value, err := ParseLookahead(valueStr)
		if err != nil {
			i.println(fmt.Sprintf("info string %v", err))
			return
		}
		search.MinimaxLookahead = value
	case "retention":
		value, err := strconv.Atoi(valueStr)
		if err != nil {
			return
		}
		search.MinimaxCacheRetentionPlies = value
	case "capacity":
		value, err := strconv.Atoi(valueStr)
		if err != nil {
			return
		}
		search.ExactTableCapacity = value
	case "parallelperft":
		value, err := strconv.ParseBool(valueStr)
		if err != nil {
			return
		}
		i.options.parallelPerft = value
		return
	default:
		return
	}

	if err := search.Validate(); err != nil {
		i.println(fmt.Sprintf("info string %v", err))
		return
	}
	dimensionChanged := search.BoardDimension != i.search.BoardDimension
	i.search = search
	i.engine = nil
	if dimensionChanged {
		i.commandPosition(ctx, []string{"startpos"})
	}
}

// ParseLookahead reads a lookahead table written as comma separated level:plies pairs, e.g. "5:13,13:7".
func ParseLookahead(s string) (map[int]int, error) {
	table := make(map[int]int)
	if s = strings.TrimSpace(s); s == "" || s == "<empty>" {
		return table, nil
	}
	for _, entry := range strings.Split(s, ",") {
		levelStr, pliesStr, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok {
			return nil, fmt.Errorf("%w: lookahead entry %q", engine.ErrInvalidConfig, entry)
		}
		level, err := strconv.Atoi(levelStr)
		if err != nil {
			return nil, fmt.Errorf("%w: lookahead level %q", engine.ErrInvalidConfig, levelStr)
		}
		plies, err := strconv.Atoi(pliesStr)
		if err != nil {
			return nil, fmt.Errorf("%w: lookahead plies %q", engine.ErrInvalidConfig, pliesStr)
		}
		table[level] = plies
	}
	return table, nil
}

func (i *Interface) commandPosition(_ context.Context, args []string) {
	if i.isRunning() || len(args) == 0 {
		return
	}

	var b *board.Board
	var err error
	rest := args[1:]
	switch args[0] {
	case "startpos":
		b, err = board.NewBoard(board.WithDimension(i.search.BoardDimension))
	case "notation":
		if len(args) < 3 {
			return
		}
		b, err = board.NewBoard(board.WithNotation(strings.Join(args[1:3], " ")))
		rest = args[3:]
	default:
		return
	}
	if err != nil {
		i.println(fmt.Sprintf("info string %v", err))
		return
	}

	if len(rest) > 0 && rest[0] == "moves" {
		for _, n := range rest[1:] {
			var ok bool
			if b, ok = applyNotation(b, n); !ok {
				i.println(fmt.Sprintf("info string illegal move %s", n))
				return
			}
		}
	}
	i.board = b
}

func applyNotation(b *board.Board, n string) (*board.Board, bool) {
	if n == "pass" {
		return b.Apply(board.Move{IsPass: true, IsSide: b.Turn()})
	}
	pos, err := position.NewPosFromNotation(n)
	if err != nil {
		return nil, false
	}
	return b.Apply(board.Move{Pos: pos, IsSide: b.Turn()})
}

func (i *Interface) commandDraw(_ context.Context) {
	i.println(i.board.Dump())
	i.println(i.board.DebugString())
	i.println(fmt.Sprintf("notation: %s", i.board.Notation()))
}

func (i *Interface) commandMoves(_ context.Context) {
	mvs := i.board.Moves()
	if len(mvs) == 0 {
		if i.board.State() == board.StatePass {
			i.println("moves pass")
		} else {
			i.println("moves")
		}
		return
	}
	names := make([]string, len(mvs))
	for j, mv := range mvs {
		names[j] = mv.String()
	}
	i.println(fmt.Sprintf("moves %s", strings.Join(names, " ")))
}

func (i *Interface) commandFingerprint(_ context.Context) {
	i.println(fmt.Sprintf("fingerprint %s", i.board.Fingerprint()))
}

func (i *Interface) commandEval(_ context.Context) {
	e, err := i.getEngine()
	if err != nil {
		i.println(fmt.Sprintf("info string %v", err))
		return
	}
	ranked, score, ok := e.Estimate(i.board)
	if !ok {
		i.println("eval none")
		return
	}
	parts := make([]string, len(ranked))
	for j, rk := range ranked {
		parts[j] = fmt.Sprintf("%d", rk.Score)
	}
	i.println(fmt.Sprintf("eval score %d children %s", score, strings.Join(parts, " ")))
}

func (i *Interface) commandGo(ctx context.Context, args []string) {
	if len(args) == 0 {
		return
	}
	switch mode := args[0]; mode {
	case "perft":
		if len(args) != 2 {
			return
		}
		depth, err := strconv.Atoi(args[1])
		if err != nil {
			return
		}

		out := make(chan string, 64)
		done := make(chan struct{})
		go func() {
			defer close(done)
			for s := range out {
				i.println(s)
			}
		}()

		_, _ = bench.Perft(depth, i.board.Notation(), i.options.parallelPerft, true, out)
		close(out)
		<-done

	case "solve":
		e, err := i.getEngine()
		if err != nil {
			i.println(fmt.Sprintf("info string %v", err))
			return
		}
		i.mu.Lock()
		if i.engineRunning {
			i.mu.Unlock()
			return
		}
		engineCtx, engineCancel := context.WithCancel(ctx)
		i.engineCancel = engineCancel
		i.engineRunning = true
		i.mu.Unlock()

		b := i.board
		i.wg.Add(1)
		go func() {
			defer i.wg.Done()
			defer func() {
				engineCancel()
				i.mu.Lock()
				i.engineRunning = false
				i.mu.Unlock()
			}()

			o, err := e.Solve(engineCtx, b)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					i.logger.Error().Err(err).Msg("solve-failed")
				}
				i.println("outcome none")
				return
			}
			i.println(fmt.Sprintf("outcome %s winner %s", o, o.Winner(b.Turn())))
		}()
	}
}

func (i *Interface) commandStop(_ context.Context) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.engineRunning {
		i.engineCancel()
	}
}

func (i *Interface) isRunning() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.engineRunning
}

func (i *Interface) getEngine() (*engine.Engine, error) {
	if i.engine != nil {
		return i.engine, nil
	}
	e, err := engine.NewEngine(&engine.EngineConfig{
		Search: i.search,
		Sink:   engine.NewLogSink(i.logger),
		Logger: &i.logger,
	})
	if err != nil {
		return nil, err
	}
	i.engine = e
	return e, nil
}

func (i *Interface) reset(ctx context.Context) {
	i.commandStop(ctx)
	i.commandPosition(ctx, []string{"startpos"})
	i.engine = nil
}

func (i *Interface) println(a ...any) {
	i.outMu.Lock()
	defer i.outMu.Unlock()
	fmt.Fprintln(i.out, a...)
}
