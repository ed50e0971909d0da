package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"

	"github.com/daystram/reversi/engine"
	"github.com/daystram/reversi/uci"
)

const (
	exitOK  = 0
	exitErr = 1
)

var (
	profile  = flag.Bool("profile", false, "serve pprof endpoint")
	logLevel = flag.String("log.level", "info", "log level: debug, info, warn, error")

	configPath = flag.String("config", "", "path to a yaml search config")
	dim        = flag.Int("dim", 0, "board dimension, overrides the config")
	mt         = flag.Int("mt", -1, "multithreading depth, overrides the config; 0 disables fan-out")

	solveRun     = flag.Bool("solve", false, "run solve mode")
	snapshotLoad = flag.String("snapshot.load", "", "directory to load exact table snapshots from before solving")
	snapshotSave = flag.String("snapshot.save", "", "directory to save exact table snapshots to after solving")

	perftDepth    = flag.Int("perft", 0, "run perft to the given depth")
	perftParallel = flag.Bool("perft.parallel", true, "run perft subtrees concurrently")

	sampleLevel = flag.Int("sample", 0, "print a random position at the given level")
	sampleSeed  = flag.Uint64("sample.seed", 1, "seed for sample mode")
)

func main() {
	flag.Parse()

	logger, err := newLogger(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitErr)
	}

	if *profile {
		runProfiler(logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := realMain(ctx, flag.Args(), logger); err != nil {
		logger.Error().Err(err).Msg("exited")
		os.Exit(exitErr)
	}
	os.Exit(exitOK)
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger(), nil
}

func runProfiler(logger zerolog.Logger) {
	go func() {
		addr := "localhost:6060"
		logger.Info().Str("addr", fmt.Sprintf("http://%s/debug/pprof", addr)).Msg("pprof-started")
		_ = http.ListenAndServe(addr, nil)
	}()
}

// realMain runs the selected mode. Positional arguments, if any, are a board notation.
func realMain(ctx context.Context, args []string, logger zerolog.Logger) error {
	cfg, err := searchConfig(*configPath, *dim, *mt)
	if err != nil {
		return err
	}
	notation := strings.Join(args, " ")

	switch {
	case *perftDepth > 0:
		return perft(*perftDepth, notation, cfg.BoardDimension, *perftParallel)
	case *sampleLevel > 0:
		return sample(os.Stdout, cfg.BoardDimension, *sampleLevel, *sampleSeed)
	case *solveRun:
		return solve(ctx, cfg, notation, *snapshotLoad, *snapshotSave, logger)
	}

	return uci.NewInterface(os.Stdin, os.Stdout, cfg, logger).Run(ctx)
}

// searchConfig loads the config file if given and applies flag overrides. Negative mt keeps the file's
// value.
func searchConfig(path string, dim, mt int) (engine.SearchConfig, error) {
	cfg := engine.DefaultSearchConfig()
	if path != "" {
		var err error
		if cfg, err = engine.LoadSearchConfig(path); err != nil {
			return cfg, err
		}
	}
	if dim > 0 && dim != cfg.BoardDimension {
		cfg.BoardDimension = dim
		if path == "" {
			cfg.MinimaxLookahead = nil
			cfg.MultithreadingDepth = 0
		}
	}
	if mt >= 0 {
		cfg.MultithreadingDepth = mt
	}
	return cfg, cfg.Validate()
}
