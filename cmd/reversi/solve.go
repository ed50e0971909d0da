package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/daystram/reversi/board"
	"github.com/daystram/reversi/engine"
)

var (
	colorWin  = color.New(color.FgGreen, color.Bold)
	colorLoss = color.New(color.FgRed, color.Bold)
	colorDraw = color.New(color.FgYellow, color.Bold)
)

func solve(ctx context.Context, cfg engine.SearchConfig, notation, loadDir, saveDir string, logger zerolog.Logger) error {
	b, err := startingBoard(notation, cfg.BoardDimension)
	if err != nil {
		return err
	}
	e, err := engine.NewEngine(&engine.EngineConfig{
		Search: cfg,
		Sink:   engine.NewLogSink(logger),
		Logger: &logger,
	})
	if err != nil {
		return err
	}
	fmt.Println(b.Draw())

	p := message.NewPrinter(language.English)
	if loadDir != "" {
		n, err := loadSnapshot(loadDir, e.Store(), logger)
		if err != nil {
			return err
		}
		logger.Info().Str("dir", loadDir).Str("entries", p.Sprintf("%d", n)).Msg("snapshot-loaded")
	}

	start := time.Now()
	o, err := e.Solve(ctx, b)
	if err != nil {
		return err
	}
	printOutcome(os.Stdout, b, o, time.Since(start))

	if saveDir != "" {
		n, err := saveSnapshot(saveDir, e.Store(), uuid.New(), logger)
		if err != nil {
			return err
		}
		logger.Info().Str("dir", saveDir).Str("entries", p.Sprintf("%d", n)).Msg("snapshot-saved")
	}
	return nil
}

func printOutcome(w io.Writer, b *board.Board, o engine.Outcome, elapsed time.Duration) {
	c := colorDraw
	switch o {
	case engine.OutcomeMoverWins:
		c = colorWin
	case engine.OutcomeOpponentWins:
		c = colorLoss
	}
	winner := o.Winner(b.Turn())
	verdict := "draw"
	if winner != board.SideEmpty {
		verdict = fmt.Sprintf("%s wins", winner)
	}
	fmt.Fprintf(w, "%s %s to move: %s (%.3fs elapsed)\n",
		c.Sprint(o.String()), b.Turn(), verdict, elapsed.Seconds())
}
