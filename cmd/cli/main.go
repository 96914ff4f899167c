package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/dagsched/internal/app"
	"github.com/vk/dagsched/internal/cli"
	"github.com/vk/dagsched/internal/engine"
)

// main is the entrypoint for the dagsched binary.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, errW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	dagschedApp := app.NewApp(outW, errW, appConfig)
	err = dagschedApp.Run(context.Background())
	if errors.Is(err, engine.ErrNotConverged) {
		// The partial report has already been written; surface a distinct
		// exit code for the non-convergence abort.
		return &cli.ExitError{Code: 3, Message: err.Error()}
	}
	return err
}
