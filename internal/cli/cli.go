// Package cli turns command-line arguments into a validated app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/dagsched/internal/app"
	"github.com/vk/dagsched/internal/engine"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("dagsched", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
DagSched - a dependency-aware multicore scheduling simulator.

Usage:
  dagsched [options] [WORKLOAD_PATH]

Arguments:
  WORKLOAD_PATH
    Path to a single .hcl workload file or a directory containing them.

Options:
`)
		flagSet.PrintDefaults()
	}

	workloadFlag := flagSet.String("workload", "", "Path to the workload file or directory.")
	wFlag := flagSet.String("w", "", "Path to the workload file or directory (shorthand).")
	sampleFlag := flagSet.Bool("sample", false, "Run the built-in ten-task sample workload.")
	coresFlag := flagSet.Int("cores", engine.DefaultCores,
		fmt.Sprintf("Number of simulated cores (1..%d).", engine.MaxCores))
	quantumFlag := flagSet.Int("quantum", engine.DefaultQuantum,
		fmt.Sprintf("Time quantum in ticks (minimum %d).", engine.MinQuantum))
	maxTicksFlag := flagSet.Int("max-ticks", engine.DefaultMaxTicks,
		"Safety bound on the simulation clock.")
	traceFlag := flagSet.Bool("trace", false, "Log a per-tick execution trace.")
	paceFlag := flagSet.Duration("pace", 0, "Cosmetic delay between ticks, e.g. 10ms. Never affects results.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *workloadFlag != "" {
		path = *workloadFlag
	} else if *wFlag != "" {
		path = *wFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" && !*sampleFlag {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		WorkloadPath: path,
		UseSample:    *sampleFlag,
		Cores:        *coresFlag,
		Quantum:      *quantumFlag,
		MaxTicks:     *maxTicksFlag,
		Trace:        *traceFlag,
		Pace:         *paceFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
