package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/vk/dagsched/internal/engine"
)

// maxPace caps the cosmetic per-tick delay; anything longer would only slow
// the run down without visual benefit.
const maxPace = 100 * time.Millisecond

// Config holds everything an App instance needs to run.
type Config struct {
	// WorkloadPath points at an .hcl file or a directory of them. Ignored
	// when UseSample is set.
	WorkloadPath string
	UseSample    bool

	Cores    int
	Quantum  int
	MaxTicks int

	// Trace enables the per-tick execution trace. Purely additive logging;
	// it never affects scheduling decisions.
	Trace bool

	// Pace is an optional cosmetic delay between ticks.
	Pace time.Duration

	LogFormat string
	LogLevel  string

	// notes records the default substitutions made during validation, so
	// they can be surfaced once a logger exists.
	notes []string
}

// NewConfig validates a Config. Out-of-range values are replaced by their
// documented defaults rather than failing the run; each substitution is
// noted and logged at startup. Only a missing workload source is an error.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.WorkloadPath == "" && !cfg.UseSample {
		return nil, errors.New("a workload path or the sample workload is required")
	}

	if cfg.Cores < 1 || cfg.Cores > engine.MaxCores {
		cfg.notes = append(cfg.notes, fmt.Sprintf(
			"core count %d out of range 1..%d, using %d", cfg.Cores, engine.MaxCores, engine.DefaultCores))
		cfg.Cores = engine.DefaultCores
	}

	if cfg.Quantum < engine.MinQuantum {
		cfg.notes = append(cfg.notes, fmt.Sprintf(
			"quantum %d below minimum %d, using %d", cfg.Quantum, engine.MinQuantum, engine.DefaultQuantum))
		cfg.Quantum = engine.DefaultQuantum
	}

	if cfg.MaxTicks <= 0 {
		cfg.MaxTicks = engine.DefaultMaxTicks
	}

	if cfg.Pace < 0 {
		cfg.Pace = 0
	}
	if cfg.Pace > maxPace {
		cfg.notes = append(cfg.notes, fmt.Sprintf(
			"pace %s above maximum %s, using %s", cfg.Pace, maxPace, maxPace))
		cfg.Pace = maxPace
	}

	return &cfg, nil
}
