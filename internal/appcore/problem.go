// internal/appcore/problem.go
package appcore

import (
	"errors"
	"fmt"

	"mutalign/core/classify"
	"mutalign/core/engine"
	"mutalign/core/reduce"
	"mutalign/internal/config"
	"mutalign/internal/input"
)

// ErrInput marks problems the user can fix in the input (exit code 2).
var ErrInput = errors.New("input error")

// LoadProblem reads the problem named by cfg. ids holds FASTA record IDs
// (nil for the legacy format). A weights override in cfg replaces the
// weights of a legacy file.
func LoadProblem(cfg config.Config) (p engine.Problem, ids []string, err error) {
	if cfg.UsesFASTA() {
		p, ids, err = input.LoadFASTA(weightsOf(cfg.Weights), cfg.Reference, cfg.Queries)
	} else {
		p, err = input.LoadLegacy(cfg.Input)
		if err == nil && len(cfg.Weights) == 4 {
			p.Weights = weightsOf(cfg.Weights)
		}
	}
	if err != nil {
		return engine.Problem{}, nil, fmt.Errorf("%w: %w", ErrInput, err)
	}
	return p, ids, nil
}

func weightsOf(v []float64) classify.Weights {
	var w classify.Weights
	copy(w[:], v)
	return w
}

// NewEngine builds the search engine for cfg.
func NewEngine(cfg config.Config) (*engine.Engine, error) {
	k, err := reduce.Lookup(cfg.Kernel, cfg.Threads)
	if err != nil {
		return nil, err
	}
	return engine.New(engine.Config{Threads: cfg.Threads, Kernel: k}), nil
}
