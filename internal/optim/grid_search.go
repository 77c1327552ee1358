package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path"

	"github.com/san-kum/beamsim/internal/config"
)

// ErrNoCandidate is returned when every grid point failed its objective.
var ErrNoCandidate = errors.New("optim: no grid point could be evaluated")

// Knob sets one element parameter on every element whose id matches the
// path.Match pattern Match, stepping through Values.
type Knob struct {
	Match  string
	Param  string
	Values []float64
}

func (k Knob) Name() string { return k.Match + "." + k.Param }

// Objective scores a scenario; lower is better.
type Objective func(ctx context.Context, cfg *config.Config) (float64, error)

type GridSearch struct {
	knobs []Knob
}

func NewGridSearch(knobs ...Knob) *GridSearch {
	return &GridSearch{knobs: knobs}
}

// Search evaluates the objective at every point of the grid spanned by the
// knobs and returns the best point with its score. Points whose scenario
// cannot be evaluated are skipped.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, objective Objective) (map[string]float64, float64, error) {
	for _, k := range g.knobs {
		if err := checkKnob(base, k); err != nil {
			return nil, 0, err
		}
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	if err := g.searchRecursive(ctx, 0, base, make(map[string]float64), objective, &best, &bestParams); err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoCandidate
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	cfg *config.Config,
	current map[string]float64,
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.knobs) {
		val, err := objective(ctx, cfg)
		if err != nil || math.IsNaN(val) {
			return nil
		}
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	knob := g.knobs[depth]
	for _, val := range knob.Values {
		next := cfg.Clone()
		apply(next, knob, val)

		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[knob.Name()] = val

		if err := g.searchRecursive(ctx, depth+1, next, newParams, objective, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

func apply(cfg *config.Config, k Knob, value float64) {
	cfg.Walk(func(e *config.ElementConfig) {
		if ok, _ := path.Match(k.Match, e.ID); !ok {
			return
		}
		if e.Params == nil {
			e.Params = make(map[string]any)
		}
		e.Params[k.Param] = value
	})
}

func checkKnob(cfg *config.Config, k Knob) error {
	if _, err := path.Match(k.Match, ""); err != nil {
		return fmt.Errorf("knob %s: %w", k.Name(), err)
	}
	if len(k.Values) == 0 {
		return fmt.Errorf("knob %s: no values", k.Name())
	}
	found := false
	cfg.Walk(func(e *config.ElementConfig) {
		if ok, _ := path.Match(k.Match, e.ID); ok {
			found = true
		}
	})
	if !found {
		return fmt.Errorf("knob %s: no element matches", k.Name())
	}
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
