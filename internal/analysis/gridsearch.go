package analysis

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
)

var ErrEmptyGrid = errors.New("analysis: empty parameter grid")

// GridSearch walks the Cartesian product of parameter values and keeps the
// point with the lowest objective.
type GridSearch struct {
	names  []string
	ranges [][]float64
}

func NewGridSearch(names []string, ranges [][]float64) *GridSearch {
	return &GridSearch{names: names, ranges: ranges}
}

// Search evaluates objective at every grid point. The first evaluation error
// aborts the search. To maximize, negate the objective.
func (g *GridSearch) Search(
	ctx context.Context,
	objective func(params map[string]float64) (float64, error),
) (map[string]float64, float64, error) {
	if len(g.names) == 0 || len(g.names) != len(g.ranges) {
		return nil, 0, ErrEmptyGrid
	}
	for i, r := range g.ranges {
		if len(r) == 0 {
			return nil, 0, fmt.Errorf("%w: no values for %s", ErrEmptyGrid, g.names[i])
		}
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	err := g.walk(ctx, 0, make(map[string]float64, len(g.names)), func(p map[string]float64) error {
		val, err := objective(p)
		if err != nil {
			return fmt.Errorf("%v: %w", p, err)
		}
		if val < best || bestParams == nil {
			best = val
			bestParams = maps.Clone(p)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return bestParams, best, nil
}

func (g *GridSearch) walk(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64) error) error {
	if depth == len(g.names) {
		if err := ctx.Err(); err != nil {
			return err
		}
		return visit(current)
	}
	for _, v := range g.ranges[depth] {
		current[g.names[depth]] = v
		if err := g.walk(ctx, depth+1, current, visit); err != nil {
			return err
		}
	}
	return nil
}
