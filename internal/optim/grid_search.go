// Package optim searches solver parameter space for configurations
// that minimize a recorded metric, e.g. the pressure multiplier that
// settles a scene with the least density deviation.
package optim

import (
	"context"
	"math"

	"github.com/san-kum/fluidlab/internal/solver"
)

// BuildRunner constructs a fresh runner for one parameter assignment.
// Each evaluation gets its own solver so runs stay independent.
type BuildRunner func(params map[string]float64) (*solver.Runner, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search evaluates every point on the grid and returns the assignment
// with the lowest final value of the named metric. Build or run
// failures skip the point rather than aborting the search.
func (g *GridSearch) Search(
	ctx context.Context,
	build BuildRunner,
	metricName string,
	duration, frameDt float32,
) (map[string]float64, float64, error) {

	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), build, metricName, duration, frameDt, &best, &bestParams)

	if err := ctx.Err(); err != nil {
		return bestParams, best, err
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build BuildRunner,
	metricName string,
	duration, frameDt float32,
	best *float64,
	bestParams *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}

	if depth == len(g.paramNames) {
		runner, err := build(current)
		if err != nil {
			return
		}

		result, err := runner.Run(ctx, duration, frameDt)
		if err != nil {
			return
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return
		}
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[paramName] = val

		g.searchRecursive(ctx, depth+1, next, build, metricName, duration, frameDt, best, bestParams)
	}
}

// Linspace returns n evenly spaced values from min to max inclusive,
// the usual way to build a sweep axis.
func Linspace(min, max float64, n int) []float64 {
	if n <= 1 {
		return []float64{min}
	}
	step := (max - min) / float64(n-1)
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = min + float64(i)*step
	}
	return vals
}
