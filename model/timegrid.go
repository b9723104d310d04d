package model

import (
	"fmt"
	"math"
	"sort"

	"github.com/meenmo/mcval/utils"
)

// TimeGrid is a strictly increasing set of model times.
type TimeGrid []float64

// NewTimeGrid builds a uniform grid start, start+dt, ..., start+steps*dt.
func NewTimeGrid(start float64, steps int, dt float64) (TimeGrid, error) {
	if steps < 0 {
		return nil, fmt.Errorf("NewTimeGrid: negative step count %d", steps)
	}
	if dt <= 0 {
		return nil, fmt.Errorf("NewTimeGrid: step size must be positive, got %g", dt)
	}
	grid := make(TimeGrid, steps+1)
	for i := range grid {
		grid[i] = start + float64(i)*dt
	}
	return grid, nil
}

func (g TimeGrid) validate() error {
	if len(g) == 0 {
		return fmt.Errorf("empty time grid")
	}
	if !utils.IsIncreasing(g) {
		return fmt.Errorf("time grid must be strictly increasing")
	}
	return nil
}

// Start returns the first grid time.
func (g TimeGrid) Start() float64 { return g[0] }

// End returns the last grid time.
func (g TimeGrid) End() float64 { return g[len(g)-1] }

// IndexOf returns the index of the grid time within tol of t.
func (g TimeGrid) IndexOf(t, tol float64) (int, bool) {
	idx := sort.Search(len(g), func(i int) bool {
		return g[i] >= t-tol
	})
	if idx < len(g) && math.Abs(g[idx]-t) <= tol {
		return idx, true
	}
	return -1, false
}

// bracketOrBoundary returns the indices of two adjacent grid times bracketing t.
// Outside the grid the nearest boundary pair is returned. Needs at least two times.
func (g TimeGrid) bracketOrBoundary(t float64) (int, int) {
	idx := sort.Search(len(g), func(i int) bool {
		return g[i] >= t
	})
	if idx <= 0 {
		return 0, 1
	}
	if idx >= len(g) {
		return len(g) - 2, len(g) - 1
	}
	return idx - 1, idx
}
