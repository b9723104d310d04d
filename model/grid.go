package model

import (
	"fmt"

	"github.com/meenmo/mcval/config"
	"github.com/meenmo/mcval/pathvector"
)

// GridData holds explicitly simulated paths on a time grid.
//
// Numeraire, Weights and each asset are indexed [time][path]. Forwards are indexed
// [time][period][path], where period i spans Tenors[i]..Tenors[i+1] and the value at
// time index k is the forward rate as observed at Times[k].
type GridData struct {
	Times     []float64     `yaml:"times" json:"times"`
	Tenors    []float64     `yaml:"tenors,omitempty" json:"tenors,omitempty"`
	Numeraire [][]float64   `yaml:"numeraire" json:"numeraire"`
	Weights   [][]float64   `yaml:"weights,omitempty" json:"weights,omitempty"`
	Forwards  [][][]float64 `yaml:"forwards,omitempty" json:"forwards,omitempty"`
	Assets    [][][]float64 `yaml:"assets,omitempty" json:"assets,omitempty"`
}

// GridSimulation serves queries from pre-simulated paths. Times must lie on the grid
// within config.GridTimeTolerance; anything else is rejected with ErrTimeOutOfRange.
type GridSimulation struct {
	times     TimeGrid
	tenors    TimeGrid
	numeraire []pathvector.Vector
	weights   []pathvector.Vector
	forwards  [][]pathvector.Vector
	assets    [][]pathvector.Vector
	paths     int
	tolerance float64
}

// NewGridSimulation validates the shapes in data and builds a simulation from them.
// When Weights is empty every path carries the uniform weight 1/N.
func NewGridSimulation(data GridData) (*GridSimulation, error) {
	times := TimeGrid(data.Times)
	if err := times.validate(); err != nil {
		return nil, fmt.Errorf("NewGridSimulation: times: %w", err)
	}
	if len(data.Numeraire) != len(times) {
		return nil, fmt.Errorf("NewGridSimulation: numeraire has %d times, grid has %d", len(data.Numeraire), len(times))
	}
	paths := len(data.Numeraire[0])
	if paths == 0 {
		return nil, fmt.Errorf("NewGridSimulation: no paths")
	}

	g := &GridSimulation{
		times:     times,
		paths:     paths,
		tolerance: config.GetConfig().GridTimeTolerance,
	}

	var err error
	if g.numeraire, err = toVectors(times, data.Numeraire, paths); err != nil {
		return nil, fmt.Errorf("NewGridSimulation: numeraire: %w", err)
	}
	for k, n := range g.numeraire {
		if !(n.Min() > 0) {
			return nil, fmt.Errorf("NewGridSimulation: numeraire at t=%g must be strictly positive", times[k])
		}
	}

	if len(data.Weights) > 0 {
		if len(data.Weights) != len(times) {
			return nil, fmt.Errorf("NewGridSimulation: weights have %d times, grid has %d", len(data.Weights), len(times))
		}
		if g.weights, err = toVectors(times, data.Weights, paths); err != nil {
			return nil, fmt.Errorf("NewGridSimulation: weights: %w", err)
		}
		for k, w := range g.weights {
			if !(w.Min() > 0) {
				return nil, fmt.Errorf("NewGridSimulation: weights at t=%g must be strictly positive", times[k])
			}
		}
	}

	if len(data.Forwards) > 0 {
		tenors := TimeGrid(data.Tenors)
		if err := tenors.validate(); err != nil {
			return nil, fmt.Errorf("NewGridSimulation: tenors: %w", err)
		}
		if len(tenors) < 2 {
			return nil, fmt.Errorf("NewGridSimulation: need at least two tenor times")
		}
		if len(data.Forwards) != len(times) {
			return nil, fmt.Errorf("NewGridSimulation: forwards have %d times, grid has %d", len(data.Forwards), len(times))
		}
		g.tenors = tenors
		g.forwards = make([][]pathvector.Vector, len(times))
		for k, byPeriod := range data.Forwards {
			if len(byPeriod) != len(tenors)-1 {
				return nil, fmt.Errorf("NewGridSimulation: forwards at t=%g have %d periods, want %d", times[k], len(byPeriod), len(tenors)-1)
			}
			g.forwards[k] = make([]pathvector.Vector, len(byPeriod))
			for i, values := range byPeriod {
				if len(values) != paths {
					return nil, fmt.Errorf("NewGridSimulation: forwards at t=%g period %d have %d paths, want %d", times[k], i, len(values), paths)
				}
				g.forwards[k][i] = pathvector.New(times[k], values)
			}
		}
	}

	g.assets = make([][]pathvector.Vector, len(data.Assets))
	for a, levels := range data.Assets {
		if len(levels) != len(times) {
			return nil, fmt.Errorf("NewGridSimulation: asset %d has %d times, grid has %d", a, len(levels), len(times))
		}
		if g.assets[a], err = toVectors(times, levels, paths); err != nil {
			return nil, fmt.Errorf("NewGridSimulation: asset %d: %w", a, err)
		}
	}
	return g, nil
}

func toVectors(times TimeGrid, rows [][]float64, paths int) ([]pathvector.Vector, error) {
	out := make([]pathvector.Vector, len(rows))
	for k, row := range rows {
		if len(row) != paths {
			return nil, fmt.Errorf("t=%g has %d paths, want %d", times[k], len(row), paths)
		}
		out[k] = pathvector.New(times[k], row)
	}
	return out, nil
}

func (g *GridSimulation) NumberOfPaths() int { return g.paths }

// TimeDiscretization returns a copy of the simulation times.
func (g *GridSimulation) TimeDiscretization() TimeGrid {
	out := make(TimeGrid, len(g.times))
	copy(out, g.times)
	return out
}

func (g *GridSimulation) timeIndex(t float64) (int, error) {
	idx, ok := g.times.IndexOf(t, g.tolerance)
	if !ok {
		return -1, fmt.Errorf("t=%g not on grid [%g, %g]: %w", t, g.times.Start(), g.times.End(), ErrTimeOutOfRange)
	}
	return idx, nil
}

// Rate compounds the tenor forwards covering [start, end] as observed at start.
func (g *GridSimulation) Rate(start, end float64) (pathvector.Vector, error) {
	if g.forwards == nil {
		return pathvector.Vector{}, fmt.Errorf("GridSimulation.Rate: %w", ErrUnsupportedQuery)
	}
	if end <= start {
		return pathvector.Vector{}, fmt.Errorf("GridSimulation.Rate: [%g, %g]: %w", start, end, ErrInvalidPeriod)
	}
	k, err := g.timeIndex(start)
	if err != nil {
		return pathvector.Vector{}, fmt.Errorf("GridSimulation.Rate: %w", err)
	}
	first, ok := g.tenors.IndexOf(start, g.tolerance)
	if !ok {
		return pathvector.Vector{}, fmt.Errorf("GridSimulation.Rate: start %g not a tenor date: %w", start, ErrTimeOutOfRange)
	}
	last, ok := g.tenors.IndexOf(end, g.tolerance)
	if !ok {
		return pathvector.Vector{}, fmt.Errorf("GridSimulation.Rate: end %g not a tenor date: %w", end, ErrTimeOutOfRange)
	}

	growth := pathvector.ScalarAt(start, 1.0)
	for i := first; i < last; i++ {
		tau := g.tenors[i+1] - g.tenors[i]
		growth = growth.Mul(g.forwards[k][i].MulScalar(tau).AddScalar(1.0))
	}
	return growth.SubScalar(1.0).DivScalar(end - start), nil
}

func (g *GridSimulation) Numeraire(t float64) (pathvector.Vector, error) {
	k, err := g.timeIndex(t)
	if err != nil {
		return pathvector.Vector{}, fmt.Errorf("GridSimulation.Numeraire: %w", err)
	}
	return g.numeraire[k], nil
}

func (g *GridSimulation) Weight(t float64) (pathvector.Vector, error) {
	k, err := g.timeIndex(t)
	if err != nil {
		return pathvector.Vector{}, fmt.Errorf("GridSimulation.Weight: %w", err)
	}
	if g.weights == nil {
		return pathvector.ScalarAt(g.times[k], 1.0/float64(g.paths)), nil
	}
	return g.weights[k], nil
}

func (g *GridSimulation) AssetValue(t float64, asset int) (pathvector.Vector, error) {
	if asset < 0 || asset >= len(g.assets) {
		return pathvector.Vector{}, fmt.Errorf("GridSimulation.AssetValue: asset %d: %w", asset, ErrUnknownAsset)
	}
	k, err := g.timeIndex(t)
	if err != nil {
		return pathvector.Vector{}, fmt.Errorf("GridSimulation.AssetValue: %w", err)
	}
	return g.assets[asset][k], nil
}

func (g *GridSimulation) Constant(value float64) pathvector.Vector {
	return pathvector.Scalar(value)
}
