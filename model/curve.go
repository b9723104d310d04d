package model

import (
	"fmt"
	"math"
	"sort"

	"github.com/meenmo/mcval/pathvector"
)

// Curve is a deterministic single-path model built from discount factor pillars.
//
// Discount factors are interpolated log-linearly (piecewise flat forwards) and extrapolated
// with the boundary forward. The numeraire is the rolled-up bank account 1/DF(t), the path
// weight is 1, and asset i evolves at its forward S_i(0)/DF(t).
type Curve struct {
	times TimeGrid
	dfs   []float64
	spots []float64
}

// NewCurveFromDFs creates a curve from explicit discount factors keyed by time in years.
// A pillar DF(0) = 1 is added when missing.
func NewCurveFromDFs(dfs map[float64]float64, spots ...float64) (*Curve, error) {
	pillars := make(map[float64]float64, len(dfs)+1)
	pillars[0] = 1.0
	for t, df := range dfs {
		if t < 0 {
			return nil, fmt.Errorf("NewCurveFromDFs: negative pillar time %g", t)
		}
		if df <= 0 {
			return nil, fmt.Errorf("NewCurveFromDFs: discount factor at %g must be positive, got %g", t, df)
		}
		pillars[t] = df
	}
	if len(pillars) < 2 {
		return nil, fmt.Errorf("NewCurveFromDFs: need at least one pillar after t=0")
	}

	times := make(TimeGrid, 0, len(pillars))
	for t := range pillars {
		times = append(times, t)
	}
	sort.Float64s(times)

	c := &Curve{
		times: times,
		dfs:   make([]float64, len(times)),
		spots: append([]float64(nil), spots...),
	}
	for i, t := range times {
		c.dfs[i] = pillars[t]
	}
	return c, nil
}

// NewFlatCurve creates a curve with a constant continuously compounded zero rate.
func NewFlatCurve(rate float64, spots ...float64) *Curve {
	c, _ := NewCurveFromDFs(map[float64]float64{1.0: math.Exp(-rate)}, spots...)
	return c
}

// DF returns the discount factor at t.
func (c *Curve) DF(t float64) float64 {
	i1, i2 := c.times.bracketOrBoundary(t)
	t1, t2 := c.times[i1], c.times[i2]
	df1, df2 := c.dfs[i1], c.dfs[i2]
	forward := math.Log(df1/df2) / (t2 - t1)
	return df1 * math.Exp(-forward*(t-t1))
}

// ZeroRateAt returns the continuously compounded zero rate at t in percent.
func (c *Curve) ZeroRateAt(t float64) float64 {
	if t <= 0 {
		t = c.times[1]
	}
	return -math.Log(c.DF(t)) / t * 100.0
}

// Pillars returns the pillar times and discount factors.
func (c *Curve) Pillars() ([]float64, []float64) {
	return append([]float64(nil), c.times...), append([]float64(nil), c.dfs...)
}

func (c *Curve) NumberOfPaths() int { return 1 }

func (c *Curve) Rate(start, end float64) (pathvector.Vector, error) {
	if start < 0 {
		return pathvector.Vector{}, fmt.Errorf("Curve.Rate: start %g: %w", start, ErrTimeOutOfRange)
	}
	if end <= start {
		return pathvector.Vector{}, fmt.Errorf("Curve.Rate: [%g, %g]: %w", start, end, ErrInvalidPeriod)
	}
	rate := (c.DF(start)/c.DF(end) - 1.0) / (end - start)
	return pathvector.ScalarAt(start, rate), nil
}

func (c *Curve) Numeraire(t float64) (pathvector.Vector, error) {
	if t < 0 {
		return pathvector.Vector{}, fmt.Errorf("Curve.Numeraire: t=%g: %w", t, ErrTimeOutOfRange)
	}
	return pathvector.ScalarAt(t, 1.0/c.DF(t)), nil
}

func (c *Curve) Weight(t float64) (pathvector.Vector, error) {
	if t < 0 {
		return pathvector.Vector{}, fmt.Errorf("Curve.Weight: t=%g: %w", t, ErrTimeOutOfRange)
	}
	return pathvector.ScalarAt(t, 1.0), nil
}

func (c *Curve) AssetValue(t float64, asset int) (pathvector.Vector, error) {
	if asset < 0 || asset >= len(c.spots) {
		return pathvector.Vector{}, fmt.Errorf("Curve.AssetValue: asset %d: %w", asset, ErrUnknownAsset)
	}
	if t < 0 {
		return pathvector.Vector{}, fmt.Errorf("Curve.AssetValue: t=%g: %w", t, ErrTimeOutOfRange)
	}
	return pathvector.ScalarAt(t, c.spots[asset]/c.DF(t)), nil
}

func (c *Curve) Constant(value float64) pathvector.Vector {
	return pathvector.Scalar(value)
}
