package model

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/meenmo/mcval/config"
	"github.com/meenmo/mcval/pathvector"
)

// BlackScholesParams configures a single-asset Black-Scholes simulation.
type BlackScholesParams struct {
	InitialValue      float64
	RiskFreeRate      float64
	Volatility        float64
	NumberOfPaths     int
	NumberOfTimeSteps int
	DeltaT            float64
	Seed              uint64
}

// BlackScholes simulates one lognormal asset on a uniform grid under the risk neutral
// measure with the bank account exp(r t) as numeraire. Paths are equally weighted.
type BlackScholes struct {
	params    BlackScholesParams
	times     TimeGrid
	levels    []pathvector.Vector
	tolerance float64
}

// NewBlackScholes simulates all paths eagerly using the exact log-Euler step
//
//	S(t+dt) = S(t) * exp((r - sigma^2/2) dt + sigma sqrt(dt) Z)
//
// so the result is reproducible for a given Seed.
func NewBlackScholes(p BlackScholesParams) (*BlackScholes, error) {
	switch {
	case p.InitialValue <= 0:
		return nil, fmt.Errorf("NewBlackScholes: initial value must be positive, got %g", p.InitialValue)
	case p.Volatility < 0:
		return nil, fmt.Errorf("NewBlackScholes: negative volatility %g", p.Volatility)
	case p.NumberOfPaths <= 0:
		return nil, fmt.Errorf("NewBlackScholes: number of paths must be positive, got %d", p.NumberOfPaths)
	}
	times, err := NewTimeGrid(0, p.NumberOfTimeSteps, p.DeltaT)
	if err != nil {
		return nil, fmt.Errorf("NewBlackScholes: %w", err)
	}

	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(p.Seed)}
	drift := (p.RiskFreeRate - 0.5*p.Volatility*p.Volatility) * p.DeltaT
	diffusion := p.Volatility * math.Sqrt(p.DeltaT)

	current := make([]float64, p.NumberOfPaths)
	for i := range current {
		current[i] = p.InitialValue
	}
	levels := make([]pathvector.Vector, len(times))
	levels[0] = pathvector.New(times[0], current)
	for k := 1; k < len(times); k++ {
		for i := range current {
			current[i] *= math.Exp(drift + diffusion*normal.Rand())
		}
		levels[k] = pathvector.New(times[k], current)
	}

	return &BlackScholes{
		params:    p,
		times:     times,
		levels:    levels,
		tolerance: config.GetConfig().GridTimeTolerance,
	}, nil
}

func (b *BlackScholes) NumberOfPaths() int { return b.params.NumberOfPaths }

// TimeDiscretization returns a copy of the simulation times.
func (b *BlackScholes) TimeDiscretization() TimeGrid {
	return append(TimeGrid(nil), b.times...)
}

func (b *BlackScholes) checkRange(t float64) error {
	if t < b.times.Start()-b.tolerance || t > b.times.End()+b.tolerance {
		return fmt.Errorf("t=%g outside [%g, %g]: %w", t, b.times.Start(), b.times.End(), ErrTimeOutOfRange)
	}
	return nil
}

// Rate returns the deterministic simple rate implied by the constant short rate.
func (b *BlackScholes) Rate(start, end float64) (pathvector.Vector, error) {
	if end <= start {
		return pathvector.Vector{}, fmt.Errorf("BlackScholes.Rate: [%g, %g]: %w", start, end, ErrInvalidPeriod)
	}
	if err := b.checkRange(start); err != nil {
		return pathvector.Vector{}, fmt.Errorf("BlackScholes.Rate: %w", err)
	}
	rate := (math.Exp(b.params.RiskFreeRate*(end-start)) - 1.0) / (end - start)
	return pathvector.ScalarAt(start, rate), nil
}

func (b *BlackScholes) Numeraire(t float64) (pathvector.Vector, error) {
	if err := b.checkRange(t); err != nil {
		return pathvector.Vector{}, fmt.Errorf("BlackScholes.Numeraire: %w", err)
	}
	return pathvector.ScalarAt(t, math.Exp(b.params.RiskFreeRate*t)), nil
}

func (b *BlackScholes) Weight(t float64) (pathvector.Vector, error) {
	if err := b.checkRange(t); err != nil {
		return pathvector.Vector{}, fmt.Errorf("BlackScholes.Weight: %w", err)
	}
	return pathvector.ScalarAt(t, 1.0/float64(b.params.NumberOfPaths)), nil
}

func (b *BlackScholes) AssetValue(t float64, asset int) (pathvector.Vector, error) {
	if asset != 0 {
		return pathvector.Vector{}, fmt.Errorf("BlackScholes.AssetValue: asset %d: %w", asset, ErrUnknownAsset)
	}
	k, ok := b.times.IndexOf(t, b.tolerance)
	if !ok {
		return pathvector.Vector{}, fmt.Errorf("BlackScholes.AssetValue: t=%g not on grid: %w", t, ErrTimeOutOfRange)
	}
	return b.levels[k], nil
}

func (b *BlackScholes) Constant(value float64) pathvector.Vector {
	return pathvector.Scalar(value)
}
