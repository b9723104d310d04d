package model_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/mcval/model"
)

func TestTimeGrid_IndexOf(t *testing.T) {
	t.Parallel()

	grid, err := model.NewTimeGrid(0, 4, 0.25)
	require.NoError(t, err)
	assert.Equal(t, 0.0, grid.Start())
	assert.Equal(t, 1.0, grid.End())

	idx, ok := grid.IndexOf(0.5, 1e-9)
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	idx, ok = grid.IndexOf(0.75+1e-12, 1e-9)
	require.True(t, ok)
	assert.Equal(t, 3, idx)

	_, ok = grid.IndexOf(0.6, 1e-9)
	assert.False(t, ok)
	_, ok = grid.IndexOf(1.5, 1e-9)
	assert.False(t, ok)

	_, err = model.NewTimeGrid(0, 4, 0)
	assert.Error(t, err)
	_, err = model.NewTimeGrid(0, -1, 0.1)
	assert.Error(t, err)
}

func gridData() model.GridData {
	return model.GridData{
		Times:     []float64{0, 0.5, 1},
		Tenors:    []float64{0, 0.5, 1},
		Numeraire: [][]float64{{1, 1}, {1.01, 1.02}, {1.02, 1.05}},
		Forwards: [][][]float64{
			{{0.02, 0.02}, {0.03, 0.03}},
			{{0.02, 0.02}, {0.04, 0.01}},
			{{0.02, 0.02}, {0.04, 0.01}},
		},
		Assets: [][][]float64{{{10, 10}, {11, 9}, {12, 8}}},
	}
}

func TestGridSimulation_Queries(t *testing.T) {
	t.Parallel()

	g, err := model.NewGridSimulation(gridData())
	require.NoError(t, err)
	assert.Equal(t, 2, g.NumberOfPaths())
	assert.Equal(t, model.TimeGrid{0, 0.5, 1}, g.TimeDiscretization())

	n, err := g.Numeraire(0.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.01, 1.02}, n.Values())
	assert.Equal(t, 0.5, n.Time())

	w, err := g.Weight(1)
	require.NoError(t, err)
	assert.True(t, w.IsDeterministic())
	assert.Equal(t, 0.5, w.Average())

	s, err := g.AssetValue(1, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{12, 8}, s.Values())

	_, err = g.AssetValue(1, 1)
	assert.ErrorIs(t, err, model.ErrUnknownAsset)
	_, err = g.Numeraire(0.75)
	assert.ErrorIs(t, err, model.ErrTimeOutOfRange)
	_, err = g.Weight(-0.5)
	assert.ErrorIs(t, err, model.ErrTimeOutOfRange)
}

func TestGridSimulation_RateCompoundsTenorForwards(t *testing.T) {
	t.Parallel()

	g, err := model.NewGridSimulation(gridData())
	require.NoError(t, err)

	single, err := g.Rate(0.5, 1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.04, 0.01}, single.Values(), 1e-12)
	assert.Equal(t, 0.5, single.Time())

	// observed at 0: (1 + 0.02*0.5)(1 + 0.03*0.5) - 1 over one year
	whole, err := g.Rate(0, 1)
	require.NoError(t, err)
	want := (1.01*1.015 - 1) / 1.0
	assert.InDeltaSlice(t, []float64{want, want}, whole.Values(), 1e-12)

	_, err = g.Rate(1, 0.5)
	assert.ErrorIs(t, err, model.ErrInvalidPeriod)
	_, err = g.Rate(0.25, 1)
	assert.ErrorIs(t, err, model.ErrTimeOutOfRange)
}

func TestGridSimulation_ExplicitWeights(t *testing.T) {
	t.Parallel()

	data := gridData()
	data.Weights = [][]float64{{0.25, 0.75}, {0.25, 0.75}, {0.25, 0.75}}
	g, err := model.NewGridSimulation(data)
	require.NoError(t, err)

	w, err := g.Weight(0.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.75}, w.Values())
}

func TestGridSimulation_WithoutForwards(t *testing.T) {
	t.Parallel()

	data := gridData()
	data.Forwards = nil
	data.Tenors = nil
	g, err := model.NewGridSimulation(data)
	require.NoError(t, err)

	_, err = g.Rate(0, 0.5)
	assert.ErrorIs(t, err, model.ErrUnsupportedQuery)
}

func TestGridSimulation_RejectsBadShapes(t *testing.T) {
	t.Parallel()

	cases := map[string]func(d *model.GridData){
		"unsorted times":         func(d *model.GridData) { d.Times = []float64{0, 1, 0.5} },
		"numeraire rows":         func(d *model.GridData) { d.Numeraire = d.Numeraire[:2] },
		"ragged numeraire":       func(d *model.GridData) { d.Numeraire[1] = []float64{1} },
		"non-positive numeraire": func(d *model.GridData) { d.Numeraire[2] = []float64{1, 0} },
		"weight rows":            func(d *model.GridData) { d.Weights = [][]float64{{1, 1}} },
		"zero weight":            func(d *model.GridData) { d.Weights = [][]float64{{0, 0}, {0.5, 0.5}, {0.5, 0.5}} },
		"negative weight":        func(d *model.GridData) { d.Weights = [][]float64{{1, 1}, {1, -1}, {1, 1}} },
		"forward periods":        func(d *model.GridData) { d.Forwards[0] = d.Forwards[0][:1] },
		"forward paths":          func(d *model.GridData) { d.Forwards[1][0] = []float64{0.02} },
		"asset rows":             func(d *model.GridData) { d.Assets[0] = d.Assets[0][:1] },
	}
	for name, mutate := range cases {
		mutate := mutate
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			data := gridData()
			mutate(&data)
			_, err := model.NewGridSimulation(data)
			assert.Error(t, err)
		})
	}
}

func TestDecodeGrid_YAML(t *testing.T) {
	t.Parallel()

	doc := `
times: [0, 1]
tenors: [0, 1]
numeraire:
  - [1, 1, 1]
  - [1.02, 1.03, 1.01]
forwards:
  - [[0.02, 0.03, 0.01]]
  - [[0.02, 0.03, 0.01]]
assets:
  - [[100, 100, 100], [105, 98, 110]]
`
	g, err := model.DecodeGrid(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumberOfPaths())

	r, err := g.Rate(0, 1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.02, 0.03, 0.01}, r.Values(), 1e-12)
}

func TestLoadGrid_JSONFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scenario.json")
	doc := `{"times": [0, 0.5], "numeraire": [[1, 1], [1.01, 1.01]], "assets": [[[50, 50], [51, 49]]]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	g, err := model.LoadGrid(path)
	require.NoError(t, err)
	s, err := g.AssetValue(0.5, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{51, 49}, s.Values())

	_, err = model.LoadGrid(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCurve_LogLinearDiscountFactors(t *testing.T) {
	t.Parallel()

	curve, err := model.NewCurveFromDFs(map[float64]float64{1: 0.98, 2: 0.95}, 100)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, curve.DF(0), 1e-15)
	assert.InDelta(t, 0.98, curve.DF(1), 1e-15)
	assert.InDelta(t, 0.95, curve.DF(2), 1e-15)
	assert.InDelta(t, math.Sqrt(0.98*0.95), curve.DF(1.5), 1e-12)

	// flat forward beyond the last pillar
	assert.InDelta(t, 0.95*0.95/0.98, curve.DF(3), 1e-12)

	times, dfs := curve.Pillars()
	assert.Equal(t, []float64{0, 1, 2}, times)
	assert.Equal(t, []float64{1, 0.98, 0.95}, dfs)
}

func TestCurve_Queries(t *testing.T) {
	t.Parallel()

	curve := model.NewFlatCurve(0.03, 50)
	assert.Equal(t, 1, curve.NumberOfPaths())
	assert.InDelta(t, 3.0, curve.ZeroRateAt(2), 1e-12)

	r, err := curve.Rate(1, 2)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(0.03)-1, r.Average(), 1e-12)

	n, err := curve.Numeraire(2)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(0.06), n.Average(), 1e-12)

	w, err := curve.Weight(2)
	require.NoError(t, err)
	assert.Equal(t, 1.0, w.Average())

	s, err := curve.AssetValue(1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 50*math.Exp(0.03), s.Average(), 1e-12)

	_, err = curve.AssetValue(1, 1)
	assert.ErrorIs(t, err, model.ErrUnknownAsset)
	_, err = curve.Numeraire(-1)
	assert.ErrorIs(t, err, model.ErrTimeOutOfRange)
	_, err = curve.Rate(2, 2)
	assert.ErrorIs(t, err, model.ErrInvalidPeriod)
}

func TestNewCurveFromDFs_Validation(t *testing.T) {
	t.Parallel()

	_, err := model.NewCurveFromDFs(map[float64]float64{1: -0.5})
	assert.Error(t, err)
	_, err = model.NewCurveFromDFs(map[float64]float64{-1: 1.01})
	assert.Error(t, err)
	_, err = model.NewCurveFromDFs(nil)
	assert.Error(t, err)
}

func blackScholes(t *testing.T, seed uint64) *model.BlackScholes {
	t.Helper()

	bs, err := model.NewBlackScholes(model.BlackScholesParams{
		InitialValue:      100,
		RiskFreeRate:      0.05,
		Volatility:        0.2,
		NumberOfPaths:     10000,
		NumberOfTimeSteps: 4,
		DeltaT:            0.25,
		Seed:              seed,
	})
	require.NoError(t, err)
	return bs
}

func TestBlackScholes_DiscountedAssetIsMartingale(t *testing.T) {
	t.Parallel()

	bs := blackScholes(t, 42)
	s, err := bs.AssetValue(1, 0)
	require.NoError(t, err)
	n, err := bs.Numeraire(1)
	require.NoError(t, err)

	discounted := s.Div(n)
	assert.InDelta(t, 100, discounted.Average(), 4*discounted.StandardError())
	assert.Greater(t, s.Min(), 0.0)

	s0, err := bs.AssetValue(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 100.0, s0.Min())
	assert.Equal(t, 100.0, s0.Max())
}

func TestBlackScholes_ReproducibleBySeed(t *testing.T) {
	t.Parallel()

	a, err := blackScholes(t, 1).AssetValue(0.5, 0)
	require.NoError(t, err)
	b, err := blackScholes(t, 1).AssetValue(0.5, 0)
	require.NoError(t, err)
	c, err := blackScholes(t, 2).AssetValue(0.5, 0)
	require.NoError(t, err)

	assert.Equal(t, a.Values(), b.Values())
	assert.NotEqual(t, a.Values(), c.Values())
}

func TestBlackScholes_Queries(t *testing.T) {
	t.Parallel()

	bs := blackScholes(t, 9)
	assert.Equal(t, model.TimeGrid{0, 0.25, 0.5, 0.75, 1}, bs.TimeDiscretization())

	w, err := bs.Weight(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 1e-4, w.Average(), 1e-18)

	r, err := bs.Rate(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(0.05)-1, r.Average(), 1e-12)

	_, err = bs.AssetValue(0.3, 0)
	assert.ErrorIs(t, err, model.ErrTimeOutOfRange)
	_, err = bs.AssetValue(0.5, 1)
	assert.ErrorIs(t, err, model.ErrUnknownAsset)
	_, err = bs.Numeraire(2)
	assert.ErrorIs(t, err, model.ErrTimeOutOfRange)

	_, err = model.NewBlackScholes(model.BlackScholesParams{InitialValue: -1, NumberOfPaths: 1, DeltaT: 1})
	assert.Error(t, err)
}
