package pathvector_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/mcval/pathvector"
)

func TestArithmetic_Elementwise(t *testing.T) {
	t.Parallel()

	a := pathvector.New(1.0, []float64{1, 2, 3})
	b := pathvector.New(2.0, []float64{4, 5, 6})

	assert.Equal(t, []float64{5, 7, 9}, a.Add(b).Values())
	assert.Equal(t, []float64{-3, -3, -3}, a.Sub(b).Values())
	assert.Equal(t, []float64{4, 10, 18}, a.Mul(b).Values())
	assert.InDeltaSlice(t, []float64{0.25, 0.4, 0.5}, a.Div(b).Values(), 1e-15)
	assert.Equal(t, 2.0, a.Add(b).Time())
}

func TestScalar_Broadcasts(t *testing.T) {
	t.Parallel()

	v := pathvector.New(0.5, []float64{1, 2, 3})
	c := pathvector.Scalar(10)

	got := c.Sub(v)
	require.False(t, got.IsDeterministic())
	assert.Equal(t, []float64{9, 8, 7}, got.Values())
	assert.Equal(t, 0.5, got.Time())

	both := pathvector.Scalar(2).Mul(pathvector.ScalarAt(3, 4))
	assert.True(t, both.IsDeterministic())
	assert.Equal(t, 8.0, both.At(17))
	assert.Equal(t, 3.0, both.Time())
}

func TestOperationsDoNotMutateOperands(t *testing.T) {
	t.Parallel()

	raw := []float64{1, -1}
	v := pathvector.New(0, raw)
	raw[0] = 100

	_ = v.AddScalar(5).MulScalar(2).Floor(0)
	assert.Equal(t, []float64{1, -1}, v.Values())
}

func TestFloorCap(t *testing.T) {
	t.Parallel()

	v := pathvector.New(0, []float64{-0.01, 0, 0.02})
	assert.Equal(t, []float64{0, 0, 0.02}, v.Floor(0).Values())
	assert.Equal(t, []float64{-0.01, 0, 0}, v.Cap(0).Values())
}

func TestShapeMismatchPanics(t *testing.T) {
	t.Parallel()

	a := pathvector.New(0, []float64{1, 2})
	b := pathvector.New(0, []float64{1, 2, 3})

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic on mismatched path counts")
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, pathvector.ErrShapeMismatch))
	}()
	_ = a.Add(b)
}

func TestCombine(t *testing.T) {
	t.Parallel()

	a := pathvector.New(1, []float64{95, 80})
	b := pathvector.Scalar(100)
	got := pathvector.Combine(a, b, func(x, y float64) float64 {
		if x > 90 {
			return y
		}
		return x
	})
	assert.Equal(t, []float64{100, 80}, got.Values())
}

func TestStatistics(t *testing.T) {
	t.Parallel()

	v := pathvector.New(0, []float64{1, 2, 3, 4})
	assert.InDelta(t, 2.5, v.Average(), 1e-15)
	assert.InDelta(t, 5.0/3.0, v.Variance(), 1e-15)
	assert.InDelta(t, math.Sqrt(5.0/3.0)/2, v.StandardError(), 1e-15)
	assert.Equal(t, 1.0, v.Min())
	assert.Equal(t, 4.0, v.Max())

	s := pathvector.Scalar(7)
	assert.Equal(t, 7.0, s.Average())
	assert.Equal(t, 0.0, s.StandardError())
}
