// Package pathvector holds immutable per-path Monte Carlo values tagged with an observation time.
package pathvector

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrShapeMismatch is the panic cause when two stochastic vectors of different
// path counts are combined.
var ErrShapeMismatch = errors.New("path count mismatch")

// Vector is an immutable vector of per-path values observed at a given time.
//
// A deterministic vector (see Scalar) holds a single value that broadcasts against
// any path count. All operations return a new Vector and never modify their operands.
type Vector struct {
	time   float64
	scalar float64
	values []float64 // nil for a deterministic vector
}

// Scalar returns a deterministic vector with no observation time.
func Scalar(value float64) Vector {
	return Vector{time: math.Inf(-1), scalar: value}
}

// ScalarAt returns a deterministic vector observed at t.
func ScalarAt(t, value float64) Vector {
	return Vector{time: t, scalar: value}
}

// New returns a stochastic vector observed at t. The values are copied.
func New(t float64, values []float64) Vector {
	if len(values) == 0 {
		panic("pathvector.New: empty values")
	}
	cp := make([]float64, len(values))
	copy(cp, values)
	return Vector{time: t, values: cp}
}

// Filled returns a stochastic vector of n paths all equal to value.
func Filled(t float64, n int, value float64) Vector {
	if n <= 0 {
		panic(fmt.Sprintf("pathvector.Filled: invalid path count %d", n))
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = value
	}
	return Vector{time: t, values: values}
}

// Time returns the observation time.
func (v Vector) Time() float64 { return v.time }

// IsDeterministic reports whether v carries a single broadcast value.
func (v Vector) IsDeterministic() bool { return v.values == nil }

// Size returns the number of paths, 1 for a deterministic vector.
func (v Vector) Size() int {
	if v.values == nil {
		return 1
	}
	return len(v.values)
}

// At returns the value on path i. A deterministic vector returns its value for every i.
func (v Vector) At(i int) float64 {
	if v.values == nil {
		return v.scalar
	}
	return v.values[i]
}

// Values returns a copy of the per-path values.
func (v Vector) Values() []float64 {
	if v.values == nil {
		return []float64{v.scalar}
	}
	out := make([]float64, len(v.values))
	copy(out, v.values)
	return out
}

// Expand returns v as a stochastic vector with n paths.
func (v Vector) Expand(n int) Vector {
	if v.values != nil {
		if len(v.values) != n {
			panic(fmt.Errorf("pathvector.Expand: %w: have %d paths, want %d", ErrShapeMismatch, len(v.values), n))
		}
		return v
	}
	return Filled(v.time, n, v.scalar)
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return v.combine(o, "Add", floats.AddTo, func(a, b float64) float64 { return a + b })
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return v.combine(o, "Sub", floats.SubTo, func(a, b float64) float64 { return a - b })
}

// Mul returns v * o.
func (v Vector) Mul(o Vector) Vector {
	return v.combine(o, "Mul", floats.MulTo, func(a, b float64) float64 { return a * b })
}

// Div returns v / o.
func (v Vector) Div(o Vector) Vector {
	return v.combine(o, "Div", floats.DivTo, func(a, b float64) float64 { return a / b })
}

// AddScalar returns v + c.
func (v Vector) AddScalar(c float64) Vector {
	if v.values == nil {
		return ScalarAt(v.time, v.scalar+c)
	}
	out := v.clone()
	floats.AddConst(c, out.values)
	return out
}

// SubScalar returns v - c.
func (v Vector) SubScalar(c float64) Vector {
	return v.AddScalar(-c)
}

// MulScalar returns v * c.
func (v Vector) MulScalar(c float64) Vector {
	if v.values == nil {
		return ScalarAt(v.time, v.scalar*c)
	}
	out := v.clone()
	floats.Scale(c, out.values)
	return out
}

// DivScalar returns v / c.
func (v Vector) DivScalar(c float64) Vector {
	return v.Apply(func(x float64) float64 { return x / c })
}

// Floor returns max(v, lower) path-wise.
func (v Vector) Floor(lower float64) Vector {
	return v.Apply(func(x float64) float64 { return math.Max(x, lower) })
}

// Cap returns min(v, upper) path-wise.
func (v Vector) Cap(upper float64) Vector {
	return v.Apply(func(x float64) float64 { return math.Min(x, upper) })
}

// Apply maps f over every path.
func (v Vector) Apply(f func(float64) float64) Vector {
	if v.values == nil {
		return ScalarAt(v.time, f(v.scalar))
	}
	out := make([]float64, len(v.values))
	for i, x := range v.values {
		out[i] = f(x)
	}
	return Vector{time: v.time, values: out}
}

// Combine maps f over the paths of a and b pairwise.
func Combine(a, b Vector, f func(x, y float64) float64) Vector {
	t := math.Max(a.time, b.time)
	if a.values == nil && b.values == nil {
		return ScalarAt(t, f(a.scalar, b.scalar))
	}
	n := pathCount("Combine", a, b)
	out := make([]float64, n)
	for i := range out {
		out[i] = f(a.At(i), b.At(i))
	}
	return Vector{time: t, values: out}
}

// Average returns the path average.
func (v Vector) Average() float64 {
	if v.values == nil {
		return v.scalar
	}
	return stat.Mean(v.values, nil)
}

// Variance returns the unbiased sample variance across paths, 0 for a deterministic vector.
func (v Vector) Variance() float64 {
	if v.values == nil || len(v.values) < 2 {
		return 0
	}
	return stat.Variance(v.values, nil)
}

// StandardError returns the Monte Carlo standard error of Average.
func (v Vector) StandardError() float64 {
	if v.values == nil || len(v.values) < 2 {
		return 0
	}
	return stat.StdErr(math.Sqrt(v.Variance()), float64(len(v.values)))
}

// Min returns the smallest path value.
func (v Vector) Min() float64 {
	if v.values == nil {
		return v.scalar
	}
	return floats.Min(v.values)
}

// Max returns the largest path value.
func (v Vector) Max() float64 {
	if v.values == nil {
		return v.scalar
	}
	return floats.Max(v.values)
}

func (v Vector) clone() Vector {
	out := Vector{time: v.time, scalar: v.scalar}
	if v.values != nil {
		out.values = make([]float64, len(v.values))
		copy(out.values, v.values)
	}
	return out
}

func (v Vector) combine(o Vector, op string, vec func(dst, s, t []float64) []float64, sc func(a, b float64) float64) Vector {
	t := math.Max(v.time, o.time)
	if v.values == nil && o.values == nil {
		return ScalarAt(t, sc(v.scalar, o.scalar))
	}
	n := pathCount(op, v, o)
	dst := make([]float64, n)
	vec(dst, v.Expand(n).values, o.Expand(n).values)
	return Vector{time: t, values: dst}
}

func pathCount(op string, a, b Vector) int {
	switch {
	case a.values == nil:
		return len(b.values)
	case b.values == nil:
		return len(a.values)
	case len(a.values) != len(b.values):
		panic(fmt.Errorf("pathvector.%s: %w: %d vs %d", op, ErrShapeMismatch, len(a.values), len(b.values)))
	default:
		return len(a.values)
	}
}
