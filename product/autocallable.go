package product

import (
	"fmt"
	"math"

	"github.com/meenmo/mcval/model"
	"github.com/meenmo/mcval/pathvector"
	"github.com/meenmo/mcval/utils"
)

// RedemptionAmount is repaid per unit notional on the date a path autocalls.
const RedemptionAmount = 1.0

// AutocallState is the per-path state carried from one exercise date to the next.
// Memory holds coupons deferred on earlier dates and is 0 once the path has autocalled;
// Exercised is 1 from the autocall date on.
type AutocallState struct {
	Memory    pathvector.Vector
	Exercised pathvector.Vector
}

// InitialAutocallState is the state before the first exercise date.
func InitialAutocallState() AutocallState {
	return AutocallState{Memory: pathvector.Scalar(0.0), Exercised: pathvector.Scalar(0.0)}
}

// IsEligibleForMemory returns 1 when the underlying is at or above the coupon barrier.
func IsEligibleForMemory(underlying, barrierLevel float64) float64 {
	if underlying >= barrierLevel {
		return 1.0
	}
	return 0.0
}

// IsAboveInitialLevel returns 1 when the underlying is strictly above the initial level.
func IsAboveInitialLevel(underlying, initialLevel float64) float64 {
	if underlying > initialLevel {
		return 1.0
	}
	return 0.0
}

// MemoryAutocallable pays a coupon on each exercise date where the underlying is at or
// above the coupon barrier, together with every coupon missed since the last such date.
// When the underlying closes above its initial level the note also repays the notional
// and terminates.
type MemoryAutocallable struct {
	exerciseDates   []float64
	initialLevel    float64
	coupon          float64
	barrierFraction float64
	notional        float64
	asset           int
}

func NewMemoryAutocallable(exerciseDates []float64, initialLevel, coupon, barrierFraction, notional float64, asset int) (*MemoryAutocallable, error) {
	if !utils.IsIncreasing(exerciseDates) {
		return nil, fmt.Errorf("NewMemoryAutocallable: exercise dates must be strictly increasing: %w", ErrInvalidSchedule)
	}
	if coupon < 0 || math.IsNaN(coupon) {
		return nil, fmt.Errorf("NewMemoryAutocallable: coupon %g must be non-negative: %w", coupon, ErrInvalidParameter)
	}
	if barrierFraction < 0 || math.IsNaN(barrierFraction) {
		return nil, fmt.Errorf("NewMemoryAutocallable: barrier fraction %g must be non-negative: %w", barrierFraction, ErrInvalidParameter)
	}
	if asset < 0 {
		return nil, fmt.Errorf("NewMemoryAutocallable: asset index %d: %w", asset, ErrInvalidParameter)
	}
	return &MemoryAutocallable{
		exerciseDates:   clone(exerciseDates),
		initialLevel:    initialLevel,
		coupon:          coupon,
		barrierFraction: barrierFraction,
		notional:        notional,
		asset:           asset,
	}, nil
}

func (a *MemoryAutocallable) Kind() Kind { return KindMemoryAutocallable }

// BarrierLevel is the absolute coupon barrier.
func (a *MemoryAutocallable) BarrierLevel() float64 { return a.barrierFraction * a.initialLevel }

// ExerciseDates returns a copy of the observation schedule.
func (a *MemoryAutocallable) ExerciseDates() []float64 { return clone(a.exerciseDates) }

// Step advances state by one exercise date given the underlying observed on that date.
// The returned payoff is zero on paths that autocalled on an earlier date.
func (a *MemoryAutocallable) Step(state AutocallState, underlying pathvector.Vector) (pathvector.Vector, AutocallState) {
	barrierLevel := a.BarrierLevel()

	eligibleForMemory := underlying.Apply(func(x float64) float64 { return IsEligibleForMemory(x, barrierLevel) })
	aboveInitialLevel := underlying.Apply(func(x float64) float64 { return IsAboveInitialLevel(x, a.initialLevel) })
	alive := state.Exercised.MulScalar(-1.0).AddScalar(1.0)

	owed := state.Memory.AddScalar(a.coupon)
	payoff := eligibleForMemory.Mul(owed).
		Add(aboveInitialLevel.MulScalar(RedemptionAmount)).
		Mul(alive).
		MulScalar(a.notional)

	exercised := pathvector.Combine(state.Exercised, aboveInitialLevel, math.Max)
	next := AutocallState{
		Memory: owed.
			Mul(eligibleForMemory.MulScalar(-1.0).AddScalar(1.0)).
			Mul(exercised.MulScalar(-1.0).AddScalar(1.0)),
		Exercised: exercised,
	}
	return payoff, next
}

// AutocallObservation records one exercise date of a Trace: the payoff on that date and
// the state after it.
type AutocallObservation struct {
	Date   float64
	Payoff pathvector.Vector
	State  AutocallState
}

// Trace folds Step over the exercise dates in increasing order.
func (a *MemoryAutocallable) Trace(m model.Simulation) ([]AutocallObservation, error) {
	observations := make([]AutocallObservation, 0, len(a.exerciseDates))
	state := InitialAutocallState()

	for _, exerciseDate := range a.exerciseDates {
		underlying, err := m.AssetValue(exerciseDate, a.asset)
		if err != nil {
			return nil, fmt.Errorf("MemoryAutocallable.Trace: underlying at %g: %w", exerciseDate, err)
		}

		var payoff pathvector.Vector
		payoff, state = a.Step(state, underlying)
		observations = append(observations, AutocallObservation{Date: exerciseDate, Payoff: payoff, State: state})
	}
	return observations, nil
}

func (a *MemoryAutocallable) Cashflows(m model.Simulation) ([]Cashflow, error) {
	observations, err := a.Trace(m)
	if err != nil {
		return nil, err
	}
	cashflows := make([]Cashflow, len(observations))
	for i, obs := range observations {
		cashflows[i] = Cashflow{Payoff: obs.Payoff, PaymentTime: obs.Date}
	}
	return cashflows, nil
}
