// Package product implements the payoff of each supported interest rate and equity
// product and values them against a model.Simulation by deflating every cashflow with
// the numeraire and Monte Carlo weight at its payment time.
package product

import (
	"errors"
	"fmt"

	"github.com/meenmo/mcval/model"
	"github.com/meenmo/mcval/pathvector"
	"github.com/meenmo/mcval/utils"
)

var (
	// ErrLengthMismatch is returned when parallel parameter slices differ in length.
	ErrLengthMismatch = errors.New("parameter length mismatch")
	// ErrInvalidSchedule is returned for unordered dates or payments before fixings.
	ErrInvalidSchedule = errors.New("invalid schedule")
	// ErrInvalidParameter is returned for out-of-domain scalar parameters.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Kind identifies a product variant.
type Kind string

const (
	KindCap                Kind = "CAP"
	KindCaplet             Kind = "CAPLET"
	KindFloater            Kind = "FLOATER"
	KindFloaterBond        Kind = "FLOATER_BOND"
	KindSwap               Kind = "SWAP"
	KindCouponBond         Kind = "COUPON_BOND"
	KindSwaption           Kind = "SWAPTION"
	KindBonusOption        Kind = "BONUS_OPTION"
	KindMemoryAutocallable Kind = "MEMORY_AUTOCALLABLE"
	KindLiborInArrears     Kind = "LIBOR_IN_ARREARS"
)

// Cashflow is an undiscounted per-path payoff paid at PaymentTime.
type Cashflow struct {
	Payoff      pathvector.Vector
	PaymentTime float64
}

// Product produces the undiscounted cashflows of a trade from a simulation.
// Implementations hold no state between calls.
type Product interface {
	Kind() Kind
	Cashflows(m model.Simulation) ([]Cashflow, error)
}

// validatePeriods checks a fixing/payment schedule: equal lengths, fixings
// non-decreasing and each payment on or after its fixing.
func validatePeriods(fn string, fixingDates, paymentDates []float64) error {
	if len(fixingDates) != len(paymentDates) {
		return fmt.Errorf("%s: %d fixing dates vs %d payment dates: %w", fn, len(fixingDates), len(paymentDates), ErrLengthMismatch)
	}
	if !utils.IsNonDecreasing(fixingDates) {
		return fmt.Errorf("%s: fixing dates must be non-decreasing: %w", fn, ErrInvalidSchedule)
	}
	for i := range fixingDates {
		if paymentDates[i] < fixingDates[i] {
			return fmt.Errorf("%s: period %d pays at %g before fixing at %g: %w", fn, i, paymentDates[i], fixingDates[i], ErrInvalidSchedule)
		}
	}
	return nil
}

func clone(xs []float64) []float64 {
	return append([]float64(nil), xs...)
}
