package product

import (
	"fmt"

	"github.com/meenmo/mcval/model"
)

// Floater pays the floating coupon L_i * tau_i * notional at each payment date.
type Floater struct {
	fixingDates  []float64
	paymentDates []float64
	notional     float64
}

func NewFloater(fixingDates, paymentDates []float64, notional float64) (*Floater, error) {
	if err := validatePeriods("NewFloater", fixingDates, paymentDates); err != nil {
		return nil, err
	}
	return &Floater{
		fixingDates:  clone(fixingDates),
		paymentDates: clone(paymentDates),
		notional:     notional,
	}, nil
}

func (f *Floater) Kind() Kind { return KindFloater }

func (f *Floater) Cashflows(m model.Simulation) ([]Cashflow, error) {
	return floatingCoupons("Floater.Cashflows", m, f.fixingDates, f.paymentDates, f.notional)
}

func floatingCoupons(fn string, m model.Simulation, fixingDates, paymentDates []float64, notional float64) ([]Cashflow, error) {
	cashflows := make([]Cashflow, 0, len(fixingDates)+1)
	for i := range fixingDates {
		fixingDate := fixingDates[i]
		paymentDate := paymentDates[i]

		coupon, err := m.Rate(fixingDate, paymentDate)
		if err != nil {
			return nil, fmt.Errorf("%s: period %d: %w", fn, i, err)
		}
		coupon = coupon.MulScalar(paymentDate - fixingDate).MulScalar(notional)
		cashflows = append(cashflows, Cashflow{Payoff: coupon, PaymentTime: paymentDate})
	}
	return cashflows, nil
}

// FloaterBond is a Floater that also repays its notional at maturity.
type FloaterBond struct {
	Floater
	maturity float64
}

func NewFloaterBond(fixingDates, paymentDates []float64, maturity, notional float64) (*FloaterBond, error) {
	floater, err := NewFloater(fixingDates, paymentDates, notional)
	if err != nil {
		return nil, fmt.Errorf("NewFloaterBond: %w", err)
	}
	if n := len(paymentDates); n > 0 && maturity < paymentDates[n-1] {
		return nil, fmt.Errorf("NewFloaterBond: maturity %g before last payment %g: %w", maturity, paymentDates[n-1], ErrInvalidSchedule)
	}
	return &FloaterBond{Floater: *floater, maturity: maturity}, nil
}

func (f *FloaterBond) Kind() Kind { return KindFloaterBond }

func (f *FloaterBond) Cashflows(m model.Simulation) ([]Cashflow, error) {
	cashflows, err := floatingCoupons("FloaterBond.Cashflows", m, f.fixingDates, f.paymentDates, f.notional)
	if err != nil {
		return nil, err
	}
	redemption := Cashflow{Payoff: m.Constant(f.notional), PaymentTime: f.maturity}
	return append(cashflows, redemption), nil
}
