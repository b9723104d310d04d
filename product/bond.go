package product

import (
	"fmt"

	"github.com/meenmo/mcval/model"
	"github.com/meenmo/mcval/utils"
)

// CouponBond pays a fixed coupon amount on every coupon date and a unit redemption at maturity.
type CouponBond struct {
	coupon      float64
	couponDates []float64
	maturity    float64
}

func NewCouponBond(coupon float64, couponDates []float64, maturity float64) (*CouponBond, error) {
	if !utils.IsNonDecreasing(couponDates) {
		return nil, fmt.Errorf("NewCouponBond: coupon dates must be non-decreasing: %w", ErrInvalidSchedule)
	}
	if n := len(couponDates); n > 0 && maturity < couponDates[n-1] {
		return nil, fmt.Errorf("NewCouponBond: maturity %g before last coupon %g: %w", maturity, couponDates[n-1], ErrInvalidSchedule)
	}
	return &CouponBond{
		coupon:      coupon,
		couponDates: clone(couponDates),
		maturity:    maturity,
	}, nil
}

func (b *CouponBond) Kind() Kind { return KindCouponBond }

func (b *CouponBond) Maturity() float64 { return b.maturity }

func (b *CouponBond) Cashflows(m model.Simulation) ([]Cashflow, error) {
	cashflows := make([]Cashflow, 0, len(b.couponDates)+1)
	for _, d := range b.couponDates {
		cashflows = append(cashflows, Cashflow{Payoff: m.Constant(b.coupon), PaymentTime: d})
	}
	cashflows = append(cashflows, Cashflow{Payoff: m.Constant(1.0), PaymentTime: b.maturity})
	return cashflows, nil
}
