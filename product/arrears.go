package product

import (
	"fmt"

	"github.com/meenmo/mcval/model"
)

// LiborInArrears pays the rate fixed over [fixing, periodEnd] times the accrual and
// notional, but only at paymentTime, which may fall after the period ends.
type LiborInArrears struct {
	fixing      float64
	periodEnd   float64
	paymentTime float64
	notional    float64
}

func NewLiborInArrears(fixing, periodEnd, paymentTime, notional float64) (*LiborInArrears, error) {
	if periodEnd <= fixing {
		return nil, fmt.Errorf("NewLiborInArrears: period end %g must follow fixing %g: %w", periodEnd, fixing, ErrInvalidSchedule)
	}
	if paymentTime < fixing {
		return nil, fmt.Errorf("NewLiborInArrears: payment %g before fixing %g: %w", paymentTime, fixing, ErrInvalidSchedule)
	}
	return &LiborInArrears{fixing: fixing, periodEnd: periodEnd, paymentTime: paymentTime, notional: notional}, nil
}

func (l *LiborInArrears) Kind() Kind { return KindLiborInArrears }

// PaymentTime is when the fixed coupon is paid.
func (l *LiborInArrears) PaymentTime() float64 { return l.paymentTime }

func (l *LiborInArrears) Cashflows(m model.Simulation) ([]Cashflow, error) {
	libor, err := m.Rate(l.fixing, l.periodEnd)
	if err != nil {
		return nil, fmt.Errorf("LiborInArrears.Cashflows: %w", err)
	}
	payoff := libor.MulScalar(l.periodEnd - l.fixing).MulScalar(l.notional)
	return []Cashflow{{Payoff: payoff, PaymentTime: l.paymentTime}}, nil
}
