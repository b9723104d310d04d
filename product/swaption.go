package product

import (
	"fmt"

	"github.com/meenmo/mcval/model"
)

// Swaption is a European option, exercised at periodStart, to enter a single-period
// payer swap at swapRate. It pays max((L - K) * tau, 0) at periodEnd.
type Swaption struct {
	periodStart float64
	periodEnd   float64
	swapRate    float64
}

func NewSwaption(periodStart, periodEnd, swapRate float64) (*Swaption, error) {
	if periodEnd <= periodStart {
		return nil, fmt.Errorf("NewSwaption: period end %g must follow start %g: %w", periodEnd, periodStart, ErrInvalidSchedule)
	}
	return &Swaption{periodStart: periodStart, periodEnd: periodEnd, swapRate: swapRate}, nil
}

func (s *Swaption) Kind() Kind { return KindSwaption }

func (s *Swaption) Cashflows(m model.Simulation) ([]Cashflow, error) {
	periodLength := s.periodEnd - s.periodStart

	// rate as seen on the exercise date
	libor, err := m.Rate(s.periodStart, s.periodEnd)
	if err != nil {
		return nil, fmt.Errorf("Swaption.Cashflows: %w", err)
	}

	payoff := libor.SubScalar(s.swapRate).MulScalar(periodLength).Floor(0.0)
	return []Cashflow{{Payoff: payoff, PaymentTime: s.periodEnd}}, nil
}
