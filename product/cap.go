package product

import (
	"fmt"

	"github.com/meenmo/mcval/model"
)

// Cap is a strip of caplets paying max(L_i - K_i, 0) * tau_i at each payment date,
// where L_i is the rate fixed at fixingDates[i] for the period up to paymentDates[i].
type Cap struct {
	fixingDates  []float64
	paymentDates []float64
	strikes      []float64
}

// NewCap validates the schedule and returns a cap. All slices must have equal length.
func NewCap(fixingDates, paymentDates, strikes []float64) (*Cap, error) {
	if err := validatePeriods("NewCap", fixingDates, paymentDates); err != nil {
		return nil, err
	}
	if len(strikes) != len(fixingDates) {
		return nil, fmt.Errorf("NewCap: %d strikes for %d periods: %w", len(strikes), len(fixingDates), ErrLengthMismatch)
	}
	return &Cap{
		fixingDates:  clone(fixingDates),
		paymentDates: clone(paymentDates),
		strikes:      clone(strikes),
	}, nil
}

func (c *Cap) Kind() Kind { return KindCap }

// Strikes returns a copy of the per-period strikes.
func (c *Cap) Strikes() []float64 { return clone(c.strikes) }

func (c *Cap) Cashflows(m model.Simulation) ([]Cashflow, error) {
	cashflows := make([]Cashflow, 0, len(c.fixingDates))
	for period := range c.fixingDates {
		fixingDate := c.fixingDates[period]
		paymentDate := c.paymentDates[period]
		periodLength := paymentDate - fixingDate

		libor, err := m.Rate(fixingDate, paymentDate)
		if err != nil {
			return nil, fmt.Errorf("Cap.Cashflows: period %d: %w", period, err)
		}

		payoff := libor.SubScalar(c.strikes[period]).Floor(0.0).MulScalar(periodLength)
		cashflows = append(cashflows, Cashflow{Payoff: payoff, PaymentTime: paymentDate})
	}
	return cashflows, nil
}

// Caplet is a single-period option on the rate fixed at periodStart and paid at periodEnd.
// A caplet pays max(L - K, 0) * tau, a floorlet pays -min(L - K, 0) * tau.
type Caplet struct {
	periodStart float64
	periodEnd   float64
	strike      float64
	isFloorlet  bool
}

// NewCaplet returns a caplet, or a floorlet when isFloorlet is set.
func NewCaplet(periodStart, periodEnd, strike float64, isFloorlet bool) (*Caplet, error) {
	if periodEnd <= periodStart {
		return nil, fmt.Errorf("NewCaplet: period end %g must follow start %g: %w", periodEnd, periodStart, ErrInvalidSchedule)
	}
	return &Caplet{
		periodStart: periodStart,
		periodEnd:   periodEnd,
		strike:      strike,
		isFloorlet:  isFloorlet,
	}, nil
}

func (c *Caplet) Kind() Kind { return KindCaplet }

// IsFloorlet reports whether c pays the floorlet side.
func (c *Caplet) IsFloorlet() bool { return c.isFloorlet }

func (c *Caplet) Cashflows(m model.Simulation) ([]Cashflow, error) {
	periodLength := c.periodEnd - c.periodStart

	libor, err := m.Rate(c.periodStart, c.periodEnd)
	if err != nil {
		return nil, fmt.Errorf("Caplet.Cashflows: %w", err)
	}

	payoff := libor.SubScalar(c.strike)
	if c.isFloorlet {
		payoff = payoff.Cap(0.0).MulScalar(-periodLength)
	} else {
		payoff = payoff.Floor(0.0).MulScalar(periodLength)
	}
	return []Cashflow{{Payoff: payoff, PaymentTime: c.periodEnd}}, nil
}
