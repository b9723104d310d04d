package product

import (
	"fmt"
	"strings"

	"github.com/meenmo/mcval/model"
)

// Position describes whether the swap pays or receives the fixed rate.
type Position string

const (
	PositionPay     Position = "PAY"
	PositionReceive Position = "REC"
)

// ParsePosition accepts PAY/REC in any case.
func ParsePosition(s string) (Position, error) {
	switch Position(strings.ToUpper(strings.TrimSpace(s))) {
	case PositionPay:
		return PositionPay, nil
	case PositionReceive:
		return PositionReceive, nil
	default:
		return "", fmt.Errorf("ParsePosition: %q: must be PAY or REC: %w", s, ErrInvalidParameter)
	}
}

// Swap exchanges the floating rate for a per-period fixed swap rate. The payer pays
// fixed and receives (L_i - S_i) * tau_i * notional; the receiver gets the negative.
type Swap struct {
	swapRates    []float64
	fixingDates  []float64
	paymentDates []float64
	notional     float64
	position     Position
}

// NewPayerSwap returns a swap paying the fixed swapRates.
func NewPayerSwap(swapRates, fixingDates, paymentDates []float64, notional float64) (*Swap, error) {
	return NewSwap(swapRates, fixingDates, paymentDates, notional, PositionPay)
}

func NewSwap(swapRates, fixingDates, paymentDates []float64, notional float64, position Position) (*Swap, error) {
	if err := validatePeriods("NewSwap", fixingDates, paymentDates); err != nil {
		return nil, err
	}
	if len(swapRates) != len(fixingDates) {
		return nil, fmt.Errorf("NewSwap: %d swap rates for %d periods: %w", len(swapRates), len(fixingDates), ErrLengthMismatch)
	}
	if position != PositionPay && position != PositionReceive {
		return nil, fmt.Errorf("NewSwap: position %q: %w", position, ErrInvalidParameter)
	}
	return &Swap{
		swapRates:    clone(swapRates),
		fixingDates:  clone(fixingDates),
		paymentDates: clone(paymentDates),
		notional:     notional,
		position:     position,
	}, nil
}

func (s *Swap) Kind() Kind { return KindSwap }

func (s *Swap) Position() Position { return s.position }

func (s *Swap) Cashflows(m model.Simulation) ([]Cashflow, error) {
	sign := 1.0
	if s.position == PositionReceive {
		sign = -1.0
	}

	cashflows := make([]Cashflow, 0, len(s.fixingDates))
	for i := range s.fixingDates {
		fixingDate := s.fixingDates[i]
		paymentDate := s.paymentDates[i]
		periodLength := paymentDate - fixingDate

		libor, err := m.Rate(fixingDate, paymentDate)
		if err != nil {
			return nil, fmt.Errorf("Swap.Cashflows: period %d: %w", i, err)
		}
		swapRate := m.Constant(s.swapRates[i])

		periodPayoff := libor.Sub(swapRate).MulScalar(periodLength * s.notional * sign)
		cashflows = append(cashflows, Cashflow{Payoff: periodPayoff, PaymentTime: paymentDate})
	}
	return cashflows, nil
}
