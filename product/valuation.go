package product

import (
	"fmt"

	"github.com/meenmo/mcval/model"
	"github.com/meenmo/mcval/pathvector"
)

// Deflate sums the numeraire-relative values of cashflows and re-expresses the total at
// evaluationTime:
//
//	V(t) = N(t)/w(t) * sum_i X_i / N(T_i) * w(T_i)
//
// Cashflows paid before evaluationTime are skipped. The returned vector is per path; its
// average is the price when the numeraire at evaluationTime is deterministic.
func Deflate(cashflows []Cashflow, evaluationTime float64, m model.Simulation) (pathvector.Vector, error) {
	values := m.Constant(0.0)

	for _, cf := range cashflows {
		if evaluationTime > cf.PaymentTime {
			continue
		}

		numeraire, err := m.Numeraire(cf.PaymentTime)
		if err != nil {
			return pathvector.Vector{}, fmt.Errorf("Deflate: numeraire at %g: %w", cf.PaymentTime, err)
		}
		monteCarloWeights, err := m.Weight(cf.PaymentTime)
		if err != nil {
			return pathvector.Vector{}, fmt.Errorf("Deflate: weight at %g: %w", cf.PaymentTime, err)
		}

		values = values.Add(cf.Payoff.Div(numeraire).Mul(monteCarloWeights))
	}

	numeraireAtEval, err := m.Numeraire(evaluationTime)
	if err != nil {
		return pathvector.Vector{}, fmt.Errorf("Deflate: numeraire at evaluation time %g: %w", evaluationTime, err)
	}
	weightsAtEval, err := m.Weight(evaluationTime)
	if err != nil {
		return pathvector.Vector{}, fmt.Errorf("Deflate: weight at evaluation time %g: %w", evaluationTime, err)
	}

	return values.Mul(numeraireAtEval).Div(weightsAtEval), nil
}

// Value returns the per-path value of p at evaluationTime.
func Value(p Product, evaluationTime float64, m model.Simulation) (pathvector.Vector, error) {
	cashflows, err := p.Cashflows(m)
	if err != nil {
		return pathvector.Vector{}, err
	}
	return Deflate(cashflows, evaluationTime, m)
}

// Price returns the path average of Value. It is only meaningful when the numeraire is
// deterministic at evaluationTime.
func Price(p Product, evaluationTime float64, m model.Simulation) (float64, error) {
	v, err := Value(p, evaluationTime, m)
	if err != nil {
		return 0, err
	}
	return v.Average(), nil
}
