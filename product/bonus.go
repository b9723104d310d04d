package product

import (
	"fmt"

	"github.com/meenmo/mcval/model"
	"github.com/meenmo/mcval/pathvector"
)

// BonusOption pays S(0) * (1 + bonus) at maturity on paths where the asset finishes
// strictly above barrier, and the asset level S(T) itself otherwise.
type BonusOption struct {
	maturity float64
	barrier  float64
	bonus    float64
	asset    int
}

func NewBonusOption(maturity, barrier, bonus float64, asset int) (*BonusOption, error) {
	if maturity < 0 {
		return nil, fmt.Errorf("NewBonusOption: negative maturity %g: %w", maturity, ErrInvalidSchedule)
	}
	if asset < 0 {
		return nil, fmt.Errorf("NewBonusOption: asset index %d: %w", asset, ErrInvalidParameter)
	}
	return &BonusOption{maturity: maturity, barrier: barrier, bonus: bonus, asset: asset}, nil
}

func (o *BonusOption) Kind() Kind { return KindBonusOption }

// BonusPayoff is the per-path payoff given the asset level at maturity and at inception.
func BonusPayoff(atMaturity, atInitial, barrier, bonus float64) float64 {
	if atMaturity > barrier {
		return atInitial * (1 + bonus)
	}
	return atMaturity
}

func (o *BonusOption) Cashflows(m model.Simulation) ([]Cashflow, error) {
	underlyingAtMaturity, err := m.AssetValue(o.maturity, o.asset)
	if err != nil {
		return nil, fmt.Errorf("BonusOption.Cashflows: %w", err)
	}
	underlyingAtInitial, err := m.AssetValue(0.0, o.asset)
	if err != nil {
		return nil, fmt.Errorf("BonusOption.Cashflows: %w", err)
	}

	payoff := pathvector.Combine(underlyingAtMaturity, underlyingAtInitial, func(sT, s0 float64) float64 {
		return BonusPayoff(sT, s0, o.barrier, o.bonus)
	})
	return []Cashflow{{Payoff: payoff, PaymentTime: o.maturity}}, nil
}
