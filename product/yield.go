package product

import (
	"errors"
	"fmt"
	"math"
)

const (
	yieldFloor     = -0.99
	yieldCeiling   = 1.0
	yieldTolerance = 1e-12
	yieldMaxIter   = 100
)

// ErrNoConvergence is returned when the yield solver exhausts its iterations.
var ErrNoConvergence = errors.New("yield solver did not converge")

// YieldFromPrice returns the annually compounded yield y at which the bond's remaining
// cashflows after evaluationTime discount to price:
//
//	price = sum_k CF_k / (1+y)^(T_k - evaluationTime)
//
// It also returns the number of Newton iterations used.
func (b *CouponBond) YieldFromPrice(price, evaluationTime float64) (float64, int, error) {
	times, amounts := b.remainingCashflows(evaluationTime)
	if len(times) == 0 {
		return 0, 0, fmt.Errorf("CouponBond.YieldFromPrice: no cashflows after %g: %w", evaluationTime, ErrInvalidSchedule)
	}
	if price <= 0 {
		return 0, 0, fmt.Errorf("CouponBond.YieldFromPrice: price %g must be positive: %w", price, ErrInvalidParameter)
	}

	y := clamp(0.025, yieldFloor, yieldCeiling)
	for iter := 0; iter < yieldMaxIter; iter++ {
		pv, dPdy := priceAndDerivative(y, evaluationTime, times, amounts)
		f := pv - price

		if math.Abs(f) < yieldTolerance {
			return y, iter + 1, nil
		}
		if math.Abs(dPdy) < 1e-15 {
			return y, iter + 1, fmt.Errorf("CouponBond.YieldFromPrice: derivative vanished at iteration %d: %w", iter, ErrNoConvergence)
		}
		y = clamp(y-f/dPdy, yieldFloor, yieldCeiling)
	}
	return y, yieldMaxIter, fmt.Errorf("CouponBond.YieldFromPrice: %d iterations: %w", yieldMaxIter, ErrNoConvergence)
}

// PriceFromYield is the inverse of YieldFromPrice.
func (b *CouponBond) PriceFromYield(y, evaluationTime float64) float64 {
	times, amounts := b.remainingCashflows(evaluationTime)
	pv, _ := priceAndDerivative(y, evaluationTime, times, amounts)
	return pv
}

func (b *CouponBond) remainingCashflows(evaluationTime float64) ([]float64, []float64) {
	var times, amounts []float64
	for _, d := range b.couponDates {
		if d >= evaluationTime {
			times = append(times, d)
			amounts = append(amounts, b.coupon)
		}
	}
	if b.maturity >= evaluationTime {
		times = append(times, b.maturity)
		amounts = append(amounts, 1.0)
	}
	return times, amounts
}

//	P     = sum CF_k / (1+y)^t_k
//	dP/dy = sum -t_k CF_k / (1+y)^(t_k+1)
func priceAndDerivative(y, evaluationTime float64, times, amounts []float64) (float64, float64) {
	var price, deriv float64
	for i, T := range times {
		t := T - evaluationTime
		price += amounts[i] / math.Pow(1.0+y, t)
		deriv += -t * amounts[i] / math.Pow(1.0+y, t+1)
	}
	return price, deriv
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
