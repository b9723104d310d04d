package product_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/mcval/model"
	"github.com/meenmo/mcval/product"
)

func TestCouponBond_YieldFromPrice(t *testing.T) {
	t.Parallel()

	bond, err := product.NewCouponBond(0.04, []float64{1, 2, 3, 4, 5}, 5)
	require.NoError(t, err)

	// a bond priced at par yields its coupon
	y, iters, err := bond.YieldFromPrice(1.0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.04, y, 1e-10)
	assert.Greater(t, iters, 0)

	for _, want := range []float64{-0.005, 0.01, 0.065, 0.2} {
		price := bond.PriceFromYield(want, 0)
		got, _, err := bond.YieldFromPrice(price, 0)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-9)
	}
}

func TestCouponBond_YieldOfCurvePrice(t *testing.T) {
	t.Parallel()

	// on a flat continuously compounded curve the yield is exp(r) - 1
	curve := model.NewFlatCurve(0.03)
	bond, err := product.NewCouponBond(0.05, []float64{1, 2, 3}, 3)
	require.NoError(t, err)

	price, err := product.Price(bond, 0, curve)
	require.NoError(t, err)
	y, _, err := bond.YieldFromPrice(price, 0)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(0.03)-1, y, 1e-9)
}

func TestCouponBond_YieldValidation(t *testing.T) {
	t.Parallel()

	bond, err := product.NewCouponBond(0.04, []float64{1}, 1)
	require.NoError(t, err)

	_, _, err = bond.YieldFromPrice(1, 2)
	assert.ErrorIs(t, err, product.ErrInvalidSchedule)
	_, _, err = bond.YieldFromPrice(-1, 0)
	assert.ErrorIs(t, err, product.ErrInvalidParameter)
}
