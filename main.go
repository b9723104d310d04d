package main

import (
	"fmt"

	"github.com/meenmo/mcval/model"
	"github.com/meenmo/mcval/product"
)

func main() {
	curve, err := model.NewCurveFromDFs(map[float64]float64{
		0.5: 0.98750000,
		1:   0.97450000,
		2:   0.94700000,
		3:   0.91800000,
		5:   0.85900000,
	})
	if err != nil {
		panic(err)
	}

	fixings := []float64{0, 1, 2, 3, 4}
	payments := []float64{1, 2, 3, 4, 5}
	swapRates := make([]float64, len(fixings))
	for i := range swapRates {
		swapRates[i] = 0.031
	}

	swap, err := product.NewPayerSwap(swapRates, fixings, payments, 10_000_000)
	if err != nil {
		panic(err)
	}
	floaterBond, err := product.NewFloaterBond(fixings, payments, 5, 10_000_000)
	if err != nil {
		panic(err)
	}
	bond, err := product.NewCouponBond(0.031, payments, 5)
	if err != nil {
		panic(err)
	}

	for _, p := range []product.Product{swap, floaterBond, bond} {
		price, err := product.Price(p, 0, curve)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%-12s %.6f\n", p.Kind(), price)
	}
}
