package main

import (
	"fmt"

	"github.com/meenmo/blacklib/black"
)

func main() {
	const (
		forward = 104.0
		strike  = 85.0
		expiry  = 4.5
		vol     = 0.10
	)

	price, err := black.Price(forward, strike, expiry, vol, black.Call)
	if err != nil {
		panic(err)
	}
	vd, err := black.PriceAdjoint(forward, strike, expiry, vol, black.Call)
	if err != nil {
		panic(err)
	}
	implied, err := black.ImpliedVolatility(price, forward, strike, expiry, black.Call)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Price:       %.12f\n", price)
	fmt.Printf("Delta:       %.12f\n", vd.Derivatives[0])
	fmt.Printf("Dual delta:  %.12f\n", vd.Derivatives[1])
	fmt.Printf("dPrice/dT:   %.12f\n", vd.Derivatives[2])
	fmt.Printf("Vega:        %.12f\n", vd.Derivatives[3])
	fmt.Printf("Implied vol: %.12f\n", implied)
}
