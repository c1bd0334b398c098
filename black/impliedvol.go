package black

import (
	"fmt"
	"math"
)

const (
	volTolerance = 1e-14
	volMaxIter   = 100
	volCeiling   = 1e12
	// intrinsicTol absorbs decimal-to-binary noise when a quoted price
	// sits at (or a hair around) the intrinsic value.
	intrinsicTol = 1e-12
)

// ImpliedVolatility inverts the Black price for the volatility.
//
// It rejects negative inputs and prices outside the no-arbitrage
// bounds [intrinsic, F] (call) or [intrinsic, K] (put). Prices at or a
// hair above intrinsic, including every T = 0 quote, short-circuit to
// zero volatility. Otherwise it runs Newton-Raphson with the analytic
// vega as derivative, falling back to bisection on a maintained
// bracket whenever a step leaves it or vega vanishes.
func ImpliedVolatility(price, forward, strike, expiry float64, pc PutCall) (float64, error) {
	vol, _, err := solveImpliedVol(price, forward, strike, expiry, pc)
	return vol, err
}

// ImpliedVolatilityAdjoint returns the implied volatility together
// with its sensitivity to the option price, [dVol/dPrice], obtained
// from the implicit function theorem as 1/vega at the solved point.
func ImpliedVolatilityAdjoint(price, forward, strike, expiry float64, pc PutCall) (ValueDerivatives, error) {
	vol, _, err := solveImpliedVol(price, forward, strike, expiry, pc)
	if err != nil {
		return ValueDerivatives{}, err
	}
	vega := newTerms(forward, strike, expiry, vol).vega()
	dPrice := math.Inf(1)
	if vega > 0 {
		dPrice = 1 / vega
	}
	return ValueDerivatives{Value: vol, Derivatives: []float64{dPrice}}, nil
}

func solveImpliedVol(price, forward, strike, expiry float64, pc PutCall) (float64, int, error) {
	if err := validate(forward, strike, expiry, 0); err != nil {
		return 0, 0, err
	}
	if err := checkNonNegative(price, "price"); err != nil {
		return 0, 0, err
	}
	w := pc.Sign()
	intrinsic := math.Max(w*(forward-strike), 0)
	upper := forward
	if pc == Put {
		upper = strike
	}
	scale := math.Max(1, math.Max(forward, strike))
	if price < intrinsic-intrinsicTol*scale {
		return 0, 0, fmt.Errorf("%w: price %g below intrinsic %g", ErrPriceOutOfBounds, price, intrinsic)
	}
	if price > upper+intrinsicTol*scale {
		return 0, 0, fmt.Errorf("%w: price %g above %g", ErrPriceOutOfBounds, price, upper)
	}
	if price-intrinsic <= intrinsicTol*scale || expiry == 0 {
		return 0, 0, nil
	}

	// Expand the bracket until it contains the root.
	lo, hi := 0.0, 1.0
	for priceAt(forward, strike, expiry, hi, pc) < price {
		hi *= 2
		if hi > volCeiling {
			return 0, 0, fmt.Errorf("%w: no volatility below %g reproduces price %g", ErrNoConvergence, volCeiling, price)
		}
	}

	// ATM-straddle seed: straddle ~ (F+K)*n(0)*vol*sqrt(T), with the
	// straddle recovered from the quote by put-call parity.
	sigma := math.Sqrt(2*math.Pi/expiry) * (2*price - w*(forward-strike)) / (forward + strike)
	if math.IsNaN(sigma) || sigma <= lo || sigma >= hi {
		sigma = 0.5 * hi
	}

	for iter := 0; iter < volMaxIter; iter++ {
		t := newTerms(forward, strike, expiry, sigma)
		f := t.price(pc) - price
		if f > 0 {
			hi = sigma
		} else {
			lo = sigma
		}

		next := 0.5 * (lo + hi)
		if vega := t.vega(); vega > 0 {
			if step := sigma - f/vega; step > lo && step < hi {
				next = step
			}
		}
		if math.Abs(next-sigma) <= volTolerance*math.Max(1, sigma) {
			return next, iter + 1, nil
		}
		sigma = next
	}
	return 0, volMaxIter, fmt.Errorf("%w after %d iterations", ErrNoConvergence, volMaxIter)
}

func priceAt(forward, strike, expiry, vol float64, pc PutCall) float64 {
	return newTerms(forward, strike, expiry, vol).price(pc)
}

// atmApproxLimit is the relative moneyness below which the symmetric
// at-the-money expansion replaces the generic one.
const atmApproxLimit = 1e-3

// ImpliedVolatilityFromNormalApproximated converts a normal (Bachelier)
// volatility into an approximate Black volatility via the closed-form
// asymptotic expansion; no iteration is involved.
func ImpliedVolatilityFromNormalApproximated(forward, strike, expiry, normalVol float64) (float64, error) {
	vd, err := ImpliedVolatilityFromNormalApproximated2(forward, strike, expiry, normalVol)
	if err != nil {
		return 0, err
	}
	return vd.Value, nil
}

// ImpliedVolatilityFromNormalApproximated2 additionally returns the
// sensitivity of the approximate Black volatility to the normal
// volatility input, [dVol/dNormalVol].
func ImpliedVolatilityFromNormalApproximated2(forward, strike, expiry, normalVol float64) (ValueDerivatives, error) {
	if !(forward > 0) {
		return ValueDerivatives{}, fmt.Errorf("%w: forward must be strictly positive, have %g", ErrNegativeArgument, forward)
	}
	if !(strike > 0) {
		return ValueDerivatives{}, fmt.Errorf("%w: strike must be strictly positive, have %g", ErrNegativeArgument, strike)
	}
	if err := checkNonNegative(expiry, "expiry"); err != nil {
		return ValueDerivatives{}, err
	}
	if err := checkNonNegative(normalVol, "normalVol"); err != nil {
		return ValueDerivatives{}, err
	}

	lnFK := math.Log(forward / strike)
	s2t := normalVol * normalVol * expiry
	if math.Abs(forward-strike) < atmApproxLimit*strike {
		factor := 1 / math.Sqrt(forward*strike)
		den := 1 + lnFK*lnFK/24
		num := 1 + s2t/(24*forward*strike)
		return ValueDerivatives{
			Value:       normalVol * factor * num / den,
			Derivatives: []float64{factor * (3*num - 2) / den},
		}, nil
	}
	factor := lnFK / (forward - strike)
	expansion := 1 + (1-lnFK*lnFK/120)*s2t/(24*forward*strike)
	return ValueDerivatives{
		Value:       normalVol * factor * expansion,
		Derivatives: []float64{factor * (3*expansion - 2)},
	}, nil
}
