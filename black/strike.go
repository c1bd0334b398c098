package black

import (
	"fmt"
	"math"

	"github.com/meenmo/blacklib/normal"
)

// StrikeForDelta inverts the delta formula in closed form:
//
//	K = F * exp(-omega*N⁻¹(omega*delta)*vol*sqrt(T) + vol²*T/2).
//
// delta must lie strictly inside (0,1) for calls and (-1,0) for puts.
//
// At vol -> 0 the delta surface is a step function, so deltas away from
// {0, ±0.5, ±1} have no finite preimage; the closed form then returns
// the forward (or diverges through the quantile term). This limiting
// behavior is deliberate and should not be "corrected".
func StrikeForDelta(forward, delta, expiry, vol float64, pc PutCall) (float64, error) {
	if err := checkNonNegative(forward, "forward"); err != nil {
		return 0, err
	}
	if err := checkNonNegative(expiry, "expiry"); err != nil {
		return 0, err
	}
	if err := checkNonNegative(vol, "vol"); err != nil {
		return 0, err
	}
	w := pc.Sign()
	if !(w*delta > 0 && w*delta < 1) {
		return 0, fmt.Errorf("%w: delta %g for a %s", ErrDeltaOutOfRange, delta, pc)
	}
	s := totalStdDev(vol, expiry)
	x := normal.Quantile(w * delta)
	return forward * math.Exp(-w*x*s+0.5*s*s), nil
}

// ImpliedStrike recovers the strike from a raw delta. A positive delta
// passed with the put flag is taken to be the un-normalized call-side
// quote N(d1) and shifted onto the put convention first.
func ImpliedStrike(delta float64, pc PutCall, forward, expiry, vol float64) (float64, error) {
	vd, err := ImpliedStrikeAdjoint(delta, pc, forward, expiry, vol)
	if err != nil {
		return 0, err
	}
	return vd.Value, nil
}

// ImpliedStrikeAdjoint returns the recovered strike together with its
// analytic derivatives [dK/dDelta, dK/dForward, dK/dExpiry, dK/dVol].
func ImpliedStrikeAdjoint(delta float64, pc PutCall, forward, expiry, vol float64) (ValueDerivatives, error) {
	if err := checkNonNegative(forward, "forward"); err != nil {
		return ValueDerivatives{}, err
	}
	if err := checkNonNegative(expiry, "expiry"); err != nil {
		return ValueDerivatives{}, err
	}
	if err := checkNonNegative(vol, "vol"); err != nil {
		return ValueDerivatives{}, err
	}
	if pc == Put && delta > 0 && delta < 1 {
		delta -= 1
	}
	w := pc.Sign()
	if !(w*delta > 0 && w*delta < 1) {
		return ValueDerivatives{}, fmt.Errorf("%w: delta %g for a %s", ErrDeltaOutOfRange, delta, pc)
	}

	rootT := math.Sqrt(expiry)
	s := totalStdDev(vol, expiry)
	x := normal.Quantile(w * delta)
	strike := forward * math.Exp(-w*x*s+0.5*s*s)

	return ValueDerivatives{
		Value: strike,
		Derivatives: []float64{
			-strike * s / normal.PDF(x),
			strike / forward,
			strike * (s - w*x) * vol / (2 * rootT),
			strike * (s - w*x) * rootT,
		},
	}, nil
}

// totalStdDev is vol*sqrt(T) with the 0*Inf tie pinned at 1, matching
// the pricing policy.
func totalStdDev(vol, expiry float64) float64 {
	s := vol * math.Sqrt(expiry)
	if math.IsNaN(s) {
		return 1
	}
	return s
}
