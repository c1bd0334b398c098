package black

import "math"

// Degenerate-input thresholds. Inputs beyond these are treated as the
// corresponding 0/+Inf limit, so literal edge arguments and finite
// surrogates (1e-12 / 1e12 scaled) land in the same branch and agree to
// floating-point precision.
const (
	small = 1e-13
	large = 1e13
)

// terms carries the shared intermediates of the Black formula with the
// degenerate-input policy already applied. Price, every Greek and the
// adjoint layer all read the same partition from here, so the edge
// handling cannot drift apart between functions.
type terms struct {
	forward, strike, expiry, vol float64

	rootT      float64 // sqrt(T)
	sigmaRootT float64 // vol*sqrt(T), with the 0*Inf tie pinned at 1

	largeFwd    bool // forward beyond large
	largeStrike bool // strike beyond large
	tie         bool // |forward-strike| < small, or both beyond large
	smallSigma  bool // sigmaRootT < small
	largeSigma  bool // sigmaRootT > large

	d1, d2 float64
}

func newTerms(forward, strike, expiry, vol float64) terms {
	t := terms{forward: forward, strike: strike, expiry: expiry, vol: vol}
	t.rootT = math.Sqrt(expiry)
	// vol and sqrt(T) can be 0 and +Inf in some order; the product has
	// no single limit and totalStdDev pins it at 1, which keeps the
	// F=K tie at F*N(0.5)-K*N(-0.5).
	t.sigmaRootT = totalStdDev(vol, expiry)
	t.largeFwd = forward > large
	t.largeStrike = strike > large
	t.tie = math.Abs(forward-strike) < small || (t.largeFwd && t.largeStrike)
	t.smallSigma = t.sigmaRootT < small
	t.largeSigma = t.sigmaRootT > large

	switch {
	case t.tie || t.largeSigma:
		t.d1 = 0.5 * t.sigmaRootT
		t.d2 = -0.5 * t.sigmaRootT
	case t.smallSigma:
		// Zero total variance away from the money: the moneyness terms
		// diverge and the formulas reduce to step functions.
		if forward > strike {
			t.d1 = math.Inf(1)
		} else {
			t.d1 = math.Inf(-1)
		}
		t.d2 = t.d1
	default:
		t.d1 = math.Log(forward/strike)/t.sigmaRootT + 0.5*t.sigmaRootT
		t.d2 = t.d1 - t.sigmaRootT
	}
	return t
}

// intrinsic is the zero-total-variance price.
func (t terms) intrinsic(pc PutCall) float64 {
	return math.Max(pc.Sign()*(t.forward-t.strike), 0)
}

// mul multiplies with the convention that an exact zero factor wins
// over an infinite (or indeterminate) cofactor. The exponential decay
// of the normal density beats any polynomial growth of the cofactor,
// so 0*Inf resolves to 0, matching the finite surrogates.
func mul(x, y float64) float64 {
	if x == 0 || y == 0 {
		return 0
	}
	return x * y
}
