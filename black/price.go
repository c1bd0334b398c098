package black

import (
	"math"

	"github.com/meenmo/blacklib/normal"
)

// Price returns the undiscounted Black option value
//
//	omega * (F*N(omega*d1) - K*N(omega*d2)), omega = +1 call / -1 put,
//
// with every degenerate edge (F, K, T, vol in {0, +Inf}) resolved to
// its closed-form limit. Discounting is the caller's concern.
func Price(forward, strike, expiry, vol float64, pc PutCall) (float64, error) {
	if err := validate(forward, strike, expiry, vol); err != nil {
		return 0, err
	}
	t := newTerms(forward, strike, expiry, vol)
	return t.price(pc), nil
}

func (t terms) price(pc PutCall) float64 {
	if t.largeFwd && t.largeStrike {
		// Both legs sit in the currency-unit limit; moneyness is
		// ambiguous and the deep-in-the-money floor decides.
		if pc == Call {
			if t.forward >= t.strike {
				return t.forward
			}
			return 0
		}
		if t.strike >= t.forward {
			return t.strike
		}
		return 0
	}
	if t.smallSigma {
		return t.intrinsic(pc)
	}
	w := pc.Sign()
	v := w * (mul(t.forward, normal.CDF(w*t.d1)) - mul(t.strike, normal.CDF(w*t.d2)))
	return math.Max(v, 0)
}
