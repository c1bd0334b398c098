package black

import (
	"math"

	"github.com/meenmo/blacklib/normal"
)

// Delta returns dPrice/dForward = omega*N(omega*d1).
func Delta(forward, strike, expiry, vol float64, pc PutCall) (float64, error) {
	if err := validate(forward, strike, expiry, vol); err != nil {
		return 0, err
	}
	return newTerms(forward, strike, expiry, vol).delta(pc), nil
}

// DualDelta returns dPrice/dStrike = -omega*N(omega*d2).
func DualDelta(forward, strike, expiry, vol float64, pc PutCall) (float64, error) {
	if err := validate(forward, strike, expiry, vol); err != nil {
		return 0, err
	}
	return newTerms(forward, strike, expiry, vol).dualDelta(pc), nil
}

// SimpleDelta returns omega*N(omega*d) with d = ln(F/K)/(vol*sqrt(T)),
// the delta variant without the half-variance drift correction.
func SimpleDelta(forward, strike, expiry, vol float64, pc PutCall) (float64, error) {
	if err := validate(forward, strike, expiry, vol); err != nil {
		return 0, err
	}
	t := newTerms(forward, strike, expiry, vol)
	w := pc.Sign()
	var d float64
	switch {
	case t.tie, t.largeSigma:
		d = 0
	case t.smallSigma:
		d = t.d1 // already the step-function limit
	default:
		d = math.Log(t.forward/t.strike) / t.sigmaRootT
	}
	return w * normal.CDF(w*d), nil
}

// Gamma returns d²Price/dForward² = n(d1)/(F*vol*sqrt(T)).
func Gamma(forward, strike, expiry, vol float64) (float64, error) {
	if err := validate(forward, strike, expiry, vol); err != nil {
		return 0, err
	}
	return newTerms(forward, strike, expiry, vol).gamma(), nil
}

// DualGamma returns d²Price/dStrike² = n(d2)/(K*vol*sqrt(T)).
func DualGamma(forward, strike, expiry, vol float64) (float64, error) {
	if err := validate(forward, strike, expiry, vol); err != nil {
		return 0, err
	}
	return newTerms(forward, strike, expiry, vol).dualGamma(), nil
}

// CrossGamma returns the mixed derivative d²Price/dForward dStrike
// = -n(d1)/(K*vol*sqrt(T)).
func CrossGamma(forward, strike, expiry, vol float64) (float64, error) {
	if err := validate(forward, strike, expiry, vol); err != nil {
		return 0, err
	}
	return newTerms(forward, strike, expiry, vol).crossGamma(), nil
}

// Vega returns dPrice/dVol = F*sqrt(T)*n(d1), shared by call and put.
func Vega(forward, strike, expiry, vol float64) (float64, error) {
	if err := validate(forward, strike, expiry, vol); err != nil {
		return 0, err
	}
	return newTerms(forward, strike, expiry, vol).vega(), nil
}

// Vanna returns the mixed derivative d²Price/dForward dVol
// = -n(d1)*d2/vol.
func Vanna(forward, strike, expiry, vol float64) (float64, error) {
	if err := validate(forward, strike, expiry, vol); err != nil {
		return 0, err
	}
	return newTerms(forward, strike, expiry, vol).vanna(), nil
}

// DualVanna returns d²Price/dStrike dVol = n(d2)*d1/vol.
func DualVanna(forward, strike, expiry, vol float64) (float64, error) {
	if err := validate(forward, strike, expiry, vol); err != nil {
		return 0, err
	}
	return newTerms(forward, strike, expiry, vol).dualVanna(), nil
}

// Vomma returns d²Price/dVol² = vega*d1*d2/vol.
func Vomma(forward, strike, expiry, vol float64) (float64, error) {
	if err := validate(forward, strike, expiry, vol); err != nil {
		return 0, err
	}
	return newTerms(forward, strike, expiry, vol).vomma(), nil
}

// Volga is vomma under its other common name. By symmetry of the
// closed form, Volga(F, K, T, vol) equals Vomma(K, F, T, vol).
func Volga(forward, strike, expiry, vol float64) (float64, error) {
	return Vomma(forward, strike, expiry, vol)
}

// DriftlessTheta returns the pure time decay -F*n(d1)*vol/(2*sqrt(T)),
// excluding any carry term. It is the same for calls and puts.
func DriftlessTheta(forward, strike, expiry, vol float64) (float64, error) {
	if err := validate(forward, strike, expiry, vol); err != nil {
		return 0, err
	}
	return newTerms(forward, strike, expiry, vol).driftlessTheta(), nil
}

// Theta returns minus the T-derivative of the discounted price
// exp(-rate*T)*Price at a constant carry rate:
//
//	exp(-rate*T) * (DriftlessTheta + rate*Price).
func Theta(forward, strike, expiry, vol float64, pc PutCall, rate float64) (float64, error) {
	if err := validate(forward, strike, expiry, vol); err != nil {
		return 0, err
	}
	t := newTerms(forward, strike, expiry, vol)
	df := math.Exp(-rate * expiry)
	return mul(df, t.driftlessTheta()+mul(rate, t.price(pc))), nil
}

// ThetaMod returns the carry-adjusted theta of the equivalent spot
// position S = F*exp(-rate*T) with zero cost of carry:
//
//	exp(-rate*T) * (DriftlessTheta - omega*rate*K*N(omega*d2)).
func ThetaMod(forward, strike, expiry, vol float64, pc PutCall, rate float64) (float64, error) {
	if err := validate(forward, strike, expiry, vol); err != nil {
		return 0, err
	}
	t := newTerms(forward, strike, expiry, vol)
	w := pc.Sign()
	df := math.Exp(-rate * expiry)
	carry := w * rate * mul(t.strike, normal.CDF(w*t.d2))
	return mul(df, t.driftlessTheta()-carry), nil
}

func (t terms) delta(pc PutCall) float64 {
	w := pc.Sign()
	if t.smallSigma && !t.tie {
		// Zero total variance: delta is digital in the forward.
		if t.forward > t.strike {
			if pc == Call {
				return 1
			}
			return 0
		}
		if pc == Call {
			return 0
		}
		return -1
	}
	return w * normal.CDF(w*t.d1)
}

func (t terms) dualDelta(pc PutCall) float64 {
	w := pc.Sign()
	if t.smallSigma && !t.tie {
		if t.forward > t.strike {
			if pc == Call {
				return -1
			}
			return 0
		}
		if pc == Call {
			return 0
		}
		return 1
	}
	return -w * normal.CDF(w*t.d2)
}

func (t terms) gamma() float64 {
	if t.smallSigma {
		if !t.tie {
			return 0
		}
		return math.Inf(1) // Dirac mass at the strike
	}
	nd1 := normal.PDF(t.d1)
	if nd1 == 0 {
		return 0
	}
	den := mul(t.forward, t.sigmaRootT)
	if den == 0 {
		return math.Inf(1)
	}
	return nd1 / den
}

func (t terms) dualGamma() float64 {
	if t.smallSigma {
		if !t.tie {
			return 0
		}
		return math.Inf(1)
	}
	nd2 := normal.PDF(t.d2)
	if nd2 == 0 {
		return 0
	}
	den := mul(t.strike, t.sigmaRootT)
	if den == 0 {
		return math.Inf(1)
	}
	return nd2 / den
}

func (t terms) crossGamma() float64 {
	if t.smallSigma {
		if !t.tie {
			return 0
		}
		return math.Inf(-1)
	}
	nd1 := normal.PDF(t.d1)
	if nd1 == 0 {
		return 0
	}
	den := mul(t.strike, t.sigmaRootT)
	if den == 0 {
		return math.Inf(-1)
	}
	return -nd1 / den
}

func (t terms) vega() float64 {
	nd1 := normal.PDF(t.d1)
	if nd1 == 0 {
		return 0
	}
	return mul(mul(t.forward, t.rootT), nd1)
}

func (t terms) vanna() float64 {
	nd1 := normal.PDF(t.d1)
	if nd1 == 0 {
		return 0
	}
	ratio := t.d2 / t.vol
	if math.IsNaN(ratio) {
		// 0/0: zero total variance at the money, where d2 = -s/2 and
		// the ratio collapses to -sqrt(T)/2.
		ratio = -0.5 * t.rootT
	}
	return -mul(nd1, ratio)
}

func (t terms) dualVanna() float64 {
	nd2 := normal.PDF(t.d2)
	if nd2 == 0 {
		return 0
	}
	ratio := t.d1 / t.vol
	if math.IsNaN(ratio) {
		ratio = 0.5 * t.rootT
	}
	return mul(nd2, ratio)
}

func (t terms) vomma() float64 {
	v := t.vega()
	if v == 0 {
		return 0
	}
	ratio := t.d1 * t.d2 / t.vol
	if math.IsNaN(ratio) {
		// d1*d2 = -s²/4 at the zero-variance tie, so the ratio
		// collapses to -vol*T/4.
		ratio = mul(-0.25*t.vol, t.expiry)
	}
	return mul(v, ratio)
}

func (t terms) driftlessTheta() float64 {
	if t.vol == 0 {
		return 0
	}
	nd1 := normal.PDF(t.d1)
	if nd1 == 0 {
		return 0
	}
	ratio := t.vol / (2 * t.rootT) // +Inf at expiry: decay blows up at the money
	return -mul(mul(t.forward, nd1), ratio)
}
