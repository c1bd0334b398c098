package black

// PriceAdjoint returns the Black price together with its exact analytic
// gradient [dForward, dStrike, dExpiry, dVol], obtained by symbolic
// differentiation of the closed form:
//
//	dForward = Delta, dStrike = DualDelta,
//	dExpiry  = -DriftlessTheta, dVol = Vega.
func PriceAdjoint(forward, strike, expiry, vol float64, pc PutCall) (ValueDerivatives, error) {
	if err := validate(forward, strike, expiry, vol); err != nil {
		return ValueDerivatives{}, err
	}
	t := newTerms(forward, strike, expiry, vol)
	return ValueDerivatives{
		Value: t.price(pc),
		Derivatives: []float64{
			t.delta(pc),
			t.dualDelta(pc),
			-t.driftlessTheta(),
			t.vega(),
		},
	}, nil
}

// PriceAdjoint2 returns the price, its gradient and the symmetric
// matrix of second partials over (forward, strike, vol). The expiry
// row and column stay zero: the surface is first-order in time.
//
// The entries are assembled from the same Greek primitives as the
// standalone functions, so the degenerate-edge partition is identical
// across the whole suite.
func PriceAdjoint2(forward, strike, expiry, vol float64, pc PutCall) (ValueDerivatives, Hessian, error) {
	vd, err := PriceAdjoint(forward, strike, expiry, vol, pc)
	if err != nil {
		return ValueDerivatives{}, Hessian{}, err
	}
	t := newTerms(forward, strike, expiry, vol)

	var h Hessian
	h[0][0] = t.gamma()
	h[1][1] = t.dualGamma()
	h[3][3] = t.vomma()
	h[0][1] = t.crossGamma()
	h[1][0] = h[0][1]
	h[0][3] = t.vanna()
	h[3][0] = h[0][3]
	h[1][3] = t.dualVanna()
	h[3][1] = h[1][3]
	return vd, h, nil
}
