package black_test

import (
	"errors"
	"math"
	"testing"

	"github.com/meenmo/blacklib/black"
)

func TestPriceAdjoint_GradientMatchesGreeks(t *testing.T) {
	t.Parallel()

	for _, sc := range greekGrid() {
		out, err := black.PriceAdjoint(sc.f, sc.k, sc.x, sc.v, sc.pc)
		if err != nil {
			t.Fatal(err)
		}
		if len(out.Derivatives) != 4 {
			t.Fatalf("gradient length %d, want 4", len(out.Derivatives))
		}
		within(t, "value", out.Value, mustPrice(t, sc.f, sc.k, sc.x, sc.v, sc.pc), 1e-15)

		delta, err := black.Delta(sc.f, sc.k, sc.x, sc.v, sc.pc)
		if err != nil {
			t.Fatal(err)
		}
		dualDelta, err := black.DualDelta(sc.f, sc.k, sc.x, sc.v, sc.pc)
		if err != nil {
			t.Fatal(err)
		}
		theta, err := black.DriftlessTheta(sc.f, sc.k, sc.x, sc.v)
		if err != nil {
			t.Fatal(err)
		}
		vega, err := black.Vega(sc.f, sc.k, sc.x, sc.v)
		if err != nil {
			t.Fatal(err)
		}
		within(t, "dForward", out.Derivatives[0], delta, 1e-15)
		within(t, "dStrike", out.Derivatives[1], dualDelta, 1e-15)
		within(t, "dExpiry", out.Derivatives[2], -theta, 1e-15)
		within(t, "dVol", out.Derivatives[3], vega, 1e-15)
	}
}

func TestPriceAdjoint_GradientMatchesFiniteDifferences(t *testing.T) {
	t.Parallel()

	const (
		f = 104.0
		k = 85.0
		x = 4.5
		v = 0.35
	)
	for _, pc := range []black.PutCall{black.Call, black.Put} {
		out, err := black.PriceAdjoint(f, k, x, v, pc)
		if err != nil {
			t.Fatal(err)
		}
		price := func(f, k, x, v float64) float64 { return mustPrice(t, f, k, x, v, pc) }

		within(t, "dForward", out.Derivatives[0], diffCentral(func(u float64) float64 {
			return price(u, k, x, v)
		}, f, 1e-4*f), 1e-7)
		within(t, "dStrike", out.Derivatives[1], diffCentral(func(u float64) float64 {
			return price(f, u, x, v)
		}, k, 1e-4*k), 1e-7)
		within(t, "dExpiry", out.Derivatives[2], diffCentral(func(u float64) float64 {
			return price(f, k, u, v)
		}, x, 1e-4*x), 1e-7)
		within(t, "dVol", out.Derivatives[3], diffCentral(func(u float64) float64 {
			return price(f, k, x, u)
		}, v, 1e-5), 1e-7)
	}
}

func TestPriceAdjoint2_Hessian(t *testing.T) {
	t.Parallel()

	for _, sc := range greekGrid() {
		first, err := black.PriceAdjoint(sc.f, sc.k, sc.x, sc.v, sc.pc)
		if err != nil {
			t.Fatal(err)
		}
		out, h, err := black.PriceAdjoint2(sc.f, sc.k, sc.x, sc.v, sc.pc)
		if err != nil {
			t.Fatal(err)
		}
		within(t, "value", out.Value, first.Value, 1e-15)
		for i := range first.Derivatives {
			within(t, "gradient", out.Derivatives[i], first.Derivatives[i], 1e-15)
		}

		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				if math.Abs(h[i][j]-h[j][i]) > 1e-10*math.Max(1, math.Abs(h[i][j])) {
					t.Fatalf("hessian asymmetric at (%d,%d): %g vs %g", i, j, h[i][j], h[j][i])
				}
			}
			// Time sensitivities of second order are not carried.
			if h[2][i] != 0 || h[i][2] != 0 {
				t.Fatalf("expiry row/column not zero at %d: %g %g", i, h[2][i], h[i][2])
			}
		}

		gamma, err := black.Gamma(sc.f, sc.k, sc.x, sc.v)
		if err != nil {
			t.Fatal(err)
		}
		crossGamma, err := black.CrossGamma(sc.f, sc.k, sc.x, sc.v)
		if err != nil {
			t.Fatal(err)
		}
		vomma, err := black.Vomma(sc.f, sc.k, sc.x, sc.v)
		if err != nil {
			t.Fatal(err)
		}
		within(t, "hessian FF", h[0][0], gamma, 1e-15)
		within(t, "hessian FK", h[0][1], crossGamma, 1e-15)
		within(t, "hessian VV", h[3][3], vomma, 1e-15)
	}
}

// The Hessian rows must be the finite-difference slopes of the analytic
// gradient.
func TestPriceAdjoint2_HessianMatchesGradientSlopes(t *testing.T) {
	t.Parallel()

	const (
		f = 104.0
		k = 85.0
		x = 4.5
		v = 0.35
	)
	_, h, err := black.PriceAdjoint2(f, k, x, v, black.Call)
	if err != nil {
		t.Fatal(err)
	}
	grad := func(f, k, x, v float64, i int) float64 {
		out, err := black.PriceAdjoint(f, k, x, v, black.Call)
		if err != nil {
			t.Fatal(err)
		}
		return out.Derivatives[i]
	}

	within(t, "FF", h[0][0], diffCentral(func(u float64) float64 { return grad(u, k, x, v, 0) }, f, 1e-4*f), 1e-6)
	within(t, "FK", h[0][1], diffCentral(func(u float64) float64 { return grad(f, u, x, v, 0) }, k, 1e-4*k), 1e-6)
	within(t, "KK", h[1][1], diffCentral(func(u float64) float64 { return grad(f, u, x, v, 1) }, k, 1e-4*k), 1e-6)
	within(t, "FV", h[0][3], diffCentral(func(u float64) float64 { return grad(u, k, x, v, 3) }, f, 1e-4*f), 1e-6)
	within(t, "KV", h[1][3], diffCentral(func(u float64) float64 { return grad(f, u, x, v, 3) }, k, 1e-4*k), 1e-6)
	within(t, "VV", h[3][3], diffCentral(func(u float64) float64 { return grad(f, k, x, u, 3) }, v, 1e-5), 1e-6)
}

func TestPriceAdjoint_RejectsNegativeInputs(t *testing.T) {
	t.Parallel()

	if _, err := black.PriceAdjoint(104, 85, 4.5, -0.1, black.Call); !errors.Is(err, black.ErrNegativeArgument) {
		t.Fatalf("got err %v, want ErrNegativeArgument", err)
	}
	if _, _, err := black.PriceAdjoint2(104, -85, 4.5, 0.1, black.Call); !errors.Is(err, black.ErrNegativeArgument) {
		t.Fatalf("got err %v, want ErrNegativeArgument", err)
	}
}
