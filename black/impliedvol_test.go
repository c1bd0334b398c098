package black_test

import (
	"errors"
	"math"
	"testing"

	"github.com/meenmo/blacklib/black"
	"github.com/meenmo/blacklib/normal"
)

func TestImpliedVolatility_RoundTrip(t *testing.T) {
	t.Parallel()

	const f = 104.0
	for _, k := range []float64{60.0, 85.0, 104.0, 120.0, 180.0} {
		for _, v := range []float64{0.05, 0.1, 0.35, 0.8} {
			for _, x := range []float64{0.25, 1.0, 4.5} {
				for _, pc := range []black.PutCall{black.Call, black.Put} {
					price := mustPrice(t, f, k, x, v, pc)
					intrinsic := math.Max(pc.Sign()*(f-k), 0)
					if price-intrinsic < 1e-10*f {
						// Time value below the solver's intrinsic snap.
						continue
					}
					got, err := black.ImpliedVolatility(price, f, k, x, pc)
					if err != nil {
						t.Fatalf("ImpliedVolatility(%g, %g, %g, %g, %s): %v", price, f, k, x, pc, err)
					}
					if math.Abs(got-v) > 1e-8*v {
						t.Fatalf("round trip K=%g vol=%g T=%g %s: got %.12f", k, v, x, pc, got)
					}
				}
			}
		}
	}
}

// A quote sitting a binary ulp around intrinsic must resolve to zero
// volatility rather than an out-of-bounds error: 79.98 - 60 is not
// exactly 19.98 in binary.
func TestImpliedVolatility_IntrinsicQuote(t *testing.T) {
	t.Parallel()

	got, err := black.ImpliedVolatility(19.98, 79.98, 60.0, 1.0, black.Call)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Fatalf("intrinsic quote: got vol %g, want 0", got)
	}

	// Any in-bounds quote at zero expiry carries no time value.
	got, err = black.ImpliedVolatility(19.0, 104.0, 85.0, 0, black.Call)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Fatalf("zero-expiry quote: got vol %g, want 0", got)
	}
}

func TestImpliedVolatility_RejectsOutOfBounds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		price float64
		pc    black.PutCall
	}{
		{"below intrinsic", 10.0, black.Call},
		{"above forward", 110.0, black.Call},
		{"above strike", 90.0, black.Put},
	}
	for _, tc := range cases {
		if _, err := black.ImpliedVolatility(tc.price, 104.0, 85.0, 4.5, tc.pc); !errors.Is(err, black.ErrPriceOutOfBounds) {
			t.Fatalf("%s: got err %v, want ErrPriceOutOfBounds", tc.name, err)
		}
	}
	if _, err := black.ImpliedVolatility(-1.0, 104.0, 85.0, 4.5, black.Call); !errors.Is(err, black.ErrNegativeArgument) {
		t.Fatalf("negative price: got err %v, want ErrNegativeArgument", err)
	}
}

func TestImpliedVolatilityAdjoint(t *testing.T) {
	t.Parallel()

	const (
		f = 104.0
		k = 85.0
		x = 4.5
		v = 0.35
	)
	price := mustPrice(t, f, k, x, v, black.Call)
	out, err := black.ImpliedVolatilityAdjoint(price, f, k, x, black.Call)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(out.Value-v) > 1e-10 {
		t.Fatalf("adjoint vol: got %.12f, want %g", out.Value, v)
	}

	vega, err := black.Vega(f, k, x, out.Value)
	if err != nil {
		t.Fatal(err)
	}
	within(t, "dVol/dPrice vs 1/vega", out.Derivatives[0], 1/vega, 1e-12)

	fdSlope := diffCentral(func(p float64) float64 {
		vol, err := black.ImpliedVolatility(p, f, k, x, black.Call)
		if err != nil {
			t.Fatal(err)
		}
		return vol
	}, price, 1e-4*price)
	within(t, "dVol/dPrice vs finite difference", out.Derivatives[0], fdSlope, 1e-6)
}

// bachelierCall is the undiscounted normal-model call price used as the
// ground truth for the vol conversion.
func bachelierCall(f, k, x, normalVol float64) float64 {
	s := normalVol * math.Sqrt(x)
	d := (f - k) / s
	return (f-k)*normal.CDF(d) + s*normal.PDF(d)
}

func TestImpliedVolatilityFromNormalApproximated(t *testing.T) {
	t.Parallel()

	const (
		f  = 100.0
		x  = 2.0
		nv = 12.0
	)
	for _, k := range []float64{90.0, 100.0, 100.05, 115.0} {
		k := k
		approx, err := black.ImpliedVolatilityFromNormalApproximated(f, k, x, nv)
		if err != nil {
			t.Fatal(err)
		}

		price := bachelierCall(f, k, x, nv)
		exact, err := black.ImpliedVolatility(price, f, k, x, black.Call)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(approx-exact) > 1e-4*exact {
			t.Fatalf("K=%g: approx %.8f vs exact %.8f", k, approx, exact)
		}
	}
}

func TestImpliedVolatilityFromNormalApproximated2_Derivative(t *testing.T) {
	t.Parallel()

	const (
		f  = 100.0
		x  = 2.0
		nv = 12.0
	)
	for _, k := range []float64{90.0, 100.0, 115.0} {
		k := k
		out, err := black.ImpliedVolatilityFromNormalApproximated2(f, k, x, nv)
		if err != nil {
			t.Fatal(err)
		}
		fdSlope := diffCentral(func(u float64) float64 {
			v, err := black.ImpliedVolatilityFromNormalApproximated(f, k, x, u)
			if err != nil {
				t.Fatal(err)
			}
			return v
		}, nv, 1e-4)
		within(t, "dVol/dNormalVol", out.Derivatives[0], fdSlope, 1e-8)
	}
}

func TestImpliedVolatilityFromNormalApproximated_RejectsDegenerate(t *testing.T) {
	t.Parallel()

	if _, err := black.ImpliedVolatilityFromNormalApproximated(0, 90, 2, 12); !errors.Is(err, black.ErrNegativeArgument) {
		t.Fatalf("zero forward: got err %v", err)
	}
	if _, err := black.ImpliedVolatilityFromNormalApproximated(100, 0, 2, 12); !errors.Is(err, black.ErrNegativeArgument) {
		t.Fatalf("zero strike: got err %v", err)
	}
	if _, err := black.ImpliedVolatilityFromNormalApproximated(100, 90, 2, -12); !errors.Is(err, black.ErrNegativeArgument) {
		t.Fatalf("negative normal vol: got err %v", err)
	}
}
