// Package black implements closed-form pricing analytics for European
// options under the lognormal (Black) model on a forward: price, the
// full Greek suite, analytic first- and second-order derivatives of
// price with respect to its inputs, an implied-volatility solver and
// inverse-strike solvers.
//
// All functions are pure and stateless. Inputs are the forward F, the
// strike K, the time to expiry T in years, the lognormal volatility
// sigma, and a put/call discriminator. F, K, T and sigma must be
// non-negative; each may independently be 0 or +Inf, and every function
// returns the closed-form limiting value on those edges instead of
// propagating NaN.
package black

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrNegativeArgument is returned when forward, strike, expiry or
	// volatility is negative (or NaN).
	ErrNegativeArgument = errors.New("negative argument")
	// ErrPriceOutOfBounds is returned by the implied-volatility solver
	// when the option price violates the no-arbitrage bounds.
	ErrPriceOutOfBounds = errors.New("price outside no-arbitrage bounds")
	// ErrDeltaOutOfRange is returned by the strike solvers when delta is
	// not strictly inside the admissible interval for the option type.
	ErrDeltaOutOfRange = errors.New("delta out of range")
	// ErrNoConvergence is returned when the implied-volatility solver
	// exhausts its iteration budget. It is not expected for in-domain
	// inputs.
	ErrNoConvergence = errors.New("solver did not converge")
)

// PutCall selects the option leg.
type PutCall int

const (
	Call PutCall = iota
	Put
)

// Sign returns the payoff sign multiplier: +1 for a call, -1 for a put.
func (pc PutCall) Sign() float64 {
	if pc == Call {
		return 1
	}
	return -1
}

func (pc PutCall) String() string {
	if pc == Call {
		return "call"
	}
	return "put"
}

// ParsePutCall maps "call"/"c" and "put"/"p" (case-insensitive) to the
// corresponding discriminator.
func ParsePutCall(s string) (PutCall, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	}
	return Call, fmt.Errorf("unknown put/call flag %q", s)
}

// ValueDerivatives is a scalar result together with its ordered first
// partial derivatives. For the price adjoints the order is
// [dForward, dStrike, dExpiry, dVol]; solver adjoints document their
// own ordering.
type ValueDerivatives struct {
	Value       float64
	Derivatives []float64
}

// Hessian holds second partial derivatives of price in the input order
// (forward, strike, expiry, vol). The expiry row and column are not
// populated: the exposed surface is first-order in time only.
type Hessian [4][4]float64

func checkNonNegative(v float64, name string) error {
	if v < 0 || math.IsNaN(v) {
		return fmt.Errorf("%w: %s = %g", ErrNegativeArgument, name, v)
	}
	return nil
}

func validate(forward, strike, expiry, vol float64) error {
	if err := checkNonNegative(forward, "forward"); err != nil {
		return err
	}
	if err := checkNonNegative(strike, "strike"); err != nil {
		return err
	}
	if err := checkNonNegative(expiry, "expiry"); err != nil {
		return err
	}
	return checkNonNegative(vol, "vol")
}
