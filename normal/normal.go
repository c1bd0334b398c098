// Package normal provides the standard normal distribution primitives
// consumed by the Black formula engine.
package normal

import "gonum.org/v1/gonum/stat/distuv"

var std = distuv.UnitNormal

// CDF returns P(Z <= x) for Z ~ N(0,1).
func CDF(x float64) float64 {
	return std.CDF(x)
}

// PDF returns the standard normal density at x.
func PDF(x float64) float64 {
	return std.Prob(x)
}

// Quantile returns the inverse CDF at p.
//
// p must lie in [0,1]; the endpoints map to -Inf and +Inf.
func Quantile(p float64) float64 {
	return std.Quantile(p)
}
