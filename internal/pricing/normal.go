// Package pricing provides a closed-form European call pricer.
//
// The package is a pure numeric kernel: it does not validate its inputs and
// never returns errors. Degenerate inputs (zero volatility, non-positive
// strike) yield NaN or Inf, which callers are expected to avoid.
package pricing

import "math"

// Abramowitz & Stegun formula 7.1.26 coefficients.
const (
	erfP  = 0.3275911
	erfA1 = 0.254829592
	erfA2 = -0.284496736
	erfA3 = 1.421413741
	erfA4 = -1.453152027
	erfA5 = 1.061405429
)

// Erf approximates the error function with a maximum absolute error of
// about 1.5e-7.
func Erf(x float64) float64 {
	if x == 0 {
		// The rational fit evaluates to ~1e-9 at zero; pin it so Erf stays odd.
		return 0
	}
	if x < 0 {
		return -Erf(-x)
	}
	t := 1.0 / (1.0 + erfP*x)
	poly := ((((erfA5*t+erfA4)*t+erfA3)*t+erfA2)*t + erfA1) * t
	return 1.0 - poly*math.Exp(-x*x)
}

// NormCDF is the standard normal cumulative distribution function.
func NormCDF(x float64) float64 {
	return 0.5 * (1.0 + Erf(x/math.Sqrt2))
}
