package pricing

import "math"

// Intrinsic returns the immediate exercise value of a call.
func Intrinsic(spot, strike float64) float64 {
	return math.Max(0, spot-strike)
}

// CallPrice returns the Black-Scholes value of a European call.
//
// spot and strike are prices, yearsToExpiry is in years, riskFreeRate and
// volatility are annualized decimals. At or past expiry the intrinsic value
// is returned.
func CallPrice(spot, strike, yearsToExpiry, riskFreeRate, volatility float64) float64 {
	if yearsToExpiry <= 0 {
		return Intrinsic(spot, strike)
	}

	d1, d2 := d1d2(spot, strike, yearsToExpiry, riskFreeRate, volatility)
	discount := math.Exp(-riskFreeRate * yearsToExpiry)
	return spot*NormCDF(d1) - strike*discount*NormCDF(d2)
}

func d1d2(spot, strike, t, r, sigma float64) (float64, float64) {
	volSqrtT := sigma * math.Sqrt(t)
	d1 := (math.Log(spot/strike) + (r+0.5*sigma*sigma)*t) / volSqrtT
	return d1, d1 - volSqrtT
}
