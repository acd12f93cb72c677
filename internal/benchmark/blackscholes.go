// Package benchmark provides the Black-Scholes closed form that binomial prices
// converge to as the number of steps grows.
package benchmark

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// BlackScholes returns the price of a European call (call=true) or put on a
// non-dividend-paying asset. With zero maturity or volatility it returns the
// discounted intrinsic value.
func BlackScholes(spot, strike, rate, sigma, maturity float64, call bool) float64 {
	df := math.Exp(-rate * maturity)
	if maturity <= 0 || sigma <= 0 {
		forward := spot / df
		if call {
			return df * math.Max(forward-strike, 0)
		}
		return df * math.Max(strike-forward, 0)
	}

	sqrtT := math.Sqrt(maturity)
	d1 := (math.Log(spot/strike) + (rate+0.5*sigma*sigma)*maturity) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	n := distuv.UnitNormal
	if call {
		return spot*n.CDF(d1) - strike*df*n.CDF(d2)
	}
	return strike*df*n.CDF(-d2) - spot*n.CDF(-d1)
}

// Call is BlackScholes for a call.
func Call(spot, strike, rate, sigma, maturity float64) float64 {
	return BlackScholes(spot, strike, rate, sigma, maturity, true)
}

// Put is BlackScholes for a put.
func Put(spot, strike, rate, sigma, maturity float64) float64 {
	return BlackScholes(spot, strike, rate, sigma, maturity, false)
}
