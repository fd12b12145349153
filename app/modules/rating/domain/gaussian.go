package ratingdomain

import "math"

// Abramowitz & Stegun 7.1.26 coefficients, |error| <= 1.5e-7.
const (
	erfA1 = 0.254829592
	erfA2 = -0.284496736
	erfA3 = 1.421413741
	erfA4 = -1.453152027
	erfA5 = 1.061405429
	erfP  = 0.3275911

	// Below this CDF value v(t) switches to its asymptote -t.
	cdfUnderflow = 1e-10
)

// erf approximates the error function.
func erf(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	x = math.Abs(x)

	t := 1.0 / (1.0 + erfP*x)
	y := 1.0 - (((((erfA5*t+erfA4)*t)+erfA3)*t+erfA2)*t+erfA1)*t*math.Exp(-x*x)
	return sign * y
}

// normPDF is the standard normal density.
func normPDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

// normCDF is the standard normal distribution function.
func normCDF(x float64) float64 {
	return 0.5 * (1 + erf(x/math.Sqrt2))
}

// vWin is the truncated Gaussian mean correction for a win with gap t.
func vWin(t float64) float64 {
	denom := normCDF(t)
	if denom < cdfUnderflow {
		return -t
	}
	return normPDF(t) / denom
}

// wWin is the variance correction for a win with gap t, floored at zero.
// It uses the normalized gap t = (muW - muL) / c; using c itself pushes the
// uncertainty factor negative for ordinary ratings.
func wWin(t float64) float64 {
	v := vWin(t)
	return math.Max(v*(v+t), 0)
}
