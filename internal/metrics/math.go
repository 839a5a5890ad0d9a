package metrics

import "math"

// SafeDiv returns num/den, or 0 when den is 0
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Ratio is SafeDiv over integer counts
func Ratio(num, den int) float64 {
	return SafeDiv(float64(num), float64(den))
}

// Percent returns num/den*100, or 0 when den is 0
func Percent(num, den int) float64 {
	return Ratio(num, den) * 100
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Round rounds half away from zero to the given number of decimals.
// Used at presentation boundaries only.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
