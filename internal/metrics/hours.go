package metrics

import "math"

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SecondsToHours converts seconds to hours rounded to two decimals.
func SecondsToHours(seconds int) float64 {
	return Round2(float64(seconds) / 3600)
}

// Percentage computes numerator/denominator as a percentage rounded to
// two decimals. A zero denominator yields 0, never NaN.
func Percentage(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return Round2(numerator / denominator * 100)
}
