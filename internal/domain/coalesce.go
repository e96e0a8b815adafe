package domain

import "math"

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Round2 rounds half away from zero to two decimal places. Values of 2^53
// and above have no fractional part and are returned unchanged.
func Round2(v float64) float64 {
	if math.Abs(v) >= 1<<53 || math.IsNaN(v) {
		return v
	}
	return math.Round(v*100) / 100
}
