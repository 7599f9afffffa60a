package ui

func lerp(lo, hi, t float64) float64 { return lo + (hi-lo)*t }

func unlerp(lo, hi, v float64) float64 { return (v - lo) / (hi - lo) }

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
