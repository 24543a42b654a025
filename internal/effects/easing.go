package effects

import "math"

// Clamp01 clamps v into [0,1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// EaseOutQuad is p·(2−p).
func EaseOutQuad(p float64) float64 {
	return p * (2 - p)
}

// EaseInOutCubic accelerates through the first half and decelerates
// through the second.
func EaseInOutCubic(p float64) float64 {
	if p < 0.5 {
		return 4 * p * p * p
	}
	return 1 - math.Pow(-2*p+2, 3)/2
}

// Lerp is a at t=0 and b at t=1.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Progress is the clamped fraction of duration elapsed since start.
// A non-positive duration means the transition is already complete.
func Progress(t, start, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	return Clamp01((t - start) / duration)
}
