package common

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NonNegative returns v, or 0 when v is negative.
func NonNegative[T ~int | ~int64 | ~float64](v T) T {
	if v < 0 {
		return 0
	}
	return v
}
