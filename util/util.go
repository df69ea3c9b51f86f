package util

// Clamp01 clamps v to the [0, 1] range.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Lerp performs linear interpolation between a and b. t is not clamped, so
// values outside [0, 1] extrapolate past the endpoints.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// MapSpan maps a normalized scalar t onto the directional span [start, end].
// t is not clamped; an overshooting t lands outside the span.
func MapSpan(t, start, end float64) float64 {
	return start + (end-start)*t
}
