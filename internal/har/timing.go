package har

// normalizeTiming coerces a raw timing value into a non-negative duration
// in milliseconds. Timing fields are the least reliable part of real-world
// captures: browsers emit -1 for "not applicable", tools emit null or
// strings. Anything unusable becomes 0, so this is total over any input.
func normalizeTiming(v any) float64 {
	f, ok := v.(float64)
	if !ok || f < 0 {
		return 0
	}
	return f
}
