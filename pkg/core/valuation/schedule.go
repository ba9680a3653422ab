package valuation

// Ramp returns the value at step n (1-based) of a straight line that starts at
// start on step 1 and reaches end on step steps. Steps at or beyond steps return
// end exactly, so converged values compare equal to their target.
func Ramp(start, end float64, steps, n int) float64 {
	if steps <= 1 || n >= steps {
		return end
	}
	if n <= 1 {
		return start
	}
	return start + (end-start)*float64(n-1)/float64(steps-1)
}

// HoldThenRamp holds start through step from, then ramps linearly to reach end
// on step to and holds it after.
func HoldThenRamp(start, end float64, from, to, n int) float64 {
	if n <= from {
		return start
	}
	return Ramp(start, end, to-from+1, n-from+1)
}
