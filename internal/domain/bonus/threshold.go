package bonus

import "math"

// equalityTolerance absorbs floating-point noise in "=" comparisons.
const equalityTolerance = 0.01

// EvaluateThreshold compares a computed metric against a configured limit.
// It fails closed: an operator outside the closed set never matches.
func EvaluateThreshold(value, threshold float64, op Operator) bool {
	switch op {
	case OpGreaterOrEqual:
		return value >= threshold
	case OpGreater:
		return value > threshold
	case OpLessOrEqual:
		return value <= threshold
	case OpLess:
		return value < threshold
	case OpEqual:
		return math.Abs(value-threshold) < equalityTolerance
	}
	return false
}
