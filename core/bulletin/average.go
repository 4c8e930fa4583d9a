package bulletin

import "math"

// halfTolerance absorbs the binary representation error of decimal halves (e.g. 2.675 is stored as 2.67499...).
const halfTolerance = 1e-9

// Average returns the arithmetic mean of values rounded to 2 decimals, halves away from zero.
// It returns ErrNoGrades when values is empty.
func Average(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrNoGrades
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return Round2(sum / float64(len(values))), nil
}

// Round2 rounds x to 2 decimals, halves away from zero.
func Round2(x float64) float64 {
	scaled := x * 100
	intPart, frac := math.Modf(scaled)
	if math.Abs(math.Abs(frac)-0.5) < halfTolerance {
		return (intPart + math.Copysign(1, scaled)) / 100
	}
	return math.Round(scaled) / 100
}
