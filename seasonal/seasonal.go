// Package seasonal computes multiplicative seasonal factors for periodic
// series and applies them in both directions. Zeros mark missing months in
// the business data, so only positive observations contribute to the
// factors.
package seasonal

// DefaultPeriod is the monthly seasonal period.
const DefaultPeriod = 12

// Factors derives one multiplicative factor per position in the period as
// the ratio of the position's mean to the overall mean, both taken over
// positive observations only. Positions with no positive observations get
// a factor of 1.
func Factors(x []float64, period int) []float64 {
	factors := make([]float64, period)
	for i := range factors {
		factors[i] = 1.0
	}

	var overallSum float64
	var overallCount int
	sums := make([]float64, period)
	counts := make([]int, period)

	for i, v := range x {
		if v <= 0 {
			continue
		}
		overallSum += v
		overallCount++
		sums[i%period] += v
		counts[i%period]++
	}

	if overallCount == 0 {
		return factors
	}
	overall := overallSum / float64(overallCount)

	for m := 0; m < period; m++ {
		if counts[m] > 0 {
			factors[m] = (sums[m] / float64(counts[m])) / overall
		}
	}
	return factors
}

// Deseasonalize divides each value by its position's factor. Non-positive
// factors pass the value through unchanged.
func Deseasonalize(x, factors []float64) []float64 {
	result := make([]float64, len(x))
	for i, v := range x {
		f := factors[i%len(factors)]
		if f > 0 {
			result[i] = v / f
		} else {
			result[i] = v
		}
	}
	return result
}

// Reseasonalize multiplies each value by the factor at its phase-shifted
// position. The phase is the offset of the slice's first element within
// the period.
func Reseasonalize(x, factors []float64, phase int) []float64 {
	result := make([]float64, len(x))
	for i, v := range x {
		result[i] = v * factors[(phase+i)%len(factors)]
	}
	return result
}
