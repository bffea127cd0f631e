// Package stats implements the numeric kernel shared by the forecasting
// pipeline: means, autocorrelation, differencing, and the Yule-Walker and
// moment estimators for AR and MA coefficients.
package stats

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrWeightLenMismatch = errors.New("weights have a different length than values")
	ErrZeroWeightSum     = errors.New("weights sum to zero")
)

// varianceFloor is the threshold below which a series is treated as constant.
// Degenerate variance is a documented fallback, not an error.
const varianceFloor = 1e-10

// Mean returns the arithmetic mean of x, or 0 on empty input.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0.0
	}
	return floats.Sum(x) / float64(len(x))
}

// WeightedMean returns the weighted average of x.
func WeightedMean(x, w []float64) (float64, error) {
	if len(x) != len(w) {
		return 0, fmt.Errorf("got %d weights for %d values, %w", len(w), len(x), ErrWeightLenMismatch)
	}

	var sum, wSum float64
	for i := range x {
		sum += x[i] * w[i]
		wSum += w[i]
	}
	if wSum == 0 {
		return 0, ErrZeroWeightSum
	}
	return sum / wSum, nil
}

// Autocorrelation computes the centered autocorrelation of x up to maxLag,
// returning maxLag+1 values with r[0] = 1. The denominator uses the full
// series length rather than n-k at each lag; this biased form is relied on
// by the AR solver and must not be normalized per-lag. A series with
// variance below 1e-10 returns [1, 0, 0, ...].
func Autocorrelation(x []float64, maxLag int) []float64 {
	n := len(x)
	r := make([]float64, maxLag+1)
	r[0] = 1.0

	mean := Mean(x)
	centered := make([]float64, n)
	for i, v := range x {
		centered[i] = v - mean
	}

	var variance float64
	for _, c := range centered {
		variance += c * c
	}
	variance /= float64(n)

	if variance < varianceFloor {
		return r
	}

	for k := 1; k <= maxLag; k++ {
		var sum float64
		for i := k; i < n; i++ {
			sum += centered[i] * centered[i-k]
		}
		r[k] = sum / (float64(n) * variance)
	}
	return r
}

// Difference applies first-order differencing d times. Each pass shortens
// the series by one.
func Difference(x []float64, d int) []float64 {
	result := make([]float64, len(x))
	copy(result, x)

	for pass := 0; pass < d; pass++ {
		next := make([]float64, 0, len(result)-1)
		for i := 1; i < len(result); i++ {
			next = append(next, result[i]-result[i-1])
		}
		result = next
	}
	return result
}

// InverseDifference reconstructs a level series from a differenced one by
// cumulative summation, seeding each pass with the last retained value of
// the original series. The result has the same length as dx.
func InverseDifference(dx, original []float64, d int) []float64 {
	result := make([]float64, len(dx))
	copy(result, dx)

	n := len(original)
	for pass := 0; pass < d; pass++ {
		seed := original[n-1-(d-pass-1)]
		for i := range result {
			if i == 0 {
				result[i] += seed
			} else {
				result[i] += result[i-1]
			}
		}
	}
	return result
}
