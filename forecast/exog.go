package forecast

import (
	"fmt"

	"github.com/blizzardforecast/blizzard/stats"
)

// RegressOut estimates the additive effect of a sparse binary regressor by
// mean difference and subtracts it from the affected observations. It
// returns the adjusted series and the estimated coefficient.
//
// For a sparse indicator the mean difference matches ordinary least squares
// while staying numerically stable, and it isolates the holiday spike
// before seasonality is measured. The estimator is pinned by fixtures and
// must not be upgraded to a full OLS fit.
func RegressOut(x, g []float64) ([]float64, float64, error) {
	if len(x) != len(g) {
		return nil, 0, fmt.Errorf("regressor has length %d for %d observations, %w",
			len(g), len(x), ErrRegressorLenMismatch)
	}

	var affected, rest []float64
	for i, v := range x {
		if g[i] > 0.5 {
			affected = append(affected, v)
		} else {
			rest = append(rest, v)
		}
	}

	var coef float64
	if len(affected) > 0 && len(rest) > 0 {
		coef = stats.Mean(affected) - stats.Mean(rest)
	}

	adjusted := make([]float64, len(x))
	for i, v := range x {
		if g[i] > 0.5 {
			adjusted[i] = v - coef
		} else {
			adjusted[i] = v
		}
	}
	return adjusted, coef, nil
}
