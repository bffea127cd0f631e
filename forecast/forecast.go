package forecast

import (
	"fmt"
	"math"

	"github.com/blizzardforecast/blizzard/seasonal"
	"github.com/blizzardforecast/blizzard/stats"
)

// zScores maps a confidence level to its two-sided normal quantile.
// Unknown levels fall back to 1.96.
var zScores = map[float64]float64{
	0.80: 1.28,
	0.90: 1.645,
	0.95: 1.96,
	0.99: 2.576,
}

const defaultZ = 1.96

// Forecast produces h point forecasts on the original scale. The ARMA
// recursion runs in the differenced, deseasonalized space with future
// innovations at zero, then the trajectory is rebuilt through the inverse
// of every fit transform: cumulative integration, reseasonalization with
// the phase picked up where the series ended, and the additive exogenous
// effect for future indicator months. Results are clamped at zero.
//
// futureRegressor may be nil; when present it must have exactly h entries.
func (m *Model) Forecast(h int, futureRegressor []float64) ([]float64, error) {
	if !m.trained {
		return nil, ErrNotFitted
	}
	if h < 1 {
		return nil, fmt.Errorf("got %d, %w", h, ErrInvalidHorizon)
	}
	if futureRegressor != nil && len(futureRegressor) != h {
		return nil, fmt.Errorf("regressor has %d entries for horizon %d, %w",
			len(futureRegressor), h, ErrHorizonMismatch)
	}

	extended := make([]float64, len(m.differenced), len(m.differenced)+h)
	copy(extended, m.differenced)
	residuals := make([]float64, len(m.residuals), len(m.residuals)+h)
	copy(residuals, m.residuals)

	for step := 0; step < h; step++ {
		predicted := m.intercept
		for i, coef := range m.ar {
			idx := len(extended) - 1 - i
			if idx < 0 {
				continue
			}
			predicted += coef * (extended[idx] - m.intercept)
		}
		for i, coef := range m.ma {
			idx := len(residuals) - 1 - i
			if idx < 0 {
				continue
			}
			// Appended future residuals are zero and drop out on their own.
			predicted += coef * residuals[idx]
		}
		extended = append(extended, predicted)
		residuals = append(residuals, 0)
	}

	differencedForecast := extended[len(extended)-h:]
	levels := stats.InverseDifference(differencedForecast, m.deseasonalized, m.opt.D)

	phase := m.n % m.opt.SeasonalPeriod
	point := seasonal.Reseasonalize(levels, m.seasonalFactors, phase)

	if m.exogCoef != 0 && futureRegressor != nil {
		for i := range point {
			point[i] += m.exogCoef * futureRegressor[i]
		}
	}

	for i := range point {
		if point[i] < 0 {
			point[i] = 0
		}
	}
	return point, nil
}

// Confidence computes symmetric confidence bounds around the given point
// forecast. The band widens with the horizon as sqrt(1 + 0.1*step) and is
// scaled by the seasonal factor of each future month; the lower bound is
// floored at zero.
func (m *Model) Confidence(point []float64, level float64) ([]float64, []float64, error) {
	if !m.trained {
		return nil, nil, ErrNotFitted
	}

	var sumSq float64
	for _, r := range m.residuals {
		sumSq += r * r
	}
	sigma := math.Sqrt(sumSq / float64(len(m.residuals)))

	z, ok := zScores[level]
	if !ok {
		z = defaultZ
	}

	lower := make([]float64, len(point))
	upper := make([]float64, len(point))
	for i, p := range point {
		sigmaH := sigma * math.Sqrt(1+0.1*float64(i))
		scale := m.seasonalFactors[(m.n+i)%m.opt.SeasonalPeriod]
		delta := z * sigmaH * scale

		lower[i] = math.Max(0, p-delta)
		upper[i] = p + delta
	}
	return lower, upper, nil
}
