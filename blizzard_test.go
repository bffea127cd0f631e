package blizzard

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blizzardforecast/blizzard/forecast"
	"github.com/blizzardforecast/blizzard/monthseries"
)

// easterSeries builds 72 flat months starting January 2019 with an
// additive spike on every Easter invoice month in the window.
func easterSeries(t *testing.T, base, spike float64) *monthseries.Series {
	t.Helper()

	values := make([]float64, 72)
	for i := range values {
		values[i] = base
	}
	// Invoice months for Easters 2019-2024 relative to January 2019.
	for _, idx := range []int{0, 12, 24, 36, 48, 59} {
		values[idx] += spike
	}

	s, err := monthseries.New(values, 2019, time.January)
	require.Nil(t, err)
	return s
}

func TestForecasterFitAndForecast(t *testing.T) {
	f := New(nil)
	require.Nil(t, f.Fit(easterSeries(t, 1000, 400)))

	res, err := f.Forecast(12)
	require.Nil(t, err)

	require.Len(t, res.Forecast, 12)
	require.Len(t, res.Lower, 12)
	require.Len(t, res.Upper, 12)
	require.Len(t, res.SeasonalFactors, 12)
	assert.Len(t, res.ARCoefficients, 2)
	assert.Len(t, res.MACoefficients, 1)

	for i := range res.Forecast {
		assert.GreaterOrEqual(t, res.Lower[i], 0.0, "lower at %d", i)
		assert.LessOrEqual(t, res.Lower[i], res.Forecast[i], "ordering at %d", i)
		assert.LessOrEqual(t, res.Forecast[i], res.Upper[i], "ordering at %d", i)
		assert.GreaterOrEqual(t, res.Forecast[i], 0.0, "non-negative at %d", i)
	}
}

func TestForecasterEstimatesEasterEffect(t *testing.T) {
	f := New(nil)
	require.Nil(t, f.Fit(easterSeries(t, 1000, 400)))

	res, err := f.Forecast(12)
	require.Nil(t, err)

	// The flat base makes the mean difference exact.
	assert.InDelta(t, 400.0, res.EasterCoefficient, 1.0)

	// The horizon starts January 2025, which is the invoice month for
	// Easter 2025; the effect must land on the first step only.
	assert.Greater(t, res.Forecast[0]-res.Forecast[1], 300.0)
	for i := 1; i < 11; i++ {
		assert.InDelta(t, res.Forecast[i], res.Forecast[i+1], 50.0, "steps %d and %d", i, i+1)
	}
}

func TestForecasterWithoutEaster(t *testing.T) {
	opt := NewDefaultOptions()
	opt.UseEaster = false

	f := New(opt)
	require.Nil(t, f.Fit(easterSeries(t, 1000, 400)))

	res, err := f.Forecast(6)
	require.Nil(t, err)
	assert.Equal(t, 0.0, res.EasterCoefficient)
}

func TestForecasterForecastBeforeFit(t *testing.T) {
	f := New(nil)
	_, err := f.Forecast(12)
	require.ErrorIs(t, err, ErrNoFitSeries)
}

func TestForecasterRejectsShortSeries(t *testing.T) {
	s, err := monthseries.New(make([]float64, 10), 2024, time.January)
	require.Nil(t, err)

	f := New(nil)
	require.ErrorIs(t, f.Fit(s), forecast.ErrSeriesTooShort)
}

func TestForecasterTrainingDataIsACopy(t *testing.T) {
	f := New(nil)
	require.Nil(t, f.Fit(easterSeries(t, 1000, 400)))

	td := f.TrainingData()
	td.Values[0] = math.Inf(1)

	res, err := f.Forecast(3)
	require.Nil(t, err)
	for _, v := range res.Forecast {
		assert.False(t, math.IsNaN(v))
	}
}
