package blizzard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineForecast(t *testing.T) {
	f := New(nil)
	require.Nil(t, f.Fit(easterSeries(t, 1000, 400)))

	res, err := f.Forecast(12)
	require.Nil(t, err)

	line := LineForecast(f.TrainingData(), res)
	require.NotNil(t, line)
}

func TestPlotForecast(t *testing.T) {
	f := New(nil)
	require.Nil(t, f.Fit(easterSeries(t, 1000, 400)))

	path := filepath.Join(t.TempDir(), "forecast.html")
	require.Nil(t, f.PlotForecast(path, 12))

	info, err := os.Stat(path)
	require.Nil(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
