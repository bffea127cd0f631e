package blizzard

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/blizzardforecast/blizzard/monthseries"
)

// LineForecast generates an echart line chart plotting the historical
// series followed by the forecast with its upper and lower bounds.
func LineForecast(history *monthseries.Series, res *Results) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Sales Forecast",
			},
		),
	)

	n := history.Len()
	h := len(res.Forecast)

	labels := make([]string, 0, n+h)
	actual := make([]opts.LineData, 0, n+h)
	forecasted := make([]opts.LineData, 0, n+h)
	upper := make([]opts.LineData, 0, n+h)
	lower := make([]opts.LineData, 0, n+h)

	for i := 0; i < n+h; i++ {
		year, month := history.MonthAt(i)
		labels = append(labels, fmt.Sprintf("%d-%02d", year, int(month)))

		if i < n {
			actual = append(actual, opts.LineData{Value: history.Values[i]})
			forecasted = append(forecasted, opts.LineData{Value: nil})
			upper = append(upper, opts.LineData{Value: nil})
			lower = append(lower, opts.LineData{Value: nil})
			continue
		}
		actual = append(actual, opts.LineData{Value: nil})
		forecasted = append(forecasted, opts.LineData{Value: res.Forecast[i-n]})
		upper = append(upper, opts.LineData{Value: res.Upper[i-n]})
		lower = append(lower, opts.LineData{Value: res.Lower[i-n]})
	}

	line.SetXAxis(labels).
		AddSeries("Actual", actual).
		AddSeries("Forecast", forecasted).
		AddSeries("Upper", upper).
		AddSeries("Lower", lower)
	return line
}

// PlotForecast renders the fit series and a fresh h-month forecast to an
// html file at the given path.
func (f *Forecaster) PlotForecast(path string, h int) error {
	res, err := f.Forecast(h)
	if err != nil {
		return fmt.Errorf("unable to forecast for plot, %w", err)
	}

	page := components.NewPage()
	page.AddCharts(
		LineForecast(f.TrainingData(), res),
	)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return page.Render(io.MultiWriter(file))
}
