// Package blizzard is a compact monthly sales forecasting engine. It fits
// an ARIMAX(2,1,1) model with a multiplicative seasonal period of twelve
// and an optional Easter invoice-month regressor, and produces
// twelve-month-ahead forecasts with confidence bounds. A scenario layer
// rewrites the historical input before forecasting to answer what-if
// questions.
package blizzard

import (
	"errors"
	"fmt"

	"github.com/blizzardforecast/blizzard/easter"
	"github.com/blizzardforecast/blizzard/forecast"
	"github.com/blizzardforecast/blizzard/monthseries"
)

var ErrNoFitSeries = errors.New("no series has been fit")

// Options configures a Forecaster.
type Options struct {
	Model *forecast.Options

	// UseEaster enables the Easter invoice-month regressor.
	UseEaster bool

	// ConfidenceLevel selects the band width; 0.80 by default.
	ConfidenceLevel float64
}

// NewDefaultOptions returns the standard configuration: ARIMA(2,1,1) with
// seasonal period 12, the Easter regressor enabled, and an 80% band.
func NewDefaultOptions() *Options {
	return &Options{
		Model:           forecast.NewDefaultOptions(),
		UseEaster:       true,
		ConfidenceLevel: 0.80,
	}
}

// Forecaster composes the Easter calendar, the ARIMAX model, and the
// confidence band into a fit-then-forecast pipeline over a monthly series.
type Forecaster struct {
	opt *Options

	model  *forecast.Model
	series *monthseries.Series
}

// New creates a Forecaster. If opt is nil a default is used.
func New(opt *Options) *Forecaster {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if opt.Model == nil {
		opt.Model = forecast.NewDefaultOptions()
	}
	if opt.ConfidenceLevel == 0 {
		opt.ConfidenceLevel = 0.80
	}

	return &Forecaster{
		opt:   opt,
		model: forecast.New(opt.Model),
	}
}

// Fit estimates the model from the series. When the Easter regressor is
// enabled it is derived from the series anchor and regressed out before
// the seasonal decomposition.
func (f *Forecaster) Fit(series *monthseries.Series) error {
	var regressor []float64
	if f.opt.UseEaster {
		var err error
		regressor, err = easter.Regressor(series.StartYear, series.StartMonth, series.Len())
		if err != nil {
			return fmt.Errorf("unable to build easter regressor, %w", err)
		}
	}

	if err := f.model.Fit(series.Values, regressor); err != nil {
		return err
	}
	f.series = series.Copy()
	return nil
}

// Forecast produces h months of point forecasts with confidence bounds and
// the fitted diagnostics. The future Easter regressor picks up at the
// month after the last observation.
func (f *Forecaster) Forecast(h int) (*Results, error) {
	if f.series == nil {
		return nil, ErrNoFitSeries
	}

	var futureRegressor []float64
	if f.opt.UseEaster {
		endYear, endMonth := f.series.End()
		var err error
		futureRegressor, err = easter.Regressor(endYear, endMonth, h)
		if err != nil {
			return nil, fmt.Errorf("unable to build future easter regressor, %w", err)
		}
	}

	point, err := f.model.Forecast(h, futureRegressor)
	if err != nil {
		return nil, err
	}

	lower, upper, err := f.model.Confidence(point, f.opt.ConfidenceLevel)
	if err != nil {
		return nil, err
	}

	return &Results{
		Forecast:          point,
		Lower:             lower,
		Upper:             upper,
		SeasonalFactors:   f.model.SeasonalFactors(),
		EasterCoefficient: f.model.ExogCoefficient(),
		ARCoefficients:    f.model.ARCoefficients(),
		MACoefficients:    f.model.MACoefficients(),
		Intercept:         f.model.Intercept(),
	}, nil
}

// Model returns the underlying fitted ARIMAX model.
func (f *Forecaster) Model() *forecast.Model {
	return f.model
}

// TrainingData returns a copy of the series the forecaster was fit on.
func (f *Forecaster) TrainingData() *monthseries.Series {
	if f.series == nil {
		return nil
	}
	return f.series.Copy()
}
