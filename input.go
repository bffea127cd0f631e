package blizzard

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/blizzardforecast/blizzard/forecast"
	"github.com/blizzardforecast/blizzard/monthseries"
)

// version is the engine version reported on the JSON boundary.
const version = "1.2.0"

var ErrInvalidForecastMonths = errors.New("forecast_months must be at least 1")

// ForecastInput is the serialized request crossing the module boundary.
// Zero model orders fall back to the ARIMA(2,1,1) defaults, and the Easter
// regressor defaults to enabled when the field is absent.
type ForecastInput struct {
	Series         []float64 `json:"series"`
	StartYear      int       `json:"start_year"`
	StartMonth     int       `json:"start_month"`
	ForecastMonths int       `json:"forecast_months"`

	P              int `json:"p,omitempty"`
	D              int `json:"d,omitempty"`
	Q              int `json:"q,omitempty"`
	SeasonalPeriod int `json:"seasonal_period,omitempty"`

	UseEaster *bool `json:"use_easter,omitempty"`
}

// options resolves the input into forecaster options, applying defaults
// for unset fields.
func (in *ForecastInput) options() *Options {
	opt := NewDefaultOptions()
	if in.P > 0 {
		opt.Model.P = in.P
	}
	if in.D > 0 {
		opt.Model.D = in.D
	}
	if in.Q > 0 {
		opt.Model.Q = in.Q
	}
	if in.SeasonalPeriod > 0 {
		opt.Model.SeasonalPeriod = in.SeasonalPeriod
	}
	if in.UseEaster != nil {
		opt.UseEaster = *in.UseEaster
	}
	return opt
}

// Run fits and forecasts in one call.
func Run(in *ForecastInput) (*Results, error) {
	if in.ForecastMonths < 1 {
		return nil, fmt.Errorf("got %d, %w", in.ForecastMonths, ErrInvalidForecastMonths)
	}

	series, err := monthseries.New(in.Series, in.StartYear, time.Month(in.StartMonth))
	if err != nil {
		return nil, err
	}

	f := New(in.options())
	if err := f.Fit(series); err != nil {
		return nil, err
	}
	return f.Forecast(in.ForecastMonths)
}

// errorOutput is the wire shape of a failed call.
type errorOutput struct {
	Error string `json:"error"`
}

// RunJSON is the serialized entry point: it decodes a ForecastInput,
// forecasts, and encodes the result. Failures of any kind are reported as
// an error object on the wire; the returned slice is always valid JSON.
func RunJSON(input []byte) []byte {
	var in ForecastInput
	if err := json.Unmarshal(input, &in); err != nil {
		return marshalError(fmt.Errorf("unable to parse input, %w", err))
	}

	res, err := Run(&in)
	if err != nil {
		return marshalError(err)
	}

	out, err := json.Marshal(res)
	if err != nil {
		return marshalError(fmt.Errorf("unable to encode results, %w", err))
	}
	return out
}

func marshalError(err error) []byte {
	out, mErr := json.Marshal(errorOutput{Error: err.Error()})
	if mErr != nil {
		return []byte(`{"error":"unable to serialize error"}`)
	}
	return out
}

// Version reports the engine version string.
func Version() string {
	return version
}

// Forecast and Confidence errors re-exported for boundary callers that
// match on error kinds without importing the forecast package.
var (
	ErrSeriesTooShort = forecast.ErrSeriesTooShort
	ErrNonFiniteInput = forecast.ErrNonFiniteInput
	ErrNotFitted      = forecast.ErrNotFitted
)
