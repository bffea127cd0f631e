// Package forecast implements the ARIMAX(p,d,q) model at the heart of the
// engine: exogenous mean-difference regression, multiplicative seasonal
// decomposition, differencing, Yule-Walker AR estimation, and the forward
// ARMA recursion with confidence bands.
package forecast

import (
	"errors"
	"fmt"
	"math"

	"github.com/blizzardforecast/blizzard/seasonal"
	"github.com/blizzardforecast/blizzard/stats"
)

var (
	ErrSeriesTooShort       = errors.New("series too short for model orders")
	ErrNonFiniteInput       = errors.New("series contains non-finite values")
	ErrRegressorLenMismatch = errors.New("regressor length does not match")
	ErrNotFitted            = errors.New("model has not been fit")
	ErrInvalidHorizon       = errors.New("forecast horizon must be at least 1")
	ErrHorizonMismatch      = errors.New("future regressor length does not match horizon")
)

// Model holds the fitted ARIMAX state. A Model is fit once and then queried
// for forecasts and confidence bands; it owns its vectors and shares no
// state between instances, so disjoint models may be used in parallel.
type Model struct {
	opt *Options

	ar              []float64
	ma              []float64
	intercept       float64
	seasonalFactors []float64
	exogCoef        float64
	residuals       []float64
	differenced     []float64
	deseasonalized  []float64
	n               int
	trained         bool
}

// New creates a model with the given options, defaulting to ARIMA(2,1,1)
// with a seasonal period of 12.
func New(opt *Options) *Model {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	return &Model{opt: opt}
}

// Fit estimates the model from a monthly series and an optional binary
// exogenous regressor (nil to disable). The pipeline regresses out the
// exogenous effect, removes multiplicative seasonality, differences to
// stationarity, then estimates AR coefficients by Levinson-Durbin and MA
// coefficients from residual autocorrelations.
func (m *Model) Fit(series, regressor []float64) error {
	if len(series) < m.opt.MinObservations() {
		return fmt.Errorf("got %d observations, need at least %d, %w",
			len(series), m.opt.MinObservations(), ErrSeriesTooShort)
	}
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("at index %d, %w", i, ErrNonFiniteInput)
		}
	}
	if regressor != nil {
		for i, v := range regressor {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("regressor at index %d, %w", i, ErrNonFiniteInput)
			}
		}
	}

	adjusted := series
	var exogCoef float64
	if regressor != nil {
		var err error
		adjusted, exogCoef, err = RegressOut(series, regressor)
		if err != nil {
			return err
		}
	}

	factors := seasonal.Factors(adjusted, m.opt.SeasonalPeriod)
	deseasonalized := seasonal.Deseasonalize(adjusted, factors)

	differenced := stats.Difference(deseasonalized, m.opt.D)

	intercept := stats.Mean(differenced)
	centered := make([]float64, len(differenced))
	for i, v := range differenced {
		centered[i] = v - intercept
	}

	var ar []float64
	if m.opt.P > 0 {
		r := stats.Autocorrelation(centered, m.opt.P)
		ar = stats.LevinsonDurbin(r, m.opt.P)
	} else {
		ar = []float64{}
	}

	residuals := make([]float64, len(centered))
	for i, v := range centered {
		predicted := 0.0
		for j, coef := range ar {
			if i-j-1 < 0 {
				continue
			}
			predicted += coef * centered[i-j-1]
		}
		residuals[i] = v - predicted
	}

	ma := stats.EstimateMA(residuals, m.opt.Q)

	m.ar = ar
	m.ma = ma
	m.intercept = intercept
	m.seasonalFactors = factors
	m.exogCoef = exogCoef
	m.residuals = residuals
	m.differenced = differenced
	m.deseasonalized = deseasonalized
	m.n = len(series)
	m.trained = true
	return nil
}

// ARCoefficients returns a copy of the fitted AR coefficients.
func (m *Model) ARCoefficients() []float64 {
	return copySlice(m.ar)
}

// MACoefficients returns a copy of the fitted MA coefficients.
func (m *Model) MACoefficients() []float64 {
	return copySlice(m.ma)
}

// SeasonalFactors returns a copy of the fitted multiplicative seasonal
// factors.
func (m *Model) SeasonalFactors() []float64 {
	return copySlice(m.seasonalFactors)
}

// Residuals returns a copy of the fit residuals in the differenced,
// deseasonalized space.
func (m *Model) Residuals() []float64 {
	return copySlice(m.residuals)
}

// Intercept returns the mean of the differenced series.
func (m *Model) Intercept() float64 {
	return m.intercept
}

// ExogCoefficient returns the estimated additive effect of the exogenous
// regressor, or 0 when the model was fit without one.
func (m *Model) ExogCoefficient() float64 {
	return m.exogCoef
}

func copySlice(x []float64) []float64 {
	res := make([]float64, len(x))
	copy(res, x)
	return res
}
