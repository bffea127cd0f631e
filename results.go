package blizzard

// Results carries the forecast trajectory, its confidence bounds, and the
// fitted diagnostics for inspection.
type Results struct {
	Forecast []float64 `json:"forecast"`
	Lower    []float64 `json:"lower"`
	Upper    []float64 `json:"upper"`

	SeasonalFactors   []float64 `json:"seasonal_factors"`
	EasterCoefficient float64   `json:"easter_coefficient"`
	ARCoefficients    []float64 `json:"ar_coefficients"`
	MACoefficients    []float64 `json:"ma_coefficients"`
	Intercept         float64   `json:"intercept"`
}
