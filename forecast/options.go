package forecast

// Options sets the ARIMA model orders and the seasonal period.
type Options struct {
	P              int `json:"p"`
	D              int `json:"d"`
	Q              int `json:"q"`
	SeasonalPeriod int `json:"seasonal_period"`
}

// NewDefaultOptions returns the ARIMA(2,1,1) configuration with a monthly
// seasonal period.
func NewDefaultOptions() *Options {
	return &Options{
		P:              2,
		D:              1,
		Q:              1,
		SeasonalPeriod: 12,
	}
}

// MinObservations returns the minimum series length the configuration can
// be fit on.
func (o *Options) MinObservations() int {
	return o.P + o.D + o.Q + o.SeasonalPeriod
}
