// Package monthseries holds the monthly observation series consumed by the
// forecasting pipeline: an ordered slice of values anchored to a starting
// calendar month.
package monthseries

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrNoObservations    = errors.New("no observations")
	ErrInvalidStartMonth = errors.New("start month must be in 1..12")
	ErrNonFiniteValue    = errors.New("non-finite observation")
)

// Series is a contiguous monthly series with a calendar anchor. Values are
// currency totals; zero is the missing-value proxy, so negative entries are
// unusual but not rejected here.
type Series struct {
	Values     []float64  `json:"series"`
	StartYear  int        `json:"start_year"`
	StartMonth time.Month `json:"start_month"`
}

// New validates and copies the input into a Series.
func New(values []float64, startYear int, startMonth time.Month) (*Series, error) {
	if len(values) == 0 {
		return nil, ErrNoObservations
	}
	if startMonth < time.January || startMonth > time.December {
		return nil, fmt.Errorf("got month %d, %w", startMonth, ErrInvalidStartMonth)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("at index %d, %w", i, ErrNonFiniteValue)
		}
	}

	vals := make([]float64, len(values))
	copy(vals, values)
	return &Series{
		Values:     vals,
		StartYear:  startYear,
		StartMonth: startMonth,
	}, nil
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.Values)
}

// MonthAt returns the calendar year and month of observation i. Indexes past
// the end address future months.
func (s *Series) MonthAt(i int) (int, time.Month) {
	months := int(s.StartMonth) - 1 + i
	return s.StartYear + months/12, time.Month(months%12 + 1)
}

// End returns the first calendar month after the last observation, which is
// where a forecast horizon begins.
func (s *Series) End() (int, time.Month) {
	return s.MonthAt(len(s.Values))
}

// Copy returns a deep copy of the series.
func (s *Series) Copy() *Series {
	vals := make([]float64, len(s.Values))
	copy(vals, s.Values)
	return &Series{
		Values:     vals,
		StartYear:  s.StartYear,
		StartMonth: s.StartMonth,
	}
}

// Append extends the series in place with additional monthly values.
func (s *Series) Append(values ...float64) {
	s.Values = append(s.Values, values...)
}
