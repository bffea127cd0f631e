package scenario

import (
	"time"

	"github.com/blizzardforecast/blizzard/monthseries"
	"github.com/blizzardforecast/blizzard/seasonal"
)

// DefaultTargetShare is the assumed fraction of the total a single target
// contributes when the baseline carries no per-entity breakdown.
const DefaultTargetShare = 0.10

// rampMonths is the length of the generated new-business trajectory. Ramp
// positions after the third ramp year hold the year-3 monthly average; no
// values are generated past the cap.
const rampMonths = 36

// minSeasonalHistory is the shortest baseline from which a seasonal pattern
// is borrowed for new-business values; shorter baselines use a flat
// pattern.
const minSeasonalHistory = 2 * seasonal.DefaultPeriod

// ApplyOptions tunes scenario application.
type ApplyOptions struct {
	// TargetShare is the assumed contribution fraction of a scale or
	// remove target.
	TargetShare float64
}

// NewDefaultApplyOptions returns options with the standard target share.
func NewDefaultApplyOptions() *ApplyOptions {
	return &ApplyOptions{TargetShare: DefaultTargetShare}
}

// Apply rewrites a baseline series through the scenario's adjustments in
// list order and returns a new series; the input is never mutated. The
// scenario is validated up front, so a malformed adjustment list leaves
// the baseline untouched. The result is a contiguous monthly series with
// the same anchor as the input.
func Apply(baseline *monthseries.Series, sc *Scenario, opt *ApplyOptions) (*monthseries.Series, error) {
	if opt == nil {
		opt = NewDefaultApplyOptions()
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	result := baseline.Copy()
	for i := range sc.Adjustments {
		a := &sc.Adjustments[i]
		switch a.Type {
		case TypeScale:
			applyScale(result, a.Factor, opt.TargetShare)
		case TypeRemove:
			applyScale(result, 0, opt.TargetShare)
		case TypeNewBusiness:
			applyNewBusiness(result, a)
		}
	}
	return result, nil
}

// applyScale applies the proportional approximation for a targeted scale:
// with the target assumed to contribute share of the total, scaling the
// target by factor scales the whole by 1 + share*(factor-1).
func applyScale(s *monthseries.Series, factor, share float64) {
	overall := 1 + share*(factor-1)
	for i := range s.Values {
		s.Values[i] *= overall
	}
}

// applyNewBusiness appends a ramped contribution after the last historical
// month. The ramp runs from the adjustment's start month: the remainder of
// the start year climbs linearly from half to the full year-1 monthly
// average, years two and three hold their annual averages, and any
// remaining positions up to the 36-month cap stay at the year-3 level;
// nothing is appended past the cap. Months between the series end
// and a later start are padded with zeros to keep the series contiguous.
func applyNewBusiness(s *monthseries.Series, a *Adjustment) {
	pattern := seasonalPattern(s)

	endYear, endMonth := s.End()
	offset := monthsBetween(a.StartYear, a.StartMonth, endYear, endMonth)

	// Ramp starts before the history ends: the overlap is already part of
	// the recorded actuals, so only the remaining months extend the series.
	skip := 0
	if offset < 0 {
		skip = -offset
	}

	for gap := 0; gap < offset; gap++ {
		s.Append(0)
	}

	firstYearMonths := 13 - int(a.StartMonth)
	for i := skip; i < rampMonths; i++ {
		var monthly float64
		switch {
		case i < firstYearMonths:
			frac := 1.0
			if firstYearMonths > 1 {
				frac = 0.5 + 0.5*float64(i)/float64(firstYearMonths-1)
			}
			monthly = frac * a.Year1 / 12
		case i < firstYearMonths+12:
			monthly = a.Year2 / 12
		default:
			monthly = a.Year3 / 12
		}

		months := int(a.StartMonth) - 1 + i
		s.Append(monthly * pattern[months%seasonal.DefaultPeriod])
	}
}

// seasonalPattern borrows the baseline's own monthly shape when there is
// enough history to trust it, otherwise all ones.
func seasonalPattern(s *monthseries.Series) []float64 {
	if s.Len() < minSeasonalHistory {
		pattern := make([]float64, seasonal.DefaultPeriod)
		for i := range pattern {
			pattern[i] = 1.0
		}
		return pattern
	}

	// Factors are indexed by position within the series; rotate them so the
	// pattern is indexed by calendar month offset (January first).
	factors := seasonal.Factors(s.Values, seasonal.DefaultPeriod)
	pattern := make([]float64, seasonal.DefaultPeriod)
	for m := 0; m < seasonal.DefaultPeriod; m++ {
		pos := (m - (int(s.StartMonth) - 1) + seasonal.DefaultPeriod) % seasonal.DefaultPeriod
		pattern[m] = factors[pos]
	}
	return pattern
}

// monthsBetween returns how many months (y1, m1) lies after (y2, m2).
func monthsBetween(y1 int, m1 time.Month, y2 int, m2 time.Month) int {
	return (y1-y2)*12 + int(m1) - int(m2)
}
