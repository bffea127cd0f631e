// Package easter computes Easter Sunday dates and derives the invoice-month
// regressor used for exogenous holiday effects. Easter-driven orders are
// invoiced three months ahead of the holiday, so the regressor marks the
// calendar month three months before each Easter Sunday.
package easter

import (
	"errors"
	"fmt"
	"time"
)

var ErrYearOutOfRange = errors.New("year outside Gregorian computus validity window")

// The Anonymous Gregorian computus is valid for this year range.
const (
	MinYear = 1583
	MaxYear = 4099
)

// Sunday returns the month and day of Easter Sunday for the given year using
// the Anonymous Gregorian algorithm. Years outside [MinYear, MaxYear] return
// ErrYearOutOfRange.
func Sunday(year int) (time.Month, int, error) {
	if year < MinYear || year > MaxYear {
		return 0, 0, fmt.Errorf("year %d, %w", year, ErrYearOutOfRange)
	}

	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1

	return time.Month(month), day, nil
}

// InvoiceMonth returns the year and month three calendar months before Easter
// Sunday of the given year. An Easter in January through March carries into
// the previous calendar year.
func InvoiceMonth(year int) (int, time.Month, error) {
	month, _, err := Sunday(year)
	if err != nil {
		return 0, 0, err
	}

	if month <= time.March {
		return year - 1, month + 9, nil
	}
	return year, month - 3, nil
}

// Regressor builds a binary indicator aligned to a monthly window of n months
// starting at (startYear, startMonth). An entry is 1 exactly when the
// corresponding calendar month is an Easter invoice month. Invoice months fall
// in December or January, so consecutive set entries are 11 to 13 months
// apart and any 11 consecutive months hold at most one.
func Regressor(startYear int, startMonth time.Month, n int) ([]float64, error) {
	if startMonth < time.January || startMonth > time.December {
		return nil, fmt.Errorf("start month %d out of range 1..12", startMonth)
	}

	type yearMonth struct {
		year  int
		month time.Month
	}

	// An invoice month falls in its Easter's year or the year before, so
	// Easters from startYear through a margin past the window's last year
	// cover every invoice month inside the window.
	endYear := startYear + n/12 + 3
	invoiceMonths := make(map[yearMonth]struct{})
	for year := startYear; year <= endYear; year++ {
		iy, im, err := InvoiceMonth(year)
		if err != nil {
			return nil, err
		}
		invoiceMonths[yearMonth{iy, im}] = struct{}{}
	}

	regressor := make([]float64, n)
	year, month := startYear, startMonth
	for i := 0; i < n; i++ {
		if _, ok := invoiceMonths[yearMonth{year, month}]; ok {
			regressor[i] = 1.0
		}
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
	return regressor, nil
}
