package easter

import "time"

// Date reports Easter Sunday and its invoice month for a single year. Used by
// the easter-dates diagnostic table.
type Date struct {
	Year         int        `json:"year"`
	Month        time.Month `json:"month"`
	Day          int        `json:"day"`
	InvoiceYear  int        `json:"invoice_year"`
	InvoiceMonth time.Month `json:"invoice_month"`
}

// Dates returns Easter Sundays with their invoice months for every year in
// [startYear, endYear].
func Dates(startYear, endYear int) ([]Date, error) {
	if endYear < startYear {
		startYear, endYear = endYear, startYear
	}

	dates := make([]Date, 0, endYear-startYear+1)
	for year := startYear; year <= endYear; year++ {
		month, day, err := Sunday(year)
		if err != nil {
			return nil, err
		}
		iy, im, err := InvoiceMonth(year)
		if err != nil {
			return nil, err
		}
		dates = append(dates, Date{
			Year:         year,
			Month:        month,
			Day:          day,
			InvoiceYear:  iy,
			InvoiceMonth: im,
		})
	}
	return dates, nil
}
