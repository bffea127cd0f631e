package monthseries

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	testData := map[string]struct {
		values     []float64
		startYear  int
		startMonth time.Month
		err        error
	}{
		"valid series": {
			[]float64{100, 200, 300}, 2023, time.January,
			nil,
		},
		"empty values": {
			nil, 2023, time.January,
			ErrNoObservations,
		},
		"month zero": {
			[]float64{1}, 2023, 0,
			ErrInvalidStartMonth,
		},
		"month thirteen": {
			[]float64{1}, 2023, 13,
			ErrInvalidStartMonth,
		},
		"nan value": {
			[]float64{1, math.NaN()}, 2023, time.March,
			ErrNonFiniteValue,
		},
		"inf value": {
			[]float64{math.Inf(1)}, 2023, time.March,
			ErrNonFiniteValue,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			s, err := New(td.values, td.startYear, td.startMonth)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.values, s.Values)
		})
	}
}

func TestNewCopiesInput(t *testing.T) {
	values := []float64{1, 2, 3}
	s, err := New(values, 2024, time.June)
	require.Nil(t, err)

	values[0] = 99
	assert.Equal(t, 1.0, s.Values[0])
}

func TestMonthAt(t *testing.T) {
	s, err := New(make([]float64, 30), 2022, time.November)
	require.Nil(t, err)

	testData := map[string]struct {
		i     int
		year  int
		month time.Month
	}{
		"first observation": {0, 2022, time.November},
		"year rollover":     {2, 2023, time.January},
		"one year later":    {12, 2023, time.November},
		"past the end":      {30, 2025, time.May},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			year, month := s.MonthAt(td.i)
			assert.Equal(t, td.year, year)
			assert.Equal(t, td.month, month)
		})
	}
}

func TestEnd(t *testing.T) {
	s, err := New(make([]float64, 24), 2023, time.February)
	require.Nil(t, err)

	year, month := s.End()
	assert.Equal(t, 2025, year)
	assert.Equal(t, time.February, month)
}

func TestCopyAndAppend(t *testing.T) {
	s, err := New([]float64{1, 2}, 2024, time.January)
	require.Nil(t, err)

	c := s.Copy()
	c.Append(3, 4)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 4, c.Len())

	year, month := c.End()
	assert.Equal(t, 2024, year)
	assert.Equal(t, time.May, month)
}
