package scenario

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScenario(t *testing.T) {
	s := NewScenario("lose key account")
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "lose key account", s.Name)
	assert.False(t, s.Created.IsZero())
	assert.Equal(t, s.Created, s.Modified)
	assert.Empty(t, s.Adjustments)

	other := NewScenario("other")
	assert.NotEqual(t, s.ID, other.ID)
}

func TestAdjustmentValidate(t *testing.T) {
	testData := map[string]struct {
		adj Adjustment
		ok  bool
	}{
		"valid scale": {
			Adjustment{Type: TypeScale, TargetType: TargetCustomer, TargetKey: "acme", Factor: 1.5},
			true,
		},
		"scale factor zero is legal": {
			Adjustment{Type: TypeScale, TargetType: TargetGeography, TargetKey: "no", Factor: 0},
			true,
		},
		"negative scale factor": {
			Adjustment{Type: TypeScale, TargetType: TargetCustomer, TargetKey: "acme", Factor: -0.5},
			false,
		},
		"unknown target type": {
			Adjustment{Type: TypeScale, TargetType: "region", TargetKey: "emea", Factor: 1.1},
			false,
		},
		"empty target key": {
			Adjustment{Type: TypeRemove, TargetType: TargetProductGroup},
			false,
		},
		"valid remove": {
			Adjustment{Type: TypeRemove, TargetType: TargetProductGroup, TargetKey: "widgets"},
			true,
		},
		"valid new business": {
			Adjustment{
				Type: TypeNewBusiness, ProductGroup: "widgets", Geography: "se",
				StartYear: 2025, StartMonth: time.June,
				Year1: 120000, Year2: 240000, Year3: 360000,
			},
			true,
		},
		"new business month out of range": {
			Adjustment{Type: TypeNewBusiness, StartYear: 2025, StartMonth: 13, Year1: 1, Year2: 1, Year3: 1},
			false,
		},
		"new business non-positive year": {
			Adjustment{Type: TypeNewBusiness, StartYear: 2025, StartMonth: time.June, Year1: 120000, Year2: 0, Year3: 360000},
			false,
		},
		"unknown adjustment type": {
			Adjustment{Type: "duplicate"},
			false,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			err := td.adj.Validate()
			if td.ok {
				require.Nil(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidAdjustment)
		})
	}
}

func TestScenarioValidateReportsIndex(t *testing.T) {
	s := NewScenario("broken")
	s.Add(Adjustment{Type: TypeScale, TargetType: TargetCustomer, TargetKey: "acme", Factor: 1.2})
	s.Add(Adjustment{Type: "bogus"})

	err := s.Validate()
	require.ErrorIs(t, err, ErrInvalidAdjustment)
	assert.Contains(t, err.Error(), "adjustment 1")
}

func TestScenarioWireShape(t *testing.T) {
	s := &Scenario{
		ID:       "c0ffee00-0000-0000-0000-000000000001",
		Name:     "expansion",
		Created:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Modified: time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC),
		Adjustments: []Adjustment{
			{Type: TypeScale, Note: "lose half", TargetType: TargetCustomer, TargetKey: "acme", Factor: 0.5},
			{
				Type: TypeNewBusiness, ProductGroup: "widgets", Geography: "fi",
				StartYear: 2025, StartMonth: time.September,
				Year1: 100000, Year2: 200000, Year3: 300000,
			},
		},
	}

	data, err := json.Marshal(s)
	require.Nil(t, err)

	var decoded Scenario
	require.Nil(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *s, decoded)

	assert.Contains(t, string(data), `"type":"scale"`)
	assert.Contains(t, string(data), `"year1_value":100000`)
	assert.NotContains(t, string(data), "product_group\":\"\"", "empty fields are omitted")
}
