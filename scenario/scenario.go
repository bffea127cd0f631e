// Package scenario models user-built what-if scenarios: named, ordered
// lists of adjustments applied to a baseline monthly series before it is
// re-forecast.
package scenario

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidAdjustment = errors.New("invalid adjustment")

// Adjustment types.
const (
	TypeScale       = "scale"
	TypeRemove      = "remove"
	TypeNewBusiness = "new_business"
)

// Target selector kinds for scale and remove adjustments.
const (
	TargetCustomer     = "customer"
	TargetProductGroup = "product-group"
	TargetGeography    = "geography"
)

// Adjustment is a single typed modification of the baseline. The wire shape
// is flat; which fields are meaningful depends on Type.
type Adjustment struct {
	Type string `json:"type"`
	Note string `json:"note,omitempty"`

	// scale / remove
	TargetType string  `json:"target_type,omitempty"`
	TargetKey  string  `json:"target_key,omitempty"`
	Factor     float64 `json:"factor,omitempty"`

	// new_business
	ProductGroup string     `json:"product_group,omitempty"`
	Geography    string     `json:"geography,omitempty"`
	StartYear    int        `json:"start_year,omitempty"`
	StartMonth   time.Month `json:"start_month,omitempty"`
	Year1        float64    `json:"year1_value,omitempty"`
	Year2        float64    `json:"year2_value,omitempty"`
	Year3        float64    `json:"year3_value,omitempty"`
}

// Validate rejects malformed adjustments before any application happens, so
// a scenario is either applied whole or not at all.
func (a *Adjustment) Validate() error {
	switch a.Type {
	case TypeScale:
		if a.Factor < 0 {
			return fmt.Errorf("scale factor %f is negative, %w", a.Factor, ErrInvalidAdjustment)
		}
		return a.validateTarget()
	case TypeRemove:
		return a.validateTarget()
	case TypeNewBusiness:
		if a.StartMonth < time.January || a.StartMonth > time.December {
			return fmt.Errorf("start month %d out of range, %w", a.StartMonth, ErrInvalidAdjustment)
		}
		if a.Year1 <= 0 || a.Year2 <= 0 || a.Year3 <= 0 {
			return fmt.Errorf("annual targets must be positive, %w", ErrInvalidAdjustment)
		}
		return nil
	default:
		return fmt.Errorf("unknown type %q, %w", a.Type, ErrInvalidAdjustment)
	}
}

func (a *Adjustment) validateTarget() error {
	switch a.TargetType {
	case TargetCustomer, TargetProductGroup, TargetGeography:
	default:
		return fmt.Errorf("unknown target type %q, %w", a.TargetType, ErrInvalidAdjustment)
	}
	if a.TargetKey == "" {
		return fmt.Errorf("empty target key, %w", ErrInvalidAdjustment)
	}
	return nil
}

// Scenario is a named, time-stamped, ordered list of adjustments with a
// stable identity. Scenarios are owned by the persistence layer and passed
// immutably into Apply.
type Scenario struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Created     time.Time    `json:"created"`
	Modified    time.Time    `json:"modified"`
	Adjustments []Adjustment `json:"adjustments"`
}

// NewScenario creates an empty scenario with a fresh identity.
func NewScenario(name string) *Scenario {
	now := time.Now().UTC()
	return &Scenario{
		ID:       uuid.NewString(),
		Name:     name,
		Created:  now,
		Modified: now,
	}
}

// Add appends an adjustment and bumps the modification time.
func (s *Scenario) Add(a Adjustment) {
	s.Adjustments = append(s.Adjustments, a)
	s.Modified = time.Now().UTC()
}

// Validate checks every adjustment in order.
func (s *Scenario) Validate() error {
	for i := range s.Adjustments {
		if err := s.Adjustments[i].Validate(); err != nil {
			return fmt.Errorf("adjustment %d: %w", i, err)
		}
	}
	return nil
}
