// Package store persists the current baseline series and the collection of
// user scenarios. The engine itself never touches storage; the HTTP layer
// and CLI use a Store to hand scenarios and baselines to the forecaster.
package store

import (
	"context"
	"time"

	"github.com/blizzardforecast/blizzard/scenario"
)

// Baseline is the cached monthly sales series the forecasts are built on.
// It occupies a singleton slot in the store.
type Baseline struct {
	Series     []float64  `json:"series"`
	StartYear  int        `json:"start_year"`
	StartMonth time.Month `json:"start_month"`
	FetchedAt  time.Time  `json:"fetched_at"`
}

// Store is a key-value view over two logical namespaces: the baseline slot
// and the scenario collection addressed by stable identifier.
type Store interface {
	PutBaseline(ctx context.Context, b Baseline) error
	// GetBaseline reports found=false when the slot is empty; that is not
	// an error.
	GetBaseline(ctx context.Context) (Baseline, bool, error)

	PutScenario(ctx context.Context, s scenario.Scenario) error
	GetScenario(ctx context.Context, id string) (scenario.Scenario, bool, error)
	ListScenarios(ctx context.Context) ([]scenario.Scenario, error)
	DeleteScenario(ctx context.Context, id string) (bool, error)
}
