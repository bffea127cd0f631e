package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/blizzardforecast/blizzard/scenario"
)

var ErrEmptyScenarioID = errors.New("scenario id cannot be empty")

// MemoryStore keeps the baseline and scenarios in process memory. It is
// safe for concurrent use and suits single-instance deployments and tests;
// use RedisStore when state must survive restarts.
type MemoryStore struct {
	mu          sync.RWMutex
	baseline    Baseline
	hasBaseline bool
	scenarios   map[string]scenario.Scenario
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		scenarios: make(map[string]scenario.Scenario),
	}
}

func (s *MemoryStore) PutBaseline(ctx context.Context, b Baseline) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseline = b
	s.hasBaseline = true
	return nil
}

func (s *MemoryStore) GetBaseline(ctx context.Context) (Baseline, bool, error) {
	if err := ctx.Err(); err != nil {
		return Baseline{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseline, s.hasBaseline, nil
}

func (s *MemoryStore) PutScenario(ctx context.Context, sc scenario.Scenario) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if sc.ID == "" {
		return ErrEmptyScenarioID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenarios[sc.ID] = sc
	return nil
}

func (s *MemoryStore) GetScenario(ctx context.Context, id string) (scenario.Scenario, bool, error) {
	if err := ctx.Err(); err != nil {
		return scenario.Scenario{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, found := s.scenarios[id]
	return sc, found, nil
}

// ListScenarios returns all scenarios ordered by creation time, oldest
// first.
func (s *MemoryStore) ListScenarios(ctx context.Context) ([]scenario.Scenario, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	scenarios := make([]scenario.Scenario, 0, len(s.scenarios))
	for _, sc := range s.scenarios {
		scenarios = append(scenarios, sc)
	}
	sort.Slice(scenarios, func(i, j int) bool {
		if scenarios[i].Created.Equal(scenarios[j].Created) {
			return scenarios[i].ID < scenarios[j].ID
		}
		return scenarios[i].Created.Before(scenarios[j].Created)
	})
	return scenarios, nil
}

func (s *MemoryStore) DeleteScenario(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed := s.scenarios[id]
	delete(s.scenarios, id)
	return existed, nil
}
