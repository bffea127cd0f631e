package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blizzardforecast/blizzard/scenario"
)

func TestMemoryStoreBaseline(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, found, err := s.GetBaseline(ctx)
	require.Nil(t, err)
	assert.False(t, found, "empty slot is not an error")

	b := Baseline{
		Series:     []float64{100, 200, 300},
		StartYear:  2023,
		StartMonth: time.January,
		FetchedAt:  time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	require.Nil(t, s.PutBaseline(ctx, b))

	got, found, err := s.GetBaseline(ctx)
	require.Nil(t, err)
	require.True(t, found)
	assert.Equal(t, b, got)

	// The slot is a singleton; the second put replaces the first.
	b2 := b
	b2.Series = []float64{1}
	require.Nil(t, s.PutBaseline(ctx, b2))
	got, _, err = s.GetBaseline(ctx)
	require.Nil(t, err)
	assert.Equal(t, []float64{1}, got.Series)
}

func TestMemoryStoreScenarios(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := scenario.NewScenario("first")
	second := scenario.NewScenario("second")
	second.Created = first.Created.Add(time.Second)

	require.Nil(t, s.PutScenario(ctx, *second))
	require.Nil(t, s.PutScenario(ctx, *first))

	got, found, err := s.GetScenario(ctx, first.ID)
	require.Nil(t, err)
	require.True(t, found)
	assert.Equal(t, "first", got.Name)

	_, found, err = s.GetScenario(ctx, "missing")
	require.Nil(t, err)
	assert.False(t, found)

	list, err := s.ListScenarios(ctx)
	require.Nil(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID, "oldest first")

	deleted, err := s.DeleteScenario(ctx, first.ID)
	require.Nil(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeleteScenario(ctx, first.ID)
	require.Nil(t, err)
	assert.False(t, deleted)

	list, err = s.ListScenarios(ctx)
	require.Nil(t, err)
	require.Len(t, list, 1)
}

func TestMemoryStoreRejectsEmptyScenarioID(t *testing.T) {
	s := NewMemoryStore()
	err := s.PutScenario(context.Background(), scenario.Scenario{Name: "anonymous"})
	require.ErrorIs(t, err, ErrEmptyScenarioID)
}

func TestMemoryStoreHonorsContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NotNil(t, s.PutBaseline(ctx, Baseline{}))
	_, _, err := s.GetBaseline(ctx)
	require.NotNil(t, err)
	_, err = s.ListScenarios(ctx)
	require.NotNil(t, err)
}
