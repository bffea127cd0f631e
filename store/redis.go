package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/blizzardforecast/blizzard/scenario"
)

const (
	baselineKey       = "blizzard:baseline"
	scenarioKeyPrefix = "blizzard:scenario:"
)

// RedisStore persists the baseline and scenarios in Redis so multiple
// engine instances can share them. The baseline expires after its TTL to
// force a refetch; scenarios are kept until deleted.
type RedisStore struct {
	client      *redis.Client
	baselineTTL time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
// A baselineTTL of 0 uses a default of 30 minutes.
func NewRedisStore(addr, password string, db int, baselineTTL time.Duration) (*RedisStore, error) {
	if addr == "" {
		return nil, errors.New("redis address cannot be empty")
	}
	if db < 0 {
		return nil, errors.New("redis database number must be >= 0")
	}
	if baselineTTL == 0 {
		baselineTTL = 30 * time.Minute
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("unable to connect to redis at %s, %w", addr, err)
	}

	return &RedisStore{
		client:      client,
		baselineTTL: baselineTTL,
	}, nil
}

func (r *RedisStore) PutBaseline(ctx context.Context, b Baseline) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("unable to marshal baseline, %w", err)
	}
	if err := r.client.Set(ctx, baselineKey, data, r.baselineTTL).Err(); err != nil {
		return fmt.Errorf("unable to store baseline, %w", err)
	}
	return nil
}

func (r *RedisStore) GetBaseline(ctx context.Context) (Baseline, bool, error) {
	data, err := r.client.Get(ctx, baselineKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Baseline{}, false, nil
		}
		return Baseline{}, false, fmt.Errorf("unable to get baseline, %w", err)
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return Baseline{}, false, fmt.Errorf("unable to unmarshal baseline, %w", err)
	}
	return b, true, nil
}

func (r *RedisStore) PutScenario(ctx context.Context, sc scenario.Scenario) error {
	if sc.ID == "" {
		return ErrEmptyScenarioID
	}

	data, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("unable to marshal scenario, %w", err)
	}
	if err := r.client.Set(ctx, scenarioKeyPrefix+sc.ID, data, 0).Err(); err != nil {
		return fmt.Errorf("unable to store scenario %s, %w", sc.ID, err)
	}
	return nil
}

func (r *RedisStore) GetScenario(ctx context.Context, id string) (scenario.Scenario, bool, error) {
	data, err := r.client.Get(ctx, scenarioKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return scenario.Scenario{}, false, nil
		}
		return scenario.Scenario{}, false, fmt.Errorf("unable to get scenario %s, %w", id, err)
	}

	var sc scenario.Scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		return scenario.Scenario{}, false, fmt.Errorf("unable to unmarshal scenario %s, %w", id, err)
	}
	return sc, true, nil
}

func (r *RedisStore) ListScenarios(ctx context.Context) ([]scenario.Scenario, error) {
	var scenarios []scenario.Scenario

	iter := r.client.Scan(ctx, 0, scenarioKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("unable to get scenario at %s, %w", iter.Val(), err)
		}

		var sc scenario.Scenario
		if err := json.Unmarshal(data, &sc); err != nil {
			return nil, fmt.Errorf("unable to unmarshal scenario at %s, %w", iter.Val(), err)
		}
		scenarios = append(scenarios, sc)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("unable to scan scenarios, %w", err)
	}
	return scenarios, nil
}

func (r *RedisStore) DeleteScenario(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Del(ctx, scenarioKeyPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("unable to delete scenario %s, %w", id, err)
	}
	return n > 0, nil
}

// Close releases the Redis client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Ping checks connection health.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
