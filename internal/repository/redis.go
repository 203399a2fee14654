package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/wellness-service/internal/models"
	"github.com/redis/go-redis/v9"
)

// redisEnvelope is the value stored under a user's snapshot key
type redisEnvelope struct {
	Payload  json.RawMessage `json:"payload"`
	Checksum string          `json:"checksum"`
}

// RedisStore keeps snapshots under scenarios:<userID> keys with a TTL
type RedisStore struct {
	client *redis.Client
	secret string
	ttl    time.Duration
}

// NewRedisStore initializes a snapshot store over client. A zero ttl keeps keys forever.
func NewRedisStore(client *redis.Client, secret string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, secret: secret, ttl: ttl}
}

func snapshotKey(userID int64) string {
	return fmt.Sprintf("scenarios:%d", userID)
}

// SaveScenarios writes the user's snapshot, refreshing its TTL
func (s *RedisStore) SaveScenarios(ctx context.Context, userID int64, set models.ScenarioSet) error {
	payload, checksum, err := encodeSnapshot(set, s.secret)
	if err != nil {
		return err
	}
	value, err := json.Marshal(redisEnvelope{Payload: payload, Checksum: checksum})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey(userID), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadScenarios retrieves and verifies the user's snapshot
func (s *RedisStore) LoadScenarios(ctx context.Context, userID int64) (models.ScenarioSet, error) {
	raw, err := s.client.Get(ctx, snapshotKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("snapshot for user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	var env redisEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return decodeSnapshot(env.Payload, env.Checksum, s.secret)
}
