package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// releaseScript deletes a lock only if it is still held by the caller
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisDraftStore keeps drafts, caches and submit locks in Redis
type RedisDraftStore struct {
	client  *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
	logger  *logrus.Entry
}

// NewRedisDraftStore creates a Redis-backed draft store
func NewRedisDraftStore(client *redis.Client, ttl, lockTTL time.Duration, logger *logrus.Logger) *RedisDraftStore {
	return &RedisDraftStore{
		client:  client,
		ttl:     ttl,
		lockTTL: lockTTL,
		logger:  logger.WithField("component", "draft_store"),
	}
}

func (s *RedisDraftStore) Save(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode draft %s: %w", key, err)
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	if err := s.client.Set(ctx, draftKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft %s: %w", key, err)
	}
	return nil
}

func (s *RedisDraftStore) Load(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, draftKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrDraftNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load draft %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode draft %s: %w", key, err)
	}
	return nil
}

func (s *RedisDraftStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, draftKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", key, err)
	}
	return nil
}

func (s *RedisDraftStore) AcquireLock(ctx context.Context, key string) (func(), error) {
	owner := uuid.New().String()
	ok, err := s.client.SetNX(ctx, lockKey(key), owner, s.lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire submit lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrSubmissionInFlight
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// the request context may already be cancelled
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, s.client, []string{lockKey(key)}, owner).Err(); err != nil {
				s.logger.WithError(err).WithField("key", key).Warn("Failed to release submit lock")
			}
		})
	}, nil
}

func (s *RedisDraftStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
