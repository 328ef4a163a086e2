package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/psyclinic-dashboard/pkg/logging"
)

// RedisStore keeps one JSON document per profile.
type RedisStore struct {
	redis    *redis.Client
	defaults Preferences
	logger   *logging.Logger
}

func NewRedisStore(client *redis.Client, defaults Preferences, logger *logging.Logger) *RedisStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisStore{redis: client, defaults: defaults, logger: logger}
}

func (s *RedisStore) key(profile string) string {
	return fmt.Sprintf("psyclinic:preferences:%s", profileOrDefault(profile))
}

// Get returns the stored preferences, or the defaults if none are stored.
func (s *RedisStore) Get(ctx context.Context, profile string) (Preferences, error) {
	data, err := s.redis.Get(ctx, s.key(profile)).Bytes()
	if errors.Is(err, redis.Nil) {
		return clonePrefs(s.defaults), nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("preferences: get: %w", err)
	}

	var p Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Warn("stored preferences unreadable, using defaults", "profile", profile, "error", err)
		return clonePrefs(s.defaults), nil
	}
	if err := p.Validate(); err != nil {
		s.logger.Warn("stored preferences invalid, using defaults", "profile", profile, "error", err)
		return clonePrefs(s.defaults), nil
	}
	return clonePrefs(p), nil
}

func (s *RedisStore) Set(ctx context.Context, profile string, p Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(clonePrefs(p))
	if err != nil {
		return fmt.Errorf("preferences: marshal: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(profile), data, 0).Err(); err != nil {
		return fmt.Errorf("preferences: set: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("preferences: ping: %w", err)
	}
	return nil
}
