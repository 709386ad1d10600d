package tracker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultRedisKey = "dailyreader:sent_links"

// RedisStore keeps the tracked set as a single JSON value under one key.
// SET replaces the value atomically, which satisfies the same no-torn-read
// contract as the file store's rename.
type RedisStore struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

func NewRedisStore(addr, key string, logger *zap.Logger) *RedisStore {
	if key == "" {
		key = defaultRedisKey
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisStore{client: rdb, key: key, logger: logger}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Load(ctx context.Context) *TrackedLinks {
	links := New()
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("tracking record unreadable, starting from empty set",
				zap.String("key", s.key), zap.Error(err))
		}
		return links
	}
	if err := json.Unmarshal(data, links); err != nil {
		s.logger.Warn("tracking record corrupt, starting from empty set",
			zap.String("key", s.key), zap.Error(err))
		return New()
	}
	return links
}

func (s *RedisStore) Save(ctx context.Context, links *TrackedLinks) error {
	data, err := json.Marshal(links)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, data, 0).Err()
}

func (s *RedisStore) Reset(ctx context.Context) (*TrackedLinks, error) {
	links := New()
	if err := s.Save(ctx, links); err != nil {
		return nil, err
	}
	return links, nil
}
