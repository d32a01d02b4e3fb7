package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps a profile's entries in one hash and announces every write
// on a pub/sub channel so other processes can resync.
type RedisStore struct {
	rdb     *redis.Client
	key     string
	channel string
}

// NewRedisClient parses redisURL and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

func NewRedisStore(rdb *redis.Client, profile string) *RedisStore {
	if profile == "" {
		profile = "default"
	}
	return &RedisStore{
		rdb:     rdb,
		key:     "jobfinder:session:" + profile,
		channel: "jobfinder:session:" + profile + ":changes",
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.HGet(ctx, s.key, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis HGET %s: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisStore) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	values, err := s.rdb.HMGet(ctx, s.key, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis HMGET: %w", err)
	}
	for i, v := range values {
		if str, ok := v.(string); ok {
			out[keys[i]] = str
		}
	}
	return out, nil
}

func (s *RedisStore) Set(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	values := make([]any, 0, len(entries)*2)
	for k, v := range entries {
		values = append(values, k, v)
	}

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, s.key, values...)
	pipe.Publish(ctx, s.channel, "set")
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis HSET: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	pipe := s.rdb.TxPipeline()
	pipe.HDel(ctx, s.key, keys...)
	pipe.Publish(ctx, s.channel, "clear")
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis HDEL: %w", err)
	}
	return nil
}

// Changes delivers one signal per write announced on the profile channel.
// The returned channel is closed when ctx is done.
func (s *RedisStore) Changes(ctx context.Context) (<-chan struct{}, error) {
	sub := s.rdb.Subscribe(ctx, s.channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("redis SUBSCRIBE: %w", err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				// Coalesce bursts: a pending signal already covers this write.
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
