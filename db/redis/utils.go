package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SetMany writes every key in values inside a MULTI/EXEC block so readers
// never observe a subset of them.
func SetMany(ctx context.Context, client redis.UniversalClient, values map[string]string, ttl time.Duration) error {
	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, value := range values {
			pipe.Set(ctx, key, value, ttl)
		}
		return nil
	})
	return err
}

// GetMany reads keys in one round trip. Missing keys are absent from the
// returned map.
func GetMany(ctx context.Context, client redis.UniversalClient, keys ...string) (map[string]string, error) {
	values, err := client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	found := make(map[string]string, len(keys))
	for i, v := range values {
		if s, ok := v.(string); ok {
			found[keys[i]] = s
		}
	}
	return found, nil
}

// Del deletes keys with a single command.
func Del(ctx context.Context, client redis.UniversalClient, keys ...string) error {
	return client.Del(ctx, keys...).Err()
}
