package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	dbredis "github.com/octabyte/bm-session/db/redis"
	"github.com/octabyte/bm-session/models"
)

const defaultRedisPrefix = "bm-session:"

// Redis keeps the pair under "<prefix><profile>:authToken" and
// "<prefix><profile>:userData".
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

type RedisOption func(*Redis)

// WithTTL expires both keys together. Zero keeps them until cleared.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) { r.ttl = ttl }
}

func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = prefix }
}

func NewRedis(client redis.UniversalClient, profile string, opts ...RedisOption) *Redis {
	r := &Redis{client: client, prefix: defaultRedisPrefix}
	for _, opt := range opts {
		opt(r)
	}
	r.prefix = fmt.Sprintf("%s%s:", r.prefix, profile)
	return r
}

func (r *Redis) key(name string) string {
	return r.prefix + name
}

func (r *Redis) Load(ctx context.Context) (Snapshot, error) {
	tokenKey, userKey := r.key(KeyToken), r.key(KeyUser)

	values, err := dbredis.GetMany(ctx, r.client, tokenKey, userKey)
	if err != nil {
		return Snapshot{}, fmt.Errorf("store: redis load: %w", err)
	}

	return Snapshot{
		Token:    values[tokenKey],
		UserData: []byte(values[userKey]),
	}, nil
}

func (r *Redis) Save(ctx context.Context, session models.Session) error {
	values, err := encode(session)
	if err != nil {
		return err
	}

	keyed := make(map[string]string, len(values))
	for k, v := range values {
		keyed[r.key(k)] = v
	}

	if err := dbredis.SetMany(ctx, r.client, keyed, r.ttl); err != nil {
		return fmt.Errorf("store: redis save: %w", err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	if err := dbredis.Del(ctx, r.client, r.key(KeyToken), r.key(KeyUser)); err != nil {
		return fmt.Errorf("store: redis clear: %w", err)
	}
	return nil
}
