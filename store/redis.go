package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"rocketcart/model"
)

// RedisStore keeps the snapshot as a plain string value.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore accepts either a redis:// URL or a host:port address and
// checks the connection before returning.
func NewRedisStore(ctx context.Context, addr, key string) (*RedisStore, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
		}
	}
	if key == "" {
		key = DefaultKey
	}

	s := &RedisStore{client: redis.NewClient(opts), key: key}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Ping(pingCtx).Err(); err != nil {
		s.client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return s, nil
}

func (r *RedisStore) Load(ctx context.Context) (model.Cart, error) {
	payload, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(payload)
}

func (r *RedisStore) Save(ctx context.Context, cart model.Cart) error {
	payload, err := encode(cart)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, payload, 0).Err()
}

func (r *RedisStore) Close() error { return r.client.Close() }
