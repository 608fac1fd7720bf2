package kv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
)

type Redis struct {
	client *redis.Client
	log    *slog.Logger

	maxAttempts int
	maxBackoff  time.Duration
}

// NewRedis accepts either a redis:// URL or a plain host:port address.
func NewRedis(addr string, log *slog.Logger) *Redis {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			PoolTimeout:  4 * time.Second,
			IdleTimeout:  180 * time.Second,
		}
	}

	client := redis.NewClient(opts)
	client.AddHook(redisotel.NewTracingHook())

	return NewRedisFromClient(client, log)
}

func NewRedisFromClient(client *redis.Client, log *slog.Logger) *Redis {
	if log == nil {
		log = slog.Default()
	}
	return &Redis{
		client:      client,
		log:         log.With("component", "kv.redis"),
		maxAttempts: 30,
		maxBackoff:  30 * time.Second,
	}
}

// Initialize pings until the server answers, backing off exponentially
// between attempts.
func (r *Redis) Initialize(ctx context.Context) error {
	for i := 0; i < r.maxAttempts; i++ {
		err := r.Ping(ctx)
		if err == nil {
			r.log.Info("redis ready", slog.Int("attempt", i+1))
			return nil
		}

		backoff := time.Duration(1<<uint(i)) * time.Second
		if backoff > r.maxBackoff {
			backoff = r.maxBackoff
		}
		r.log.Warn("redis ping failed", slog.Any("err", err), slog.Int("attempt", i+1), slog.Duration("backoff", backoff))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("redis not reachable after %d attempts", r.maxAttempts)
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.client.Ping(pingCtx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
