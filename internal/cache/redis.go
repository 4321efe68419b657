// Package cache provides Redis-backed read caching for the application.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"recipehub/internal/middleware"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// errCountingHook feeds the RedisErrors counter. redis.Nil is a cache miss,
// not an error.
type errCountingHook struct{}

func (errCountingHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (errCountingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (errCountingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// InitRedis connects the global client. addr is either a host:port pair or a
// redis:// URL. A failed connection leaves the client nil and the app running
// without cache.
func InitRedis(addr string) {
	opts := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			middleware.Logger.Warn("invalid redis URL, continuing without cache",
				"addr", addr, "error", err)
			client = nil
			return
		}
		opts = parsed
	}

	c := redis.NewClient(opts)
	c.AddHook(errCountingHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("redis unreachable, continuing without cache", "error", err)
		client = nil
		return
	}

	middleware.Logger.Info("redis connected", "addr", opts.Addr)
	client = c
}

// SetClient replaces the global client. Tests use this with miniredis.
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the current Redis client, nil when the cache is down.
func GetClient() *redis.Client {
	return client
}
