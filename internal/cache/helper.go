package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recipehub/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs. The recipe list churns with every authoring mutation, so it
// stays short; detail entries can live longer because they are invalidated
// explicitly.
const (
	ListTTL   = 30 * time.Second
	RecipeTTL = 5 * time.Minute
)

// RecipeKey returns the cache key for one recipe's detail payload.
func RecipeKey(id uint) string {
	return fmt.Sprintf("recipe:%d", id)
}

// RecipeListKey is the cache key for the unfiltered first page of the
// recipe listing. Filtered or searched listings are never cached.
const RecipeListKey = "recipes:list"

// Aside implements the cache-aside pattern: on a hit, dest is filled from
// Redis; on a miss, fetch runs and its result is stored best-effort. When no
// Redis client is configured, fetch runs directly.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if client == nil {
		return fetch()
	}

	raw, err := client.Get(ctx, key).Result()
	if err == nil {
		if unmarshalErr := json.Unmarshal([]byte(raw), dest); unmarshalErr == nil {
			return nil
		}
		// Corrupt entry: drop it and fall through to the fetch.
		client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		middleware.Logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}

	if err := fetch(); err != nil {
		return err
	}

	if encoded, err := json.Marshal(dest); err == nil {
		if setErr := client.Set(ctx, key, encoded, ttl).Err(); setErr != nil {
			middleware.Logger.WarnContext(ctx, "cache write failed", "key", key, "error", setErr)
		}
	}
	return nil
}

// Invalidate removes a single cache entry.
func Invalidate(ctx context.Context, key string) {
	if client == nil {
		return
	}
	if err := client.Del(ctx, key).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidation failed", "key", key, "error", err)
	}
}

// InvalidateRecipeList drops the cached unfiltered listing page.
func InvalidateRecipeList(ctx context.Context) {
	Invalidate(ctx, RecipeListKey)
}
