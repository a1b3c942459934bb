package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pathprep/pathprep-backend/internal/logger"
)

var ErrCacheMiss = errors.New("cache miss")

// Cache is the read-through entity cache in front of the document store.
// Values are JSON blobs keyed by the same composite keys the repos use.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type cache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

// NewCache connects using REDIS_ADDR. Callers treat a nil Cache as
// "caching disabled"; construction failure is not fatal to the app.
func NewCache(log *logger.Logger) (Cache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	prefix := strings.TrimSpace(os.Getenv("REDIS_KEY_PREFIX"))
	if prefix == "" {
		prefix = "pathprep"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &cache{
		log:    log.With("service", "RedisCache"),
		rdb:    rdb,
		prefix: prefix,
	}, nil
}

func (c *cache) key(k string) string {
	return c.prefix + ":" + k
}

func (c *cache) GetJSON(ctx context.Context, key string, out any) error {
	raw, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		// A corrupt entry behaves like a miss so the caller re-populates it.
		c.log.Warn("Dropping undecodable cache entry", "key", key, "error", err.Error())
		_ = c.rdb.Del(ctx, c.key(key)).Err()
		return ErrCacheMiss
	}
	return nil
}

func (c *cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key(key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *cache) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *cache) Close() error {
	return c.rdb.Close()
}
