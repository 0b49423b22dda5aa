// Package seedversion tracks which catalog version has been imported per
// mountain, so seeding is skipped when nothing changed. The importer itself
// never reads or writes this state; callers consult the tracker around it.
package seedversion

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/shrimpsizemoose/trekker/logger"
)

const versionKeyTpl = "seed:%s" // seed:${mountainID}

type Tracker interface {
	Close() error

	// ShouldImport reports whether the given catalog version differs from
	// what was last imported for the mountain. An unknown mountain always
	// imports.
	ShouldImport(ctx context.Context, mountainID, version string) (bool, error)

	// MarkImported records the version after a successful import.
	MarkImported(ctx context.Context, mountainID, version string) error
}

// RedisTracker keeps versions in a redis hash so that every instance of the
// service agrees on what has been seeded.
type RedisTracker struct {
	redis *redis.Client
}

func NewRedisTracker(redisURL string) (*RedisTracker, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisTracker{redis: client}, nil
}

func (t *RedisTracker) Close() error {
	if t.redis != nil {
		return t.redis.Close()
	}
	return nil
}

func (t *RedisTracker) ShouldImport(ctx context.Context, mountainID, version string) (bool, error) {
	key := fmt.Sprintf(versionKeyTpl, mountainID)

	stored, err := t.redis.HGet(ctx, key, "version").Result()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}

	return stored != version, nil
}

func (t *RedisTracker) MarkImported(ctx context.Context, mountainID, version string) error {
	key := fmt.Sprintf(versionKeyTpl, mountainID)

	err := t.redis.HSet(ctx, key, map[string]interface{}{
		"version": version,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to store seed version: %w", err)
	}

	logger.Debug.Printf("Stored seed version %q for %s", version, mountainID)
	return nil
}

// MemoryTracker is the fallback when no redis URL is configured: versions
// only survive for the process lifetime, so every restart re-imports.
type MemoryTracker struct {
	mu       sync.Mutex
	versions map[string]string
}

func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{versions: make(map[string]string)}
}

func (t *MemoryTracker) Close() error { return nil }

func (t *MemoryTracker) ShouldImport(_ context.Context, mountainID, version string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	stored, ok := t.versions[mountainID]
	if !ok {
		return true, nil
	}
	return stored != version, nil
}

func (t *MemoryTracker) MarkImported(_ context.Context, mountainID, version string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.versions[mountainID] = version
	return nil
}
