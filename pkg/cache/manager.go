package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/addons-frontend/pkg/logging"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Config holds cache manager configuration.
type Config struct {
	// StaleTTL is how long an entry is kept for revalidation after it stops being fresh
	StaleTTL time.Duration

	// DefaultTTL is the fresh time for responses that declare none
	DefaultTTL time.Duration
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		StaleTTL:   10 * time.Minute,
		DefaultTTL: DefaultTTL,
	}
}

// Manager handles caching operations with Redis backend.
type Manager struct {
	redis  *redis.Client
	config Config
	logger zerolog.Logger
}

// NewManager creates a new cache manager with Redis backend.
func NewManager(redisClient *redis.Client, cfg Config) *Manager {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = DefaultTTL
	}
	if cfg.StaleTTL < 0 {
		cfg.StaleTTL = 0
	}
	return &Manager{
		redis:  redisClient,
		config: cfg,
		logger: logging.NewLogger(logging.ComponentCache),
	}
}

// DefaultTTL returns the fresh time for responses that declare none.
func (m *Manager) DefaultTTL() time.Duration {
	return m.config.DefaultTTL
}

// Get retrieves a fresh or stale entry.
// Returns ErrCacheMiss if the key doesn't exist.
func (m *Manager) Get(ctx context.Context, key Key) (*Entry, error) {
	cacheKey := key.String()

	data, err := m.redis.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			CacheMisses.Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		_ = m.Delete(ctx, key)
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	if entry.IsFresh() {
		CacheHits.WithLabelValues("fresh").Inc()
	} else {
		CacheHits.WithLabelValues("stale").Inc()
	}

	m.logger.Debug().
		Str("key", cacheKey).
		Bool("fresh", entry.IsFresh()).
		Msg("Cache hit")

	return &entry, nil
}

// Set stores an entry. Redis expires it once both the fresh and stale
// windows have passed.
func (m *Manager) Set(ctx context.Context, key Key, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	ttl := entry.TTL() + m.config.StaleTTL
	if ttl <= 0 {
		return nil
	}
	if !entry.IsFresh() && !ShouldMakeConditionalRequest(entry) {
		// a stale entry without validators can never be reused
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := m.redis.Set(ctx, key.String(), data, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	CacheStoredBytes.Add(float64(len(data)))
	return nil
}

// Delete removes a cache entry.
func (m *Manager) Delete(ctx context.Context, key Key) error {
	if err := m.redis.Del(ctx, key.String()).Err(); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Refresh marks a revalidated entry fresh until freshUntil and stores it again.
func (m *Manager) Refresh(ctx context.Context, key Key, entry *Entry, freshUntil time.Time) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}
	refreshed := *entry
	refreshed.FreshUntil = freshUntil
	NotModified.Inc()
	return m.Set(ctx, key, &refreshed)
}
