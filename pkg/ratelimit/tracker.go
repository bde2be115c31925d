package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for throttle tracking.
var (
	throttleBlockedSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "amo_api_throttle_blocked_seconds",
		Help: "Seconds remaining in the current API throttle window",
	})

	throttleBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amo_api_throttle_blocks_total",
		Help: "Total number of requests held back by an active throttle window",
	})

	throttleResponsesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amo_api_throttle_responses_total",
		Help: "Total number of 429 responses received from the API",
	})
)

// Tracker records API throttling and gates requests.
type Tracker struct {
	redis  *redis.Client
	logger zerolog.Logger
	now    func() time.Time
}

// NewTracker creates a new throttle tracker.
func NewTracker(redisClient *redis.Client, logger zerolog.Logger) *Tracker {
	return &Tracker{
		redis:  redisClient,
		logger: logger,
		now:    time.Now,
	}
}

// GetState retrieves the current throttle state from Redis.
// Returns an unblocked state if nothing is recorded.
func (t *Tracker) GetState(ctx context.Context) (*State, error) {
	blockedUntil, err := t.redis.Get(ctx, RedisKeyBlockedUntil).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get blocked until: %w", err)
	}

	hits, err := t.redis.Get(ctx, RedisKeyThrottleHits).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get throttle hits: %w", err)
	}

	state := &State{Hits: hits}
	if blockedUntil > 0 {
		state.BlockedUntil = time.UnixMilli(blockedUntil)
	}
	return state, nil
}

// RecordThrottle stores the block window announced by a 429 response.
// A later window never shortens an earlier, longer one.
func (t *Tracker) RecordThrottle(ctx context.Context, headers http.Header) error {
	now := t.now()
	wait := ParseRetryAfter(headers.Get("Retry-After"), now)
	until := now.Add(wait)

	current, err := t.GetState(ctx)
	if err != nil {
		return err
	}
	if current.BlockedUntil.After(until) {
		until = current.BlockedUntil
	}

	ttl := until.Sub(now)
	pipe := t.redis.TxPipeline()
	pipe.Set(ctx, RedisKeyBlockedUntil, until.UnixMilli(), ttl)
	pipe.Incr(ctx, RedisKeyThrottleHits)
	pipe.PExpire(ctx, RedisKeyThrottleHits, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store throttle state in redis: %w", err)
	}

	throttleResponsesTotal.Inc()
	throttleBlockedSeconds.Set(ttl.Seconds())

	t.logger.Warn().
		Time("blocked_until", until).
		Dur("wait", ttl).
		Msg("API throttled, holding back requests")

	return nil
}

// ShouldAllowRequest reports whether a request may be sent now.
func (t *Tracker) ShouldAllowRequest(ctx context.Context) (bool, error) {
	state, err := t.GetState(ctx)
	if err != nil {
		return false, fmt.Errorf("get throttle state: %w", err)
	}

	if state.IsBlocked(t.now()) {
		t.logger.Debug().
			Dur("wait", state.TimeUntilReset()).
			Int64("hits", state.Hits).
			Msg("API throttle active - blocking request")
		throttleBlocksTotal.Inc()
		throttleBlockedSeconds.Set(state.TimeUntilReset().Seconds())
		return false, nil
	}

	throttleBlockedSeconds.Set(0)
	return true, nil
}

// ParseRetryAfter interprets a Retry-After value, either delta-seconds or an
// HTTP date, clamped to (0, MaxRetryAfter].
func ParseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultRetryAfter
	}

	var wait time.Duration
	if secs, err := strconv.Atoi(value); err == nil {
		wait = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(value); err == nil {
		wait = at.Sub(now)
	} else {
		return DefaultRetryAfter
	}

	switch {
	case wait <= 0:
		return time.Second
	case wait > MaxRetryAfter:
		return MaxRetryAfter
	default:
		return wait
	}
}
