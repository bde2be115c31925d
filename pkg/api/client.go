// Package api is the HTTP gateway to the add-ons API. It exposes one
// operation per resource kind with the shape
// (ctx, State, params) -> (*payload, error) and layers throttling,
// response caching and retries underneath.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/addons-frontend/pkg/cache"
	"github.com/Sternrassler/addons-frontend/pkg/logging"
	"github.com/Sternrassler/addons-frontend/pkg/pagination"
	"github.com/Sternrassler/addons-frontend/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for API client operations.
var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amo_api_requests_total",
		Help: "Total API requests by route and status",
	}, []string{"route", "status"})

	apiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "amo_api_request_duration_seconds",
		Help:    "API request duration in seconds by route",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"route"})

	apiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amo_api_errors_total",
		Help: "Total API errors by class",
	}, []string{"class"})
)

// DefaultBaseURL is the production add-ons API host.
const DefaultBaseURL = "https://addons.mozilla.org"

// apiPrefix is the versioned path every resource lives under.
const apiPrefix = "/api/v4"

// Client is the add-ons API gateway.
type Client struct {
	httpClient *http.Client
	throttle   *ratelimit.Tracker
	cache      *cache.Manager
	config     Config
	retry      RetryConfig
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// Redis client for response caching and shared throttle state
	Redis *redis.Client

	// BaseURL of the API host, without the /api/v4 prefix
	BaseURL string

	// UserAgent sent when the connection state does not carry one
	UserAgent string

	// Timeout per HTTP attempt
	Timeout time.Duration

	// Caching
	CacheEnabled bool
	Cache        cache.Config

	// Retry
	MaxRetries     int
	InitialBackoff time.Duration

	// Pagination of list resources
	Pagination pagination.Config
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(redis *redis.Client, userAgent string) Config {
	return Config{
		Redis:          redis,
		BaseURL:        DefaultBaseURL,
		UserAgent:      userAgent,
		Timeout:        15 * time.Second,
		CacheEnabled:   true,
		Cache:          cache.DefaultConfig(),
		MaxRetries:     3,
		InitialBackoff: 500 * time.Millisecond,
		Pagination:     pagination.DefaultConfig(),
	}
}

// New creates a new API client.
func New(cfg Config) (*Client, error) {
	if cfg.Redis == nil {
		return nil, fmt.Errorf("redis client is required")
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url must be absolute (got %q)", cfg.BaseURL)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.MaxRetries < 1 {
		return nil, fmt.Errorf("max_retries must be >= 1 (got %d)", cfg.MaxRetries)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	retry := DefaultRetryConfig()
	retry.MaxAttempts = cfg.MaxRetries
	if cfg.InitialBackoff > 0 {
		retry.InitialBackoff = cfg.InitialBackoff
	}

	logger := logging.NewLogger(logging.ComponentAPIClient)

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		throttle:   ratelimit.NewTracker(cfg.Redis, logging.NewLogger(logging.ComponentRateLimit)),
		cache:      cache.NewManager(cfg.Redis, cfg.Cache),
		config:     cfg,
		retry:      retry,
		logger:     logger,
	}, nil
}

// Do performs a GET request with throttling, caching and retries.
// Responses with status >= 400 that are not retried are returned to the
// caller unchanged.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.do(req, req.URL.Path)
}

func (c *Client) do(req *http.Request, route string) (*http.Response, error) {
	ctx := req.Context()

	startTime := time.Now()
	defer func() {
		apiRequestDuration.WithLabelValues(route).Observe(time.Since(startTime).Seconds())
	}()

	// Step 1: Throttle gate
	allowed, err := c.throttle.ShouldAllowRequest(ctx)
	if err != nil {
		// a Redis outage must not take the site down with it
		c.logger.Warn().Err(err).Msg("Throttle check failed, sending request anyway")
	} else if !allowed {
		apiRequestsTotal.WithLabelValues(route, "throttled").Inc()
		apiErrorsTotal.WithLabelValues(string(ErrorClassRateLimit)).Inc()
		return nil, &Error{
			StatusCode: http.StatusTooManyRequests,
			Class:      ErrorClassRateLimit,
			Code:       CodeRateLimited,
			Messages:   []string{"Too many requests, please try again later."},
			Err:        ErrThrottled,
		}
	}

	// Step 2: Cache lookup, only for anonymous requests
	cacheable := c.config.CacheEnabled && req.Header.Get("Authorization") == ""
	cacheKey := cache.Key{Endpoint: strings.TrimPrefix(req.URL.Path, apiPrefix), QueryParams: req.URL.Query()}

	var cached *cache.Entry
	if cacheable {
		cached, err = c.cache.Get(ctx, cacheKey)
		if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("route", route).Msg("Cache get error")
		}
		if cached != nil && cached.IsFresh() {
			apiRequestsTotal.WithLabelValues(route, "cache").Inc()
			return cache.EntryToResponse(cached), nil
		}
		if cache.ShouldMakeConditionalRequest(cached) {
			cache.AddConditionalHeaders(req, cached)
		}
	}

	req.Header.Set("Accept", "application/json")
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	// Step 3: Execute with retries
	var resp *http.Response
	retryErr := retryWithBackoff(ctx, c.retry, c.logger, func() (ErrorClass, error) {
		var reqErr error
		resp, reqErr = c.httpClient.Do(req.Clone(ctx))
		if reqErr != nil {
			c.logger.Error().Err(reqErr).Str("route", route).Msg("HTTP request failed")
			apiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			apiRequestsTotal.WithLabelValues(route, "network_error").Inc()
			return ErrorClassNetwork, &Error{
				Class:    ErrorClassNetwork,
				Code:     CodeNetworkError,
				Messages: []string{"The add-ons server could not be reached."},
				Err:      reqErr,
			}
		}

		apiRequestsTotal.WithLabelValues(route, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode == http.StatusTooManyRequests {
			if err := c.throttle.RecordThrottle(ctx, resp.Header); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to record throttle state")
			}
		}

		class := classifyStatus(resp.StatusCode)
		if class == "" {
			return "", nil
		}

		apiErrorsTotal.WithLabelValues(string(class)).Inc()
		c.logger.Warn().
			Str("route", route).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("API request error")

		if !shouldRetry(class) {
			// let the caller read the error body
			return class, nil
		}

		apiErr := errorFromResponse(resp, class)
		resp = nil
		return class, apiErr
	})
	if retryErr != nil {
		return nil, retryErr
	}

	// Step 4: Revalidated stale entry
	if resp.StatusCode == http.StatusNotModified && cached != nil {
		resp.Body.Close()
		freshUntil := cache.FreshUntil(resp.Header, c.cache.DefaultTTL())
		if err := c.cache.Refresh(ctx, cacheKey, cached, freshUntil); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to refresh cache entry")
		}
		c.logger.Debug().Str("route", route).Msg("304 Not Modified - using cache")
		return cache.EntryToResponse(cached), nil
	}

	// Step 5: Store successful responses
	if cacheable && resp.StatusCode == http.StatusOK && cache.IsCacheable(resp.Header) {
		entry, err := cache.ResponseToEntry(resp, c.cache.DefaultTTL())
		if err != nil {
			c.logger.Warn().Err(err).Msg("Failed to create cache entry")
		} else if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to cache response")
		}
	}

	return resp, nil
}

// callAPI performs GET apiPrefix+endpoint for the connection state and
// decodes the JSON body into out.
func (c *Client) callAPI(ctx context.Context, st State, route, endpoint string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	if st.Lang != "" {
		query.Set("lang", st.Lang)
	}
	if st.ClientApp != "" {
		query.Set("app", st.ClientApp)
	}

	u := c.config.BaseURL + apiPrefix + endpoint
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if st.Token != "" {
		req.Header.Set("Authorization", "Bearer "+st.Token)
	}
	if st.UserAgent != "" {
		req.Header.Set("User-Agent", st.UserAgent)
	}

	resp, err := c.do(req, route)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return errorFromResponse(resp, classifyStatus(resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		apiErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return &Error{
			StatusCode: resp.StatusCode,
			Class:      ErrorClassDecode,
			Code:       CodeInvalidResponse,
			Messages:   []string{"The add-ons server sent an unreadable response."},
			Err:        err,
		}
	}

	return nil
}

// errorFromResponse builds an *Error from an error response and closes its body.
// The API answers with {"detail": "..."} or a map of field -> messages.
func errorFromResponse(resp *http.Response, class ErrorClass) *Error {
	defer resp.Body.Close()

	apiErr := &Error{
		StatusCode: resp.StatusCode,
		Class:      class,
		Code:       codeForStatus(resp.StatusCode),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(body) > 0 {
		apiErr.Messages = parseErrorMessages(body)
	}
	if len(apiErr.Messages) == 0 {
		apiErr.Messages = []string{fmt.Sprintf("Request failed: %s", http.StatusText(resp.StatusCode))}
	}

	return apiErr
}

func parseErrorMessages(body []byte) []string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil
	}

	var messages []string
	if raw, ok := fields["detail"]; ok {
		var detail string
		if json.Unmarshal(raw, &detail) == nil && detail != "" {
			messages = append(messages, detail)
		}
		delete(fields, "detail")
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		var list []string
		if json.Unmarshal(fields[k], &list) == nil {
			messages = append(messages, list...)
			continue
		}
		var single string
		if json.Unmarshal(fields[k], &single) == nil && single != "" {
			messages = append(messages, single)
		}
	}

	return messages
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
