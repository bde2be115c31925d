// Package metrics exposes the Prometheus registry of the application.
// Collectors are defined with promauto next to the code they measure
// (saga, api, cache, ratelimit); this package serves them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer every promauto collector uses.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer served by Handler.
var Gatherer = prometheus.DefaultGatherer

// Handler serves the metrics in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.InstrumentMetricHandler(Registry, promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{}))
}

// Metrics Documentation
//
// Fetch Orchestrator Metrics (pkg/saga):
//   - amo_fetch_total{kind, outcome} (Counter): Fetch invocations by resource kind, outcome success|failure
//   - amo_fetch_duration_seconds{kind} (Histogram): Invocation duration from loading on to loading off
//   - amo_fetch_in_flight{kind} (Gauge): Invocations waiting on the API gateway
//
// Request Metrics (pkg/api):
//   - amo_api_requests_total{route, status} (Counter): Requests by route and HTTP status, "cache" or "throttled"
//   - amo_api_request_duration_seconds{route} (Histogram): Request duration including retries
//   - amo_api_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network, decode)
//
// Retry Metrics (pkg/api):
//   - amo_api_retries_total{error_class} (Counter): Retry attempts by error class
//   - amo_api_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - amo_api_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Cache Metrics (pkg/cache):
//   - amo_api_cache_hits_total{state} (Counter): Cache hits, state fresh|stale
//   - amo_api_cache_misses_total (Counter): Cache misses
//   - amo_api_cache_stored_bytes_total (Counter): Bytes written to Redis
//   - amo_api_cache_not_modified_total (Counter): Stale entries revalidated by a 304
//   - amo_api_cache_errors_total{operation} (Counter): Cache operation errors
//
// Throttle Metrics (pkg/ratelimit):
//   - amo_api_throttle_blocked_seconds (Gauge): Remaining block window
//   - amo_api_throttle_blocks_total (Counter): Requests refused locally while blocked
//   - amo_api_throttle_responses_total (Counter): 429 responses received
//
// Example Prometheus Queries:
//
//   # Fetch failure ratio per kind
//   sum by (kind) (rate(amo_fetch_total{outcome="failure"}[5m]))
//     / sum by (kind) (rate(amo_fetch_total[5m]))
//
//   # Cache Hit Rate
//   sum(rate(amo_api_cache_hits_total[5m])) /
//   (sum(rate(amo_api_cache_hits_total[5m])) + sum(rate(amo_api_cache_misses_total[5m])))
//
//   # P95 fetch latency
//   histogram_quantile(0.95, sum by (le, kind) (rate(amo_fetch_duration_seconds_bucket[5m])))
