package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by freshness state
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amo_api_cache_hits_total",
			Help: "Total number of API cache hits",
		},
		[]string{"state"}, // "fresh", "stale"
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "amo_api_cache_misses_total",
			Help: "Total number of API cache misses",
		},
	)

	// CacheStoredBytes tracks bytes written to the cache
	CacheStoredBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "amo_api_cache_stored_bytes_total",
			Help: "Total bytes of API responses written to the cache",
		},
	)

	// NotModified tracks 304 revalidations
	NotModified = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "amo_api_cache_not_modified_total",
			Help: "Total number of stale entries revalidated by a 304 response",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amo_api_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
