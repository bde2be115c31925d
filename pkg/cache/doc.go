// Package cache stores add-ons API responses in Redis so that repeated page
// mounts do not hit the API for data it has already declared cacheable.
//
// Entries have two ages. While an entry is fresh (inside the max-age or
// Expires window sent by the API) it is served without a network call. Once
// fresh time has passed the entry is kept for a further stale window; a
// stale entry is revalidated with a conditional request (If-None-Match or
// If-Modified-Since) and a 304 answer refreshes it in place.
//
// # Basic Usage
//
//	manager := cache.NewManager(redisClient, cache.DefaultConfig())
//
//	key := cache.Key{
//		Endpoint:    "/addons/search/",
//		QueryParams: url.Values{"q": []string{"tabs"}, "lang": []string{"en-US"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	switch {
//	case errors.Is(err, cache.ErrCacheMiss):
//		// fetch from the API
//	case entry.IsFresh():
//		// serve entry.Data
//	default:
//		cache.AddConditionalHeaders(req, entry)
//	}
//
// # Metrics
//
//   - amo_api_cache_hits_total{state="fresh|stale"}
//   - amo_api_cache_misses_total
//   - amo_api_cache_stored_bytes_total
//   - amo_api_cache_not_modified_total
//   - amo_api_cache_errors_total{operation}
package cache
