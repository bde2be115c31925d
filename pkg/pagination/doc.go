// Package pagination fetches every page of a paginated add-ons API resource.
//
// List resources answer with {"count": N, "results": [...]} and take a
// page query parameter. The first page tells how many items exist and how
// many fit on a page; the remaining pages are fetched in parallel.
//
// Example usage:
//
//	fetcher := pagination.NewBatchFetcher(fetchPage, pagination.DefaultConfig())
//	addons, err := fetcher.FetchAll(ctx)
//
// The batch fetcher:
//   - Fetches the first page to determine the page count
//   - Fetches the remaining pages with at most MaxConcurrency requests in flight
//   - Stops at MaxPages
//   - Returns the items in page order, or the first error
package pagination
