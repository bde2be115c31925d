package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/addons-frontend/pkg/logging"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Config holds batch fetcher configuration.
type Config struct {
	// MaxConcurrency is the maximum number of parallel requests
	MaxConcurrency int

	// Timeout per page fetch
	Timeout time.Duration

	// MaxPages caps how many pages are fetched
	MaxPages int
}

// DefaultConfig returns a configuration that stays well below the API
// throttle limits.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        15 * time.Second,
		MaxPages:       50,
	}
}

// PageFetcher fetches one page (starting at 1) and returns its items and
// the total item count of the resource.
type PageFetcher[T any] func(ctx context.Context, page int) (items []T, count int, err error)

// BatchFetcher fetches every page of a resource.
type BatchFetcher[T any] struct {
	fetch  PageFetcher[T]
	config Config
	logger zerolog.Logger
}

// NewBatchFetcher creates a new batch fetcher.
func NewBatchFetcher[T any](fetch PageFetcher[T], config Config) *BatchFetcher[T] {
	defaults := DefaultConfig()
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = defaults.MaxConcurrency
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxPages <= 0 {
		config.MaxPages = defaults.MaxPages
	}

	return &BatchFetcher[T]{
		fetch:  fetch,
		config: config,
		logger: logging.NewLogger(logging.ComponentPagination),
	}
}

// TotalPages returns the number of pages holding count items when a full
// page holds pageSize items.
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 1
	}
	pages := count / pageSize
	if count%pageSize != 0 {
		pages++
	}
	return pages
}

// FetchAll fetches every page and returns the items in page order.
// The first failing page cancels the others and fails the call.
func (bf *BatchFetcher[T]) FetchAll(ctx context.Context) ([]T, error) {
	start := time.Now()

	first, count, err := bf.fetchPage(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("fetch first page: %w", err)
	}

	totalPages := TotalPages(count, len(first))
	if totalPages > bf.config.MaxPages {
		bf.logger.Warn().
			Int("total_pages", totalPages).
			Int("max_pages", bf.config.MaxPages).
			Msg("Page count capped")
		totalPages = bf.config.MaxPages
	}

	if totalPages == 1 {
		bf.logger.Debug().
			Int("pages", 1).
			Dur("duration", time.Since(start)).
			Msg("Fetch complete (single page)")
		return first, nil
	}

	bf.logger.Debug().
		Int("total_pages", totalPages).
		Int("count", count).
		Msg("Starting parallel page fetch")

	pages := make([][]T, totalPages)
	pages[0] = first

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bf.config.MaxConcurrency)
	for page := 2; page <= totalPages; page++ {
		g.Go(func() error {
			items, _, err := bf.fetchPage(gctx, page)
			if err != nil {
				return fmt.Errorf("fetch page %d: %w", page, err)
			}
			pages[page-1] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		bf.logger.Warn().Err(err).Int("total_pages", totalPages).Msg("Page fetch failed")
		return nil, err
	}

	var size int
	for _, p := range pages {
		size += len(p)
	}
	items := make([]T, 0, size)
	for _, p := range pages {
		items = append(items, p...)
	}

	bf.logger.Debug().
		Int("pages", totalPages).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return items, nil
}

func (bf *BatchFetcher[T]) fetchPage(ctx context.Context, page int) ([]T, int, error) {
	pageCtx, cancel := context.WithTimeout(ctx, bf.config.Timeout)
	defer cancel()
	return bf.fetch(pageCtx, page)
}
