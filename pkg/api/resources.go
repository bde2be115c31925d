package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Sternrassler/addons-frontend/pkg/pagination"
	"golang.org/x/sync/errgroup"
)

// Shelf sizes on the home page.
const (
	homeShelfSize      = 4
	homeThemeShelfSize = 3
)

// Categories fetches every category. The resource answers with a bare
// JSON array which is wrapped into CategoriesResponse.Result.
func (c *Client) Categories(ctx context.Context, st State) (*CategoriesResponse, error) {
	var result []Category
	if err := c.callAPI(ctx, st, "categories", "/addons/categories/", nil, &result); err != nil {
		return nil, err
	}
	if result == nil {
		// a literal null body
		return nil, nil
	}
	return &CategoriesResponse{Result: result}, nil
}

// Search runs an add-on search.
func (c *Client) Search(ctx context.Context, st State, filters SearchFilters) (*SearchResponse, error) {
	var resp *SearchResponse
	if err := c.callAPI(ctx, st, "search", "/addons/search/", searchQuery(filters), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func searchQuery(f SearchFilters) url.Values {
	q := url.Values{}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(f.PageSize))
	}
	if f.AddonType != "" {
		q.Set("type", f.AddonType)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Sort != "" {
		q.Set("sort", f.Sort)
	}
	if f.Featured {
		q.Set("featured", "true")
	}
	return q
}

// CollectionAddons lists the first page of add-ons of one collection.
func (c *Client) CollectionAddons(ctx context.Context, st State, p CollectionParams) (*CollectionAddonsResponse, error) {
	return c.collectionAddonsPage(ctx, st, p, 0)
}

// AllCollectionAddons lists every add-on of one collection, fetching the
// pages after the first in parallel.
func (c *Client) AllCollectionAddons(ctx context.Context, st State, p CollectionParams) ([]Addon, error) {
	fetcher := pagination.NewBatchFetcher[Addon](func(ctx context.Context, page int) ([]Addon, int, error) {
		resp, err := c.collectionAddonsPage(ctx, st, p, page)
		if err != nil {
			return nil, 0, err
		}
		if resp == nil {
			return nil, 0, nil
		}
		return resp.Addons(), resp.Count, nil
	}, c.config.Pagination)

	return fetcher.FetchAll(ctx)
}

// collectionAddonsPage fetches one page; page 0 leaves the page to the API.
func (c *Client) collectionAddonsPage(ctx context.Context, st State, p CollectionParams, page int) (*CollectionAddonsResponse, error) {
	if p.User == "" || p.Slug == "" {
		return nil, fmt.Errorf("collection user and slug are required")
	}

	endpoint := fmt.Sprintf("/accounts/account/%s/collections/%s/addons/",
		url.PathEscape(p.User), url.PathEscape(p.Slug))

	var query url.Values
	if page > 0 {
		query = url.Values{"page": {strconv.Itoa(page)}}
	}

	var resp *CollectionAddonsResponse
	if err := c.callAPI(ctx, st, "collection_addons", endpoint, query, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// HomeAddons fetches the curated collections and the home shelves
// concurrently. The first failure cancels the remaining calls.
func (c *Client) HomeAddons(ctx context.Context, st State, p HomeParams) (*HomeResponse, error) {
	g, gctx := errgroup.WithContext(ctx)

	resp := &HomeResponse{
		Collections: make([]CollectionAddonsResponse, len(p.CollectionsToFetch)),
	}

	for i, coll := range p.CollectionsToFetch {
		g.Go(func() error {
			r, err := c.CollectionAddons(gctx, st, coll)
			if err != nil {
				return fmt.Errorf("collection %s/%s: %w", coll.User, coll.Slug, err)
			}
			if r != nil {
				resp.Collections[i] = *r
			}
			return nil
		})
	}

	shelves := []struct {
		name    string
		filters SearchFilters
		dst     *SearchResponse
	}{
		{"featured extensions", SearchFilters{AddonType: AddonTypeExtension, Featured: true, Sort: "random", PageSize: homeShelfSize}, &resp.FeaturedExtensions},
		{"popular extensions", SearchFilters{AddonType: AddonTypeExtension, Sort: SearchSortPopular, PageSize: homeShelfSize}, &resp.PopularExtensions},
		{"top rated themes", SearchFilters{AddonType: AddonTypeTheme, Sort: SearchSortTopRated, PageSize: homeThemeShelfSize}, &resp.TopRatedThemes},
	}

	for _, shelf := range shelves {
		g.Go(func() error {
			r, err := c.Search(gctx, st, shelf.filters)
			if err != nil {
				return fmt.Errorf("%s: %w", shelf.name, err)
			}
			if r != nil {
				*shelf.dst = *r
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return resp, nil
}
