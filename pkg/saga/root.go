package saga

import (
	"context"

	"github.com/Sternrassler/addons-frontend/pkg/action"
	"github.com/Sternrassler/addons-frontend/pkg/api"
)

// Gateway is the remote API as seen by the orchestrators. *api.Client
// implements it.
type Gateway interface {
	Categories(ctx context.Context, st api.State) (*api.CategoriesResponse, error)
	Search(ctx context.Context, st api.State, filters api.SearchFilters) (*api.SearchResponse, error)
	HomeAddons(ctx context.Context, st api.State, p api.HomeParams) (*api.HomeResponse, error)
}

// CategoriesFetcher fetches categories.
func CategoriesFetcher(gw Gateway) Fetcher[action.CategoriesParams, api.CategoriesResponse] {
	return Fetcher[action.CategoriesParams, api.CategoriesResponse]{
		Kind: action.KindCategories,
		Call: func(ctx context.Context, st api.State, _ action.CategoriesParams) (*api.CategoriesResponse, error) {
			return gw.Categories(ctx, st)
		},
		Load: func(_ action.CategoriesParams, r api.CategoriesResponse) action.Loaded {
			return action.CategoriesLoad(r)
		},
	}
}

// SearchFetcher runs searches.
func SearchFetcher(gw Gateway) Fetcher[action.SearchParams, api.SearchResponse] {
	return Fetcher[action.SearchParams, api.SearchResponse]{
		Kind: action.KindSearch,
		Call: func(ctx context.Context, st api.State, p action.SearchParams) (*api.SearchResponse, error) {
			return gw.Search(ctx, st, p.Filters)
		},
		Load: func(p action.SearchParams, r api.SearchResponse) action.Loaded {
			return action.SearchLoad(p.Filters, r)
		},
	}
}

// HomeFetcher fetches the home page shelves.
func HomeFetcher(gw Gateway) Fetcher[action.HomeParams, api.HomeResponse] {
	return Fetcher[action.HomeParams, api.HomeResponse]{
		Kind: action.KindHome,
		Call: func(ctx context.Context, st api.State, p action.HomeParams) (*api.HomeResponse, error) {
			return gw.HomeAddons(ctx, st, api.HomeParams{CollectionsToFetch: p.CollectionsToFetch})
		},
		Load: func(_ action.HomeParams, r api.HomeResponse) action.Loaded {
			return action.LoadHomeAddons(r)
		},
	}
}

// Root builds the registry of every orchestrator of the application.
func Root(rt *Runtime, gw Gateway) (*Registry, error) {
	r := NewRegistry(rt)
	if err := RegisterFetcher(r, CategoriesFetcher(gw)); err != nil {
		return nil, err
	}
	if err := RegisterFetcher(r, SearchFetcher(gw)); err != nil {
		return nil, err
	}
	if err := RegisterFetcher(r, HomeFetcher(gw)); err != nil {
		return nil, err
	}
	return r, nil
}
