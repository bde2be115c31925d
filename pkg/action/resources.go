package action

import "github.com/Sternrassler/addons-frontend/pkg/api"

// CategoriesParams are the call parameters of a categories trigger.
type CategoriesParams struct {
	ErrorHandlerID string
	AddonType      string
	ClientApp      string
}

// CategoriesFetch triggers a categories fetch.
func CategoriesFetch(p CategoriesParams) Fetch {
	return Fetch{Kind: KindCategories, ErrorHandlerID: p.ErrorHandlerID, Params: p}
}

// CategoriesLoad delivers a categories payload.
func CategoriesLoad(resp api.CategoriesResponse) Loaded {
	resp.Result = append([]api.Category(nil), resp.Result...)
	return Loaded{Kind: KindCategories, Payload: resp}
}

// SearchParams are the call parameters of a search trigger.
type SearchParams struct {
	ErrorHandlerID string
	Filters        api.SearchFilters
}

// SearchStart triggers a search.
func SearchStart(p SearchParams) Fetch {
	return Fetch{Kind: KindSearch, ErrorHandlerID: p.ErrorHandlerID, Params: p}
}

// SearchLoad delivers search results for the filters that produced them.
func SearchLoad(filters api.SearchFilters, resp api.SearchResponse) Loaded {
	resp.Results = append([]api.Addon(nil), resp.Results...)
	return Loaded{Kind: KindSearch, Payload: SearchPayload{Filters: filters, Response: resp}}
}

// SearchPayload is the success payload of the search kind.
type SearchPayload struct {
	Filters  api.SearchFilters
	Response api.SearchResponse
}

// HomeParams are the call parameters of a home trigger.
type HomeParams struct {
	ErrorHandlerID     string
	CollectionsToFetch []api.CollectionParams
}

// FetchHomeAddons triggers the home page shelves fetch.
func FetchHomeAddons(p HomeParams) Fetch {
	p.CollectionsToFetch = append([]api.CollectionParams(nil), p.CollectionsToFetch...)
	return Fetch{Kind: KindHome, ErrorHandlerID: p.ErrorHandlerID, Params: p}
}

// LoadHomeAddons delivers the home page shelves.
func LoadHomeAddons(resp api.HomeResponse) Loaded {
	return Loaded{Kind: KindHome, Payload: resp}
}
