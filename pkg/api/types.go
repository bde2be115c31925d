package api

// State is the connection and auth context read from the store before
// every gateway call.
type State struct {
	ClientApp string `json:"clientApp"`
	Lang      string `json:"lang"`
	Token     string `json:"token,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
}

// Add-on types.
const (
	AddonTypeExtension  = "extension"
	AddonTypeTheme      = "persona"
	AddonTypeDictionary = "dictionary"
	AddonTypeLangPack   = "language"
	AddonTypeSearch     = "search"
)

// Search sort orders.
const (
	SearchSortPopular  = "hotness"
	SearchSortTopRated = "rating"
	SearchSortUpdated  = "updated"
)

// Category is an add-on category.
type Category struct {
	ID          int    `json:"id"`
	Application string `json:"application"`
	Misc        bool   `json:"misc"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Type        string `json:"type"`
	Weight      int    `json:"weight"`
	Description string `json:"description,omitempty"`
}

// CategoriesResponse is the payload of the categories resource.
type CategoriesResponse struct {
	Result []Category `json:"result"`
}

// Ratings summarizes user ratings of an add-on.
type Ratings struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Addon is an add-on summary as listed by search and collections.
type Addon struct {
	ID                int      `json:"id"`
	GUID              string   `json:"guid"`
	Name              string   `json:"name"`
	Slug              string   `json:"slug"`
	Type              string   `json:"type"`
	Summary           string   `json:"summary,omitempty"`
	IconURL           string   `json:"icon_url,omitempty"`
	URL               string   `json:"url,omitempty"`
	AverageDailyUsers int      `json:"average_daily_users"`
	Ratings           *Ratings `json:"ratings,omitempty"`
}

// SearchFilters are the parameters of a search call.
type SearchFilters struct {
	Query     string `json:"query,omitempty"`
	Page      int    `json:"page,omitempty"`
	AddonType string `json:"addonType,omitempty"`
	Category  string `json:"category,omitempty"`
	Sort      string `json:"sort,omitempty"`
	Featured  bool   `json:"featured,omitempty"`
	PageSize  int    `json:"page_size,omitempty"`
}

// HasCriteria reports whether the filters select anything beyond paging.
func (f SearchFilters) HasCriteria() bool {
	return f.Query != "" || f.AddonType != "" || f.Category != "" || f.Featured || f.Sort != ""
}

// SearchResponse is the payload of the search resource.
type SearchResponse struct {
	Count   int     `json:"count"`
	Results []Addon `json:"results"`
}

// CollectionParams identify a collection.
type CollectionParams struct {
	User string `json:"user"`
	Slug string `json:"slug"`
}

// CollectionAddon is one entry of a collection.
type CollectionAddon struct {
	Addon Addon  `json:"addon"`
	Notes string `json:"notes,omitempty"`
}

// CollectionAddonsResponse is the payload of the collection add-ons resource.
type CollectionAddonsResponse struct {
	Count   int               `json:"count"`
	Results []CollectionAddon `json:"results"`
}

// Addons flattens the collection entries.
func (r CollectionAddonsResponse) Addons() []Addon {
	out := make([]Addon, 0, len(r.Results))
	for _, ca := range r.Results {
		out = append(out, ca.Addon)
	}
	return out
}

// HomeParams are the parameters of the home shelves call.
type HomeParams struct {
	CollectionsToFetch []CollectionParams
}

// HomeResponse is the payload of the home resource.
type HomeResponse struct {
	Collections        []CollectionAddonsResponse
	FeaturedExtensions SearchResponse
	PopularExtensions  SearchResponse
	TopRatedThemes     SearchResponse
}
