package page

import (
	"fmt"
	"strconv"

	"github.com/Sternrassler/addons-frontend/pkg/action"
	"github.com/Sternrassler/addons-frontend/pkg/api"
	"github.com/Sternrassler/addons-frontend/pkg/errorhandler"
	"github.com/Sternrassler/addons-frontend/pkg/store"
)

// SearchEmptyQueryText is shown when there is nothing to search for.
const SearchEmptyQueryText = "Enter a search term and try again."

// SearchPathname is the default path of the search page.
const SearchPathname = "/search/"

// SearchStateProps are the props projected from the state.
type SearchStateProps struct {
	Count                 int
	FiltersUsedForResults api.SearchFilters
	Loading               bool
	Results               []api.Addon
}

// SearchStateToProps projects the state.
func SearchStateToProps(st store.State) SearchStateProps {
	return SearchStateProps{
		Count:                 st.Search.Count,
		FiltersUsedForResults: st.Search.Filters,
		Loading:               st.Search.Loading,
		Results:               st.Search.Results,
	}
}

// SearchOwnProps are the props the search page receives from its URL.
type SearchOwnProps struct {
	Filters           api.SearchFilters
	Pathname          string
	DisableSearchSort bool
}

// SearchProps are the merged props of the Search page.
type SearchProps struct {
	SearchOwnProps
	SearchStateProps
}

// Search runs a search for its filters and lists the results.
type Search struct {
	base
	own SearchOwnProps
}

// NewSearch creates a Search instance.
func NewSearch(dispatch Dispatch, own SearchOwnProps, opts errorhandler.Options) *Search {
	if own.Pathname == "" {
		own.Pathname = SearchPathname
	}
	return &Search{
		base: newBase("Search", dispatch, opts),
		own:  own,
	}
}

// Props merges the own props with the state projection.
func (s *Search) Props(st store.State) SearchProps {
	return SearchProps{SearchOwnProps: s.own, SearchStateProps: SearchStateToProps(st)}
}

// Mount sets the view context and searches unless the results for the
// current filters are already in the state.
func (s *Search) Mount(st store.State) {
	s.MountProps(s.Props(st))
}

// MountProps is Mount for already merged props.
func (s *Search) MountProps(props SearchProps) {
	viewContext := action.ViewContextExplore
	if props.Filters.AddonType != "" {
		viewContext = props.Filters.AddonType
	}
	s.send(action.SetViewContext{Context: viewContext})

	// An empty query still searches; the API then lists by sort and filters.
	if props.FiltersUsedForResults != props.Filters {
		s.dispatchSearch(props.Filters)
	}
}

// SetFilters changes the filters, as a navigation would. Call Update
// afterwards.
func (s *Search) SetFilters(filters api.SearchFilters) {
	s.own.Filters = filters
}

// Update searches again when the filters differ from the last search.
func (s *Search) Update(st store.State) {
	props := s.Props(st)
	if props.Filters != props.FiltersUsedForResults {
		s.dispatchSearch(props.Filters)
	}
}

func (s *Search) dispatchSearch(filters api.SearchFilters) {
	s.send(action.SearchStart(action.SearchParams{
		ErrorHandlerID: s.ErrorHandlerID(),
		Filters:        filters,
	}))
}

// View renders the page for st.
func (s *Search) View(st store.State) View {
	return s.Render(s.Props(st), s.ErrorHandler(st))
}

// SearchResultsView lists the results.
type SearchResultsView struct {
	Count    int
	Filters  api.SearchFilters
	Loading  bool
	Pathname string
	Results  []api.Addon
}

// PaginateView links the result pages.
type PaginateView struct {
	Count       int
	CurrentPage int
	Pathname    string
	QueryParams map[string]string
}

// SearchSortView offers the sort orders.
type SearchSortView struct {
	Filters  api.SearchFilters
	Pathname string
}

// SearchView is the rendered Search page.
type SearchView struct {
	Error    *errorhandler.ErrorList
	Message  string
	Sort     *SearchSortView
	Results  SearchResultsView
	Paginate *PaginateView
}

// Render renders props.
func (s *Search) Render(props SearchProps, eh *errorhandler.ErrorHandler) SearchView {
	view := SearchView{
		Error: eh.RenderErrorIfPresent(),
		Results: SearchResultsView{
			Count:    props.Count,
			Filters:  props.Filters,
			Loading:  props.Loading,
			Pathname: props.Pathname,
			Results:  props.Results,
		},
	}

	if props.Filters.Query == "" {
		view.Message = SearchEmptyQueryText
	} else {
		page := props.Filters.Page
		if page < 1 {
			page = 1
		}
		view.Paginate = &PaginateView{
			Count:       props.Count,
			CurrentPage: page,
			Pathname:    props.Pathname,
			QueryParams: map[string]string{
				"page": strconv.Itoa(page),
				"q":    props.Filters.Query,
			},
		}
	}

	if len(props.Results) > 0 && !props.DisableSearchSort {
		view.Sort = &SearchSortView{Filters: props.Filters, Pathname: props.Pathname}
	}

	return view
}

// Lines renders the view as text.
func (v SearchView) Lines() []string {
	lines := errorLines(v.Error)
	if v.Message != "" {
		lines = append(lines, v.Message)
	}
	if v.Sort != nil {
		sort := v.Sort.Filters.Sort
		if sort == "" {
			sort = "relevance"
		}
		lines = append(lines, "Sort: "+sort)
	}
	switch {
	case v.Results.Loading:
		lines = append(lines, "Searching...")
	case v.Results.Filters.Query != "":
		lines = append(lines, fmt.Sprintf("%d results for %q", v.Results.Count, v.Results.Filters.Query))
		lines = append(lines, addonLines(v.Results.Results)...)
	}
	if v.Paginate != nil {
		lines = append(lines, fmt.Sprintf("Page %d", v.Paginate.CurrentPage))
	}
	return lines
}
