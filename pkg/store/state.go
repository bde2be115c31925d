// Package store holds the global client state. Every change goes through
// Dispatch, which applies pure reducers under a single lock and hands the
// resulting immutable snapshot to observers.
package store

import (
	"github.com/Sternrassler/addons-frontend/pkg/action"
	"github.com/Sternrassler/addons-frontend/pkg/api"
)

// State is an immutable snapshot of the client state. Reducers never
// modify a snapshot in place; maps and slices are replaced on write.
type State struct {
	API         api.State
	Categories  CategoriesState
	Search      SearchState
	Home        HomeState
	Errors      map[string]action.ErrorDetail
	LoadingBar  int
	ViewContext string
}

// CategoriesState is the categories slice. Categories are grouped by
// client application, then add-on type.
type CategoriesState struct {
	Categories map[string]map[string][]api.Category
	Loading    bool
	Error      *action.ErrorDetail
}

// ForApp returns the categories of one application and add-on type.
func (c CategoriesState) ForApp(clientApp, addonType string) []api.Category {
	return c.Categories[clientApp][addonType]
}

// SearchState is the search slice. Filters are the filters of the most
// recent search, whether or not its results have arrived.
type SearchState struct {
	Filters api.SearchFilters
	Count   int
	Results []api.Addon
	Loading bool
	Error   *action.ErrorDetail
}

// HomeState is the home shelves slice.
type HomeState struct {
	ResultsLoaded      bool
	Collections        []api.CollectionAddonsResponse
	FeaturedExtensions []api.Addon
	PopularExtensions  []api.Addon
	TopRatedThemes     []api.Addon
	Loading            bool
	Error              *action.ErrorDetail
}

// InitialState returns the state of a freshly booted application.
func InitialState(clientApp, lang string) State {
	return State{
		API:    api.State{ClientApp: clientApp, Lang: lang},
		Errors: map[string]action.ErrorDetail{},
	}
}

// ErrorFor returns the captured error of an error handler identity.
func (s State) ErrorFor(id string) (action.ErrorDetail, bool) {
	detail, ok := s.Errors[id]
	return detail, ok
}

// IsLoading reports whether the loading bar is showing.
func (s State) IsLoading() bool {
	return s.LoadingBar > 0
}
