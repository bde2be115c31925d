package store

import (
	"maps"

	"github.com/Sternrassler/addons-frontend/pkg/action"
	"github.com/Sternrassler/addons-frontend/pkg/api"
)

// Reducer computes the next state. It must not mutate its input.
type Reducer func(State, action.Action) State

// Reduce is the root reducer: every slice reducer in turn.
func Reduce(s State, a action.Action) State {
	s.API = reduceAPI(s.API, a)
	s.Categories = reduceCategories(s.Categories, a)
	s.Search = reduceSearch(s.Search, a)
	s.Home = reduceHome(s.Home, a)
	s.Errors = reduceErrors(s.Errors, a)
	s.LoadingBar = reduceLoadingBar(s.LoadingBar, a)
	s.ViewContext = reduceViewContext(s.ViewContext, a)
	return s
}

func reduceAPI(s api.State, a action.Action) api.State {
	switch a := a.(type) {
	case action.SetClientApp:
		s.ClientApp = a.ClientApp
	case action.SetLang:
		s.Lang = a.Lang
	case action.SetAuthToken:
		s.Token = a.Token
	case action.LogOut:
		s.Token = ""
	}
	return s
}

func reduceCategories(s CategoriesState, a action.Action) CategoriesState {
	switch a := a.(type) {
	case action.Fetch:
		if a.Kind == action.KindCategories {
			s.Loading = true
			s.Error = nil
		}
	case action.Loaded:
		if resp, ok := a.Payload.(api.CategoriesResponse); ok && a.Kind == action.KindCategories {
			s.Categories = groupCategories(resp.Result)
			s.Loading = false
			s.Error = nil
		}
	case action.Failed:
		if a.Kind == action.KindCategories {
			s.Loading = false
			s.Error = detailPtr(a.Error)
		}
	}
	return s
}

// groupCategories indexes categories by application and type, keeping
// the API order within each group.
func groupCategories(list []api.Category) map[string]map[string][]api.Category {
	out := make(map[string]map[string][]api.Category)
	for _, c := range list {
		byType, ok := out[c.Application]
		if !ok {
			byType = make(map[string][]api.Category)
			out[c.Application] = byType
		}
		byType[c.Type] = append(byType[c.Type], c)
	}
	return out
}

func reduceSearch(s SearchState, a action.Action) SearchState {
	switch a := a.(type) {
	case action.Fetch:
		if a.Kind != action.KindSearch {
			break
		}
		if p, ok := a.Params.(action.SearchParams); ok {
			s.Filters = p.Filters
		}
		s.Count = 0
		s.Results = nil
		s.Loading = true
		s.Error = nil
	case action.Loaded:
		if p, ok := a.Payload.(action.SearchPayload); ok && a.Kind == action.KindSearch {
			s.Filters = p.Filters
			s.Count = p.Response.Count
			s.Results = p.Response.Results
			s.Loading = false
			s.Error = nil
		}
	case action.Failed:
		if a.Kind == action.KindSearch {
			s.Loading = false
			s.Error = detailPtr(a.Error)
		}
	}
	return s
}

func reduceHome(s HomeState, a action.Action) HomeState {
	switch a := a.(type) {
	case action.Fetch:
		if a.Kind == action.KindHome {
			s.Loading = true
			s.Error = nil
		}
	case action.Loaded:
		if resp, ok := a.Payload.(api.HomeResponse); ok && a.Kind == action.KindHome {
			s = HomeState{
				ResultsLoaded:      true,
				Collections:        resp.Collections,
				FeaturedExtensions: resp.FeaturedExtensions.Results,
				PopularExtensions:  resp.PopularExtensions.Results,
				TopRatedThemes:     resp.TopRatedThemes.Results,
			}
		}
	case action.Failed:
		if a.Kind == action.KindHome {
			s.Loading = false
			s.Error = detailPtr(a.Error)
		}
	}
	return s
}

func reduceErrors(s map[string]action.ErrorDetail, a action.Action) map[string]action.ErrorDetail {
	switch a := a.(type) {
	case action.Failed:
		next := maps.Clone(s)
		if next == nil {
			next = make(map[string]action.ErrorDetail)
		}
		next[a.ErrorHandlerID] = a.Error
		return next
	case action.ClearError:
		if _, ok := s[a.ErrorHandlerID]; !ok {
			return s
		}
		next := maps.Clone(s)
		delete(next, a.ErrorHandlerID)
		return next
	}
	return s
}

func reduceLoadingBar(count int, a action.Action) int {
	switch a.(type) {
	case action.ShowLoading:
		return count + 1
	case action.HideLoading:
		if count > 0 {
			return count - 1
		}
	}
	return count
}

func reduceViewContext(s string, a action.Action) string {
	if a, ok := a.(action.SetViewContext); ok {
		return a.Context
	}
	return s
}

func detailPtr(d action.ErrorDetail) *action.ErrorDetail {
	return &d
}
