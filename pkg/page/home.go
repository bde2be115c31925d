package page

import (
	"net/url"

	"github.com/Sternrassler/addons-frontend/pkg/action"
	"github.com/Sternrassler/addons-frontend/pkg/api"
	"github.com/Sternrassler/addons-frontend/pkg/errorhandler"
	"github.com/Sternrassler/addons-frontend/pkg/store"
)

// CollectionsToFetch are the collections shown on the home page, in shelf order.
var CollectionsToFetch = []api.CollectionParams{
	{User: "mozilla", Slug: "privacy-matters"},
	{User: "mozilla", Slug: "extensions-challenge-honorees"},
}

// Link is a titled link.
type Link struct {
	Title string
	Path  string
}

var curatedCollections = []Link{
	{"Bookmarks", "/collections/mozilla/bookmark-managers/"},
	{"Password managers", "/collections/mozilla/password-managers/"},
	{"Ad blockers", "/collections/mozilla/ad-blockers/"},
	{"Smarter Shopping", "/collections/mozilla/smarter-shopping/"},
	{"Productivity", "/collections/mozilla/be-more-productive/"},
	{"Watching Videos", "/collections/mozilla/watching-videos/"},
}

var curatedThemes = []Link{
	{"Abstract", "/themes/abstract/"},
	{"Nature", "/themes/nature/"},
	{"Film & TV", "/themes/film-and-tv/"},
	{"Scenery", "/themes/scenery/"},
	{"Music", "/themes/music/"},
	{"Seasonal", "/themes/seasonal/"},
}

// HomeProps are the props of the Home page.
type HomeProps struct {
	Collections        [][]api.Addon
	FeaturedExtensions []api.Addon
	PopularExtensions  []api.Addon
	ResultsLoaded      bool
	TopRatedThemes     []api.Addon
}

// HomeStateToProps projects the state.
func HomeStateToProps(st store.State) HomeProps {
	collections := make([][]api.Addon, 0, len(st.Home.Collections))
	for _, c := range st.Home.Collections {
		collections = append(collections, c.Addons())
	}
	return HomeProps{
		Collections:        collections,
		FeaturedExtensions: st.Home.FeaturedExtensions,
		PopularExtensions:  st.Home.PopularExtensions,
		ResultsLoaded:      st.Home.ResultsLoaded,
		TopRatedThemes:     st.Home.TopRatedThemes,
	}
}

// Home is the landing page.
type Home struct {
	base
}

// NewHome creates a Home instance.
func NewHome(dispatch Dispatch, opts errorhandler.Options) *Home {
	return &Home{base: newBase("Home", dispatch, opts)}
}

// Mount sets the view context and fetches the shelves unless loaded.
func (h *Home) Mount(st store.State) {
	h.MountProps(HomeStateToProps(st))
}

// MountProps is Mount for already projected props.
func (h *Home) MountProps(props HomeProps) {
	h.send(action.SetViewContext{Context: action.ViewContextHome})

	if !props.ResultsLoaded {
		h.send(action.FetchHomeAddons(action.HomeParams{
			ErrorHandlerID:     h.ErrorHandlerID(),
			CollectionsToFetch: CollectionsToFetch,
		}))
	}
}

// Update does nothing; Home has no own props.
func (h *Home) Update(store.State) {}

// View renders the page for st.
func (h *Home) View(st store.State) View {
	return h.Render(HomeStateToProps(st), h.ErrorHandler(st))
}

// Shelf is one card of add-ons.
type Shelf struct {
	ClassName  string
	Header     string
	FooterText string
	FooterLink string
	Addons     []api.Addon
	Loading    bool
}

// HomeView is the rendered Home page.
type HomeView struct {
	Error              *errorhandler.ErrorList
	CuratedCollections []Link
	Shelves            []Shelf
	CuratedThemes      []Link
}

func searchLink(params map[string]string) string {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	return SearchPathname + "?" + q.Encode()
}

func collectionLink(c api.CollectionParams) string {
	return "/collections/" + c.User + "/" + c.Slug + "/"
}

// Render renders props.
func (h *Home) Render(props HomeProps, eh *errorhandler.ErrorHandler) HomeView {
	loading := !props.ResultsLoaded
	collection := func(i int) []api.Addon {
		if i < len(props.Collections) {
			return props.Collections[i]
		}
		return nil
	}

	return HomeView{
		Error:              eh.RenderErrorIfPresent(),
		CuratedCollections: curatedCollections,
		Shelves: []Shelf{
			{
				ClassName:  "Home-FeaturedExtensions",
				Header:     "Featured extensions",
				FooterText: "See more featured extensions",
				FooterLink: searchLink(map[string]string{"addonType": api.AddonTypeExtension, "featured": "true"}),
				Addons:     props.FeaturedExtensions,
				Loading:    loading,
			},
			{
				ClassName:  "Home-FeaturedCollection",
				Header:     "Privacy tools",
				FooterText: "See more privacy tools",
				FooterLink: collectionLink(CollectionsToFetch[0]),
				Addons:     collection(0),
				Loading:    loading,
			},
			{
				ClassName:  "Home-TopRatedThemes",
				Header:     "Top-rated themes",
				FooterText: "See more highly rated themes",
				FooterLink: searchLink(map[string]string{"addonType": api.AddonTypeTheme, "sort": api.SearchSortTopRated}),
				Addons:     props.TopRatedThemes,
				Loading:    loading,
			},
			{
				ClassName:  "Home-FeaturedCollection",
				Header:     "“Extensions Challenge” honorees",
				FooterText: "See more “Extensions Challenge” honorees",
				FooterLink: collectionLink(CollectionsToFetch[1]),
				Addons:     collection(1),
				Loading:    loading,
			},
			{
				ClassName:  "Home-PopularExtensions",
				Header:     "Popular extensions",
				FooterText: "See more popular extensions",
				FooterLink: searchLink(map[string]string{"addonType": api.AddonTypeExtension, "sort": api.SearchSortPopular}),
				Addons:     props.PopularExtensions,
				Loading:    loading,
			},
		},
		CuratedThemes: curatedThemes,
	}
}

// Lines renders the view as text.
func (v HomeView) Lines() []string {
	lines := errorLines(v.Error)

	lines = append(lines, "Customize the way Firefox works with extensions. Are you interested in…")
	for _, l := range v.CuratedCollections {
		lines = append(lines, "  - "+l.Title+" "+l.Path)
	}

	for _, s := range v.Shelves {
		lines = append(lines, "", s.Header)
		if s.Loading {
			lines = append(lines, "  ...")
		} else {
			lines = append(lines, addonLines(s.Addons)...)
		}
		lines = append(lines, "  "+s.FooterText+" "+s.FooterLink)
	}

	lines = append(lines, "", "Change the way Firefox looks with themes.")
	for _, l := range v.CuratedThemes {
		lines = append(lines, "  - "+l.Title+" "+l.Path)
	}
	return lines
}
