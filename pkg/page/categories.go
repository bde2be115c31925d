package page

import (
	"github.com/Sternrassler/addons-frontend/pkg/action"
	"github.com/Sternrassler/addons-frontend/pkg/api"
	"github.com/Sternrassler/addons-frontend/pkg/errorhandler"
	"github.com/Sternrassler/addons-frontend/pkg/store"
)

// Categories page texts.
const (
	CategoriesLoadingText = "Loading"
	CategoriesEmptyText   = "No categories found."
	CategoriesErrorText   = "Failed to load categories."
)

// categoryPlaceholders is the number of placeholder rows while loading.
const categoryPlaceholders = 10

// CategoriesProps are the props of the Categories page.
type CategoriesProps struct {
	AddonType  string
	Categories []api.Category
	ClientApp  string
	Error      *action.ErrorDetail
	Loading    bool
}

// CategoriesStateToProps projects the state for an add-on type as it
// appears in the URL.
func CategoriesStateToProps(st store.State, visibleAddonType string) (CategoriesProps, error) {
	addonType, err := AddonTypeFromVisible(visibleAddonType)
	if err != nil {
		return CategoriesProps{}, err
	}

	return CategoriesProps{
		AddonType:  addonType,
		Categories: st.Categories.ForApp(st.API.ClientApp, addonType),
		ClientApp:  st.API.ClientApp,
		Error:      st.Categories.Error,
		Loading:    st.Categories.Loading,
	}, nil
}

// Categories lists the categories of one add-on type.
type Categories struct {
	base
	visibleAddonType string
}

// NewCategories creates a Categories instance for an add-on type as it
// appears in the URL.
func NewCategories(dispatch Dispatch, visibleAddonType string, opts errorhandler.Options) *Categories {
	return &Categories{
		base:             newBase("Categories", dispatch, opts),
		visibleAddonType: visibleAddonType,
	}
}

// Mount fetches the categories unless they are loaded or loading.
func (c *Categories) Mount(st store.State) {
	props, err := CategoriesStateToProps(st, c.visibleAddonType)
	if err != nil {
		c.ErrorHandler(st).Handle(err)
		return
	}
	c.MountProps(props)
}

// MountProps is Mount for already projected props.
func (c *Categories) MountProps(props CategoriesProps) {
	if len(props.Categories) == 0 && !props.Loading {
		c.send(action.CategoriesFetch(action.CategoriesParams{
			ErrorHandlerID: c.ErrorHandlerID(),
			AddonType:      props.AddonType,
			ClientApp:      props.ClientApp,
		}))
	}
}

// Update does nothing; the add-on type of an instance never changes.
func (c *Categories) Update(store.State) {}

// View renders the page for st.
func (c *Categories) View(st store.State) View {
	eh := c.ErrorHandler(st)
	props, err := CategoriesStateToProps(st, c.visibleAddonType)
	if err != nil {
		return WithRenderedErrorHandler(eh, nil)
	}
	return c.Render(props, eh)
}

// CategoryLink is one rendered category.
type CategoryLink struct {
	Name string
	Link string
}

// CategoriesView is the rendered Categories page.
type CategoriesView struct {
	Loading      bool
	Placeholders int
	Items        []CategoryLink
	Message      string
}

// Render renders props. Errors replace the list.
func (c *Categories) Render(props CategoriesProps, eh *errorhandler.ErrorHandler) CategoriesView {
	switch {
	case props.Error != nil || eh.HasError():
		return CategoriesView{Message: CategoriesErrorText}
	case props.Loading:
		return CategoriesView{Loading: true, Placeholders: categoryPlaceholders}
	case len(props.Categories) == 0:
		return CategoriesView{Message: CategoriesEmptyText}
	}

	visible := c.visibleAddonType
	items := make([]CategoryLink, 0, len(props.Categories))
	for _, cat := range props.Categories {
		items = append(items, CategoryLink{
			Name: cat.Name,
			Link: "/" + props.ClientApp + "/" + visible + "/" + cat.Slug + "/",
		})
	}
	return CategoriesView{Items: items}
}

// Lines renders the view as text.
func (v CategoriesView) Lines() []string {
	if v.Message != "" {
		return []string{v.Message}
	}
	if v.Loading {
		lines := []string{CategoriesLoadingText}
		for range v.Placeholders {
			lines = append(lines, "  ...")
		}
		return lines
	}
	lines := make([]string, 0, len(v.Items))
	for _, item := range v.Items {
		lines = append(lines, "  - "+item.Name+" "+item.Link)
	}
	return lines
}
