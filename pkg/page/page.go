// Package page implements the page components: Home, Categories and
// Search. A component dispatches its fetch trigger on mount, projects the
// store state into props and renders them into a view model.
package page

import (
	"fmt"

	"github.com/Sternrassler/addons-frontend/pkg/action"
	"github.com/Sternrassler/addons-frontend/pkg/api"
	"github.com/Sternrassler/addons-frontend/pkg/errorhandler"
	"github.com/Sternrassler/addons-frontend/pkg/logging"
	"github.com/Sternrassler/addons-frontend/pkg/store"
	"github.com/rs/zerolog"
)

// Dispatch sends an action to the store.
type Dispatch func(action.Action)

// View is a rendered component.
type View interface {
	// Lines renders the view as plain text
	Lines() []string
}

// Page is a mounted page component.
type Page interface {
	// Mount runs once when the component instance is created.
	Mount(st store.State)

	// Update runs after the own props of the component change.
	Update(st store.State)

	// View renders the component for st.
	View(st store.State) View
}

// Visible add-on types as they appear in URLs.
const (
	VisibleAddonTypeExtensions = "extensions"
	VisibleAddonTypeThemes     = "themes"
)

// AddonTypeFromVisible maps a URL add-on type to the API add-on type.
func AddonTypeFromVisible(visible string) (string, error) {
	switch visible {
	case VisibleAddonTypeExtensions:
		return api.AddonTypeExtension, nil
	case VisibleAddonTypeThemes:
		return api.AddonTypeTheme, nil
	default:
		return "", fmt.Errorf("unknown visible add-on type: %q", visible)
	}
}

// base is shared by every page component.
type base struct {
	binding  *errorhandler.Binding
	dispatch Dispatch
	logger   zerolog.Logger
}

func newBase(name string, dispatch Dispatch, opts errorhandler.Options) base {
	if opts.Name == "" {
		opts.Name = name
	}
	b := errorhandler.Bind(opts)
	return base{
		binding:  b,
		dispatch: dispatch,
		logger: logging.NewLogger(logging.ComponentPage).With().
			Str("page", name).
			Str("error_handler_id", b.ID()).
			Logger(),
	}
}

// ErrorHandler returns the error handler of the instance for st.
func (b base) ErrorHandler(st store.State) *errorhandler.ErrorHandler {
	return b.binding.Handler(st, b.dispatch)
}

// ErrorHandlerID returns the identity of the instance.
func (b base) ErrorHandlerID() string {
	return b.binding.ID()
}

func (b base) send(a action.Action) {
	b.logger.Debug().Str("action", string(a.Type())).Msg("Dispatching")
	b.dispatch(a)
}

// Rendered places the captured error of a handler above content.
type Rendered struct {
	Error   *errorhandler.ErrorList
	Content View
}

// WithRenderedErrorHandler wraps content with the error banner of h.
func WithRenderedErrorHandler(h *errorhandler.ErrorHandler, content View) Rendered {
	return Rendered{Error: h.RenderErrorIfPresent(), Content: content}
}

// Lines renders the banner, then the content.
func (r Rendered) Lines() []string {
	lines := errorLines(r.Error)
	if r.Content != nil {
		lines = append(lines, r.Content.Lines()...)
	}
	return lines
}

func errorLines(list *errorhandler.ErrorList) []string {
	if list == nil {
		return nil
	}
	lines := make([]string, 0, len(list.Lines()))
	for _, msg := range list.Lines() {
		lines = append(lines, "! "+msg)
	}
	return lines
}

func addonLines(addons []api.Addon) []string {
	lines := make([]string, 0, len(addons))
	for _, a := range addons {
		line := "  - " + a.Name
		if a.AverageDailyUsers > 0 {
			line += fmt.Sprintf(" (%d users)", a.AverageDailyUsers)
		}
		lines = append(lines, line)
	}
	return lines
}
