// Package action defines the messages exchanged between page components,
// fetch orchestrators and the state store.
//
// There are four message families:
//
//   - Trigger (Fetch): a component asks for a resource and attaches the
//     identity of its error handler.
//   - Success (Loaded): an orchestrator delivers the payload for a resource kind.
//   - Failure (Failed): an orchestrator or a component reports an error for
//     exactly one error handler identity.
//   - Clear (ClearError): a component drops the captured error for its identity.
//
// Loading-bar, connection-context and view-context messages complete the set.
// Messages are plain values; once dispatched they are never mutated.
package action

// Type is the tag carried by every message.
type Type string

// Message tags.
const (
	TypeFetch          Type = "FETCH"
	TypeLoaded         Type = "LOADED"
	TypeFailed         Type = "SET_ERROR"
	TypeClearError     Type = "CLEAR_ERROR"
	TypeShowLoading    Type = "loading-bar/SHOW"
	TypeHideLoading    Type = "loading-bar/HIDE"
	TypeSetClientApp   Type = "SET_CLIENT_APP"
	TypeSetLang        Type = "SET_LANG"
	TypeSetAuthToken   Type = "SET_AUTH_TOKEN"
	TypeLogOut         Type = "LOG_OUT_USER"
	TypeSetViewContext Type = "SET_VIEW_CONTEXT"
)

// Kind identifies a fetchable resource.
type Kind string

// Resource kinds.
const (
	KindCategories Kind = "categories"
	KindSearch     Kind = "search"
	KindHome       Kind = "home"
)

// Action is a dispatchable message.
type Action interface {
	Type() Type
}

// Fetch is the trigger message for a resource kind.
type Fetch struct {
	Kind           Kind
	ErrorHandlerID string
	Params         any
}

func (Fetch) Type() Type { return TypeFetch }

// Loaded carries the payload of a successful fetch.
type Loaded struct {
	Kind    Kind
	Payload any
}

func (Loaded) Type() Type { return TypeLoaded }

// Failed routes an error to one error handler identity. Kind is empty when
// the failure did not come from a fetch (a component handling its own error).
type Failed struct {
	Kind           Kind
	ErrorHandlerID string
	Error          ErrorDetail
}

func (Failed) Type() Type { return TypeFailed }

// ClearError removes the captured error for an identity.
type ClearError struct {
	ErrorHandlerID string
}

func (ClearError) Type() Type { return TypeClearError }

// ShowLoading turns the loading bar on.
type ShowLoading struct{}

func (ShowLoading) Type() Type { return TypeShowLoading }

// HideLoading turns the loading bar off.
type HideLoading struct{}

func (HideLoading) Type() Type { return TypeHideLoading }

// SetClientApp selects the client application (firefox, android).
type SetClientApp struct {
	ClientApp string
}

func (SetClientApp) Type() Type { return TypeSetClientApp }

// SetLang selects the content language.
type SetLang struct {
	Lang string
}

func (SetLang) Type() Type { return TypeSetLang }

// SetAuthToken stores the API token used for authenticated calls.
type SetAuthToken struct {
	Token string
}

func (SetAuthToken) Type() Type { return TypeSetAuthToken }

// LogOut drops the API token.
type LogOut struct{}

func (LogOut) Type() Type { return TypeLogOut }

// SetViewContext records which section of the site is being viewed.
type SetViewContext struct {
	Context string
}

func (SetViewContext) Type() Type { return TypeSetViewContext }

// View contexts.
const (
	ViewContextHome    = "VIEW_CONTEXT_HOME"
	ViewContextExplore = "VIEW_CONTEXT_EXPLORE"
)

// SetError builds a failure for identity id that is not tied to a fetch.
func SetError(id string, err error) Failed {
	return Failed{ErrorHandlerID: id, Error: NewErrorDetail(err)}
}

// FetchFailed builds the failure an orchestrator emits for a trigger.
func FetchFailed(kind Kind, id string, err error) Failed {
	return Failed{Kind: kind, ErrorHandlerID: id, Error: NewErrorDetail(err)}
}

// ClearErrorFor builds the clear message for identity id.
func ClearErrorFor(id string) ClearError {
	return ClearError{ErrorHandlerID: id}
}

// IsFetchOf reports whether a is a trigger for kind.
func IsFetchOf(kind Kind) func(Action) bool {
	return func(a Action) bool {
		f, ok := a.(Fetch)
		return ok && f.Kind == kind
	}
}
