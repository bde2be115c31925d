// Package errorhandler lets a component instance report failures for its
// own identity and read back the error captured for that identity, without
// seeing the errors of any other instance.
package errorhandler

import (
	"strings"

	"github.com/Sternrassler/addons-frontend/pkg/action"
)

// DefaultMessage is shown for an error that carries no message.
const DefaultMessage = "An unexpected error occurred."

// ErrorList is the user-visible form of a captured error.
type ErrorList struct {
	Code     string
	Messages []string
}

// Lines returns the messages to display, never empty.
func (l ErrorList) Lines() []string {
	if len(l.Messages) == 0 {
		return []string{DefaultMessage}
	}
	return l.Messages
}

func (l ErrorList) String() string {
	return strings.Join(l.Lines(), "\n")
}

// ErrorHandler is bound to one identity. It is a plain value: building
// one has no side effect.
type ErrorHandler struct {
	id       string
	dispatch func(action.Action)
	captured *action.ErrorDetail
}

// New creates a handler for id. captured is the error currently recorded
// for id, or nil.
func New(id string, dispatch func(action.Action), captured *action.ErrorDetail) *ErrorHandler {
	return &ErrorHandler{id: id, dispatch: dispatch, captured: captured}
}

// ID returns the handler identity.
func (h *ErrorHandler) ID() string {
	return h.id
}

// HasError reports whether an error is captured for this identity.
func (h *ErrorHandler) HasError() bool {
	return h.captured != nil
}

// Handle reports err for this identity. The caller has already caught err.
func (h *ErrorHandler) Handle(err error) {
	h.dispatch(h.CreateErrorAction(err))
}

// CreateErrorAction builds the failure message for err without dispatching it.
func (h *ErrorHandler) CreateErrorAction(err error) action.Failed {
	return action.SetError(h.id, err)
}

// Clear removes the captured error of this identity from the store.
func (h *ErrorHandler) Clear() {
	h.dispatch(h.CreateClearingAction())
}

// CreateClearingAction builds the clear message without dispatching it.
func (h *ErrorHandler) CreateClearingAction() action.ClearError {
	return action.ClearErrorFor(h.id)
}

// RenderError renders the captured error. Without one it returns an
// empty list; check HasError first or use RenderErrorIfPresent.
func (h *ErrorHandler) RenderError() ErrorList {
	if h.captured == nil {
		return ErrorList{}
	}
	return ErrorList{
		Code:     h.captured.Code,
		Messages: append([]string(nil), h.captured.Messages...),
	}
}

// RenderErrorIfPresent renders the captured error, or returns nil.
func (h *ErrorHandler) RenderErrorIfPresent() *ErrorList {
	if !h.HasError() {
		return nil
	}
	list := h.RenderError()
	return &list
}
