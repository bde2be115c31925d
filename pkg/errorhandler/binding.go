package errorhandler

import (
	"github.com/Sternrassler/addons-frontend/pkg/action"
	"github.com/Sternrassler/addons-frontend/pkg/logging"
	"github.com/Sternrassler/addons-frontend/pkg/store"
)

// Options configure a Binding.
type Options struct {
	// Name prefixes generated identities
	Name string

	// ID is used as is when set
	ID string

	// Allocator generates identities; UUIDAllocator when nil
	Allocator Allocator
}

// Binding ties one component instance to its error handler identity.
// Create one per mounted instance and keep it for the instance lifetime.
type Binding struct {
	id string
}

// Bind allocates the identity of a new component instance.
func Bind(opts Options) *Binding {
	id := opts.ID
	if id == "" {
		alloc := opts.Allocator
		if alloc == nil {
			alloc = UUIDAllocator{}
		}
		id = alloc.Allocate(opts.Name)
		logger := logging.NewLogger(logging.ComponentErrorHandler)
		logger.Debug().
			Str("error_handler_id", id).
			Msg("Generated error handler ID")
	}
	return &Binding{id: id}
}

// ID returns the bound identity.
func (b *Binding) ID() string {
	return b.id
}

// Handler returns the error handler of this instance for state st.
func (b *Binding) Handler(st store.State, dispatch func(action.Action)) *ErrorHandler {
	var captured *action.ErrorDetail
	if detail, ok := st.ErrorFor(b.id); ok {
		captured = &detail
	}
	return New(b.id, dispatch, captured)
}
