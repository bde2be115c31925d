// Package saga runs the fetch orchestrators. Each orchestrator listens for
// the trigger of one resource kind, calls the API gateway and reports the
// outcome back to the store.
package saga

import (
	"context"
	"sync"

	"github.com/Sternrassler/addons-frontend/pkg/action"
	"github.com/Sternrassler/addons-frontend/pkg/api"
	"github.com/Sternrassler/addons-frontend/pkg/logging"
	"github.com/Sternrassler/addons-frontend/pkg/store"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Store is the part of the state store the runtime needs.
type Store interface {
	Dispatch(action.Action)
	GetState() store.State
	Subscribe(store.Observer) (unsubscribe func())
}

// Worker handles one matching action.
type Worker func(ctx context.Context, a action.Action) error

// Runtime connects listeners to a store.
type Runtime struct {
	store  Store
	logger zerolog.Logger
}

// NewRuntime creates a runtime on top of s.
func NewRuntime(s Store) *Runtime {
	return &Runtime{
		store:  s,
		logger: logging.NewLogger(logging.ComponentSaga),
	}
}

// Dispatch forwards a to the store.
func (r *Runtime) Dispatch(a action.Action) {
	r.store.Dispatch(a)
}

// Select returns the connection and auth context of the current state.
func (r *Runtime) Select() api.State {
	return r.store.GetState().API
}

// Listener is a running TakeEvery subscription.
type Listener struct {
	ctx         context.Context
	unsubscribe func()

	mu     sync.Mutex
	closed bool
	group  errgroup.Group
}

// Listen subscribes before returning, so no action dispatched after Listen
// returns is missed. Every action accepted by match runs worker in its own
// goroutine; a newer action never cancels an older one.
func (r *Runtime) Listen(ctx context.Context, match func(action.Action) bool, worker Worker) *Listener {
	l := &Listener{ctx: ctx}
	l.unsubscribe = r.store.Subscribe(func(a action.Action, _ store.State) {
		if !match(a) {
			return
		}

		l.mu.Lock()
		defer l.mu.Unlock()
		if l.closed {
			return
		}
		l.group.Go(func() error {
			return worker(ctx, a)
		})
	})
	return l
}

// Wait blocks until the listener context is done, then stops taking new
// actions and waits for the in-flight workers.
func (l *Listener) Wait() error {
	<-l.ctx.Done()
	l.unsubscribe()

	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	return l.group.Wait()
}

// TakeEvery runs worker for every matching action until ctx is done.
func (r *Runtime) TakeEvery(ctx context.Context, match func(action.Action) bool, worker Worker) error {
	return r.Listen(ctx, match, worker).Wait()
}
