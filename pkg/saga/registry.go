package saga

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Sternrassler/addons-frontend/pkg/action"
	"github.com/Sternrassler/addons-frontend/pkg/logging"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrDuplicateKind is returned when a kind is registered twice.
	ErrDuplicateKind = errors.New("orchestrator already registered for kind")

	// ErrAlreadyStarted is returned when the registry is started twice.
	ErrAlreadyStarted = errors.New("registry already started")
)

type entry struct {
	kind   action.Kind
	worker Worker
}

// Registry starts one listener per resource kind and supervises them
// until shutdown.
type Registry struct {
	rt *Runtime

	mu      sync.Mutex
	entries []entry
	kinds   map[action.Kind]bool
	started bool
	group   *errgroup.Group

	logger zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(rt *Runtime) *Registry {
	return &Registry{
		rt:     rt,
		kinds:  make(map[action.Kind]bool),
		logger: logging.NewLogger(logging.ComponentRegistry),
	}
}

// Register adds the worker handling triggers of kind.
func (r *Registry) Register(kind action.Kind, worker Worker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return ErrAlreadyStarted
	}
	if r.kinds[kind] {
		return fmt.Errorf("%w: %s", ErrDuplicateKind, kind)
	}

	r.kinds[kind] = true
	r.entries = append(r.entries, entry{kind: kind, worker: worker})
	return nil
}

// RegisterFetcher registers f for its kind.
func RegisterFetcher[P, R any](r *Registry, f Fetcher[P, R]) error {
	return r.Register(f.Kind, f.Worker(r.rt))
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []action.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()

	kinds := make([]action.Kind, 0, len(r.entries))
	for _, e := range r.entries {
		kinds = append(kinds, e.kind)
	}
	return kinds
}

// Start subscribes every listener and returns. Triggers dispatched after
// Start returns are handled. Listeners stop when ctx is cancelled.
func (r *Registry) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return ErrAlreadyStarted
	}
	r.started = true

	g, gctx := errgroup.WithContext(ctx)
	r.group = g

	for _, e := range r.entries {
		l := r.rt.Listen(gctx, action.IsFetchOf(e.kind), e.worker)
		g.Go(l.Wait)
		r.logger.Debug().Str("kind", string(e.kind)).Msg("Orchestrator started")
	}

	r.logger.Info().Int("orchestrators", len(r.entries)).Msg("Registry started")
	return nil
}

// Wait blocks until every listener has stopped and its workers finished.
func (r *Registry) Wait() error {
	r.mu.Lock()
	g := r.group
	r.mu.Unlock()

	if g == nil {
		return nil
	}
	err := g.Wait()
	r.logger.Info().Msg("Registry stopped")
	return err
}

// Run starts the registry and blocks until ctx is cancelled and all
// in-flight invocations have completed.
func (r *Registry) Run(ctx context.Context) error {
	if err := r.Start(ctx); err != nil {
		return err
	}
	return r.Wait()
}
