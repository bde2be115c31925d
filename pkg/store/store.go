package store

import (
	"sync"

	"github.com/Sternrassler/addons-frontend/pkg/action"
	"github.com/Sternrassler/addons-frontend/pkg/logging"
	"github.com/rs/zerolog"
)

// Observer is called after every applied action with the resulting state.
type Observer func(action.Action, State)

// Dispatcher is the write side of the store.
type Dispatcher interface {
	Dispatch(action.Action)
}

type notification struct {
	action action.Action
	state  State
}

type subscriber struct {
	id int
	fn Observer
}

// Store serializes state updates. Reducers run one at a time in dispatch
// order; observers see every update in that same order.
type Store struct {
	mu        sync.Mutex
	state     State
	reduce    Reducer
	observers []subscriber
	nextID    int

	// pending notifications, drained by one goroutine at a time
	queue    []notification
	draining bool

	logger zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithReducer replaces the root reducer (for testing).
func WithReducer(r Reducer) Option {
	return func(s *Store) {
		s.reduce = r
	}
}

// New creates a store holding initial.
func New(initial State, opts ...Option) *Store {
	s := &Store{
		state:  initial,
		reduce: Reduce,
		logger: logging.NewLogger(logging.ComponentStore),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetState returns the current snapshot.
func (s *Store) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies a and notifies observers. An observer may dispatch;
// the nested action is applied at once and its notification is delivered
// after the current one.
func (s *Store) Dispatch(a action.Action) {
	s.mu.Lock()
	s.state = s.reduce(s.state, a)
	s.queue = append(s.queue, notification{action: a, state: s.state})

	ev := s.logger.Debug().Str("action", string(a.Type()))
	if id := errorHandlerID(a); id != "" {
		ev = ev.Str("error_handler_id", id)
	}
	ev.Msg("Action dispatched")

	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	s.drain()
}

func (s *Store) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}
		n := s.queue[0]
		s.queue = s.queue[1:]
		observers := s.observers
		s.mu.Unlock()

		for _, o := range observers {
			o.fn(n.action, n.state)
		}
	}
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	// copy so an in-progress drain keeps its own slice
	s.observers = append(s.observers[:len(s.observers):len(s.observers)], subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			next := make([]subscriber, 0, len(s.observers))
			for _, o := range s.observers {
				if o.id != id {
					next = append(next, o)
				}
			}
			s.observers = next
		})
	}
}

func errorHandlerID(a action.Action) string {
	switch a := a.(type) {
	case action.Fetch:
		return a.ErrorHandlerID
	case action.Failed:
		return a.ErrorHandlerID
	case action.ClearError:
		return a.ErrorHandlerID
	}
	return ""
}
