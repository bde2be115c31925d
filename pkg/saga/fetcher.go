package saga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/addons-frontend/pkg/action"
	"github.com/Sternrassler/addons-frontend/pkg/api"
)

var (
	// ErrEmptyResponse is reported when the gateway returns no result and
	// no error. Such a call counts as failed.
	ErrEmptyResponse = errors.New("response is undefined")

	// ErrGatewayPanic is reported when the gateway call panics.
	ErrGatewayPanic = errors.New("api gateway panicked")
)

// CodeInvalidParams is the error code of a trigger whose params do not
// match its kind.
const CodeInvalidParams = "INVALID_PARAMS"

// ParamsError is a trigger carrying params of the wrong type.
type ParamsError struct {
	Kind action.Kind
	Got  any
}

func (e *ParamsError) Error() string {
	return fmt.Sprintf("invalid params for %s: %T", e.Kind, e.Got)
}

// ErrorCode returns CodeInvalidParams.
func (e *ParamsError) ErrorCode() string { return CodeInvalidParams }

// ErrorMessages returns the error text.
func (e *ParamsError) ErrorMessages() []string { return []string{e.Error()} }

// Fetcher is the orchestrator of one resource kind. Call performs the
// gateway request; Load turns its result into the success message.
type Fetcher[P, R any] struct {
	Kind action.Kind
	Call func(ctx context.Context, st api.State, params P) (*R, error)
	Load func(params P, result R) action.Loaded
}

// Handle runs one invocation for trigger: loading on, gateway call,
// exactly one Loaded or Failed, loading off. It never returns an error;
// every failure is reported to the trigger's error handler identity.
func (f Fetcher[P, R]) Handle(ctx context.Context, rt *Runtime, trigger action.Action) error {
	fetch, _ := trigger.(action.Fetch)
	kind := string(f.Kind)
	logger := rt.logger.With().
		Str("kind", kind).
		Str("error_handler_id", fetch.ErrorHandlerID).
		Logger()

	start := time.Now()
	fetchInFlight.WithLabelValues(kind).Inc()
	rt.Dispatch(action.ShowLoading{})
	defer func() {
		rt.Dispatch(action.HideLoading{})
		fetchInFlight.WithLabelValues(kind).Dec()
		fetchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}()

	loaded, err := f.call(ctx, rt.Select(), fetch)
	if err != nil {
		fetchTotal.WithLabelValues(kind, outcomeFailure).Inc()
		logger.Warn().Err(err).Dur("duration", time.Since(start)).Msg("Fetch failed")
		rt.Dispatch(action.FetchFailed(f.Kind, fetch.ErrorHandlerID, err))
		return nil
	}

	fetchTotal.WithLabelValues(kind, outcomeSuccess).Inc()
	logger.Debug().Dur("duration", time.Since(start)).Msg("Fetch succeeded")
	rt.Dispatch(loaded)
	return nil
}

func (f Fetcher[P, R]) call(ctx context.Context, st api.State, fetch action.Fetch) (loaded action.Loaded, err error) {
	params, ok := fetch.Params.(P)
	if !ok {
		return loaded, &ParamsError{Kind: f.Kind, Got: fetch.Params}
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrGatewayPanic, r)
		}
	}()

	result, err := f.Call(ctx, st, params)
	if err != nil {
		return loaded, err
	}
	if result == nil {
		return loaded, ErrEmptyResponse
	}

	return f.Load(params, *result), nil
}

// Worker adapts the fetcher to a listener worker bound to rt.
func (f Fetcher[P, R]) Worker(rt *Runtime) Worker {
	return func(ctx context.Context, a action.Action) error {
		return f.Handle(ctx, rt, a)
	}
}
