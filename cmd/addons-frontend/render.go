package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Sternrassler/addons-frontend/pkg/action"
	"github.com/Sternrassler/addons-frontend/pkg/page"
	"github.com/Sternrassler/addons-frontend/pkg/saga"
	"github.com/Sternrassler/addons-frontend/pkg/store"
)

// pageFactory creates the page instance to mount.
type pageFactory func(dispatch page.Dispatch) page.Page

// connection is the API context a page is rendered for.
type connection struct {
	clientApp string
	lang      string
	userAgent string
	token     string
}

func (o *options) connection() connection {
	return connection{
		clientApp: o.clientApp,
		lang:      o.lang,
		userAgent: o.userAgent,
		token:     o.token,
	}
}

// renderPage boots a store and the orchestrators against gw, mounts the
// page and returns its view once every fetch it triggered has settled.
func renderPage(ctx context.Context, gw saga.Gateway, conn connection, newPage pageFactory) (page.View, error) {
	initial := store.InitialState(conn.clientApp, conn.lang)
	initial.API.UserAgent = conn.userAgent
	st := store.New(initial)

	reg, err := saga.Root(saga.NewRuntime(st), gw)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := reg.Start(runCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("start registry: %w", err)
	}
	defer func() {
		cancel()
		_ = reg.Wait()
	}()

	if conn.token != "" {
		st.Dispatch(action.SetAuthToken{Token: conn.token})
	}

	p := newPage(st.Dispatch)
	p.Mount(st.GetState())

	final, err := waitSettled(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("wait for page: %w", err)
	}
	return p.View(final), nil
}

// busy reports whether a fetch is still in flight.
func busy(st store.State) bool {
	return st.IsLoading() || st.Categories.Loading || st.Search.Loading || st.Home.Loading
}

// waitSettled blocks until no fetch is in flight or ctx is done.
func waitSettled(ctx context.Context, st *store.Store) (store.State, error) {
	changed := make(chan struct{}, 1)
	unsubscribe := st.Subscribe(func(action.Action, store.State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	for {
		s := st.GetState()
		if !busy(s) {
			return s, nil
		}
		select {
		case <-ctx.Done():
			return s, ctx.Err()
		case <-changed:
		}
	}
}

func printView(w io.Writer, v page.View) error {
	for _, line := range v.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
