package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Sternrassler/addons-frontend/pkg/metrics"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// opsServer serves metrics and probes while a command runs.
type opsServer struct {
	srv    *http.Server
	done   chan error
	logger zerolog.Logger
}

func newOpsMux(redisClient *redis.Client) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.HandleFunc("GET /ready", readyHandler(redisClient))
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}

func startOpsServer(addr string, redisClient *redis.Client, logger zerolog.Logger) *opsServer {
	s := &opsServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           newOpsMux(redisClient),
			ReadHeaderTimeout: 10 * time.Second,
		},
		done:   make(chan error, 1),
		logger: logger,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Starting metrics server")
		err := s.srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			logger.Error().Err(err).Msg("Metrics server failed")
		}
		s.done <- err
	}()

	return s
}

// Shutdown stops the server and waits for it to exit.
func (s *opsServer) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return err
	}
	return <-s.done
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func readyHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	}
}
