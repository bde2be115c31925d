package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/addons-frontend/pkg/api"
	"github.com/Sternrassler/addons-frontend/pkg/logging"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// options are the global flags shared by every subcommand.
type options struct {
	apiURL      string
	redisURL    string
	userAgent   string
	token       string
	clientApp   string
	lang        string
	logLevel    string
	pretty      bool
	metricsAddr string
	timeout     time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "addons-frontend",
		Short: "Render add-ons pages from the add-ons API",
		Long: `addons-frontend boots the page state store and its fetch orchestrators
against the add-ons API, mounts a page and prints the rendered view.

API responses are cached in Redis and throttling state is shared
through Redis between every process using the same instance.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			cfg := logging.DefaultConfig()
			cfg.Level = level
			cfg.Pretty = opts.pretty
			cfg.Output = cmd.ErrOrStderr()
			logging.Setup(cfg)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", getEnv("AMO_API_URL", api.DefaultBaseURL), "add-ons API host")
	flags.StringVar(&opts.redisURL, "redis-url", getEnv("REDIS_URL", "localhost:6379"), "Redis address")
	flags.StringVar(&opts.userAgent, "user-agent", getEnv("USER_AGENT", "addons-frontend/0.1.0"), "User-Agent sent to the API")
	flags.StringVar(&opts.token, "token", getEnv("AMO_AUTH_TOKEN", ""), "API token for authenticated requests")
	flags.StringVar(&opts.clientApp, "app", getEnv("AMO_CLIENT_APP", "firefox"), "client application (firefox, android)")
	flags.StringVar(&opts.lang, "lang", getEnv("AMO_LANG", "en-US"), "content language")
	flags.StringVar(&opts.logLevel, "log-level", getEnv("LOG_LEVEL", string(logging.LevelWarn)), "log level (debug, info, warn, error, disabled)")
	flags.BoolVar(&opts.pretty, "pretty", false, "human-readable log output")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", getEnv("METRICS_ADDR", ""), "serve /metrics, /health and /ready on this address while running")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "time allowed for a page to load")

	cmd.AddCommand(
		newHomeCmd(opts),
		newCategoriesCmd(opts),
		newSearchCmd(opts),
		newCollectionCmd(opts),
	)

	return cmd
}

// deps are the long-lived dependencies of a command.
type deps struct {
	redis  *redis.Client
	client *api.Client
	ops    *opsServer
	logger zerolog.Logger
}

func connect(ctx context.Context, opts *options) (*deps, error) {
	logger := logging.NewLogger(logging.ComponentCLI)

	redisClient := redis.NewClient(&redis.Options{
		Addr: opts.redisURL,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		redisClient.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.redisURL, err)
	}
	logger.Info().Str("redis", opts.redisURL).Msg("Connected to Redis")

	cfg := api.DefaultConfig(redisClient, opts.userAgent)
	cfg.BaseURL = opts.apiURL
	client, err := api.New(cfg)
	if err != nil {
		redisClient.Close()
		return nil, fmt.Errorf("create api client: %w", err)
	}

	d := &deps{redis: redisClient, client: client, logger: logger}
	if opts.metricsAddr != "" {
		d.ops = startOpsServer(opts.metricsAddr, redisClient, logger)
	}
	return d, nil
}

func (d *deps) Close() {
	if d.ops != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.ops.Shutdown(ctx); err != nil {
			d.logger.Warn().Err(err).Msg("Metrics server shutdown failed")
		}
		cancel()
	}
	d.client.Close()
	d.redis.Close()
}
