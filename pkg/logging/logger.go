// Package logging configures the zerolog logger shared by every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs dispatched actions and cache decisions.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs startup, shutdown and registry lifecycle.
	LevelInfo LogLevel = "info"

	// LevelWarn logs failed fetches, retries and throttling.
	LevelWarn LogLevel = "warn"

	// LevelError logs errors only.
	LevelError LogLevel = "error"

	// LevelDisabled turns logging off.
	LevelDisabled LogLevel = "disabled"
)

// Component names used in the "component" field.
const (
	ComponentStore        = "store"
	ComponentSaga         = "saga"
	ComponentRegistry     = "registry"
	ComponentErrorHandler = "error-handler"
	ComponentAPIClient    = "api-client"
	ComponentCache        = "cache"
	ComponentRateLimit    = "ratelimit"
	ComponentPage         = "page"
	ComponentPagination   = "pagination"
	ComponentCLI          = "cli"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.Kitchen}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()
	log.Logger = logger

	return logger
}

// ParseLevel validates a level name from flags or the environment.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "disabled", "off":
		return LevelDisabled, nil
	default:
		return "", fmt.Errorf("unknown log level %q", s)
	}
}

// parseLevel converts LogLevel to zerolog.Level, defaulting to info.
func parseLevel(level LogLevel) zerolog.Level {
	parsed, err := ParseLevel(string(level))
	if err != nil {
		return zerolog.InfoLevel
	}
	switch parsed {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	case LevelDisabled:
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: detail needed to follow one request
//   - Every dispatched action (action, error_handler_id)
//   - Cache hit/miss/revalidation (endpoint, ttl)
//   - Generated error handler identities
//   - Successful fetches (kind, duration)
//
// Info: lifecycle
//   - Registry start/stop, number of orchestrators
//   - CLI startup, metrics listener address
//   - Requests that succeeded after a retry
//
// Warn: the operation failed or degraded, the application continues
//   - Failed fetches routed to an error handler (kind, error_handler_id)
//   - API errors by class, retries, throttling (error_class, status)
//   - Redis errors; cache and throttle checks are skipped
//
// Error: the operation cannot continue
//   - Network failures after all retries
//   - Configuration errors at startup
//
// Context Fields:
//   - component: one of the Component* constants
//   - kind: resource kind (categories, search, home)
//   - error_handler_id: error handler identity
//   - action: action type
//   - route / endpoint: API resource
//   - status: HTTP status code
//   - error_class: client, server, rate_limit, network, decode
//   - duration: fetch or request duration
