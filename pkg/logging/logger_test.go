package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelInfo {
		t.Errorf("Expected default level info, got %s", cfg.Level)
	}
	if cfg.Pretty {
		t.Error("Expected JSON output by default")
	}
	if cfg.Output != os.Stderr {
		t.Error("Expected stderr as default output")
	}
}

// emitLifecycle writes one line per level the way the components do.
func emitLifecycle(logger zerolog.Logger) {
	logger.Debug().Str("action", "FETCH").Msg("Dispatching")
	logger.Info().Int("orchestrators", 3).Msg("Registry started")
	logger.Warn().Str("kind", "search").Msg("Fetch failed")
	logger.Error().Str("route", "search").Msg("HTTP request failed")
}

func TestSetup_LevelGate(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  []string
		skip  []string
	}{
		{
			level: LevelDebug,
			want:  []string{"Dispatching", "Registry started", "Fetch failed", "HTTP request failed"},
		},
		{
			level: LevelInfo,
			want:  []string{"Registry started", "Fetch failed", "HTTP request failed"},
			skip:  []string{"Dispatching"},
		},
		{
			level: LevelWarn,
			want:  []string{"Fetch failed", "HTTP request failed"},
			skip:  []string{"Dispatching", "Registry started"},
		},
		{
			level: LevelError,
			want:  []string{"HTTP request failed"},
			skip:  []string{"Dispatching", "Registry started", "Fetch failed"},
		},
		{
			level: LevelDisabled,
			skip:  []string{"Dispatching", "Registry started", "Fetch failed", "HTTP request failed"},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			buf := &bytes.Buffer{}
			emitLifecycle(Setup(Config{Level: tt.level, Output: buf}))

			output := buf.String()
			for _, msg := range tt.want {
				if !strings.Contains(output, msg) {
					t.Errorf("Expected %q at level %s, got %q", msg, tt.level, output)
				}
			}
			for _, msg := range tt.skip {
				if strings.Contains(output, msg) {
					t.Errorf("Did not expect %q at level %s", msg, tt.level)
				}
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    LogLevel
		expected zerolog.Level
	}{
		{LevelDebug, zerolog.DebugLevel},
		{LevelInfo, zerolog.InfoLevel},
		{LevelWarn, zerolog.WarnLevel},
		{LevelError, zerolog.ErrorLevel},
		{LevelDisabled, zerolog.Disabled},
		{"WARNING", zerolog.WarnLevel},
		{"chatty", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseLevelName(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"", LevelInfo, false},
		{" Info ", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"off", LevelDisabled, false},
		{"verbose", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSetup_PrettyOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := Setup(Config{Level: LevelInfo, Pretty: true, Output: buf})

	logger.Info().Str("kind", "categories").Msg("Fetch succeeded")

	output := buf.String()
	if strings.HasPrefix(output, "{") {
		t.Errorf("Expected console output, got JSON %q", output)
	}
	if !strings.Contains(output, "Fetch succeeded") || !strings.Contains(output, "categories") {
		t.Errorf("Expected output to contain message and field, got %q", output)
	}
}

func TestNewLogger_ComponentField(t *testing.T) {
	components := []string{
		ComponentStore,
		ComponentSaga,
		ComponentRegistry,
		ComponentErrorHandler,
		ComponentAPIClient,
		ComponentCache,
		ComponentRateLimit,
		ComponentPage,
		ComponentPagination,
		ComponentCLI,
	}

	for _, component := range components {
		t.Run(component, func(t *testing.T) {
			buf := &bytes.Buffer{}
			Setup(Config{Level: LevelDebug, Output: buf})

			logger := NewLogger(component)
			logger.Debug().
				Str("kind", "home").
				Str("error_handler_id", "Home-1").
				Msg("Fetch started")

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("Expected one JSON line, got %q: %v", buf.String(), err)
			}
			if entry["component"] != component {
				t.Errorf("component = %v, want %s", entry["component"], component)
			}
			if entry["error_handler_id"] != "Home-1" || entry["kind"] != "home" {
				t.Errorf("Expected context fields, got %v", entry)
			}
			if entry["level"] != "debug" || entry["message"] != "Fetch started" {
				t.Errorf("Unexpected entry %v", entry)
			}
		})
	}
}
