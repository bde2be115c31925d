package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", config.MaxAttempts)
	}
	if config.InitialBackoff != 500*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 500ms", config.InitialBackoff)
	}
	if config.MaxBackoff != 10*time.Second {
		t.Errorf("MaxBackoff = %v, want 10s", config.MaxBackoff)
	}
	if config.BackoffMultiplier != 2.0 {
		t.Errorf("BackoffMultiplier = %v, want 2.0", config.BackoffMultiplier)
	}
}

func TestRetryConfigForErrorClass(t *testing.T) {
	base := DefaultRetryConfig()

	tests := []struct {
		name            string
		errorClass      ErrorClass
		expectedInitial time.Duration
		expectedMax     time.Duration
	}{
		{"server error config", ErrorClassServer, 500 * time.Millisecond, 10 * time.Second},
		{"rate limit config", ErrorClassRateLimit, 2 * time.Second, 30 * time.Second},
		{"network error config", ErrorClassNetwork, 1 * time.Second, 10 * time.Second},
		{"unknown error class uses base", "", 500 * time.Millisecond, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := RetryConfigForErrorClass(tt.errorClass, base)

			if config.InitialBackoff != tt.expectedInitial {
				t.Errorf("InitialBackoff = %v, want %v", config.InitialBackoff, tt.expectedInitial)
			}
			if config.MaxBackoff != tt.expectedMax {
				t.Errorf("MaxBackoff = %v, want %v", config.MaxBackoff, tt.expectedMax)
			}
			if config.MaxAttempts != base.MaxAttempts {
				t.Errorf("MaxAttempts = %d, want %d", config.MaxAttempts, base.MaxAttempts)
			}
		})
	}
}

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:       attempts,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetryWithBackoff_SuccessFirstAttempt(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), fastRetry(3), zerolog.Nop(), func() (ErrorClass, error) {
		calls++
		return "", nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_RecoversAfterServerError(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), fastRetry(3), zerolog.Nop(), func() (ErrorClass, error) {
		calls++
		if calls < 3 {
			return ErrorClassServer, errors.New("boom")
		}
		return "", nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_NonRetryable(t *testing.T) {
	sentinel := errors.New("bad request")
	calls := 0
	err := retryWithBackoff(context.Background(), fastRetry(3), zerolog.Nop(), func() (ErrorClass, error) {
		calls++
		return ErrorClassClient, sentinel
	})

	assert.Same(t, sentinel, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_Exhausted(t *testing.T) {
	sentinel := errors.New("unavailable")
	calls := 0
	err := retryWithBackoff(context.Background(), fastRetry(2), zerolog.Nop(), func() (ErrorClass, error) {
		calls++
		return ErrorClassServer, sentinel
	})

	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 2, calls)
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastRetry(5)
	cfg.InitialBackoff = time.Hour
	cfg.MaxBackoff = time.Hour

	calls := 0
	err := retryWithBackoff(ctx, cfg, zerolog.Nop(), func() (ErrorClass, error) {
		calls++
		cancel()
		return ErrorClassNetwork, errors.New("dial tcp: refused")
	})

	assert.ErrorIs(t, err, ErrContextCancelled)
	assert.Equal(t, 1, calls)
}
