package ratelimit

import (
	"net/http"
	"testing"
	"time"
)

func TestState_IsBlocked(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		state State
		want  bool
	}{
		{"zero state", State{}, false},
		{"window in the future", State{BlockedUntil: now.Add(time.Minute)}, true},
		{"window passed", State{BlockedUntil: now.Add(-time.Second)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsBlocked(now); got != tt.want {
				t.Errorf("IsBlocked() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestState_TimeUntilReset(t *testing.T) {
	s := State{BlockedUntil: time.Now().Add(-time.Minute)}
	if got := s.TimeUntilReset(); got != 0 {
		t.Errorf("TimeUntilReset() = %v, want 0", got)
	}

	s = State{BlockedUntil: time.Now().Add(time.Minute)}
	if got := s.TimeUntilReset(); got < 59*time.Second || got > time.Minute {
		t.Errorf("TimeUntilReset() = %v, want about 1m", got)
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"empty", "", DefaultRetryAfter},
		{"seconds", "120", 2 * time.Minute},
		{"http date", now.Add(90 * time.Second).Format(http.TimeFormat), 90 * time.Second},
		{"garbage", "soon", DefaultRetryAfter},
		{"zero", "0", time.Second},
		{"date in the past", now.Add(-time.Hour).Format(http.TimeFormat), time.Second},
		{"clamped", "86400", MaxRetryAfter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseRetryAfter(tt.value, now); got != tt.want {
				t.Errorf("ParseRetryAfter(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
