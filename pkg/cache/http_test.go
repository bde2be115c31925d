package cache

import (
	"bytes"
	"io"
	"net/http"
	"testing"
	"time"
)

func newResponse(status int, headers http.Header, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     headers,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

func TestResponseToEntry(t *testing.T) {
	resp := newResponse(http.StatusOK, http.Header{
		"Cache-Control": []string{"max-age=3600"},
		"Last-Modified": []string{time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat)},
		"Etag":          []string{`"abc123"`},
	}, `{"count": 0, "results": []}`)

	entry, err := ResponseToEntry(resp, DefaultTTL)
	if err != nil {
		t.Fatalf("ResponseToEntry() error = %v", err)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"count": 0, "results": []}` {
		t.Errorf("response body was not restored, got %q", body)
	}
	if entry.ETag != `"abc123"` {
		t.Errorf("ETag = %q", entry.ETag)
	}
	if entry.LastModified.IsZero() {
		t.Error("LastModified was not parsed")
	}
	if ttl := entry.TTL(); ttl < 59*time.Minute || ttl > time.Hour {
		t.Errorf("TTL() = %v, want about 1h from max-age", ttl)
	}
}

func TestResponseToEntry_Nil(t *testing.T) {
	if _, err := ResponseToEntry(nil, DefaultTTL); err == nil {
		t.Error("expected error for nil response")
	}
}

func TestFreshUntil(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		headers http.Header
		want    time.Time
	}{
		{
			name:    "max-age",
			headers: http.Header{"Cache-Control": []string{"public, max-age=60"}},
			want:    now.Add(60 * time.Second),
		},
		{
			name: "max-age wins over expires",
			headers: http.Header{
				"Cache-Control": []string{"max-age=10"},
				"Expires":       []string{now.Add(time.Hour).UTC().Format(http.TimeFormat)},
			},
			want: now.Add(10 * time.Second),
		},
		{
			name:    "no-cache is stale at once",
			headers: http.Header{"Cache-Control": []string{"no-cache"}},
			want:    now,
		},
		{
			name:    "expires in the past",
			headers: http.Header{"Expires": []string{now.Add(-time.Hour).UTC().Format(http.TimeFormat)}},
			want:    now,
		},
		{
			name:    "invalid expires falls back to default",
			headers: http.Header{"Expires": []string{"not a date"}},
			want:    now.Add(DefaultTTL),
		},
		{
			name:    "no headers",
			headers: http.Header{},
			want:    now.Add(DefaultTTL),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := freshUntil(tt.headers, now, DefaultTTL)
			if diff := got.Sub(tt.want); diff < -2*time.Second || diff > 2*time.Second {
				t.Errorf("freshUntil() = %v, want about %v", got, tt.want)
			}
		})
	}
}

func TestIsCacheable(t *testing.T) {
	tests := []struct {
		cc   string
		want bool
	}{
		{"", true},
		{"public, max-age=60", true},
		{"no-store", false},
		{"private, max-age=60", false},
	}

	for _, tt := range tests {
		t.Run(tt.cc, func(t *testing.T) {
			h := http.Header{}
			if tt.cc != "" {
				h.Set("Cache-Control", tt.cc)
			}
			if got := IsCacheable(h); got != tt.want {
				t.Errorf("IsCacheable(%q) = %v, want %v", tt.cc, got, tt.want)
			}
		})
	}
}

func TestAddConditionalHeaders(t *testing.T) {
	modified := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		entry      *Entry
		wantHeader string
		wantValue  string
	}{
		{"etag", &Entry{ETag: `"abc"`}, "If-None-Match", `"abc"`},
		{"last modified", &Entry{LastModified: modified}, "If-Modified-Since", "Sun, 01 Jan 2023 12:00:00 GMT"},
		{"etag preferred", &Entry{ETag: `"abc"`, LastModified: modified}, "If-None-Match", `"abc"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "https://addons.example.com", nil)
			AddConditionalHeaders(req, tt.entry)
			if got := req.Header.Get(tt.wantHeader); got != tt.wantValue {
				t.Errorf("%s = %q, want %q", tt.wantHeader, got, tt.wantValue)
			}
		})
	}

	// nil inputs must not panic
	AddConditionalHeaders(nil, &Entry{ETag: "x"})
	AddConditionalHeaders(&http.Request{Header: http.Header{}}, nil)
}

func TestShouldMakeConditionalRequest(t *testing.T) {
	if ShouldMakeConditionalRequest(nil) {
		t.Error("nil entry should not be conditional")
	}
	if ShouldMakeConditionalRequest(&Entry{Data: []byte("x")}) {
		t.Error("entry without validators should not be conditional")
	}
	if !ShouldMakeConditionalRequest(&Entry{ETag: `"e"`}) {
		t.Error("entry with ETag should be conditional")
	}
}

func TestEntryToResponse(t *testing.T) {
	entry := &Entry{
		Data:       []byte(`{"ok":true}`),
		StatusCode: http.StatusOK,
		Headers:    http.Header{"Content-Type": []string{"application/json"}},
	}

	resp := EntryToResponse(entry)
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %q", body)
	}
	if resp.Header.Get("X-Cache") != "HIT" {
		t.Error("X-Cache header not set")
	}
	if entry.Headers.Get("X-Cache") != "" {
		t.Error("EntryToResponse mutated the entry headers")
	}
}
