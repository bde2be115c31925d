package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Sternrassler/addons-frontend/internal/testutil"
	"github.com/Sternrassler/addons-frontend/pkg/api"
	"github.com/Sternrassler/addons-frontend/pkg/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCategories = `[
	{"id": 1, "application": "firefox", "name": "Alerts & Updates", "slug": "alerts-updates", "type": "extension"},
	{"id": 2, "application": "android", "name": "Games", "slug": "games", "type": "extension"},
	{"id": 3, "application": "firefox", "name": "Nature", "slug": "nature", "type": "persona"}
]`

const testSearch = `{"count": 1, "results": [
	{"id": 7, "name": "Tab Manager", "slug": "tab-manager", "type": "extension", "average_daily_users": 1200}
]}`

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func newTestClient(t *testing.T, mock *testutil.MockAMO) (*api.Client, *redis.Client) {
	t.Helper()

	redisClient, _ := setupTestRedis(t)
	cfg := api.DefaultConfig(redisClient, "addons-frontend-test/1.0")
	cfg.BaseURL = mock.URL()
	cfg.InitialBackoff = time.Millisecond

	client, err := api.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, redisClient
}

func testOptions() *options {
	return &options{
		userAgent: "addons-frontend-test/1.0",
		clientApp: "firefox",
		lang:      "en-US",
		timeout:   5 * time.Second,
	}
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	healthHandler(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	if string(body) != "OK" {
		t.Errorf("Expected body 'OK', got %s", string(body))
	}
}

func TestReadyEndpoint(t *testing.T) {
	redisClient, mr := setupTestRedis(t)
	handler := readyHandler(redisClient)

	t.Run("ready", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest("GET", "/ready", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "OK", w.Body.String())
	})

	t.Run("not_ready_redis_down", func(t *testing.T) {
		mr.Close()

		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest("GET", "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ADDONS_FRONTEND_TEST_VALUE", "set")

	assert.Equal(t, "set", getEnv("ADDONS_FRONTEND_TEST_VALUE", "default"))
	assert.Equal(t, "default", getEnv("ADDONS_FRONTEND_TEST_UNSET", "default"))
}

func TestRenderPage_Categories(t *testing.T) {
	mock := testutil.NewMockAMO()
	defer mock.Close()
	mock.SetResponse("/api/v4/addons/categories/", testutil.NewJSONResponse(testCategories))

	client, _ := newTestClient(t, mock)

	view, err := renderPage(context.Background(), client, testOptions().connection(), categoriesPage("extensions"))
	require.NoError(t, err)

	assert.Equal(t, []string{"  - Alerts & Updates /firefox/extensions/alerts-updates/"}, view.Lines())
	assert.Equal(t, "firefox", mock.LastQuery()["app"][0])
	assert.Equal(t, "en-US", mock.LastQuery()["lang"][0])
}

func TestRenderPage_FailedFetchRendersError(t *testing.T) {
	mock := testutil.NewMockAMO()
	defer mock.Close()

	client, _ := newTestClient(t, mock)

	view, err := renderPage(context.Background(), client, testOptions().connection(), categoriesPage("themes"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Failed to load categories."}, view.Lines())
}

func TestRenderPage_TokenIsSent(t *testing.T) {
	mock := testutil.NewMockAMO()
	defer mock.Close()
	mock.SetResponse("/api/v4/addons/search/", testutil.NewJSONResponse(testSearch))

	client, _ := newTestClient(t, mock)
	conn := testOptions().connection()
	conn.token = "secret"

	_, err := renderPage(context.Background(), client, conn, searchPage(api.SearchFilters{Query: "tabs", Page: 1}))
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", mock.LastRequestHeader().Get("Authorization"))
}

func TestRenderPage_ContextCancelled(t *testing.T) {
	mock := testutil.NewMockAMO()
	defer mock.Close()

	release := make(chan struct{})
	defer close(release)
	mock.SetHandler("/api/v4/addons/categories/", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})

	client, _ := newTestClient(t, mock)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := renderPage(ctx, client, testOptions().connection(), categoriesPage("extensions"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitSettled_ReturnsImmediatelyWhenIdle(t *testing.T) {
	st := store.New(store.InitialState("firefox", "en-US"))

	got, err := waitSettled(context.Background(), st)
	require.NoError(t, err)
	assert.False(t, busy(got))
}

func TestOpsMux(t *testing.T) {
	redisClient, _ := setupTestRedis(t)
	srv := httptest.NewServer(newOpsMux(redisClient))
	defer srv.Close()

	// make sure at least one fetch metric has a sample
	mock := testutil.NewMockAMO()
	defer mock.Close()
	mock.SetResponse("/api/v4/addons/search/", testutil.NewJSONResponse(testSearch))
	client, _ := newTestClient(t, mock)
	_, err := renderPage(context.Background(), client, testOptions().connection(), searchPage(api.SearchFilters{Query: "tabs", Page: 1}))
	require.NoError(t, err)

	get := func(t *testing.T, path string) (int, string) {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	t.Run("health", func(t *testing.T) {
		status, body := get(t, "/health")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "OK", body)
	})

	t.Run("ready", func(t *testing.T) {
		status, _ := get(t, "/ready")
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("metrics", func(t *testing.T) {
		status, body := get(t, "/metrics")
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, `amo_fetch_total{kind="search",outcome="success"}`)
	})

	t.Run("unknown path", func(t *testing.T) {
		status, _ := get(t, "/api/v4/addons/search/")
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestOpsServer_Shutdown(t *testing.T) {
	redisClient, _ := setupTestRedis(t)

	s := startOpsServer("127.0.0.1:0", redisClient, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, s.Shutdown(ctx))
}

func TestRenderPage_Search(t *testing.T) {
	mock := testutil.NewMockAMO()
	defer mock.Close()
	mock.SetResponse("/api/v4/addons/search/", testutil.NewJSONResponse(testSearch))

	client, _ := newTestClient(t, mock)

	view, err := renderPage(context.Background(), client, testOptions().connection(), searchPage(api.SearchFilters{Query: "tabs", Page: 1}))
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"Sort: relevance",
		`1 results for "tabs"`,
		"  - Tab Manager (1200 users)",
		"Page 1",
	}, "\n"), strings.Join(view.Lines(), "\n"))
	assert.Equal(t, "tabs", mock.LastQuery()["q"][0])
}

func TestRootCmd_Categories(t *testing.T) {
	mock := testutil.NewMockAMO()
	defer mock.Close()
	mock.SetResponse("/api/v4/addons/categories/", testutil.NewJSONResponse(testCategories))

	_, mr := setupTestRedis(t)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{
		"categories", "extensions",
		"--api-url", mock.URL(),
		"--redis-url", mr.Addr(),
		"--log-level", "disabled",
	})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "  - Alerts & Updates /firefox/extensions/alerts-updates/\n", out.String())
}

func TestRootCmd_RejectsUnknownLogLevel(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"home", "--log-level", "loud"})

	assert.Error(t, cmd.Execute())
}

func TestRootCmd_RedisUnavailable(t *testing.T) {
	_, mr := setupTestRedis(t)
	addr := mr.Addr()
	mr.Close()

	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"home", "--redis-url", addr, "--log-level", "disabled", "--timeout", "2s"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to redis")
}

func TestRootCmd_Collection(t *testing.T) {
	mock := testutil.NewMockAMO()
	defer mock.Close()
	mock.SetResponse("/api/v4/accounts/account/mozilla/collections/privacy-matters/addons/", testutil.NewJSONResponse(
		`{"count": 2, "results": [{"addon": {"id": 1, "name": "uBlock Origin"}}, {"addon": {"id": 2, "name": "Privacy Badger"}}]}`))

	_, mr := setupTestRedis(t)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{
		"collection", "mozilla", "privacy-matters",
		"--api-url", mock.URL(),
		"--redis-url", mr.Addr(),
		"--log-level", "disabled",
	})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "2 add-ons in mozilla/privacy-matters\n  - uBlock Origin\n  - Privacy Badger\n", out.String())
}
