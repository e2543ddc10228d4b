package monitor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aleister1102/pagewatch/internal/common"
	"github.com/aleister1102/pagewatch/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMonitorConfig() config.MonitorConfig {
	cfg := config.NewDefaultMonitorConfig()
	cfg.RetryBaseDelayMs = 1
	cfg.RetryMaxDelayMs = 5
	return cfg
}

func newTestFetcher(t *testing.T, cfg config.MonitorConfig) *Fetcher {
	t.Helper()
	f, err := NewFetcherFromConfig(cfg, zerolog.Nop())
	require.NoError(t, err)
	return f
}

func TestFetcher_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, config.DefaultUserAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	result := newTestFetcher(t, testMonitorConfig()).Fetch(context.Background(), server.URL)

	assert.True(t, result.OK)
	assert.Equal(t, 1, result.Attempts)
	require.NotNil(t, result.Content())
	assert.Equal(t, "<html><body>ok</body></html>", *result.Content())
	assert.NoError(t, result.Err)
}

func TestFetcher_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("recovered"))
	}))
	defer server.Close()

	result := newTestFetcher(t, testMonitorConfig()).Fetch(context.Background(), server.URL)

	assert.True(t, result.OK)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, "recovered", result.Body)
}

func TestFetcher_AllAttemptsFail(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "broken", http.StatusInternalServerError)
	}))
	defer server.Close()

	result := newTestFetcher(t, testMonitorConfig()).Fetch(context.Background(), server.URL)

	assert.False(t, result.OK)
	assert.Nil(t, result.Content())
	assert.Equal(t, 4, result.Attempts, "one attempt plus three retries")
	assert.Equal(t, int32(4), calls.Load())

	var httpErr *common.HTTPError
	require.True(t, errors.As(result.Err, &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
}

func TestFetcher_AttemptTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	cfg := testMonitorConfig()
	cfg.MaxRetries = 1
	f := newTestFetcher(t, cfg)
	f.attemptTimeout = 50 * time.Millisecond

	start := time.Now()
	result := f.Fetch(context.Background(), server.URL)

	assert.False(t, result.OK)
	assert.Equal(t, 2, result.Attempts)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestFetcher_ContentTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 128)))
	}))
	defer server.Close()

	cfg := testMonitorConfig()
	cfg.MaxRetries = 0
	cfg.MaxContentSize = 64

	result := newTestFetcher(t, cfg).Fetch(context.Background(), server.URL)

	assert.False(t, result.OK)
	assert.ErrorIs(t, result.Err, common.ErrContentTooLarge)
}

func TestFetcher_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	cfg := testMonitorConfig()
	cfg.MaxRetries = 1
	result := newTestFetcher(t, cfg).Fetch(context.Background(), url)

	assert.False(t, result.OK)
	var netErr *common.NetworkError
	assert.True(t, errors.As(result.Err, &netErr))
}
