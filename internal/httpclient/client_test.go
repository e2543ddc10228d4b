package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aleister1102/pagewatch/internal/common"
	"github.com/aleister1102/pagewatch/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientBuilder_Defaults(t *testing.T) {
	builder := NewHTTPClientBuilder(zerolog.Nop())

	assert.Equal(t, DefaultHTTPClientConfig(), builder.config)
}

func TestHTTPClientBuilder_ForMonitor(t *testing.T) {
	cfg := config.NewDefaultMonitorConfig()
	cfg.UserAgent = "test-agent"
	cfg.InsecureSkipVerify = true

	client, err := NewHTTPClientBuilder(zerolog.Nop()).ForMonitor(cfg).Build()
	require.NoError(t, err)

	assert.True(t, client.config.InsecureSkipVerify)
	assert.Equal(t, "test-agent", client.config.UserAgent)
	assert.True(t, client.config.EnableHTTP2)
	assert.Zero(t, client.StandardClient().Timeout, "deadlines come from the per-attempt context")
}

func TestHTTPClientBuilder_ForMonitorDefaultsUserAgent(t *testing.T) {
	cfg := config.NewDefaultMonitorConfig()
	cfg.UserAgent = ""

	client, err := NewHTTPClientBuilder(zerolog.Nop()).ForMonitor(cfg).Build()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultUserAgent, client.config.UserAgent)
}

func TestHTTPClient_GetSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "watch-agent", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("<html><body>hi</body></html>"))
	}))
	defer server.Close()

	cfg := config.NewDefaultMonitorConfig()
	cfg.UserAgent = "watch-agent"
	client, err := NewHTTPClientBuilder(zerolog.Nop()).ForMonitor(cfg).Build()
	require.NoError(t, err)

	resp, err := client.Get(context.Background(), server.URL, 0)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<html><body>hi</body></html>", string(resp.Body))
}

func TestHTTPClient_GetNon2xxReturnsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)

	_, err = client.Get(context.Background(), server.URL, 0)
	require.Error(t, err)

	var httpErr *common.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, server.URL, httpErr.URL)
}

func TestHTTPClient_GetBodyTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)

	_, err = client.Get(context.Background(), server.URL, 16)
	assert.ErrorIs(t, err, common.ErrContentTooLarge)

	resp, err := client.Get(context.Background(), server.URL, 64)
	require.NoError(t, err)
	assert.Len(t, resp.Body, 64)
}

func TestHTTPClient_GetNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)

	_, err = client.Get(context.Background(), url, 0)
	var netErr *common.NetworkError
	assert.True(t, errors.As(err, &netErr))
}

func TestHTTPClient_NoFollowRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/next", http.StatusFound)
			return
		}
		_, _ = w.Write([]byte("next"))
	}))
	defer server.Close()

	cfg := DefaultHTTPClientConfig()
	cfg.FollowRedirects = false
	client, err := NewHTTPClient(cfg, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.Get(context.Background(), server.URL, 0)
	var httpErr *common.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusFound, httpErr.StatusCode)
}
