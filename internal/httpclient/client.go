package httpclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/aleister1102/pagewatch/internal/common"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// errorBodyPreview caps how much of a non-2xx body ends up in an error message.
const errorBodyPreview = 1024

// Response is a fully read HTTP response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// HTTPClient wraps net/http.Client with body limits and typed errors
type HTTPClient struct {
	client *http.Client
	config HTTPClientConfig
	logger zerolog.Logger
}

// NewHTTPClient creates a new HTTP client with the given configuration
func NewHTTPClient(config HTTPClientConfig, logger zerolog.Logger) (*HTTPClient, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		TLSHandshakeTimeout: config.TLSHandshakeTimeout,
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: config.KeepAlive,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify, //nolint:gosec // opt-in via monitor_config.insecure_skip_verify
		},
	}

	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		} else {
			logger.Debug().Msg("HTTP/2 support enabled")
		}
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}

	if !config.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	} else if config.MaxRedirects > 0 {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= config.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", config.MaxRedirects)
			}
			return nil
		}
	}

	logger.Debug().
		Dur("timeout", config.Timeout).
		Bool("insecure_skip_verify", config.InsecureSkipVerify).
		Bool("follow_redirects", config.FollowRedirects).
		Int("max_redirects", config.MaxRedirects).
		Bool("http2_enabled", config.EnableHTTP2).
		Msg("HTTP client created")

	return &HTTPClient{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// Get performs a GET and reads the whole body. Non-2xx responses return
// *common.HTTPError; bodies over maxBytes (when > 0) return ErrContentTooLarge.
func (c *HTTPClient) Get(ctx context.Context, url string, maxBytes int64) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, common.WrapErrorf(err, "creating request for %s", url)
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, common.NewNetworkError(url, "HTTP request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyPreview))
		return nil, common.NewHTTPErrorWithURL(resp.StatusCode, string(preview), url)
	}

	if maxBytes > 0 && resp.ContentLength > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (max: %d bytes)", common.ErrContentTooLarge, resp.ContentLength, maxBytes)
	}

	reader := io.Reader(resp.Body)
	if maxBytes > 0 {
		// one extra byte distinguishes "exactly at the limit" from "over it"
		reader = io.LimitReader(resp.Body, maxBytes+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, common.NewNetworkError(url, "failed to read response body", err)
	}
	if maxBytes > 0 && int64(len(body)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", common.ErrContentTooLarge, maxBytes)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// StandardClient exposes the underlying *http.Client for callers that need raw access
func (c *HTTPClient) StandardClient() *http.Client {
	return c.client
}
