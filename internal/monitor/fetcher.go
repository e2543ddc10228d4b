package monitor

import (
	"context"
	"time"

	"github.com/aleister1102/pagewatch/internal/config"
	"github.com/aleister1102/pagewatch/internal/httpclient"
	"github.com/rs/zerolog"
)

// ContentFetcher retrieves the raw body of a target.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) FetchResult
}

// FetchResult is the terminal result of fetching a URL, after retries.
type FetchResult struct {
	URL      string
	Body     string
	OK       bool
	Attempts int
	Duration time.Duration
	Err      error // last attempt's error when OK is false
}

// Content returns the body, or nil when the fetch failed.
func (r FetchResult) Content() *string {
	if !r.OK {
		return nil
	}
	body := r.Body
	return &body
}

// Fetcher fetches page content with a per-attempt timeout and bounded retries.
type Fetcher struct {
	client         *httpclient.HTTPClient
	retryHandler   *httpclient.RetryHandler
	attemptTimeout time.Duration
	maxContentSize int64
	logger         zerolog.Logger
}

// NewFetcher creates a new Fetcher.
func NewFetcher(client *httpclient.HTTPClient, cfg config.MonitorConfig, logger zerolog.Logger) *Fetcher {
	fetcherLogger := logger.With().Str("component", "Fetcher").Logger()
	return &Fetcher{
		client: client,
		retryHandler: httpclient.NewRetryHandler(httpclient.RetryHandlerConfig{
			MaxRetries:   cfg.MaxRetries,
			BaseDelay:    cfg.RetryBaseDelay(),
			MaxDelay:     cfg.RetryMaxDelay(),
			EnableJitter: cfg.EnableJitter,
		}, fetcherLogger),
		attemptTimeout: cfg.FetchTimeout(),
		maxContentSize: int64(cfg.MaxContentSize),
		logger:         fetcherLogger,
	}
}

// NewFetcherFromConfig builds the shared HTTP client and a Fetcher on top of it.
func NewFetcherFromConfig(cfg config.MonitorConfig, logger zerolog.Logger) (*Fetcher, error) {
	client, err := httpclient.NewHTTPClientBuilder(logger).ForMonitor(cfg).Build()
	if err != nil {
		return nil, err
	}
	return NewFetcher(client, cfg, logger), nil
}

// Fetch GETs url. Transport errors, timeouts, non-2xx responses and oversized
// bodies are retried; once attempts run out the result has OK false.
func (f *Fetcher) Fetch(ctx context.Context, url string) FetchResult {
	start := time.Now()
	result := FetchResult{URL: url}

	f.logger.Debug().Str("url", url).Msg("Fetching content")

	err := f.retryHandler.Do(ctx, url, func(ctx context.Context, attempt int) error {
		result.Attempts = attempt + 1

		attemptCtx, cancel := context.WithTimeout(ctx, f.attemptTimeout)
		defer cancel()

		resp, err := f.client.Get(attemptCtx, url, f.maxContentSize)
		if err != nil {
			return err
		}
		result.Body = string(resp.Body)
		return nil
	})
	result.Duration = time.Since(start)

	if err != nil {
		result.Err = err
		f.logger.Error().
			Err(err).
			Str("url", url).
			Int("attempts", result.Attempts).
			Dur("duration", result.Duration).
			Msg("Error fetching URL, treating content as absent")
		return result
	}

	result.OK = true
	f.logger.Debug().
		Str("url", url).
		Int("size", len(result.Body)).
		Int("attempts", result.Attempts).
		Dur("duration", result.Duration).
		Msg("Content fetched successfully")
	return result
}
