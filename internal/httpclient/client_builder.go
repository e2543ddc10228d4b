package httpclient

import (
	"github.com/aleister1102/pagewatch/internal/config"
	"github.com/rs/zerolog"
)

// HTTPClientBuilder assembles an HTTPClient for page fetching.
type HTTPClientBuilder struct {
	config HTTPClientConfig
	logger zerolog.Logger
}

// NewHTTPClientBuilder starts from DefaultHTTPClientConfig.
func NewHTTPClientBuilder(logger zerolog.Logger) *HTTPClientBuilder {
	return &HTTPClientBuilder{
		config: DefaultHTTPClientConfig(),
		logger: logger,
	}
}

// ForMonitor applies the fetch-related settings of a monitor configuration.
// Deadlines stay with the caller's per-attempt context.
func (b *HTTPClientBuilder) ForMonitor(cfg config.MonitorConfig) *HTTPClientBuilder {
	if cfg.UserAgent != "" {
		b.config.UserAgent = cfg.UserAgent
	} else {
		b.config.UserAgent = config.DefaultUserAgent
	}
	b.config.InsecureSkipVerify = cfg.InsecureSkipVerify
	return b
}

// Build creates the HTTPClient.
func (b *HTTPClientBuilder) Build() (*HTTPClient, error) {
	return NewHTTPClient(b.config, b.logger.With().Str("component", "HTTPClient").Logger())
}
