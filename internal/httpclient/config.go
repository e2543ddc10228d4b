package httpclient

import "time"

// HTTPClientConfig holds transport and client settings
type HTTPClientConfig struct {
	// Timeout bounds a whole request including body read. Zero leaves
	// deadlines to the caller's context.
	Timeout             time.Duration
	InsecureSkipVerify  bool
	FollowRedirects     bool
	MaxRedirects        int
	UserAgent           string
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	TLSHandshakeTimeout time.Duration
	DialTimeout         time.Duration
	KeepAlive           time.Duration
	EnableHTTP2         bool
}

// DefaultHTTPClientConfig returns the default client configuration
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:             0,
		InsecureSkipVerify:  false,
		FollowRedirects:     true,
		MaxRedirects:        10,
		UserAgent:           "pagewatch/1.0",
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialTimeout:         10 * time.Second,
		KeepAlive:           30 * time.Second,
		EnableHTTP2:         true,
	}
}
