package urlhandler

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ValidateTargetURL checks that rawURL is an absolute http(s) URL with a host.
func ValidateTargetURL(rawURL string) error {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return errors.New("URL is empty or only whitespace")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return fmt.Errorf("could not parse URL '%s': %w", trimmed, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("URL lacks a valid hostname")
	}
	return nil
}
