package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAPIKeyNotConfigured is matched by ConfigurationError via errors.Is
var ErrAPIKeyNotConfigured = errors.New("API key not configured")

// UpstreamError is a non-2xx response from a consumed API
type UpstreamError struct {
	Upstream   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Upstream, e.StatusCode, e.Body)
}

// RateLimitedError is an upstream 429
type RateLimitedError struct {
	Upstream string
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s rate limit exceeded, try again later", e.Upstream)
}

// ConfigurationError is returned before any network call when a required
// setting (an API key) is absent
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAPIKeyNotConfigured, e.Setting)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrAPIKeyNotConfigured
}

// Classify converts an upstream 429 into a RateLimitedError; other errors pass through
func Classify(err error) error {
	var upstream *UpstreamError
	if errors.As(err, &upstream) && upstream.StatusCode == http.StatusTooManyRequests {
		return &RateLimitedError{Upstream: upstream.Upstream}
	}
	return err
}

// IsRateLimited reports whether err wraps a RateLimitedError
func IsRateLimited(err error) bool {
	var rl *RateLimitedError
	return errors.As(err, &rl)
}

// IsConfigurationError reports whether err wraps a ConfigurationError
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrAPIKeyNotConfigured)
}
