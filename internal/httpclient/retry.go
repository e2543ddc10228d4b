package httpclient

import (
	"context"
	"math/rand"
	"time"

	"github.com/aleister1102/pagewatch/internal/common"
	"github.com/rs/zerolog"
)

// maxUncappedDelay keeps uncapped doubling from overflowing time.Duration.
const maxUncappedDelay = time.Duration(1<<62 - 1)

// RetryHandlerConfig configuration for retry handler
type RetryHandlerConfig struct {
	// MaxRetries counts attempts after the first one.
	MaxRetries   int           `json:"max_retries"`
	BaseDelay    time.Duration `json:"base_delay"`
	MaxDelay     time.Duration `json:"max_delay"`
	EnableJitter bool          `json:"enable_jitter"`
}

// RetryHandler runs an operation with exponential backoff between failed attempts
type RetryHandler struct {
	maxRetries   int
	baseDelay    time.Duration
	maxDelay     time.Duration
	enableJitter bool
	logger       zerolog.Logger

	// sleep is swapped in tests to avoid real waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryHandler creates a new retry handler
func NewRetryHandler(config RetryHandlerConfig, logger zerolog.Logger) *RetryHandler {
	maxRetries := config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RetryHandler{
		maxRetries:   maxRetries,
		baseDelay:    config.BaseDelay,
		maxDelay:     config.MaxDelay,
		enableJitter: config.EnableJitter,
		logger:       logger.With().Str("component", "RetryHandler").Logger(),
		sleep:        sleepContext,
	}
}

// MaxAttempts returns the total number of attempts including the first one
func (rh *RetryHandler) MaxAttempts() int {
	return rh.maxRetries + 1
}

// CalculateDelay returns the wait after the given failed attempt (0-based):
// baseDelay * 2^attempt, capped at maxDelay. A maxDelay of zero means no cap.
func (rh *RetryHandler) CalculateDelay(attempt int) time.Duration {
	delay := rh.baseDelay
	for i := 0; i < attempt && (rh.maxDelay <= 0 || delay < rh.maxDelay); i++ {
		if delay > maxUncappedDelay/2 {
			delay = maxUncappedDelay
			break
		}
		delay *= 2
	}
	if rh.maxDelay > 0 && delay > rh.maxDelay {
		delay = rh.maxDelay
	}

	if rh.enableJitter && delay >= 10*time.Millisecond {
		delay += time.Duration(rand.Int63n(int64(delay / 10)))
	}

	return delay
}

// Do runs op until it succeeds, attempts are exhausted, or ctx is done.
// Every failed attempt is logged with its reason. The returned error wraps the last failure.
func (rh *RetryHandler) Do(ctx context.Context, url string, op func(ctx context.Context, attempt int) error) error {
	var lastErr error

	for attempt := 0; attempt <= rh.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			break
		}

		err := op(ctx, attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == rh.maxRetries {
			break
		}

		delay := rh.CalculateDelay(attempt)
		rh.logger.Warn().
			Str("url", url).
			Int("attempt", attempt+1).
			Int("max_attempts", rh.MaxAttempts()).
			Dur("delay", delay).
			Err(err).
			Msg("Attempt failed, retrying")

		if err := rh.sleep(ctx, delay); err != nil {
			break
		}
	}

	return common.WrapErrorf(lastErr, "all %d attempts failed", rh.MaxAttempts())
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
