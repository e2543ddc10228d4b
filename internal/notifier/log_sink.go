package notifier

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LogSink writes events to the application log.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a sink that logs through logger.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{
		logger: logger.With().Str("component", "LogSink").Logger(),
	}
}

func (s *LogSink) OnChange(_ context.Context, target string, detectedAt time.Time, previous, current string) error {
	s.logger.Warn().
		Str("url", target).
		Time("detected_at", detectedAt).
		Int("previous_length", len(previous)).
		Int("current_length", len(current)).
		Int("length_delta", len(current)-len(previous)).
		Msg("CHANGE DETECTED")
	return nil
}

func (s *LogSink) OnError(_ context.Context, target string, occurredAt time.Time, message string) error {
	s.logger.Error().
		Str("url", target).
		Time("occurred_at", occurredAt).
		Str("error", message).
		Msg("MONITORING ERROR")
	return nil
}
