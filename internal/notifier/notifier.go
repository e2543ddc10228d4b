package notifier

import (
	"context"
	"errors"
	"time"
)

// Sink receives change and error events from the monitoring loop.
// previous and current are raw page bodies.
type Sink interface {
	OnChange(ctx context.Context, target string, detectedAt time.Time, previous, current string) error
	OnError(ctx context.Context, target string, occurredAt time.Time, message string) error
}

// MultiSink fans events out to several sinks. Every sink is called even if
// an earlier one fails; the errors are joined.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a fan-out sink. Nil entries are skipped.
func NewMultiSink(sinks ...Sink) *MultiSink {
	filtered := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	return &MultiSink{sinks: filtered}
}

func (m *MultiSink) OnChange(ctx context.Context, target string, detectedAt time.Time, previous, current string) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.OnChange(ctx, target, detectedAt, previous, current); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) OnError(ctx context.Context, target string, occurredAt time.Time, message string) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.OnError(ctx, target, occurredAt, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of wrapped sinks.
func (m *MultiSink) Len() int {
	return len(m.sinks)
}
