package monitor

import (
	"time"

	"github.com/aleister1102/pagewatch/internal/models"
	"github.com/aleister1102/pagewatch/internal/normalizer"
	"github.com/rs/zerolog"
)

// Comparator decides whether fetched content differs from the stored snapshot
// and keeps the snapshot current. It is the only writer of the snapshot store.
type Comparator struct {
	store      models.SnapshotStore
	normalizer *normalizer.ContentNormalizer
	locks      *URLMutexManager
	logger     zerolog.Logger
	now        func() time.Time
}

// NewComparator creates a Comparator backed by store.
func NewComparator(store models.SnapshotStore, logger zerolog.Logger) *Comparator {
	compLogger := logger.With().Str("component", "Comparator").Logger()
	return &Comparator{
		store:      store,
		normalizer: normalizer.NewContentNormalizer(logger),
		locks:      NewURLMutexManager(logger),
		logger:     compLogger,
		now:        time.Now,
	}
}

// CompareAndStore compares body with the stored snapshot for target and updates
// the snapshot. A nil body means the fetch failed: nothing is stored and the
// outcome is Unchanged.
func (c *Comparator) CompareAndStore(target string, body *string) models.ComparisonOutcome {
	outcome, _ := c.CompareAndStoreIf(target, body, nil)
	return outcome
}

// CompareAndStoreIf is CompareAndStore gated by active, evaluated while the
// target is locked. When active reports false the store is left untouched and
// ok is false. A nil active always proceeds.
func (c *Comparator) CompareAndStoreIf(target string, body *string, active func(string) bool) (outcome models.ComparisonOutcome, ok bool) {
	c.locks.Lock(target)
	defer c.locks.Unlock(target)

	if active != nil && !active(target) {
		return models.ComparisonOutcome{Target: target, Status: models.StatusUnchanged, Fetched: body != nil}, false
	}
	return c.compareLocked(target, body), true
}

func (c *Comparator) compareLocked(target string, body *string) models.ComparisonOutcome {
	previous, found, err := c.store.Get(target)
	if err != nil {
		c.logger.Error().Err(err).Str("url", target).Msg("Failed to read snapshot, treating as unchanged")
		return unchangedOutcome(target, body, previous)
	}

	if body == nil {
		c.logger.Warn().Str("url", target).Msg("No content received, keeping last known snapshot")
		return models.ComparisonOutcome{
			Target:   target,
			Status:   models.StatusUnchanged,
			Previous: &previous,
			Current:  previous,
			Fetched:  false,
		}
	}

	current := *body
	if !found {
		if err := c.store.Put(target, current, c.now()); err != nil {
			c.logger.Error().Err(err).Str("url", target).Msg("Failed to store initial snapshot")
			return unchangedOutcome(target, body, "")
		}
		c.logger.Info().Str("url", target).Int("content_length", len(current)).Msg("First check, stored initial content")
		return models.ComparisonOutcome{
			Target:  target,
			Status:  models.StatusInitial,
			Current: current,
			Fetched: true,
		}
	}

	if c.normalizer.Normalize(previous) == c.normalizer.Normalize(current) {
		if err := c.store.Put(target, current, c.now()); err != nil {
			c.logger.Error().Err(err).Str("url", target).Msg("Failed to refresh snapshot")
		}
		c.logger.Debug().Str("url", target).Msg("No change detected")
		return models.ComparisonOutcome{
			Target:   target,
			Status:   models.StatusUnchanged,
			Previous: &current,
			Current:  current,
			Fetched:  true,
		}
	}

	if err := c.store.Put(target, current, c.now()); err != nil {
		c.logger.Error().Err(err).Str("url", target).Msg("Failed to store changed snapshot, treating as unchanged")
		return unchangedOutcome(target, body, previous)
	}

	c.logger.Info().
		Str("url", target).
		Int("previous_length", len(previous)).
		Int("current_length", len(current)).
		Msg("Change detected")
	return models.ComparisonOutcome{
		Target:   target,
		Status:   models.StatusChanged,
		Previous: &previous,
		Current:  current,
		Fetched:  true,
	}
}

func unchangedOutcome(target string, body *string, previous string) models.ComparisonOutcome {
	current := previous
	if body != nil {
		current = *body
	}
	return models.ComparisonOutcome{
		Target:   target,
		Status:   models.StatusUnchanged,
		Previous: &previous,
		Current:  current,
		Fetched:  body != nil,
	}
}

// ClearState forgets the snapshot for target. It always succeeds; store
// failures are logged.
func (c *Comparator) ClearState(target string) {
	c.locks.Lock(target)
	defer c.locks.Unlock(target)

	if err := c.store.Delete(target); err != nil {
		c.logger.Error().Err(err).Str("url", target).Msg("Failed to clear snapshot")
		return
	}
	c.logger.Debug().Str("url", target).Msg("Cleared stored snapshot")
}

// Snapshot returns the last stored raw content for target.
func (c *Comparator) Snapshot(target string) (string, bool) {
	content, found, err := c.store.Get(target)
	if err != nil {
		c.logger.Error().Err(err).Str("url", target).Msg("Failed to read snapshot")
		return "", false
	}
	return content, found
}
