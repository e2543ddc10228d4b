package monitor

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/aleister1102/pagewatch/internal/common"
	"github.com/aleister1102/pagewatch/internal/config"
	"github.com/aleister1102/pagewatch/internal/models"
	"github.com/aleister1102/pagewatch/internal/notifier"
	"github.com/rs/zerolog"
)

// MonitoringService owns the monitoring loop: the target registry, the
// scheduler, fetching, comparison and delivery of outcomes to the sink.
type MonitoringService struct {
	cfg             config.MonitorConfig
	notificationCfg config.NotificationConfig
	logger          zerolog.Logger

	registry     *TargetRegistry
	fetcher      ContentFetcher
	comparator   *Comparator
	sink         notifier.Sink
	scheduler    *Scheduler
	cycleTracker *CycleTracker
	now          func() time.Time
}

// NewMonitoringService creates a new instance of MonitoringService.
func NewMonitoringService(
	monitorCfg config.MonitorConfig,
	notificationCfg config.NotificationConfig,
	fetcher ContentFetcher,
	store models.SnapshotStore,
	sink notifier.Sink,
	baseLogger zerolog.Logger,
) *MonitoringService {
	s := &MonitoringService{
		cfg:             monitorCfg,
		notificationCfg: notificationCfg,
		logger:          baseLogger.With().Str("component", "MonitoringService").Logger(),
		registry:        NewTargetRegistry(),
		fetcher:         fetcher,
		comparator:      NewComparator(store, baseLogger),
		sink:            sink,
		cycleTracker:    NewCycleTracker(monitorCfg.MaxCycles),
		now:             time.Now,
	}
	s.scheduler = NewScheduler(monitorCfg.CheckInterval(), monitorCfg.CheckOnStart, s, baseLogger)
	return s
}

// AddTarget registers url for monitoring from the next cycle on. Adding a
// target twice is a no-op.
func (s *MonitoringService) AddTarget(url string) error {
	if strings.TrimSpace(url) == "" {
		return common.NewValidationError("url", url, "URL parameter is required.")
	}

	if s.registry.Add(url) {
		s.logger.Info().Str("url", url).Msg("Started monitoring URL")
	} else {
		s.logger.Debug().Str("url", url).Msg("URL already monitored")
	}
	return nil
}

// RemoveTarget stops monitoring url and forgets its snapshot. Removing an
// unknown URL succeeds.
func (s *MonitoringService) RemoveTarget(url string) error {
	if strings.TrimSpace(url) == "" {
		return common.NewValidationError("url", url, "URL parameter is required.")
	}

	removed := s.registry.Remove(url)
	s.comparator.ClearState(url)

	if removed {
		s.logger.Info().Str("url", url).Msg("Stopped monitoring URL")
	} else {
		s.logger.Debug().Str("url", url).Msg("Remove requested for URL that was not monitored")
	}
	return nil
}

// ListTargets returns a point-in-time copy of the monitored URLs.
func (s *MonitoringService) ListTargets() []string {
	return s.registry.List()
}

// Snapshot returns the last stored raw content for url.
func (s *MonitoringService) Snapshot(url string) (string, bool) {
	return s.comparator.Snapshot(url)
}

// ShouldContinue reports whether the cycle limit still allows new cycles.
func (s *MonitoringService) ShouldContinue() bool {
	return s.cycleTracker.ShouldContinue()
}

// CheckTargets runs one monitoring cycle over the current targets and waits
// for all of them. Targets are checked concurrently and independently. It
// returns nil when there was nothing to check or the cycle limit was reached.
func (s *MonitoringService) CheckTargets(ctx context.Context) *CycleReport {
	targets := s.registry.List()
	if len(targets) == 0 {
		s.logger.Debug().Msg("No targets to check this cycle")
		return nil
	}

	report, ok := s.cycleTracker.StartCycle(len(targets))
	if !ok {
		s.logger.Debug().Msg("Cycle limit reached, skipping cycle")
		return nil
	}

	cycleLogger := s.logger.With().Str("cycle_id", report.ID).Logger()
	cycleLogger.Debug().Int("targets", len(targets)).Msg("Monitor cycle started")

	var wg sync.WaitGroup
	wg.Add(len(targets))
	for _, target := range targets {
		go func(target string) {
			defer wg.Done()
			s.checkTarget(ctx, target, report, cycleLogger)
		}(target)
	}
	wg.Wait()

	s.cycleTracker.EndCycle(report)
	cycleLogger.Info().
		Int("targets", report.TargetsRun).
		Int("initial", report.Count(models.StatusInitial)).
		Int("unchanged", report.Count(models.StatusUnchanged)).
		Int("changed", report.Count(models.StatusChanged)).
		Int("failed", report.FailedCount()).
		Int("skipped", report.SkippedCount()).
		Dur("duration", time.Since(report.StartedAt)).
		Msg("Monitor cycle completed")
	return report
}

// checkTarget runs fetch, compare and notify for one target. Panics are
// contained here so one target cannot take down its siblings.
func (s *MonitoringService) checkTarget(ctx context.Context, target string, report *CycleReport, logger zerolog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("url", target).Interface("panic", r).Msg("Recovered from panic while checking target")
		}
	}()

	result := s.fetcher.Fetch(ctx, target)

	outcome, active := s.comparator.CompareAndStoreIf(target, result.Content(), s.registry.Contains)
	if !active {
		report.RecordSkipped()
		logger.Debug().Str("url", target).Msg("Target removed during check, discarding result")
		return
	}
	report.Record(outcome)

	switch outcome.Status {
	case models.StatusInitial:
		logger.Info().Str("url", target).Int("content_length", len(outcome.Current)).Msg("Initial content stored")
	case models.StatusChanged:
		s.notifyChange(ctx, outcome, logger)
	case models.StatusUnchanged:
		logger.Debug().Str("url", target).Bool("fetched", outcome.Fetched).Msg("No change")
	}

	if !result.OK {
		s.notifyFetchError(ctx, target, result, logger)
	}
}

func (s *MonitoringService) notifyChange(ctx context.Context, outcome models.ComparisonOutcome, logger zerolog.Logger) {
	if s.sink == nil {
		return
	}
	if err := s.sink.OnChange(ctx, outcome.Target, s.now(), outcome.PreviousContent(), outcome.Current); err != nil {
		logger.Error().Err(err).Str("url", outcome.Target).Msg("Failed to deliver change notification")
	}
}

func (s *MonitoringService) notifyFetchError(ctx context.Context, target string, result FetchResult, logger zerolog.Logger) {
	if s.sink == nil || !s.notificationCfg.NotifyOnFetchError {
		return
	}
	// a stopping scheduler cancels in-flight fetches; those are not target failures
	if ctx.Err() != nil {
		return
	}

	message := "fetch failed"
	if result.Err != nil {
		message = result.Err.Error()
	}
	if err := s.sink.OnError(ctx, target, s.now(), message); err != nil {
		logger.Error().Err(err).Str("url", target).Msg("Failed to deliver error notification")
	}
}

// Start registers the configured initial targets and starts the scheduler.
func (s *MonitoringService) Start(ctx context.Context) error {
	s.logger.Info().Msg("Starting MonitoringService")

	for _, target := range s.cfg.InitialTargets {
		if err := s.AddTarget(target); err != nil {
			s.logger.Warn().Err(err).Str("url", target).Msg("Skipping invalid initial target")
		}
	}

	if err := s.scheduler.Start(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Failed to start monitor scheduler")
		return err
	}
	return nil
}

// Stop stops the scheduler. Checks already in flight are cancelled, not awaited.
func (s *MonitoringService) Stop() {
	s.scheduler.Stop()
	s.logger.Info().Msg("MonitoringService stopped")
}

// Done is closed once the scheduler loop exits, e.g. after the cycle limit.
func (s *MonitoringService) Done() <-chan struct{} {
	return s.scheduler.Done()
}

// SetCheckInterval changes the scheduler period at runtime.
func (s *MonitoringService) SetCheckInterval(interval time.Duration) error {
	return s.scheduler.SetInterval(interval)
}

// Status returns the current registry and cycle counters.
func (s *MonitoringService) Status() models.MonitorStatus {
	targets := s.registry.List()
	status := models.MonitorStatus{
		Targets:         targets,
		TargetCount:     len(targets),
		StartedCycles:   s.cycleTracker.StartedCycles(),
		CompletedCycles: s.cycleTracker.CompletedCycles(),
		CurrentCycleID:  s.cycleTracker.CurrentCycleID(),
		CheckIntervalMs: s.scheduler.Interval().Milliseconds(),
		Running:         s.scheduler.IsRunning(),
		GeneratedAt:     s.now(),
	}
	if id, changed, completedAt := s.cycleTracker.LastCompleted(); id != "" {
		if changed == nil {
			changed = []string{}
		}
		status.LastCycle = &models.CycleSummary{ID: id, CompletedAt: completedAt, ChangedURLs: changed}
	}
	return status
}
