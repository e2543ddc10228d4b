package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/aleister1102/pagewatch/internal/common"
	"github.com/rs/zerolog"
)

// cycleRunner is what the scheduler drives on every tick.
type cycleRunner interface {
	CheckTargets(ctx context.Context) *CycleReport
	ShouldContinue() bool
}

// Scheduler fires monitoring cycles at a fixed rate. Each cycle runs in its
// own goroutine so a slow cycle never delays the next tick.
type Scheduler struct {
	logger       zerolog.Logger
	runner       cycleRunner
	checkOnStart bool

	mu         sync.Mutex
	interval   time.Duration
	active     bool
	cancelFunc context.CancelFunc
	resetChan  chan time.Duration
	done       chan struct{}
}

// NewScheduler creates a new monitor scheduler.
func NewScheduler(interval time.Duration, checkOnStart bool, runner cycleRunner, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		logger:       logger.With().Str("component", "MonitorScheduler").Logger(),
		runner:       runner,
		checkOnStart: checkOnStart,
		interval:     interval,
		resetChan:    make(chan time.Duration, 1),
	}
}

// Start begins ticking. It returns immediately; ticking continues until Stop,
// ctx cancellation, or the cycle limit.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		s.logger.Warn().Msg("MonitorScheduler already active")
		return nil
	}
	if s.interval <= 0 {
		return common.NewValidationError("check_interval", s.interval, "check interval must be positive")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancelFunc = cancel
	s.active = true
	s.done = make(chan struct{})

	s.logger.Info().Dur("interval", s.interval).Bool("check_on_start", s.checkOnStart).Msg("Starting MonitorScheduler")
	go s.loop(loopCtx, s.interval, s.done)
	return nil
}

func (s *Scheduler) loop(ctx context.Context, interval time.Duration, done chan struct{}) {
	ticker := time.NewTicker(interval)
	defer func() {
		ticker.Stop()
		s.mu.Lock()
		s.active = false
		s.mu.Unlock()
		close(done)
		s.logger.Info().Msg("MonitorScheduler main loop stopped")
	}()

	if s.checkOnStart {
		go s.runner.CheckTargets(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("MonitorScheduler context cancelled, main loop stopping")
			return
		case newInterval := <-s.resetChan:
			ticker.Reset(newInterval)
			s.logger.Info().Dur("interval", newInterval).Msg("Check interval updated")
		case <-ticker.C:
			if !s.runner.ShouldContinue() {
				s.logger.Info().Msg("Maximum monitor cycles reached, scheduler stopping")
				return
			}
			s.logger.Debug().Msg("Monitor tick")
			go s.runner.CheckTargets(ctx)
		}
	}
}

// SetInterval changes the tick period. A running scheduler picks it up at the next tick.
func (s *Scheduler) SetInterval(interval time.Duration) error {
	if interval <= 0 {
		return common.NewValidationError("check_interval", interval, "check interval must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if interval == s.interval {
		return nil
	}
	s.interval = interval
	if !s.active {
		return nil
	}

	// keep only the latest pending value
	select {
	case <-s.resetChan:
	default:
	}
	s.resetChan <- interval
	return nil
}

// Interval returns the configured tick period.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// IsRunning reports whether the tick loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Done returns a channel closed when the current loop exits, or nil if never started.
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Stop stops starting new cycles and waits for the tick loop to exit.
// Cycles already running are cancelled through their context, not awaited.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.active {
		if s.cancelFunc != nil {
			s.cancelFunc()
		}
		s.mu.Unlock()
		s.logger.Info().Msg("MonitorScheduler was not active")
		return
	}
	cancel := s.cancelFunc
	done := s.done
	s.mu.Unlock()

	s.logger.Info().Msg("Stopping MonitorScheduler")
	cancel()
	<-done
}
