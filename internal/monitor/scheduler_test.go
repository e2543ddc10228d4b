package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu        sync.Mutex
	cycles    atomic.Int32
	maxCycles int32
	block     chan struct{}
}

func (f *fakeRunner) CheckTargets(ctx context.Context) *CycleReport {
	f.mu.Lock()
	if f.maxCycles > 0 && f.cycles.Load() >= f.maxCycles {
		f.mu.Unlock()
		return nil
	}
	f.cycles.Add(1)
	f.mu.Unlock()

	if f.block != nil {
		<-f.block
	}
	return nil
}

func (f *fakeRunner) ShouldContinue() bool {
	return f.maxCycles == 0 || f.cycles.Load() < f.maxCycles
}

func TestScheduler_TicksAtFixedRate(t *testing.T) {
	runner := &fakeRunner{}
	s := NewScheduler(10*time.Millisecond, false, runner, zerolog.Nop())

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	assert.Eventually(t, func() bool { return runner.cycles.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	s.Stop()
	assert.False(t, s.IsRunning())

	time.Sleep(20 * time.Millisecond)
	stopped := runner.cycles.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, runner.cycles.Load(), "no cycles start after Stop")
}

func TestScheduler_SlowCyclesDoNotDelayTicks(t *testing.T) {
	runner := &fakeRunner{block: make(chan struct{})}
	defer close(runner.block)

	s := NewScheduler(10*time.Millisecond, false, runner, zerolog.Nop())
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	// every cycle blocks forever, yet new ones keep starting
	assert.Eventually(t, func() bool { return runner.cycles.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestScheduler_CheckOnStart(t *testing.T) {
	runner := &fakeRunner{}
	s := NewScheduler(time.Hour, true, runner, zerolog.Nop())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return runner.cycles.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_StopsAtMaxCycles(t *testing.T) {
	runner := &fakeRunner{maxCycles: 2}
	s := NewScheduler(5*time.Millisecond, false, runner, zerolog.Nop())

	require.NoError(t, s.Start(context.Background()))

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after max cycles")
	}
	assert.Equal(t, int32(2), runner.cycles.Load())
	assert.False(t, s.IsRunning())
}

func TestScheduler_SetInterval(t *testing.T) {
	runner := &fakeRunner{}
	s := NewScheduler(time.Hour, false, runner, zerolog.Nop())

	assert.Error(t, s.SetInterval(0))

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	require.NoError(t, s.SetInterval(10*time.Millisecond))
	assert.Equal(t, 10*time.Millisecond, s.Interval())
	assert.Eventually(t, func() bool { return runner.cycles.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestScheduler_StartTwiceAndStopIdle(t *testing.T) {
	s := NewScheduler(time.Hour, false, &fakeRunner{}, zerolog.Nop())

	assert.NotPanics(t, s.Stop)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}

func TestScheduler_ParentContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(time.Hour, false, &fakeRunner{}, zerolog.Nop())
	require.NoError(t, s.Start(ctx))

	cancel()
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler ignored parent context")
	}
}
