package monitor

import (
	"sort"
	"sync"
	"time"

	"github.com/aleister1102/pagewatch/internal/models"
	"github.com/google/uuid"
)

// CycleReport collects the outcomes of one monitoring cycle. Cycles can
// overlap, so each one gets its own report.
type CycleReport struct {
	ID         string
	StartedAt  time.Time
	TargetsRun int

	mutex       sync.Mutex
	statuses    map[models.ComparisonStatus]int
	failed      int
	skipped     int
	changedURLs map[string]struct{}
}

func newCycleReport(targets int) *CycleReport {
	return &CycleReport{
		ID:          uuid.NewString(),
		StartedAt:   time.Now(),
		TargetsRun:  targets,
		statuses:    make(map[models.ComparisonStatus]int),
		changedURLs: make(map[string]struct{}),
	}
}

// Record adds one target outcome to the report.
func (r *CycleReport) Record(outcome models.ComparisonOutcome) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.statuses[outcome.Status]++
	if !outcome.Fetched {
		r.failed++
	}
	if outcome.IsChanged() {
		r.changedURLs[outcome.Target] = struct{}{}
	}
}

// RecordSkipped counts a target that was removed while being checked.
func (r *CycleReport) RecordSkipped() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.skipped++
}

// Count returns how many targets ended with status.
func (r *CycleReport) Count(status models.ComparisonStatus) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.statuses[status]
}

// FailedCount returns how many fetches failed in this cycle.
func (r *CycleReport) FailedCount() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.failed
}

// SkippedCount returns how many targets were dropped mid-check.
func (r *CycleReport) SkippedCount() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.skipped
}

// ChangedURLs returns the sorted targets that changed in this cycle.
func (r *CycleReport) ChangedURLs() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	urls := make([]string, 0, len(r.changedURLs))
	for url := range r.changedURLs {
		urls = append(urls, url)
	}
	sort.Strings(urls)
	return urls
}

// CycleTracker numbers cycles and enforces the optional cycle limit.
type CycleTracker struct {
	mutex           sync.RWMutex
	maxCycles       int
	startedCycles   int
	completedCycles int64
	currentCycleID  string
	lastCycleID     string
	lastChangedURLs []string
	lastCompletedAt time.Time
}

// NewCycleTracker creates a new CycleTracker. maxCycles of 0 means unlimited.
func NewCycleTracker(maxCycles int) *CycleTracker {
	return &CycleTracker{
		maxCycles: maxCycles,
	}
}

// StartCycle opens a report for a cycle over the given number of targets.
// It returns false once the cycle limit has been reached.
func (ct *CycleTracker) StartCycle(targets int) (*CycleReport, bool) {
	ct.mutex.Lock()
	defer ct.mutex.Unlock()

	if ct.maxCycles > 0 && ct.startedCycles >= ct.maxCycles {
		return nil, false
	}

	ct.startedCycles++
	report := newCycleReport(targets)
	ct.currentCycleID = report.ID
	return report, true
}

// EndCycle marks report's cycle as finished and remembers it as the last
// completed one.
func (ct *CycleTracker) EndCycle(report *CycleReport) {
	changed := report.ChangedURLs()

	ct.mutex.Lock()
	defer ct.mutex.Unlock()

	ct.completedCycles++
	ct.lastCycleID = report.ID
	ct.lastChangedURLs = changed
	ct.lastCompletedAt = time.Now()
}

// ShouldContinue returns false if the maximum number of cycles has been reached.
func (ct *CycleTracker) ShouldContinue() bool {
	ct.mutex.RLock()
	defer ct.mutex.RUnlock()
	if ct.maxCycles == 0 {
		return true
	}
	return ct.startedCycles < ct.maxCycles
}

// CurrentCycleID returns the ID of the most recently started cycle.
func (ct *CycleTracker) CurrentCycleID() string {
	ct.mutex.RLock()
	defer ct.mutex.RUnlock()
	return ct.currentCycleID
}

// CompletedCycles returns how many cycles have finished.
func (ct *CycleTracker) CompletedCycles() int64 {
	ct.mutex.RLock()
	defer ct.mutex.RUnlock()
	return ct.completedCycles
}

// StartedCycles returns how many cycles have been started.
func (ct *CycleTracker) StartedCycles() int {
	ct.mutex.RLock()
	defer ct.mutex.RUnlock()
	return ct.startedCycles
}

// LastCompleted describes the most recently finished cycle. The zero values
// are returned before any cycle has completed.
func (ct *CycleTracker) LastCompleted() (id string, changedURLs []string, completedAt time.Time) {
	ct.mutex.RLock()
	defer ct.mutex.RUnlock()
	return ct.lastCycleID, append([]string(nil), ct.lastChangedURLs...), ct.lastCompletedAt
}
