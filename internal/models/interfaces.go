package models

import "time"

// SnapshotStore persists the latest raw content per target.
// Implementations must be safe for concurrent use across different targets;
// serialization per target is the caller's job.
type SnapshotStore interface {
	Get(target string) (content string, found bool, err error)
	Put(target, content string, updatedAt time.Time) error
	Delete(target string) error
	Close() error
}

// MonitorStatus is the point-in-time view served by the status endpoint.
type MonitorStatus struct {
	Targets         []string      `json:"targets"`
	TargetCount     int           `json:"target_count"`
	StartedCycles   int           `json:"started_cycles"`
	CompletedCycles int64         `json:"completed_cycles"`
	CurrentCycleID  string        `json:"current_cycle_id,omitempty"`
	LastCycle       *CycleSummary `json:"last_cycle,omitempty"`
	CheckIntervalMs int64         `json:"check_interval_ms"`
	Running         bool          `json:"running"`
	GeneratedAt     time.Time     `json:"generated_at"`
}

// CycleSummary describes the most recently completed monitoring cycle.
type CycleSummary struct {
	ID          string    `json:"id"`
	CompletedAt time.Time `json:"completed_at"`
	ChangedURLs []string  `json:"changed_urls"`
}
