package datastore

import (
	"sync"
	"time"
)

// MemorySnapshotStore keeps snapshots in process memory. State is lost on restart.
type MemorySnapshotStore struct {
	snapshots sync.Map // target -> content
}

// NewMemorySnapshotStore creates an empty in-memory store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{}
}

func (s *MemorySnapshotStore) Get(target string) (string, bool, error) {
	value, ok := s.snapshots.Load(target)
	if !ok {
		return "", false, nil
	}
	return value.(string), true, nil
}

func (s *MemorySnapshotStore) Put(target, content string, _ time.Time) error {
	s.snapshots.Store(target, content)
	return nil
}

func (s *MemorySnapshotStore) Delete(target string) error {
	s.snapshots.Delete(target)
	return nil
}

func (s *MemorySnapshotStore) Close() error {
	return nil
}
