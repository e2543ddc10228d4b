package monitor

import (
	"sort"
	"sync"
)

// TargetRegistry is the set of URLs currently being monitored.
// Identity is the exact URL string; no normalization is applied.
type TargetRegistry struct {
	targets sync.Map // url -> struct{}
}

// NewTargetRegistry creates an empty registry.
func NewTargetRegistry() *TargetRegistry {
	return &TargetRegistry{}
}

// Add registers url as active. It reports whether url was newly added.
func (r *TargetRegistry) Add(url string) bool {
	_, loaded := r.targets.LoadOrStore(url, struct{}{})
	return !loaded
}

// Remove unregisters url. It reports whether url was present.
func (r *TargetRegistry) Remove(url string) bool {
	_, loaded := r.targets.LoadAndDelete(url)
	return loaded
}

// Contains reports whether url is currently active.
func (r *TargetRegistry) Contains(url string) bool {
	_, ok := r.targets.Load(url)
	return ok
}

// Count returns the number of active targets. It is derived from the map
// itself so it can never disagree with List.
func (r *TargetRegistry) Count() int {
	n := 0
	r.targets.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// List returns a sorted copy of the active targets at the time of the call.
// Concurrent Add/Remove calls may or may not be reflected.
func (r *TargetRegistry) List() []string {
	var urls []string
	r.targets.Range(func(key, _ any) bool {
		urls = append(urls, key.(string))
		return true
	})
	sort.Strings(urls)
	return urls
}
