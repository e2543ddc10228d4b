package monitor

import (
	"sync"

	"github.com/rs/zerolog"
)

type urlMutexEntry struct {
	mu   sync.Mutex
	refs int // holders plus waiters
}

// URLMutexManager hands out one mutex per URL. Entries are reference counted
// and dropped once no goroutine holds or waits on them, so removed targets
// do not leak mutexes.
type URLMutexManager struct {
	logger   zerolog.Logger
	entries  map[string]*urlMutexEntry
	mapMutex sync.Mutex
}

// NewURLMutexManager creates a new URLMutexManager
func NewURLMutexManager(logger zerolog.Logger) *URLMutexManager {
	return &URLMutexManager{
		logger:  logger.With().Str("component", "URLMutexManager").Logger(),
		entries: make(map[string]*urlMutexEntry),
	}
}

// Lock blocks until the caller holds the mutex for url.
func (umm *URLMutexManager) Lock(url string) {
	umm.mapMutex.Lock()
	entry, exists := umm.entries[url]
	if !exists {
		entry = &urlMutexEntry{}
		umm.entries[url] = entry
	}
	entry.refs++
	umm.mapMutex.Unlock()

	entry.mu.Lock()
}

// Unlock releases the mutex for url. Unlocking a URL that is not locked is logged and ignored.
func (umm *URLMutexManager) Unlock(url string) {
	umm.mapMutex.Lock()
	defer umm.mapMutex.Unlock()

	entry, exists := umm.entries[url]
	if !exists {
		umm.logger.Error().Str("url", url).Msg("Unlock called for URL without a held mutex")
		return
	}

	entry.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(umm.entries, url)
	}
}

// WithLock runs fn while holding the mutex for url.
func (umm *URLMutexManager) WithLock(url string, fn func()) {
	umm.Lock(url)
	defer umm.Unlock(url)
	fn()
}

// GetMutexCount returns the number of URLs with a held or awaited mutex
func (umm *URLMutexManager) GetMutexCount() int {
	umm.mapMutex.Lock()
	defer umm.mapMutex.Unlock()

	return len(umm.entries)
}
