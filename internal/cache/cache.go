// Package cache holds short-lived copies of ledger aggregates so repeated
// reads do not hit SQLite. Every write through the API clears them.
package cache

import (
	"log/slog"
	"sync"
	"time"
)

// Cache defines a generic cache interface
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	// Clear drops every entry.
	Clear()
	Size() int
}

// Store is what the Manager needs from a registered cache.
type Store interface {
	CleanExpired() int
	Clear()
}

// Manager expires and invalidates a group of caches together.
type Manager struct {
	mu          sync.Mutex
	caches      []Store
	stopCleanup chan struct{}
	cleanupDone chan struct{}
	started     bool
	stopOnce    sync.Once

	// gen counts invalidations. genMu is held for writing while caches are
	// cleared so a fill for an older generation cannot land afterwards.
	genMu sync.RWMutex
	gen   uint64
}

// NewManager creates a new cache manager
func NewManager() *Manager {
	return &Manager{
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

// Register adds a cache to the manager
func (m *Manager) Register(cache Store) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caches = append(m.caches, cache)
}

// InvalidateAll clears every registered cache and starts a new generation.
func (m *Manager) InvalidateAll() {
	m.mu.Lock()
	caches := append([]Store(nil), m.caches...)
	m.mu.Unlock()

	m.genMu.Lock()
	defer m.genMu.Unlock()
	m.gen++
	for _, c := range caches {
		c.Clear()
	}
}

// Generation returns the current invalidation count. Read it before loading
// a value and hand it to SetIfCurrent.
func (m *Manager) Generation() uint64 {
	m.genMu.RLock()
	defer m.genMu.RUnlock()
	return m.gen
}

// SetIfCurrent runs set only if no invalidation happened since gen was read,
// and reports whether it ran. A value loaded before a write is dropped
// instead of outliving the write in the cache.
func (m *Manager) SetIfCurrent(gen uint64, set func()) bool {
	m.genMu.RLock()
	defer m.genMu.RUnlock()
	if m.gen != gen {
		return false
	}
	set()
	return true
}

// CleanExpired sweeps all registered caches once and returns how many
// entries were dropped.
func (m *Manager) CleanExpired() int {
	m.mu.Lock()
	caches := append([]Store(nil), m.caches...)
	m.mu.Unlock()

	total := 0
	for _, c := range caches {
		total += c.CleanExpired()
	}
	return total
}

// StartCleanup begins periodic cleanup of all registered caches
func (m *Manager) StartCleanup(interval time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started || interval <= 0 {
		return
	}
	m.started = true
	go m.cleanup(interval)
}

func (m *Manager) cleanup(interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := m.CleanExpired(); n > 0 {
				slog.Debug("Cache cleanup completed", "component", "cache", "removed", n)
			}
		case <-m.stopCleanup:
			return
		}
	}
}

// Stop ends the cleanup goroutine. Safe to call more than once, or without
// StartCleanup.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCleanup)
		m.mu.Lock()
		started := m.started
		m.mu.Unlock()
		if started {
			<-m.cleanupDone
		}
	})
}
