// Package projectstore guards the process-wide Project behind a
// read/write lock: render loops take a shared read lock for one frame's
// compositor call, while the control facade and project loader take an
// exclusive lock for mutations.
package projectstore

import (
	"sync"

	"github.com/nightgrid/halo/internal/model"
)

// Store holds one Project under a RWMutex. The zero value is not usable —
// construct with New.
type Store struct {
	mu      sync.RWMutex
	project model.Project
}

// New wraps an initial project.
func New(project model.Project) *Store {
	return &Store{project: project}
}

// View runs fn with a read lock held, passing the current project. fn
// must not retain the pointer beyond the call, and must not block on
// anything that could itself wait on a writer (no suspension points, no
// sink I/O) — the lock is held for the whole call.
func (s *Store) View(fn func(project *model.Project) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.project)
}

// Update runs fn with a write lock held, letting it mutate the project in
// place.
func (s *Store) Update(fn func(project *model.Project)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.project)
}

// Replace swaps in an entirely new project (e.g. after decoding a freshly
// loaded project blob).
func (s *Store) Replace(project model.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project = project
}

// Snapshot returns a shallow copy of the current project for read-only
// inspection outside the lock's scope (e.g. to compute desired loop
// configs). Because Project's fields are maps/pointers, callers must not
// mutate the result.
func (s *Store) Snapshot() model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project
}
