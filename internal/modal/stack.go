// Package modal tracks which overlay dialogs are currently open.
package modal

import "sync"

// Overlay identifiers used by the site.
const (
	Auth        = "auth"
	Appointment = "appointment"
)

// Stack is the set of open overlays. Overlays are independent: opening one
// never closes another. Safe for concurrent use.
type Stack struct {
	mu   sync.Mutex
	open map[string]struct{}
}

func NewStack() *Stack {
	return &Stack{open: make(map[string]struct{})}
}

// Open marks an overlay as open. Opening an already-open overlay is a no-op.
func (s *Stack) Open(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open[id] = struct{}{}
}

// Close marks an overlay as closed. Idempotent: closing an already-closed
// overlay is a no-op, not an error.
func (s *Stack) Close(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.open, id)
}

// IsOpen reports whether the overlay is currently open.
func (s *Stack) IsOpen(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.open[id]
	return ok
}

// OpenCount returns the number of open overlays.
func (s *Stack) OpenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.open)
}
