// Package session tracks one user's walk through the reflection flow: the
// current step and the set of selected category keys.
package session

import (
	"errors"
	"fmt"
)

// ErrInvalidSelectionKey is returned when a toggle references a key that
// the catalog does not contain. The session is left unchanged.
var ErrInvalidSelectionKey = errors.New("invalid selection key")

// Step identifies one of the four views.
type Step int

const (
	StepWelcome Step = iota
	StepBuild
	StepShapes
	StepWhy
)

// StepCount is the number of steps in the flow.
const StepCount = 4

func (s Step) String() string {
	switch s {
	case StepWelcome:
		return "welcome"
	case StepBuild:
		return "build"
	case StepShapes:
		return "shapes"
	case StepWhy:
		return "why"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Valid reports whether s names one of the four views.
func (s Step) Valid() bool {
	return s >= StepWelcome && s <= StepWhy
}

// KeySet reports whether a category key exists. *catalog.Catalog satisfies it.
type KeySet interface {
	Has(key string) bool
}

// Session is the mutable per-user state. The zero value is not usable;
// call New.
type Session struct {
	step     Step
	selected map[string]struct{}
}

// New returns a session at the Welcome step with nothing selected.
func New() *Session {
	return &Session{
		step:     StepWelcome,
		selected: make(map[string]struct{}),
	}
}

// Step returns the current step.
func (s *Session) Step() Step {
	return s.step
}

// Advance moves one step forward. Advancing from Why is a no-op.
func (s *Session) Advance() {
	if s.step < StepWhy {
		s.step++
	}
}

// Retreat moves one step back, never below Welcome.
func (s *Session) Retreat() {
	if s.step > StepWelcome {
		s.step--
	}
}

// Restart returns to Welcome and clears every selection.
func (s *Session) Restart() {
	s.step = StepWelcome
	clear(s.selected)
}

// Toggle adds key to the selection, or removes it if already present.
// Keys unknown to keys are rejected with ErrInvalidSelectionKey.
func (s *Session) Toggle(key string, keys KeySet) error {
	if keys == nil || !keys.Has(key) {
		return fmt.Errorf("%w: %q", ErrInvalidSelectionKey, key)
	}
	if _, ok := s.selected[key]; ok {
		delete(s.selected, key)
	} else {
		s.selected[key] = struct{}{}
	}
	return nil
}

// IsSelected reports whether key is currently selected.
func (s *Session) IsSelected(key string) bool {
	_, ok := s.selected[key]
	return ok
}

// Len is the number of selected keys.
func (s *Session) Len() int {
	return len(s.selected)
}

// HasSelection reports whether at least one key is selected.
func (s *Session) HasSelection() bool {
	return len(s.selected) > 0
}

// SelectedKeys returns the selected keys that appear in order, keeping
// order's sequence. Selected keys missing from order are dropped.
func (s *Session) SelectedKeys(order []string) []string {
	var out []string
	for _, k := range order {
		if _, ok := s.selected[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Snapshot returns a copy of the selection set.
func (s *Session) Snapshot() map[string]bool {
	out := make(map[string]bool, len(s.selected))
	for k := range s.selected {
		out[k] = true
	}
	return out
}
