// Package flow is the view router for the reflection flow. It owns the
// transition table between the four steps, the one input guard (Finish
// needs a non-empty selection) and the pure Render function that turns a
// session plus a catalog into a View.
//
// All mutation happens in Apply and Toggle. Render never touches the
// session, so rendering the same state twice yields the same View.
package flow

import (
	"errors"
	"fmt"

	"github.com/vanderheijden86/manyways/pkg/debug"
	"github.com/vanderheijden86/manyways/pkg/metrics"
	"github.com/vanderheijden86/manyways/pkg/session"
)

var (
	// ErrGuardViolation is returned for Finish while nothing is selected.
	ErrGuardViolation = errors.New("finish requires at least one selection")

	// ErrActionUnavailable is returned for an action the current view does
	// not offer.
	ErrActionUnavailable = errors.New("action not available on this step")
)

// transitions lists the actions each step defines, in button order.
// Guards are applied separately.
var transitions = map[session.Step][]Action{
	session.StepWelcome: {ActionBegin},
	session.StepBuild:   {ActionBack, ActionFinish},
	session.StepShapes:  {ActionBack, ActionNext},
	session.StepWhy:     {ActionBack, ActionRestart},
}

func defined(step session.Step, a Action) bool {
	for _, candidate := range transitions[step] {
		if candidate == a {
			return true
		}
	}
	return false
}

// Available returns the actions that can be triggered right now, in
// button order. Finish is omitted while the selection is empty.
func Available(s *session.Session) []Action {
	var out []Action
	for _, a := range transitions[s.Step()] {
		if a == ActionFinish && !s.HasSelection() {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Can reports whether a is currently actionable.
func Can(s *session.Session, a Action) bool {
	for _, candidate := range Available(s) {
		if candidate == a {
			return true
		}
	}
	return false
}

// Apply performs a on the session. Rejected actions leave the session
// untouched and return ErrActionUnavailable or ErrGuardViolation.
func Apply(s *session.Session, a Action) error {
	defer metrics.Timer(metrics.Transition)()

	from := s.Step()
	if !defined(from, a) {
		debug.Logw("action rejected", "step", from.String(), "action", a.String(), "reason", "unavailable")
		return fmt.Errorf("%w: %s on %s", ErrActionUnavailable, a, from)
	}

	switch a {
	case ActionBegin, ActionNext:
		s.Advance()
	case ActionFinish:
		if !s.HasSelection() {
			debug.Logw("action rejected", "step", from.String(), "action", a.String(), "reason", "guard")
			return ErrGuardViolation
		}
		s.Advance()
	case ActionBack:
		s.Retreat()
	case ActionRestart:
		s.Restart()
	}

	debug.Logw("transition", "action", a.String(), "from", from.String(), "to", s.Step().String(), "selected", s.Len())
	return nil
}

// Toggle flips key in the selection. Only the Build step accepts toggles;
// unknown keys are rejected with session.ErrInvalidSelectionKey.
func Toggle(s *session.Session, keys session.KeySet, key string) error {
	defer metrics.Timer(metrics.Transition)()

	if s.Step() != session.StepBuild {
		debug.Logw("toggle rejected", "step", s.Step().String(), "key", key, "reason", "unavailable")
		return fmt.Errorf("%w: toggle on %s", ErrActionUnavailable, s.Step())
	}
	if err := s.Toggle(key, keys); err != nil {
		debug.Logw("toggle rejected", "key", key, "reason", "unknown key")
		return err
	}
	debug.Logw("toggle", "key", key, "selected", s.IsSelected(key), "count", s.Len())
	return nil
}
