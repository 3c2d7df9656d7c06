package flow

import (
	"fmt"
	"strings"
)

// Action is a user-triggered navigation button.
type Action int

const (
	ActionBegin Action = iota + 1
	ActionBack
	ActionFinish
	ActionNext
	ActionRestart
)

var actionNames = map[Action]string{
	ActionBegin:   "Begin",
	ActionBack:    "Back",
	ActionFinish:  "Finish",
	ActionNext:    "Next",
	ActionRestart: "Restart",
}

// String returns the button label.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// MarshalText encodes the action as its lowercase name.
func (a Action) MarshalText() ([]byte, error) {
	if _, ok := actionNames[a]; !ok {
		return nil, fmt.Errorf("unknown action %d", int(a))
	}
	return []byte(strings.ToLower(a.String())), nil
}

// ParseAction maps a case-insensitive button name to its Action.
func ParseAction(s string) (Action, error) {
	needle := strings.TrimSpace(s)
	for a, name := range actionNames {
		if strings.EqualFold(name, needle) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}
