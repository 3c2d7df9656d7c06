package flow

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vanderheijden86/manyways/pkg/catalog"
	"github.com/vanderheijden86/manyways/pkg/session"
)

// Command is one step of a replay script: either a navigation action or a
// toggle of a category, named by key or by 1-based catalog position.
type Command struct {
	Action Action
	Key    string
	Index  int
}

// IsToggle reports whether the command toggles a category.
func (c Command) IsToggle() bool {
	return c.Action == 0
}

func (c Command) String() string {
	switch {
	case !c.IsToggle():
		return strings.ToLower(c.Action.String())
	case c.Index > 0:
		return fmt.Sprintf("toggle#%d", c.Index)
	default:
		return "toggle:" + c.Key
	}
}

// ParseScript parses a comma separated command list such as
// "begin,toggle#1,finish,next". Tokens are case-insensitive except for
// toggle keys, which must match the catalog exactly.
func ParseScript(script string) ([]Command, error) {
	var cmds []Command
	for i, raw := range strings.Split(script, ",") {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			continue
		}
		lower := strings.ToLower(tok)
		switch {
		case strings.HasPrefix(lower, "toggle#"):
			n, err := strconv.Atoi(tok[len("toggle#"):])
			if err != nil || n < 1 {
				return nil, fmt.Errorf("command %d: bad toggle index in %q", i+1, tok)
			}
			cmds = append(cmds, Command{Index: n})
		case strings.HasPrefix(lower, "toggle:"):
			key := tok[len("toggle:"):]
			if key == "" {
				return nil, fmt.Errorf("command %d: empty toggle key", i+1)
			}
			cmds = append(cmds, Command{Key: key})
		default:
			a, err := ParseAction(tok)
			if err != nil {
				return nil, fmt.Errorf("command %d: %w", i+1, err)
			}
			cmds = append(cmds, Command{Action: a})
		}
	}
	return cmds, nil
}

// TraceEntry records the session state after one replayed command.
type TraceEntry struct {
	Command  string   `json:"command"`
	Step     string   `json:"step"`
	Selected []string `json:"selected"`
	Error    string   `json:"error,omitempty"`
}

// Replay runs cmds against s. It stops at the first rejected command and
// returns its error; the trace includes the failing entry.
func Replay(s *session.Session, c *catalog.Catalog, cmds []Command) ([]TraceEntry, error) {
	trace := make([]TraceEntry, 0, len(cmds))
	for _, cmd := range cmds {
		err := run(s, c, cmd)
		entry := TraceEntry{
			Command:  cmd.String(),
			Step:     s.Step().String(),
			Selected: s.SelectedKeys(c.Keys()),
		}
		if err != nil {
			entry.Error = err.Error()
			trace = append(trace, entry)
			return trace, fmt.Errorf("%s: %w", cmd, err)
		}
		trace = append(trace, entry)
	}
	return trace, nil
}

func run(s *session.Session, c *catalog.Catalog, cmd Command) error {
	if !cmd.IsToggle() {
		return Apply(s, cmd.Action)
	}
	key := cmd.Key
	if cmd.Index > 0 {
		cat, ok := c.At(cmd.Index - 1)
		if !ok {
			return fmt.Errorf("%w: index %d", session.ErrInvalidSelectionKey, cmd.Index)
		}
		key = cat.Key
	}
	return Toggle(s, c, key)
}
