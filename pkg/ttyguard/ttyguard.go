// Package ttyguard stops terminal capability probing for non-interactive
// invocations. Import it for its side effect before anything that loads
// lipgloss or Bubble Tea.
package ttyguard

import (
	"os"
	"strings"
)

// init runs before lipgloss and termenv look at the terminal.
//
// Background color detection writes OSC/DSR queries to stdout. In a real
// terminal they are invisible, but they corrupt JSON printed by the robot
// flags and hang under some PTY capture setups. Termenv skips the probing
// when CI is set, so robot, version and help invocations set CI=1 early.
func init() {
	if os.Getenv("CI") != "" {
		return
	}

	if !shouldSuppressTTYQueries(os.Args, os.Getenv("MANYWAYS_ROBOT") == "1", os.Getenv("MANYWAYS_TEST_MODE") != "") {
		return
	}

	_ = os.Setenv("CI", "1")
}

func shouldSuppressTTYQueries(args []string, envRobot, envTest bool) bool {
	if envRobot || envTest {
		return true
	}

	for _, arg := range args {
		if strings.HasPrefix(arg, "--robot-") || strings.HasPrefix(arg, "-robot-") {
			return true
		}
		switch arg {
		case "--version", "-version", "--help", "-help", "-h":
			return true
		}
	}

	return false
}
