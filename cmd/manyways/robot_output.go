package main

import (
	"io"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/manyways/pkg/catalog"
	"github.com/vanderheijden86/manyways/pkg/flow"
	"github.com/vanderheijden86/manyways/pkg/session"
	"github.com/vanderheijden86/manyways/pkg/version"
)

type robotCatalogOutput struct {
	GeneratedAt string             `json:"generated_at"`
	Version     string             `json:"version"`
	Source      string             `json:"source"`
	Categories  []catalog.Category `json:"categories"`
	Voices      []string           `json:"voices"`
}

type robotRenderOutput struct {
	GeneratedAt string            `json:"generated_at"`
	Version     string            `json:"version"`
	Script      string            `json:"script,omitempty"`
	Trace       []flow.TraceEntry `json:"trace,omitempty"`
	Error       string            `json:"error,omitempty"`
	View        flow.View         `json:"view"`
}

func newRobotCatalogOutput(c *catalog.Catalog, source string, now time.Time) robotCatalogOutput {
	return robotCatalogOutput{
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Version:     version.Version,
		Source:      source,
		Categories:  c.Categories(),
		Voices:      c.VoiceQuotes(),
	}
}

func newRobotRenderOutput(c *catalog.Catalog, now time.Time) robotRenderOutput {
	return robotRenderOutput{
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Version:     version.Version,
		View:        flow.Render(session.New(), c),
	}
}

// runReplay replays script against a fresh session. The output is filled
// in even when a command is rejected, so callers can print what happened
// before reporting the error.
func runReplay(c *catalog.Catalog, script string, now time.Time) (robotRenderOutput, error) {
	out := robotRenderOutput{
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Version:     version.Version,
		Script:      script,
	}

	s := session.New()
	cmds, err := flow.ParseScript(script)
	if err != nil {
		out.Error = err.Error()
		out.View = flow.Render(s, c)
		return out, err
	}

	trace, err := flow.Replay(s, c, cmds)
	out.Trace = trace
	out.View = flow.Render(s, c)
	if err != nil {
		out.Error = err.Error()
	}
	return out, err
}

func writeRobotJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
