package prompt

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/manyways/pkg/flow"
	"github.com/vanderheijden86/manyways/pkg/session"
)

// WriteView writes v as plain text: no color, no box drawing beyond an
// underline, one idea per line so screen readers announce it cleanly.
func WriteView(w io.Writer, v flow.View, showFooter bool) error {
	var sb strings.Builder

	sb.WriteString(v.Caption + "\n\n")
	sb.WriteString(v.Title + "\n")
	sb.WriteString(strings.Repeat("=", runewidth.StringWidth(v.Title)) + "\n")
	if v.Subtitle != "" {
		sb.WriteString(v.Subtitle + "\n")
	}
	sb.WriteString("\n")

	switch v.Step {
	case session.StepWelcome:
		writeParagraphs(&sb, v.Body)

	case session.StepBuild:
		sb.WriteString(v.Prompt + "\n\n")
		for i, opt := range v.Options {
			box := "[ ]"
			if opt.Checked {
				box = "[x]"
			}
			fmt.Fprintf(&sb, "  %s %d. %s\n", box, i+1, opt.Label)
		}
		if v.Hint != "" {
			sb.WriteString("\n" + v.Hint + "\n")
		}

	case session.StepShapes:
		for _, b := range v.Blocks {
			sb.WriteString(b.Label + "\n")
			for _, insight := range b.Insights {
				sb.WriteString("  • " + insight + "\n")
			}
			sb.WriteString("  " + flow.Quoted(b.Quote) + "\n\n")
		}

	case session.StepWhy:
		writeParagraphs(&sb, v.Body)
		sb.WriteString(v.VoicesHeading + "\n")
		sb.WriteString(strings.Repeat("-", runewidth.StringWidth(v.VoicesHeading)) + "\n")
		for _, voice := range v.Voices {
			sb.WriteString("  " + flow.Quoted(voice) + "\n")
		}
		if showFooter && v.Footer != "" {
			sb.WriteString("\n" + v.Footer + "\n")
		}
	}

	_, err := io.WriteString(w, strings.TrimRight(sb.String(), "\n")+"\n\n")
	return err
}

func writeParagraphs(sb *strings.Builder, paragraphs []string) {
	for _, p := range paragraphs {
		sb.WriteString(p + "\n\n")
	}
}
