// Package prompt runs the reflection flow as a sequence of line-oriented
// questions instead of a full-screen program. It serves screen readers,
// dumb terminals and piped stdin; huh's accessible mode does the asking.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/manyways/pkg/catalog"
	"github.com/vanderheijden86/manyways/pkg/debug"
	"github.com/vanderheijden86/manyways/pkg/flow"
	"github.com/vanderheijden86/manyways/pkg/session"
)

// Values returned by Select besides action names.
const (
	ChoiceQuit     = "quit"
	ChoiceReselect = "reselect"
)

// ErrAborted is returned when the user interrupts a question.
var ErrAborted = huh.ErrUserAborted

// Choice is one selectable answer.
type Choice struct {
	Label string
	Value string
}

// Asker asks the questions. HuhAsker is the real implementation; tests
// script one.
type Asker interface {
	// Select returns the Value of the chosen option. It returns ctx.Err()
	// once ctx is done, even while waiting for an answer.
	Select(ctx context.Context, title, description string, options []Choice) (string, error)
	// MultiSelect returns the Values of every chosen option. Options whose
	// Value is in selected start checked.
	MultiSelect(ctx context.Context, title, description string, options []Choice, selected []string) ([]string, error)
}

// IsTerminal checks if stdin is connected to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// HuhAsker asks through huh forms.
type HuhAsker struct {
	Accessible bool
	In         io.Reader
	Out        io.Writer
}

// newForm creates a form with appropriate settings based on TTY detection.
func (h HuhAsker) newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if h.Accessible || !IsTerminal() {
		form = form.WithAccessible(true)
	}
	if h.In != nil {
		form = form.WithInput(h.In)
	}
	if h.Out != nil {
		form = form.WithOutput(h.Out)
	}
	return form
}

// run waits for form or ctx, whichever finishes first. Accessible forms
// block on a line read that the context cannot interrupt, so the form is
// left to finish on its own once ctx is done.
func (h HuhAsker) run(ctx context.Context, form *huh.Form) error {
	done := make(chan error, 1)
	go func() {
		done <- form.RunWithContext(ctx)
	}()
	select {
	case err := <-done:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h HuhAsker) Select(ctx context.Context, title, description string, options []Choice) (string, error) {
	var value string
	opts := make([]huh.Option[string], len(options))
	for i, c := range options {
		opts[i] = huh.NewOption(c.Label, c.Value)
	}
	form := h.newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Description(description).
				Options(opts...).
				Value(&value),
		),
	)
	if err := h.run(ctx, form); err != nil {
		return "", err
	}
	return value, nil
}

func (h HuhAsker) MultiSelect(ctx context.Context, title, description string, options []Choice, selected []string) ([]string, error) {
	values := append([]string(nil), selected...)
	checked := make(map[string]bool, len(selected))
	for _, v := range selected {
		checked[v] = true
	}
	opts := make([]huh.Option[string], len(options))
	for i, c := range options {
		opts[i] = huh.NewOption(c.Label, c.Value).Selected(checked[c.Value])
	}
	form := h.newForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(title).
				Description(description).
				Options(opts...).
				Value(&values),
		),
	)
	if err := h.run(ctx, form); err != nil {
		return nil, err
	}
	return values, nil
}

// Runner drives one session through an Asker.
type Runner struct {
	ask        Asker
	out        io.Writer
	catalog    *catalog.Catalog
	session    *session.Session
	showFooter bool
}

// NewRunner creates a Runner at Welcome with an empty selection.
func NewRunner(c *catalog.Catalog, ask Asker, out io.Writer, showFooter bool) *Runner {
	return &Runner{
		ask:        ask,
		out:        out,
		catalog:    c,
		session:    session.New(),
		showFooter: showFooter,
	}
}

// Session returns the live session.
func (r *Runner) Session() *session.Session {
	return r.session
}

// Run loops until the user picks Quit, ctx is cancelled or the Asker fails.
// Picking Quit returns nil; an interrupted question returns ErrAborted.
func (r *Runner) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		v := flow.Render(r.session, r.catalog)
		if err := WriteView(r.out, v, r.showFooter); err != nil {
			return err
		}

		if v.Step == session.StepBuild {
			if err := r.chooseExperiences(ctx, v); err != nil {
				return err
			}
			v = flow.Render(r.session, r.catalog)
		}

		choice, err := r.ask.Select(ctx, "What next?", v.Hint, actionChoices(v))
		if err != nil {
			return err
		}

		switch choice {
		case ChoiceQuit:
			return nil
		case ChoiceReselect:
			continue
		}

		a, err := flow.ParseAction(choice)
		if err != nil {
			return err
		}
		if err := flow.Apply(r.session, a); err != nil {
			// Recoverable: say why and ask again.
			fmt.Fprintf(r.out, "%s\n\n", err)
		}
	}
}

// chooseExperiences asks for the whole selection at once and applies the
// difference as individual toggles.
func (r *Runner) chooseExperiences(ctx context.Context, v flow.View) error {
	options := make([]Choice, len(v.Options))
	var current []string
	for i, opt := range v.Options {
		options[i] = Choice{Label: opt.Label, Value: opt.Key}
		if opt.Checked {
			current = append(current, opt.Key)
		}
	}

	chosen, err := r.ask.MultiSelect(ctx, v.Title, v.Prompt, options, current)
	if err != nil {
		return err
	}

	want := make(map[string]bool, len(chosen))
	for _, k := range chosen {
		want[k] = true
	}
	for _, opt := range v.Options {
		if want[opt.Key] == opt.Checked {
			continue
		}
		if err := flow.Toggle(r.session, r.catalog, opt.Key); err != nil {
			if !errors.Is(err, session.ErrInvalidSelectionKey) {
				return err
			}
			debug.Logw("line mode toggle skipped", "key", opt.Key, "error", err)
		}
	}
	return nil
}

func actionChoices(v flow.View) []Choice {
	var out []Choice
	if v.Step == session.StepBuild {
		out = append(out, Choice{Label: "Choose experiences again", Value: ChoiceReselect})
	}
	for _, a := range v.Actions {
		text, _ := a.MarshalText()
		out = append(out, Choice{Label: a.String(), Value: string(text)})
	}
	return append(out, Choice{Label: "Quit", Value: ChoiceQuit})
}
