package flow

import (
	"fmt"

	"github.com/vanderheijden86/manyways/pkg/catalog"
	"github.com/vanderheijden86/manyways/pkg/session"
)

// Option is one toggle control on the Build view.
type Option struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// Block is one selected category on the Shapes view.
type Block struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Insights []string `json:"insights"`
	Quote    string   `json:"quote"`
}

// View is everything a front end needs to draw one screen. Exactly one of
// Options, Blocks or Voices is populated, depending on Step.
type View struct {
	Step     session.Step `json:"-"`
	Name     string       `json:"step"`
	Number   int          `json:"number"`
	Caption  string       `json:"caption"`
	Title    string       `json:"title"`
	Subtitle string       `json:"subtitle,omitempty"`
	Prompt   string       `json:"prompt,omitempty"`
	Body     []string     `json:"body,omitempty"`
	Hint     string       `json:"hint,omitempty"`

	Options []Option `json:"options,omitempty"`
	Blocks  []Block  `json:"blocks,omitempty"`

	VoicesHeading string   `json:"voices_heading,omitempty"`
	Voices        []string `json:"voices,omitempty"`

	Actions []Action `json:"actions"`
	Footer  string   `json:"footer,omitempty"`
}

// HasAction reports whether a is offered by this view.
func (v View) HasAction(a Action) bool {
	for _, candidate := range v.Actions {
		if candidate == a {
			return true
		}
	}
	return false
}

// Render builds the View for the session's current step. It reads s and c
// and mutates neither. Selected keys missing from c are skipped.
func Render(s *session.Session, c *catalog.Catalog) View {
	step := s.Step()
	if !step.Valid() {
		step = session.StepWelcome
	}

	v := View{
		Step:    step,
		Name:    step.String(),
		Number:  int(step) + 1,
		Caption: fmt.Sprintf("Step %d of %d", int(step)+1, session.StepCount),
		Actions: Available(s),
	}

	switch step {
	case session.StepWelcome:
		v.Title = welcomeTitle
		v.Subtitle = welcomeSubtitle
		v.Body = append([]string(nil), welcomeBody...)

	case session.StepBuild:
		v.Title = buildTitle
		v.Prompt = buildPrompt
		for _, cat := range c.Categories() {
			v.Options = append(v.Options, Option{
				Key:     cat.Key,
				Label:   cat.Label,
				Checked: s.IsSelected(cat.Key),
			})
		}
		if !s.HasSelection() {
			v.Hint = buildHint
		}

	case session.StepShapes:
		v.Title = shapesTitle
		for _, key := range s.SelectedKeys(c.Keys()) {
			cat, err := c.Get(key)
			if err != nil {
				continue
			}
			v.Blocks = append(v.Blocks, Block{
				Key:      cat.Key,
				Label:    cat.Label,
				Insights: cat.Insights,
				Quote:    cat.Quote,
			})
		}

	case session.StepWhy:
		v.Title = whyTitle
		v.Body = append([]string(nil), whyBody...)
		v.VoicesHeading = voicesHeading
		v.Voices = c.VoiceQuotes()
		v.Footer = footerCredit
	}

	return v
}

// Quoted wraps s in typographic quotes.
func Quoted(s string) string {
	return "“" + s + "”"
}
