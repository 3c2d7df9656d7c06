package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/vanderheijden86/manyways/pkg/flow"
	"github.com/vanderheijden86/manyways/pkg/session"
)

type keyMap struct {
	Begin   key.Binding
	Finish  key.Binding
	Next    key.Binding
	Restart key.Binding
	Back    key.Binding

	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Pick   key.Binding
	PgUp   key.Binding
	PgDown key.Binding

	Copy key.Binding
	Help key.Binding
	Quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Begin:   key.NewBinding(key.WithKeys("enter", "b", "right", "l"), key.WithHelp("enter/b", "begin")),
		Finish:  key.NewBinding(key.WithKeys("enter", "f", "right", "l"), key.WithHelp("enter/f", "finish")),
		Next:    key.NewBinding(key.WithKeys("enter", "n", "right", "l"), key.WithHelp("enter/n", "next")),
		Restart: key.NewBinding(key.WithKeys("enter", "r"), key.WithHelp("enter/r", "restart")),
		Back:    key.NewBinding(key.WithKeys("esc", "backspace", "left", "h"), key.WithHelp("esc/←", "back")),

		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space/x", "toggle")),
		Pick:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "toggle #n")),
		PgUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PgDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),

		Copy: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy quotes")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// forView enables exactly the bindings that mean something on v, so the
// help line and key.Matches agree with the router.
func (k *keyMap) forView(v flow.View) {
	k.Begin.SetEnabled(v.HasAction(flow.ActionBegin))
	// Finish stays live on Build even while unavailable so the guard can
	// explain itself in the status line.
	k.Finish.SetEnabled(v.Step == session.StepBuild)
	k.Next.SetEnabled(v.HasAction(flow.ActionNext))
	k.Restart.SetEnabled(v.HasAction(flow.ActionRestart))
	k.Back.SetEnabled(v.HasAction(flow.ActionBack))

	build := v.Step == session.StepBuild
	k.Toggle.SetEnabled(build)
	k.Pick.SetEnabled(build)

	// Build moves the cursor with up/down; every other step scrolls.
	scrolls := !build
	k.PgUp.SetEnabled(scrolls)
	k.PgDown.SetEnabled(scrolls)
	k.Copy.SetEnabled(v.Step == session.StepShapes || v.Step == session.StepWhy)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Begin, k.Finish, k.Next, k.Restart, k.Back, k.Toggle, k.Copy, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Begin, k.Finish, k.Next, k.Restart, k.Back},
		{k.Up, k.Down, k.Toggle, k.Pick},
		{k.PgUp, k.PgDown, k.Copy},
		{k.Help, k.Quit},
	}
}
