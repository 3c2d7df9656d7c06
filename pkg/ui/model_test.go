package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"pgregory.net/rapid"

	"github.com/vanderheijden86/manyways/pkg/catalog"
	"github.com/vanderheijden86/manyways/pkg/flow"
	"github.com/vanderheijden86/manyways/pkg/session"
	"github.com/vanderheijden86/manyways/pkg/testutil"
	"github.com/vanderheijden86/manyways/pkg/watcher"
)

const (
	commuteKey = "🚇 Navigating the City Every Day"
	crowdedKey = "🏙️ Living in Shared or Crowded Spaces"
)

func newTestModel(t *testing.T, opts ...Option) Model {
	t.Helper()
	opts = append([]Option{WithTheme(TestTheme())}, opts...)
	m := NewModel(catalog.Default(), opts...)
	// Tall enough that no step needs scrolling
	return update(m, tea.WindowSizeMsg{Width: 100, Height: 200})
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		m = update(m, keyMsg(k))
	}
	return m
}

func TestNewModelStartsAtWelcome(t *testing.T) {
	m := newTestModel(t)

	testutil.AssertStep(t, m.Session(), session.StepWelcome)
	testutil.AssertSelected(t, m.Session())
	testutil.AssertActions(t, m.CurrentView(), flow.ActionBegin)

	view := m.View()
	for _, want := range []string{"Step 1 of 4", "Many Ways to Be Here", "Begin"} {
		if !strings.Contains(view, want) {
			t.Errorf("welcome view missing %q", want)
		}
	}
	if m.Init() != nil {
		t.Error("Init without a watcher should return nil")
	}
}

func TestWalkthrough(t *testing.T) {
	m := newTestModel(t)

	m = press(m, "enter")
	testutil.AssertStep(t, m.Session(), session.StepBuild)
	testutil.AssertActions(t, m.CurrentView(), flow.ActionBack)

	// Third option, then first
	m = press(m, "3", "1")
	testutil.AssertSelected(t, m.Session(), commuteKey, crowdedKey)
	testutil.AssertActions(t, m.CurrentView(), flow.ActionBack, flow.ActionFinish)

	m = press(m, "enter")
	testutil.AssertStep(t, m.Session(), session.StepShapes)
	view := m.View()
	first := strings.Index(view, "Navigating the City Every Day")
	second := strings.Index(view, "Living in Shared or Crowded Spaces")
	if first < 0 || second < 0 || first > second {
		t.Errorf("expected both selections in catalog order, got indexes %d, %d", first, second)
	}
	if strings.Contains(view, "Eating Life On-the-Go") {
		t.Error("unselected category rendered on Shapes")
	}

	m = press(m, "n")
	testutil.AssertStep(t, m.Session(), session.StepWhy)
	view = m.View()
	for _, want := range []string{"Why This Matters", "Student Voices", "Created by Emily Mendoza Dominguez", "Restart"} {
		if !strings.Contains(view, want) {
			t.Errorf("why view missing %q", want)
		}
	}

	m = press(m, "r")
	testutil.AssertStep(t, m.Session(), session.StepWelcome)
	testutil.AssertSelected(t, m.Session())
}

func TestFinishGuard(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "enter", "enter")

	testutil.AssertStep(t, m.Session(), session.StepBuild)
	msg, isErr := m.Status()
	if !isErr || msg != "Select at least one experience to finish." {
		t.Errorf("expected guard hint as error status, got %q (error=%v)", msg, isErr)
	}
	if !strings.Contains(m.View(), "Select at least one experience to finish.") {
		t.Error("expected hint on the Build view")
	}
}

func TestBuildCursor(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "b")

	m = press(m, "up")
	if m.Cursor() != 0 {
		t.Errorf("cursor should clamp at 0, got %d", m.Cursor())
	}

	m = press(m, "down", "j", "space")
	if m.Cursor() != 2 {
		t.Errorf("expected cursor 2, got %d", m.Cursor())
	}
	testutil.AssertSelected(t, m.Session(), crowdedKey)

	for i := 0; i < 10; i++ {
		m = press(m, "down")
	}
	if m.Cursor() != m.Catalog().Len()-1 {
		t.Errorf("cursor should clamp at last option, got %d", m.Cursor())
	}

	// x toggles too; toggling twice restores the selection
	m = press(m, "x", "x")
	testutil.AssertSelected(t, m.Session(), crowdedKey)
}

func TestPickOutOfRange(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "enter", "9")

	msg, isErr := m.Status()
	if !isErr || msg != "No experience #9" {
		t.Errorf("expected out of range status, got %q", msg)
	}
	testutil.AssertSelected(t, m.Session())
}

func TestBackNavigation(t *testing.T) {
	m := newTestModel(t)

	// Back is not defined on Welcome
	m = press(m, "esc")
	testutil.AssertStep(t, m.Session(), session.StepWelcome)

	m = press(m, "enter", "1", "enter", "enter")
	testutil.AssertStep(t, m.Session(), session.StepWhy)

	m = press(m, "esc", "left", "h")
	testutil.AssertStep(t, m.Session(), session.StepWelcome)
	testutil.AssertSelected(t, m.Session(), commuteKey)
}

func TestFooterHidden(t *testing.T) {
	m := newTestModel(t, WithFooter(false))
	m = press(m, "enter", "1", "enter", "enter")

	if strings.Contains(m.View(), "Created by") {
		t.Error("footer credit should be hidden")
	}
}

func TestCopyQuotes(t *testing.T) {
	var copied string
	saved := clipboardWrite
	defer func() { clipboardWrite = saved }()
	clipboardWrite = func(s string) error {
		copied = s
		return nil
	}

	m := newTestModel(t)
	m = press(m, "enter", "1", "enter", "y")

	if !strings.Contains(copied, "“Some days the train works") {
		t.Errorf("unexpected clipboard content %q", copied)
	}
	if msg, isErr := m.Status(); isErr || !strings.Contains(msg, "Copied 1 quotes") {
		t.Errorf("unexpected status %q", msg)
	}

	clipboardWrite = func(string) error { return errors.New("no clipboard") }
	m = press(m, "y")
	if msg, isErr := m.Status(); !isErr || !strings.Contains(msg, "no clipboard") {
		t.Errorf("expected clipboard error status, got %q", msg)
	}
}

func TestCopyDisabledOnBuild(t *testing.T) {
	called := false
	saved := clipboardWrite
	defer func() { clipboardWrite = saved }()
	clipboardWrite = func(string) error {
		called = true
		return nil
	}

	m := newTestModel(t)
	m = press(m, "enter", "y")
	if called {
		t.Error("y should do nothing on Build")
	}
}

func TestCatalogReload(t *testing.T) {
	dir := t.TempDir()
	gen := testutil.NewDefault()
	path := testutil.WriteCatalogFile(t, dir, gen.Categories(2), gen.VoiceQuotes())

	w, err := watcher.New(path)
	if err != nil {
		t.Fatal(err)
	}

	m := newTestModel(t, WithCatalogWatcher(w))
	if m.Init() == nil {
		t.Error("Init with a watcher should return a watch command")
	}

	m = press(m, "enter", "1")
	testutil.AssertSelected(t, m.Session(), commuteKey)

	next, cmd := m.Update(CatalogChangedMsg{Path: path, Catalog: gen.Catalog(2)})
	m = next.(Model)
	if cmd == nil {
		t.Error("expected the watch command to be re-armed")
	}
	if m.Catalog().Len() != 2 {
		t.Fatalf("expected reloaded catalog with 2 categories, got %d", m.Catalog().Len())
	}
	if msg, _ := m.Status(); !strings.Contains(msg, "reloaded") {
		t.Errorf("unexpected status %q", msg)
	}

	// The old key is no longer offered but still counts for the guard
	if strings.Contains(m.View(), "Navigating the City") {
		t.Error("vanished category still rendered")
	}
	m = press(m, "enter")
	testutil.AssertStep(t, m.Session(), session.StepShapes)
	if len(m.CurrentView().Blocks) != 0 {
		t.Errorf("expected no blocks for vanished keys, got %d", len(m.CurrentView().Blocks))
	}

	rejected := fmt.Errorf("%s: %w", path, catalog.ErrInvalidCatalog)
	m = update(m, CatalogChangedMsg{Path: path, Err: rejected})
	if msg, isErr := m.Status(); !isErr || !strings.Contains(msg, "reload failed") {
		t.Errorf("expected reload failure status, got %q", msg)
	}
	if m.Catalog().Len() != 2 {
		t.Error("failed reload should keep the previous catalog")
	}
}

func TestWatchCatalogCmdDeliversReload(t *testing.T) {
	dir := t.TempDir()
	gen := testutil.NewDefault()
	path := testutil.WriteCatalogFile(t, dir, gen.Categories(2), gen.VoiceQuotes())

	w, err := watcher.New(path,
		watcher.WithForcePoll(true),
		watcher.WithPollInterval(20*time.Millisecond),
		watcher.WithDebounce(10*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(40 * time.Millisecond)
	testutil.WriteCatalogFile(t, dir, gen.Categories(4), gen.VoiceQuotes())

	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- WatchCatalogCmd(w)() }()

	select {
	case msg := <-msgs:
		changed, ok := msg.(CatalogChangedMsg)
		if !ok {
			t.Fatalf("expected CatalogChangedMsg, got %T", msg)
		}
		if changed.Err != nil || changed.Catalog.Len() != 4 {
			t.Fatalf("unexpected reload %+v", changed)
		}
		m := update(newTestModel(t, WithCatalogWatcher(w)), changed)
		if m.Catalog().Len() != 4 {
			t.Errorf("model did not take the reloaded catalog")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for catalog reload")
	}
}

func TestWelcomeScrollsOnShortTerminal(t *testing.T) {
	m := NewModel(catalog.Default(), WithTheme(TestTheme()))
	m = update(m, tea.WindowSizeMsg{Width: 60, Height: 10})
	testutil.AssertStep(t, m.Session(), session.StepWelcome)

	if m.viewport.TotalLineCount() <= m.viewport.Height {
		t.Fatalf("welcome body fits (%d lines in %d rows); window too tall for this test",
			m.viewport.TotalLineCount(), m.viewport.Height)
	}

	m = press(m, "down")
	if m.viewport.YOffset != 1 {
		t.Errorf("down should scroll the welcome text, offset %d", m.viewport.YOffset)
	}
	m = press(m, "pgdown")
	if m.viewport.YOffset <= 1 {
		t.Errorf("pgdown should scroll further, offset %d", m.viewport.YOffset)
	}
	m = press(m, "up")
	testutil.AssertStep(t, m.Session(), session.StepWelcome)

	// Scrolling is not an action
	m = press(m, "enter")
	testutil.AssertStep(t, m.Session(), session.StepBuild)
}

func TestQuit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		m := newTestModel(t)
		next, cmd := m.Update(keyMsg(k))
		if cmd == nil {
			t.Fatalf("%s: expected quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", k)
		}
		if next.(Model).View() != "" {
			t.Errorf("%s: expected empty view after quit", k)
		}
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t)
	short := m.View()
	m = press(m, "?")
	if !m.help.ShowAll {
		t.Fatal("expected full help after ?")
	}
	if m.View() == short {
		t.Error("full help should change the view")
	}
}

func TestSmallWindowScrollsBuildCursor(t *testing.T) {
	m := NewModel(testutil.NewDefault().Catalog(30), WithTheme(TestTheme()))
	m = update(m, tea.WindowSizeMsg{Width: 60, Height: 16})
	m = press(m, "enter")

	for i := 0; i < 29; i++ {
		m = press(m, "down")
	}
	if !strings.Contains(m.View(), "Experience 30") {
		t.Error("expected viewport to follow the cursor to the last option")
	}
}

func TestProperty_LaterStepsHaveSelection(t *testing.T) {
	keys := []string{"enter", "esc", "space", "up", "down", "1", "2", "3", "7", "n", "r", "f", "b", "y", "x"}
	base := newTestModel(t)

	saved := clipboardWrite
	defer func() { clipboardWrite = saved }()
	clipboardWrite = func(string) error { return nil }

	rapid.Check(t, func(t *rapid.T) {
		m := base
		m.session = session.New()
		m.refresh()

		presses := rapid.SliceOfN(rapid.SampledFrom(keys), 1, 40).Draw(t, "keys")
		for _, k := range presses {
			m = press(m, k)
			step := m.Session().Step()
			if !step.Valid() {
				t.Fatalf("invalid step %d after %q", step, k)
			}
			if (step == session.StepShapes || step == session.StepWhy) && !m.Session().HasSelection() {
				t.Fatalf("reached %s with an empty selection", step)
			}
		}
	})
}
