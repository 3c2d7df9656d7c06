// Package ui is the Bubble Tea front end for the reflection flow. The Model
// keeps one session and one catalog, turns keys into router actions and
// draws whatever flow.Render returns for the current step.
package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/manyways/pkg/catalog"
	"github.com/vanderheijden86/manyways/pkg/debug"
	"github.com/vanderheijden86/manyways/pkg/flow"
	"github.com/vanderheijden86/manyways/pkg/metrics"
	"github.com/vanderheijden86/manyways/pkg/session"
	"github.com/vanderheijden86/manyways/pkg/watcher"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	maxContent    = 88
)

// CatalogChangedMsg carries a reload of the watched catalog file: either
// the new catalog or the reason it was rejected.
type CatalogChangedMsg struct {
	Path    string
	Catalog *catalog.Catalog
	Err     error
}

// WatchCatalogCmd blocks until w delivers the next reload.
func WatchCatalogCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		r := <-w.Updates()
		return CatalogChangedMsg{Path: r.Path, Catalog: r.Catalog, Err: r.Err}
	}
}

// clipboardWrite is swapped out in tests.
var clipboardWrite = clipboard.WriteAll

// Option configures a Model.
type Option func(*Model)

// WithTheme sets the color theme.
func WithTheme(t Theme) Option {
	return func(m *Model) { m.theme = t }
}

// WithFooter controls the credit line on the last step.
func WithFooter(show bool) Option {
	return func(m *Model) { m.showFooter = show }
}

// WithCatalogWatcher swaps in every catalog w reloads.
func WithCatalogWatcher(w *watcher.Watcher) Option {
	return func(m *Model) { m.watcher = w }
}

// WithSession starts the model on an existing session.
func WithSession(s *session.Session) Option {
	return func(m *Model) {
		if s != nil {
			m.session = s
		}
	}
}

// Model is the Bubble Tea model for the four-step flow.
type Model struct {
	session *session.Session
	catalog *catalog.Catalog
	view    flow.View

	theme    Theme
	keys     keyMap
	help     help.Model
	viewport viewport.Model
	md       *MarkdownRenderer

	cursor        int
	width         int
	height        int
	showFooter    bool
	statusMsg     string
	statusIsError bool
	quitting      bool

	watcher *watcher.Watcher
}

// NewModel creates a model at Welcome with an empty selection.
func NewModel(c *catalog.Catalog, opts ...Option) Model {
	m := Model{
		session:    session.New(),
		catalog:    c,
		keys:       newKeyMap(),
		help:       help.New(),
		viewport:   viewport.New(defaultWidth, defaultHeight),
		width:      defaultWidth,
		height:     defaultHeight,
		showFooter: true,
	}
	m.theme = DefaultTheme(lipgloss.DefaultRenderer())
	for _, opt := range opts {
		opt(&m)
	}
	m.help.Styles.ShortKey = m.theme.Renderer.NewStyle().Foreground(m.theme.Primary).Bold(true)
	m.help.Styles.ShortDesc = m.theme.KeyHint
	m.help.Styles.FullKey = m.help.Styles.ShortKey
	m.help.Styles.FullDesc = m.theme.KeyHint
	m.help.Styles.ShortSeparator = m.theme.KeyHint
	m.help.Styles.FullSeparator = m.theme.KeyHint
	m.help.Styles.Ellipsis = m.theme.KeyHint
	m.md = NewMarkdownRenderer(m.contentWidth(), m.theme)
	m.refresh()
	return m
}

// Session returns the live session.
func (m Model) Session() *session.Session { return m.session }

// Catalog returns the catalog currently rendered.
func (m Model) Catalog() *catalog.Catalog { return m.catalog }

// CurrentView returns the last rendered flow view.
func (m Model) CurrentView() flow.View { return m.view }

// Cursor returns the highlighted option index on Build.
func (m Model) Cursor() int { return m.cursor }

// Status returns the status line text and whether it reports an error.
func (m Model) Status() (string, bool) { return m.statusMsg, m.statusIsError }

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return WatchCatalogCmd(m.watcher)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.md.SetWidthWithTheme(m.contentWidth(), m.theme)
		m.refresh()
		return m, nil

	case CatalogChangedMsg:
		m.applyCatalog(msg)
		if m.watcher != nil {
			return m, WatchCatalogCmd(m.watcher)
		}
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""
	m.statusIsError = false

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil
	}

	switch m.view.Step {
	case session.StepBuild:
		if m.handleBuildKey(msg) {
			m.refresh()
			return m, nil
		}
	case session.StepWelcome, session.StepShapes, session.StepWhy:
		if m.handleScrollKey(msg) {
			m.layout()
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Begin):
		m.apply(flow.ActionBegin)
	case key.Matches(msg, m.keys.Finish):
		m.apply(flow.ActionFinish)
	case key.Matches(msg, m.keys.Next):
		m.apply(flow.ActionNext)
	case key.Matches(msg, m.keys.Restart):
		m.apply(flow.ActionRestart)
	case key.Matches(msg, m.keys.Back):
		m.apply(flow.ActionBack)
	}
	m.refresh()
	return m, nil
}

func (m *Model) handleBuildKey(msg tea.KeyMsg) bool {
	n := m.catalog.Len()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = clamp(m.cursor-1, 0, n-1)
	case key.Matches(msg, m.keys.Down):
		m.cursor = clamp(m.cursor+1, 0, n-1)
	case key.Matches(msg, m.keys.Toggle):
		m.toggleAt(m.cursor)
	case key.Matches(msg, m.keys.Pick):
		idx := int(msg.String()[0] - '1')
		if idx >= n {
			m.setStatus(fmt.Sprintf("No experience #%d", idx+1), true)
			return true
		}
		m.cursor = idx
		m.toggleAt(idx)
	default:
		return false
	}
	return true
}

func (m *Model) handleScrollKey(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
	case key.Matches(msg, m.keys.PgUp):
		m.viewport.LineUp(m.viewport.Height)
	case key.Matches(msg, m.keys.PgDown):
		m.viewport.LineDown(m.viewport.Height)
	case key.Matches(msg, m.keys.Copy):
		m.copyQuotes()
	default:
		return false
	}
	return true
}

func (m *Model) toggleAt(idx int) {
	cat, ok := m.catalog.At(idx)
	if !ok {
		return
	}
	if err := flow.Toggle(m.session, m.catalog, cat.Key); err != nil {
		m.setStatus(err.Error(), true)
	}
}

func (m *Model) apply(a flow.Action) {
	before := m.session.Step()
	err := flow.Apply(m.session, a)
	switch {
	case errors.Is(err, flow.ErrGuardViolation) && m.view.Hint != "":
		m.setStatus(m.view.Hint, true)
	case err != nil:
		m.setStatus(err.Error(), true)
	}
	if m.session.Step() != before {
		m.viewport.GotoTop()
	}
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusIsError = isErr
}

func (m *Model) copyQuotes() {
	var lines []string
	switch m.view.Step {
	case session.StepShapes:
		for _, b := range m.view.Blocks {
			lines = append(lines, fmt.Sprintf("%s %s", b.Label, flow.Quoted(b.Quote)))
		}
	case session.StepWhy:
		for _, v := range m.view.Voices {
			lines = append(lines, flow.Quoted(v))
		}
	}
	if len(lines) == 0 {
		m.setStatus("Nothing to copy", false)
		return
	}
	if err := clipboardWrite(strings.Join(lines, "\n")); err != nil {
		m.setStatus(fmt.Sprintf("❌ Clipboard error: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("📋 Copied %d quotes to clipboard", len(lines)), false)
}

// applyCatalog installs a reloaded catalog. A rejected reload keeps the
// current one and says why.
func (m *Model) applyCatalog(msg CatalogChangedMsg) {
	if msg.Err != nil || msg.Catalog == nil {
		err := msg.Err
		if err == nil {
			err = errors.New("empty reload")
		}
		debug.Logw("catalog reload failed", "path", msg.Path, "error", err)
		m.setStatus(fmt.Sprintf("❌ Catalog reload failed: %v", err), true)
		m.layout()
		return
	}
	c := msg.Catalog
	m.catalog = c
	m.cursor = clamp(m.cursor, 0, c.Len()-1)
	debug.Logw("catalog reloaded", "path", msg.Path, "categories", c.Len())
	m.setStatus(fmt.Sprintf("🔄 Catalog reloaded (%d categories)", c.Len()), false)
	m.refresh()
}

// refresh re-renders the flow view and the viewport content.
func (m *Model) refresh() {
	defer metrics.Timer(metrics.Render)()

	m.view = flow.Render(m.session, m.catalog)
	m.keys.forView(m.view)
	m.viewport.SetContent(m.renderBody(m.view))
	m.layout()
	if m.view.Step == session.StepBuild {
		m.followCursor()
	}
}

// layout sizes the viewport to whatever the header and bottom bar leave.
func (m *Model) layout() {
	m.viewport.Width = m.contentWidth()
	h := m.height - lipgloss.Height(m.renderHeader()) - lipgloss.Height(m.renderBottom())
	if h < 3 {
		h = 3
	}
	m.viewport.Height = h
}

func (m *Model) followCursor() {
	line := m.optionLine(m.cursor)
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

func (m Model) contentWidth() int {
	w := m.width - 4
	if w > maxContent {
		w = maxContent
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	page := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderBottom(),
	)
	return m.theme.Renderer.NewStyle().Padding(0, 2).Render(page)
}
