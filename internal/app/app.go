package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/wordsearch/wordsearch/internal/client"
	"github.com/wordsearch/wordsearch/internal/history"
	"github.com/wordsearch/wordsearch/internal/session"
	"github.com/wordsearch/wordsearch/internal/theme"
	"github.com/wordsearch/wordsearch/internal/views/debug"
	"github.com/wordsearch/wordsearch/internal/views/files"
	historyview "github.com/wordsearch/wordsearch/internal/views/history"
	"github.com/wordsearch/wordsearch/internal/views/progress"
	"github.com/wordsearch/wordsearch/internal/views/result"
	"github.com/wordsearch/wordsearch/internal/views/status"
)

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayFiles
	OverlayHistory
	OverlayDebug
)

// Searcher runs search sessions. *session.Controller implements it.
type Searcher interface {
	Start(keyword string) error
	Stop()
	State() session.State
	Subscribe() (<-chan session.State, func())
}

// FileLister fetches the server's file listing.
type FileLister interface {
	ListFiles(ctx context.Context) ([]client.FileDescriptor, error)
}

// HistoryStore persists finished searches.
type HistoryStore interface {
	Record(e history.Entry) (int64, error)
	Recent(limit int) ([]history.Entry, error)
}

// Deps are the collaborators of the root model. Files, History and Notes
// may be nil.
type Deps struct {
	Search       Searcher
	Files        FileLister
	History      HistoryStore
	HistoryLimit int
	Notes        *NoteFeed
	Logger       *log.Logger
	Server       string
	Transport    string
}

type (
	stateMsg struct {
		state session.State
		ok    bool
	}
	filesMsg struct {
		files []client.FileDescriptor
		err   error
	}
	historyMsg struct {
		entries []history.Entry
		err     error
	}
	frameMsg struct{}
)

// Model is the root Bubble Tea model.
type Model struct {
	deps        Deps
	logger      *log.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	updates     <-chan session.State
	unsubscribe func()

	keys   KeyMap
	width  int
	height int

	state     session.State
	input     textinput.Model
	inputErr  string
	spinner   spinner.Model
	animating bool
	overlay   Overlay

	// Sub-views.
	statusBar status.Model
	progress  progress.Model
	report    *result.Renderer
	fileView  files.Model
	histView  historyview.Model
	debugLog  debug.Model
}

// New creates the root model and subscribes to session updates.
func New(deps Deps) Model {
	ctx, cancel := context.WithCancel(context.Background())
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if deps.HistoryLimit <= 0 {
		deps.HistoryLimit = 20
	}

	in := textinput.New()
	in.Placeholder = "keyword"
	in.Prompt = "search › "
	in.CharLimit = 256
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorActive)

	updates, unsubscribe := deps.Search.Subscribe()

	return Model{
		deps:        deps,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		updates:     updates,
		unsubscribe: unsubscribe,
		keys:        DefaultKeyMap(),
		state:       deps.Search.State(),
		input:       in,
		spinner:     sp,
		statusBar:   status.New(deps.Server, deps.Transport),
		progress:    progress.New(),
		report:      result.NewRenderer(80),
		fileView:    files.New(),
		debugLog:    debug.New(),
	}
}

// Init subscribes to session state and loads the file listing and history.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.waitForState(), m.fetchFiles(), m.loadHistory()}
	if m.deps.Notes != nil {
		cmds = append(cmds, m.deps.Notes.wait())
	}
	return tea.Batch(cmds...)
}

func (m Model) waitForState() tea.Cmd {
	ch := m.updates
	return func() tea.Msg {
		st, ok := <-ch
		return stateMsg{state: st, ok: ok}
	}
}

func (m Model) fetchFiles() tea.Cmd {
	if m.deps.Files == nil {
		return nil
	}
	lister, ctx := m.deps.Files, m.ctx
	return func() tea.Msg {
		list, err := lister.ListFiles(ctx)
		return filesMsg{files: list, err: err}
	}
}

func (m Model) loadHistory() tea.Cmd {
	if m.deps.History == nil {
		return nil
	}
	store, limit := m.deps.History, m.deps.HistoryLimit
	return func() tea.Msg {
		entries, err := store.Recent(limit)
		return historyMsg{entries: entries, err: err}
	}
}

func (m Model) recordHistory(st session.State) tea.Cmd {
	if m.deps.History == nil {
		return nil
	}
	entry, ok := history.EntryFromState(st, time.Now())
	if !ok {
		return nil
	}
	store, limit := m.deps.History, m.deps.HistoryLimit
	return func() tea.Msg {
		if _, err := store.Record(entry); err != nil {
			return historyMsg{err: err}
		}
		entries, err := store.Recent(limit)
		return historyMsg{entries: entries, err: err}
	}
}

func frame() tea.Cmd {
	return tea.Tick(time.Second/progress.FPS, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.input.Width = max(10, msg.Width-20)
		m.progress.SetWidth(msg.Width - 12)
		m.fileView.SetSize(msg.Width-8, msg.Height-10)
		if m.report.Width() != max(40, msg.Width-4) {
			m.report = result.NewRenderer(msg.Width - 4)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateMsg:
		if !msg.ok {
			return m, nil
		}
		return m.applyState(msg.state)

	case frameMsg:
		if m.progress.Step() {
			return m, frame()
		}
		m.animating = false
		return m, nil

	case spinner.TickMsg:
		if m.state.Phase != session.PhaseActive {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case noteMsg:
		m.debugLog.Add(msg.Kind, msg.Message)
		return m, m.deps.Notes.wait()

	case filesMsg:
		if msg.err != nil {
			m.logger.Warn("file listing failed", "err", msg.err)
			m.debugLog.Add("http", "file listing failed: "+msg.err.Error())
			m.fileView.SetError(msg.err)
			return m, nil
		}
		m.fileView.SetFiles(msg.files)
		m.statusBar.Files = len(msg.files)
		m.debugLog.Add("http", fmt.Sprintf("listed %d files", len(msg.files)))
		return m, nil

	case historyMsg:
		if msg.err != nil {
			m.logger.Warn("search history unavailable", "err", msg.err)
			m.debugLog.Add("hist", msg.err.Error())
			m.histView.Err = msg.err
			return m, nil
		}
		m.histView = historyview.Model{Entries: msg.entries}
		return m, nil
	}

	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) applyState(st session.State) (tea.Model, tea.Cmd) {
	prev := m.state
	m.state = st
	m.statusBar.State = st
	m.progress.Set(st.Progress)

	cmds := []tea.Cmd{m.waitForState()}
	if st.Phase == session.PhaseActive && prev.Phase != session.PhaseActive {
		cmds = append(cmds, m.spinner.Tick)
	}
	if st.IsTerminal() && st != prev {
		cmds = append(cmds, m.recordHistory(st))
	}
	if m.progress.Animating() && !m.animating {
		m.animating = true
		cmds = append(cmds, frame())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}

	if m.overlay != OverlayNone {
		return m.handleOverlayKey(msg)
	}

	if m.input.Focused() {
		switch {
		case key.Matches(msg, m.keys.Search):
			m.startSearch()
			return m, nil
		case key.Matches(msg, m.keys.Escape):
			if m.state.Phase == session.PhaseActive {
				m.deps.Search.Stop()
				return m, nil
			}
			m.input.Blur()
			return m, nil
		case key.Matches(msg, m.keys.Blur):
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Focus), key.Matches(msg, m.keys.Search):
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Stop), key.Matches(msg, m.keys.Escape):
		m.deps.Search.Stop()
		return m, nil

	case key.Matches(msg, m.keys.Files):
		m.overlay = OverlayFiles
		return m, nil

	case key.Matches(msg, m.keys.History):
		m.overlay = OverlayHistory
		return m, nil

	case key.Matches(msg, m.keys.Debug):
		m.overlay = OverlayDebug
		return m, nil
	}

	return m, nil
}

func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Quit) {
		m.overlay = OverlayNone
		return m, nil
	}

	switch m.overlay {
	case OverlayDebug:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.debugLog.ScrollUp(1)
		case key.Matches(msg, m.keys.Down):
			m.debugLog.ScrollDown(1)
		}
	case OverlayFiles:
		var cmd tea.Cmd
		m.fileView, cmd = m.fileView.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) startSearch() {
	kw := m.input.Value()
	if err := m.deps.Search.Start(kw); err != nil {
		m.inputErr = err.Error()
		m.debugLog.Add("err", err.Error())
		return
	}
	m.inputErr = ""
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	m.unsubscribe()
	return m, tea.Quit
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	inputLine := m.input.View()
	if m.inputErr != "" {
		inputLine += "  " + theme.StyleError.Render(m.inputErr)
	}

	sections := []string{
		m.statusBar.View(),
		"",
		inputLine,
		"",
		m.body(),
		"",
		theme.StyleDimmed.Render(m.helpLine()),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) body() string {
	switch m.overlay {
	case OverlayFiles:
		return m.fileView.View()
	case OverlayHistory:
		return m.histView.View(m.width, time.Now())
	case OverlayDebug:
		return m.debugLog.View(m.width, m.height-8)
	}

	switch m.state.Phase {
	case session.PhaseActive:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.spinner.View()+" searching for "+theme.StyleSelected.Render(fmt.Sprintf("%q", m.state.Keyword)),
			"",
			m.progress.View(),
		)
	case session.PhaseCompleted, session.PhaseFailed, session.PhaseStopped:
		return m.report.Render(m.state)
	default:
		return theme.StyleDimmed.Render("  Type a keyword and press enter to search.")
	}
}

func (m Model) helpLine() string {
	switch {
	case m.overlay == OverlayDebug:
		return "  j/k:scroll  esc:close"
	case m.overlay != OverlayNone:
		return "  esc:close"
	case m.input.Focused():
		return "  enter:search  esc:stop  tab:leave input  ctrl+c:quit"
	default:
		return "  /:edit  s:stop  f:files  h:history  d:debug  q:quit"
	}
}
