package tui

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/dex/internal/domain"
	"github.com/mmcdole/dex/internal/search"
	"github.com/mmcdole/dex/internal/service"
	"github.com/mmcdole/dex/internal/tui/components"
	"github.com/mmcdole/dex/internal/tui/styles"
)

// Layout constants
const (
	// Header, search line, footer
	ListChromeHeight = 3
	// Header and footer around the detail viewport
	DetailChromeHeight = 2

	maxSuggestions        = 3
	defaultRequestTimeout = 30 * time.Second
)

type screen int

const (
	screenList screen = iota
	screenDetail
)

// Options wires the model to the coordinators
type Options struct {
	List           *service.ListCoordinator
	Detail         *service.DetailCoordinator
	Images         domain.ImageFetcher // nil disables accent colors
	AccentColors   bool
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	opts   Options
	keys   KeyMap
	logger *slog.Logger

	screen screen
	width  int
	height int
	ready  bool

	// List screen
	list        service.ListState
	states      <-chan service.ListState
	unsubscribe func()
	cursor      int
	offset      int
	query       string
	highlights  map[int][]int
	suggestions []domain.DisplayEntry
	pendingLoad bool

	// Detail screen
	detailName string
	detail     domain.Result[domain.DetailRecord]
	accent     *lipgloss.Color
	viewport   viewport.Model

	input    textinput.Model
	spinner  spinner.Model
	help     help.Model
	showHelp bool
}

// NewModel creates a new application model subscribed to the list coordinator
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}

	input := textinput.New()
	input.Prompt = "/ "
	input.PromptStyle = styles.FilterPromptStyle
	input.Placeholder = "search by name or number"
	input.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	h := help.New()
	h.Styles.ShortKey = styles.HelpKeyStyle
	h.Styles.ShortDesc = styles.HelpDescStyle
	h.Styles.FullKey = styles.HelpKeyStyle
	h.Styles.FullDesc = styles.HelpDescStyle

	states, unsubscribe := opts.List.Subscribe()

	return Model{
		opts:        opts,
		keys:        DefaultKeyMap(),
		logger:      opts.Logger,
		screen:      screenList,
		list:        opts.List.State(),
		states:      states,
		unsubscribe: unsubscribe,
		input:       input,
		spinner:     sp,
		help:        h,
		viewport:    viewport.New(0, 0),
	}
}

// Init starts the spinner and listens for list updates
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		WaitForListStateCmd(m.states),
	)
}

// Close stops listening for list updates
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.input.Width = msg.Width - 4
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-DetailChromeHeight, 1)
		m.renderDetailContent()
		m.clampCursor()
		m.maybeLoadMore()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ListStateMsg:
		m.list = msg.State
		m.pendingLoad = false
		m.refreshSearchDecorations()
		m.clampCursor()
		m.maybeLoadMore()
		return m, WaitForListStateCmd(m.states)

	case DetailLoadedMsg:
		if msg.Name != m.detailName {
			return m, nil
		}
		m.detail = msg.Result
		m.renderDetailContent()
		return m, m.accentCmd()

	case AccentLoadedMsg:
		if msg.Name != m.detailName {
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Debug("accent color unavailable", "name", msg.Name, "error", msg.Err)
			return m, nil
		}
		accent := lipgloss.Color(msg.Color.Hex())
		m.accent = &accent
		m.renderDetailContent()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.input.Focused() {
		return m.handleSearchInput(msg)
	}

	if m.showHelp {
		m.showHelp = false
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.screen == screenDetail {
		return m.handleDetailKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Search):
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Escape):
		if m.query != "" {
			m.clearSearch()
		}
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.visibleRows())
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.visibleRows())
		return m, nil
	case key.Matches(msg, m.keys.Home):
		m.moveCursor(-len(m.list.Entries))
		return m, nil
	case key.Matches(msg, m.keys.End):
		m.moveCursor(len(m.list.Entries))
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		return m.openDetail()
	case key.Matches(msg, m.keys.Retry):
		if m.list.ErrorMessage != "" && !m.list.IsLoading && !m.pendingLoad {
			m.pendingLoad = true
			m.opts.List.LoadNextPage()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.input.Blur()
		return m, nil
	case tea.KeyEsc:
		m.input.Blur()
		m.clearSearch()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if value := m.input.Value(); value != m.query {
		m.query = value
		m.cursor = 0
		m.offset = 0
		m.opts.List.Search(value)
	}
	return m, cmd
}

func (m *Model) clearSearch() {
	m.input.SetValue("")
	if m.query == "" {
		return
	}
	m.query = ""
	m.cursor = 0
	m.offset = 0
	m.opts.List.Search("")
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.screen = screenList
		m.detailName = ""
		m.accent = nil
		return m, nil
	case key.Matches(msg, m.keys.Retry):
		failed := domain.MatchResult(m.detail,
			func(*domain.DetailRecord) bool { return false },
			func(domain.DetailRecord) bool { return false },
			func(string, *domain.DetailRecord) bool { return true },
		)
		if !failed {
			return m, nil
		}
		m.detail = domain.Loading[domain.DetailRecord](nil)
		return m, LoadDetailCmd(m.opts.Detail, m.detailName, m.opts.RequestTimeout)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) openDetail() (tea.Model, tea.Cmd) {
	if m.cursor < 0 || m.cursor >= len(m.list.Entries) {
		return m, nil
	}
	entry := m.list.Entries[m.cursor]

	m.screen = screenDetail
	m.detailName = strings.ToLower(entry.DisplayName)
	m.detail = domain.Loading[domain.DetailRecord](nil)
	m.accent = nil
	m.viewport.GotoTop()
	m.renderDetailContent()

	return m, LoadDetailCmd(m.opts.Detail, m.detailName, m.opts.RequestTimeout)
}

func (m Model) accentCmd() tea.Cmd {
	if !m.opts.AccentColors || m.opts.Images == nil {
		return nil
	}
	return domain.MatchResult(m.detail,
		func(*domain.DetailRecord) tea.Cmd { return nil },
		func(record domain.DetailRecord) tea.Cmd {
			if record.ImageRef() == "" {
				return nil
			}
			return LoadAccentCmd(m.opts.Images, m.detailName, record.ImageRef(), m.opts.RequestTimeout)
		},
		func(string, *domain.DetailRecord) tea.Cmd { return nil },
	)
}

// renderDetailContent fills the viewport; only a loaded record has content
func (m *Model) renderDetailContent() {
	m.viewport.SetContent(domain.MatchResult(m.detail,
		func(*domain.DetailRecord) string { return "" },
		func(record domain.DetailRecord) string {
			return styles.DetailStyle.Render(components.RenderDetail(record, m.accent, m.width-4))
		},
		func(string, *domain.DetailRecord) string { return "" },
	))
}

// refreshSearchDecorations recomputes match highlights and suggestions
func (m *Model) refreshSearchDecorations() {
	m.highlights = nil
	m.suggestions = nil
	if !m.list.IsSearching || strings.TrimSpace(m.query) == "" {
		return
	}

	m.highlights = search.Highlights(m.list.Entries, m.query)
	if len(m.list.Entries) == 0 {
		m.suggestions = search.Suggest(m.opts.List.SearchSnapshot(), m.query, maxSuggestions)
	}
}

func (m Model) visibleRows() int {
	return max(m.height-ListChromeHeight, 1)
}

func (m *Model) clampCursor() {
	n := len(m.list.Entries)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if m.offset > max(n-rows, 0) {
		m.offset = max(n-rows, 0)
	}
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
	m.maybeLoadMore()
}

// maybeLoadMore requests the next page once the last row is on screen.
// The coordinator publishes the outcome through the subscription.
func (m *Model) maybeLoadMore() {
	n := len(m.list.Entries)
	if !m.ready || n == 0 || m.pendingLoad || m.list.ErrorMessage != "" {
		return
	}

	lastVisible := min(m.offset+m.visibleRows(), n) - 1
	if service.ShouldLoadMore(m.list, lastVisible, n) {
		m.pendingLoad = true
		m.opts.List.LoadNextPage()
	}
}
