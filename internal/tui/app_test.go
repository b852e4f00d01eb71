package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/dex/internal/domain"
	"github.com/mmcdole/dex/internal/service"
)

// stubRepo serves numbered entries named mon001, mon002, ...
type stubRepo struct {
	mu         sync.Mutex
	total      int
	pageCalls  int
	failPages  bool
	failDetail bool
	details    []string
}

func (r *stubRepo) FetchIndexPage(_ context.Context, limit, offset int) domain.Result[domain.PageResult] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pageCalls++
	if r.failPages {
		return domain.Error[domain.PageResult](domain.UnknownErrorMessage, nil)
	}

	var entries []domain.IndexEntry
	for i := offset; i < min(offset+limit, r.total); i++ {
		entries = append(entries, domain.IndexEntry{
			Name: fmt.Sprintf("mon%03d", i+1),
			URL:  fmt.Sprintf("https://pokeapi.co/api/v2/pokemon/%d/", i+1),
		})
	}
	return domain.Success(domain.PageResult{TotalCount: r.total, Entries: entries})
}

func (r *stubRepo) FetchDetail(_ context.Context, name string) domain.Result[domain.DetailRecord] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.details = append(r.details, name)
	if r.failDetail {
		return domain.Error[domain.DetailRecord](domain.UnknownErrorMessage, nil)
	}
	return domain.Success(domain.DetailRecord{
		ID:     1,
		Name:   name,
		Height: 7,
		Weight: 69,
		Types:  []domain.TypeSlot{{Slot: 1, Name: "grass"}},
		Stats:  []domain.BaseStat{{Name: "hp", Value: 45}},
	})
}

func (r *stubRepo) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pageCalls
}

func newTestModel(t *testing.T, repo *stubRepo) (Model, *service.ListCoordinator) {
	t.Helper()
	list := service.NewListCoordinator(
		context.Background(),
		repo,
		service.InlineScheduler{},
		service.ListConfig{PageSize: 20},
		nil,
	)
	t.Cleanup(list.Close)

	m := NewModel(Options{
		List:   list,
		Detail: service.NewDetailCoordinator(repo, nil),
	})
	t.Cleanup(m.Close)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	return updated.(Model), list
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

// deliver hands over the coordinator's current state the way the subscription would
func deliver(t *testing.T, m Model, list *service.ListCoordinator) Model {
	t.Helper()
	m, _ = press(t, m, ListStateMsg{State: list.State()})
	return m
}

func TestModel_FirstPageRendered(t *testing.T) {
	repo := &stubRepo{total: 100}
	m, _ := newTestModel(t, repo)

	assert.Len(t, m.list.Entries, 20)
	assert.Equal(t, 1, repo.calls(), "first page fits on screen without loading more")

	view := m.View()
	assert.Contains(t, view, "Mon001")
	assert.Contains(t, view, "#001")
	assert.NotContains(t, view, "Mon020", "rows past the viewport are not rendered")
}

func TestModel_ScrollToEndLoadsNextPage(t *testing.T) {
	repo := &stubRepo{total: 100}
	m, list := newTestModel(t, repo)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 19, m.cursor)
	assert.Equal(t, 2, repo.calls())
	assert.True(t, m.pendingLoad)

	// No duplicate request until the coordinator reports back
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, repo.calls())

	m = deliver(t, m, list)
	assert.False(t, m.pendingLoad)
	assert.Len(t, m.list.Entries, 40)
	assert.Equal(t, 19, m.cursor)
}

func TestModel_CursorNavigation(t *testing.T) {
	repo := &stubRepo{total: 100}
	m, _ := newTestModel(t, repo)

	m, _ = press(t, m, runes("j"))
	m, _ = press(t, m, runes("j"))
	assert.Equal(t, 2, m.cursor)

	m, _ = press(t, m, runes("k"))
	assert.Equal(t, 1, m.cursor)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, 0, m.offset)

	m, _ = press(t, m, runes("k"))
	assert.Equal(t, 0, m.cursor, "cursor clamps at the top")
}

func TestModel_SearchAndClear(t *testing.T) {
	repo := &stubRepo{total: 20}
	m, list := newTestModel(t, repo)

	m, cmd := press(t, m, runes("/"))
	assert.NotNil(t, cmd)
	require.True(t, m.input.Focused())

	for _, r := range "mon01" {
		m, _ = press(t, m, runes(string(r)))
	}
	assert.Equal(t, "mon01", m.query)

	m = deliver(t, m, list)
	assert.True(t, m.list.IsSearching)
	require.Len(t, m.list.Entries, 10, "mon010 through mon019")
	assert.NotEmpty(t, m.highlights[0])
	assert.Contains(t, m.View(), "10 matches")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.input.Focused())
	assert.Empty(t, m.query)

	m = deliver(t, m, list)
	assert.False(t, m.list.IsSearching)
	assert.Len(t, m.list.Entries, 20)
	assert.Nil(t, m.highlights)
}

func TestModel_SearchSuggestions(t *testing.T) {
	repo := &stubRepo{total: 20}
	m, list := newTestModel(t, repo)

	m, _ = press(t, m, runes("/"))
	for _, r := range "mom001" {
		m, _ = press(t, m, runes(string(r)))
	}
	m = deliver(t, m, list)

	assert.Empty(t, m.list.Entries)
	require.NotEmpty(t, m.suggestions)
	assert.Equal(t, "Mon001", m.suggestions[0].DisplayName)
	assert.Contains(t, m.View(), "Did you mean")
}

func TestModel_RetryAfterPageError(t *testing.T) {
	repo := &stubRepo{total: 100, failPages: true}
	m, list := newTestModel(t, repo)

	assert.Equal(t, domain.UnknownErrorMessage, m.list.ErrorMessage)
	assert.Contains(t, m.View(), domain.UnknownErrorMessage)

	repo.mu.Lock()
	repo.failPages = false
	repo.mu.Unlock()

	m, _ = press(t, m, runes("r"))
	assert.Equal(t, 2, repo.calls())

	m = deliver(t, m, list)
	assert.Empty(t, m.list.ErrorMessage)
	assert.Len(t, m.list.Entries, 20)
}

func TestModel_OpenDetail(t *testing.T) {
	repo := &stubRepo{total: 100}
	m, _ := newTestModel(t, repo)

	m, _ = press(t, m, runes("j"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, screenDetail, m.screen)
	assert.Equal(t, "mon002", m.detailName)
	assert.Equal(t, domain.KindLoading, m.detail.Kind())

	msg := cmd()
	loaded, ok := msg.(DetailLoadedMsg)
	require.True(t, ok)
	assert.Equal(t, "mon002", loaded.Name)

	m, accent := press(t, m, loaded)
	assert.Nil(t, accent, "accent colors are off")
	assert.Equal(t, domain.KindSuccess, m.detail.Kind())
	assert.Contains(t, m.View(), "Mon002")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, screenList, m.screen)
	assert.Equal(t, 1, m.cursor, "list position survives the detail screen")
}

func TestModel_StaleDetailIgnored(t *testing.T) {
	repo := &stubRepo{total: 100}
	m, _ := newTestModel(t, repo)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(t, m, DetailLoadedMsg{
		Name:   "someone-else",
		Result: domain.Success(domain.DetailRecord{Name: "someone-else"}),
	})
	assert.Equal(t, domain.KindLoading, m.detail.Kind())
}

func TestModel_DetailErrorRetry(t *testing.T) {
	repo := &stubRepo{total: 100, failDetail: true}
	m, _ := newTestModel(t, repo)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(t, m, cmd())
	assert.Equal(t, domain.KindError, m.detail.Kind())
	assert.Contains(t, m.View(), domain.UnknownErrorMessage)

	repo.mu.Lock()
	repo.failDetail = false
	repo.mu.Unlock()

	m, cmd = press(t, m, runes("r"))
	require.NotNil(t, cmd)
	assert.Equal(t, domain.KindLoading, m.detail.Kind())

	m, _ = press(t, m, cmd())
	assert.Equal(t, domain.KindSuccess, m.detail.Kind())
	assert.Len(t, repo.details, 2)
}

func TestModel_DetailRendersEachResultState(t *testing.T) {
	repo := &stubRepo{total: 100}
	m, _ := newTestModel(t, repo)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	view := m.View()
	assert.Contains(t, view, "Loading...")
	assert.NotContains(t, view, "Height")

	loaded, ok := cmd().(DetailLoadedMsg)
	require.True(t, ok)
	record, ok := loaded.Result.Payload()
	require.True(t, ok)

	m, _ = press(t, m, loaded)
	view = m.View()
	assert.Contains(t, view, "Height 0.7 m")
	assert.NotContains(t, view, "Loading...")
	assert.NotContains(t, view, domain.UnknownErrorMessage)

	// A refresh carrying the previous record still shows the spinner
	m, _ = press(t, m, DetailLoadedMsg{Name: m.detailName, Result: domain.Loading(&record)})
	view = m.View()
	assert.Contains(t, view, "Loading...")
	assert.NotContains(t, view, "Height")
	assert.Contains(t, view, "Mon001", "header keeps the carried record's name")

	m, _ = press(t, m, DetailLoadedMsg{
		Name:   m.detailName,
		Result: domain.Error(domain.UnknownErrorMessage, &record),
	})
	view = m.View()
	assert.Contains(t, view, domain.UnknownErrorMessage)
	assert.Contains(t, view, "retry")
	assert.NotContains(t, view, "Height")
	assert.NotContains(t, view, "Loading...")
}

func TestModel_HelpOverlay(t *testing.T) {
	repo := &stubRepo{total: 100}
	m, _ := newTestModel(t, repo)

	m, _ = press(t, m, runes("?"))
	require.True(t, m.showHelp)
	assert.True(t, strings.Contains(m.View(), "retry"))

	m, _ = press(t, m, runes("x"))
	assert.False(t, m.showHelp)
}

func TestModel_Quit(t *testing.T) {
	repo := &stubRepo{total: 100}
	m, _ := newTestModel(t, repo)

	_, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
