package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/dex/internal/domain"
)

func newInlineList(t *testing.T, repo domain.IndexRepository) *ListCoordinator {
	t.Helper()
	c := NewListCoordinator(context.Background(), repo, InlineScheduler{}, ListConfig{PageSize: 20}, nil)
	t.Cleanup(c.Close)
	return c
}

func displayNames(es []domain.DisplayEntry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.DisplayName
	}
	return out
}

func TestListCoordinator_LoadsFirstPageOnConstruction(t *testing.T) {
	repo := newFakeRepo(100)
	c := newInlineList(t, repo)

	s := c.State()
	assert.Len(t, s.Entries, 20)
	assert.False(t, s.IsLoading)
	assert.Empty(t, s.ErrorMessage)
	assert.Equal(t, 1, c.Cursor())
	assert.Equal(t, []int{0}, repo.offsets())

	first := s.Entries[0]
	assert.Equal(t, "Mon1", first.DisplayName)
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/1.png", first.ImageURL)
}

func TestListCoordinator_PaginationIsMonotonic(t *testing.T) {
	repo := newFakeRepo(100)
	c := newInlineList(t, repo)

	prevLen := len(c.State().Entries)
	for i := 2; i <= 5; i++ {
		c.LoadNextPage()
		s := c.State()
		assert.Greater(t, len(s.Entries), prevLen)
		assert.Equal(t, i, c.Cursor())
		prevLen = len(s.Entries)
	}

	assert.Equal(t, []int{0, 20, 40, 60, 80}, repo.offsets())
	assert.Equal(t, "Mon100", c.State().Entries[99].DisplayName)
}

func TestListCoordinator_EndReachedUsesPreIncrementCursor(t *testing.T) {
	repo := newFakeRepo(40)
	c := newInlineList(t, repo)

	// cursor=0 at check: 0 >= 40
	assert.False(t, c.State().EndReached)

	// cursor=1 at check: 20 >= 40
	c.LoadNextPage()
	assert.False(t, c.State().EndReached)
	assert.Len(t, c.State().Entries, 40)

	// cursor=2 at check: 40 >= 40
	c.LoadNextPage()
	assert.True(t, c.State().EndReached)
	assert.Len(t, c.State().Entries, 40, "empty trailing page appends nothing")
	assert.Equal(t, 3, c.Cursor())
}

func TestListCoordinator_ErrorThenRetry(t *testing.T) {
	repo := newFakeRepo(100)
	c := newInlineList(t, repo)
	before := c.State().Entries

	repo.mu.Lock()
	repo.failNext = 1
	repo.mu.Unlock()

	c.LoadNextPage()
	s := c.State()
	assert.Equal(t, "An unknown error occurred.", s.ErrorMessage)
	assert.False(t, s.IsLoading)
	assert.Equal(t, before, s.Entries)
	assert.Equal(t, 1, c.Cursor())

	c.LoadNextPage()
	s = c.State()
	assert.Empty(t, s.ErrorMessage)
	assert.Len(t, s.Entries, 40)
	assert.Equal(t, 2, c.Cursor())
	assert.Equal(t, []int{0, 20, 20}, repo.offsets(), "retry resumes from the same cursor")
}

func TestListCoordinator_FirstPageFailure(t *testing.T) {
	repo := newFakeRepo(100)
	repo.failNext = 1
	c := newInlineList(t, repo)

	s := c.State()
	assert.NotEmpty(t, s.ErrorMessage)
	assert.Empty(t, s.Entries)
	assert.Equal(t, 0, c.Cursor())
}

func TestListCoordinator_DuplicatesAreKept(t *testing.T) {
	repo := &namedRepo{entries: []domain.IndexEntry{
		{Name: "ditto", URL: "/pokemon/132/"},
		{Name: "ditto", URL: "/pokemon/132/"},
	}}
	c := newInlineList(t, repo)

	assert.Equal(t, []string{"Ditto", "Ditto"}, displayNames(c.State().Entries))
}

func searchRepo() *namedRepo {
	return &namedRepo{entries: []domain.IndexEntry{
		{Name: "bulbasaur", URL: "https://pokeapi.co/api/v2/pokemon/1/"},
		{Name: "pikachu", URL: "https://pokeapi.co/api/v2/pokemon/25/"},
		{Name: "raichu", URL: "https://pokeapi.co/api/v2/pokemon/26/"},
		{Name: "nidoran-m", URL: "https://pokeapi.co/api/v2/pokemon/32"},
	}}
}

func TestListCoordinator_SearchCaseInsensitiveTrimmed(t *testing.T) {
	c := newInlineList(t, searchRepo())

	c.Search(" PIKA ")
	s := c.State()
	assert.True(t, s.IsSearching)
	assert.Equal(t, []string{"Pikachu"}, displayNames(s.Entries))
}

func TestListCoordinator_SearchNumberExact(t *testing.T) {
	c := newInlineList(t, searchRepo())

	c.Search("25")
	assert.Equal(t, []string{"Pikachu"}, displayNames(c.State().Entries))

	c.Search("2")
	assert.Empty(t, c.State().Entries)
	assert.True(t, c.State().IsSearching)
}

func TestListCoordinator_SearchClearRestoresSnapshot(t *testing.T) {
	c := newInlineList(t, searchRepo())
	original := c.State().Entries

	c.Search("chu")
	assert.Equal(t, []string{"Pikachu", "Raichu"}, displayNames(c.State().Entries))
	assert.Equal(t, original, c.SearchSnapshot())

	// Refining filters the snapshot, not the previous results
	c.Search("bulb")
	assert.Equal(t, []string{"Bulbasaur"}, displayNames(c.State().Entries))

	c.Search("")
	s := c.State()
	assert.False(t, s.IsSearching)
	assert.Equal(t, original, s.Entries)
	assert.Nil(t, c.SearchSnapshot())

	// A second search cycle snapshots afresh
	c.Search("nido")
	assert.Equal(t, []string{"Nidoran-m"}, displayNames(c.State().Entries))
	c.Search("")
	assert.Equal(t, original, c.State().Entries)
}

func TestListCoordinator_EmptySearchWithoutSnapshotKeepsEntries(t *testing.T) {
	c := newInlineList(t, searchRepo())
	original := c.State().Entries

	c.Search("")
	s := c.State()
	assert.Equal(t, original, s.Entries)
	assert.False(t, s.IsSearching)
}

func TestListCoordinator_SearchSourceChosenAtCallTime(t *testing.T) {
	repo := newFakeRepo(100)
	sched := &queueScheduler{}
	c := NewListCoordinator(context.Background(), repo, sched, ListConfig{PageSize: 20}, nil)
	t.Cleanup(c.Close)
	sched.runAll()
	require.Len(t, c.State().Entries, 20)

	// Source is captured now (20 entries); a later page load does not widen it
	c.Search("mon3")
	c.LoadNextPage()
	sched.runLast() // page load runs first
	sched.runAll()  // then the search

	s := c.State()
	assert.Equal(t, []string{"Mon3"}, displayNames(s.Entries))
	assert.Len(t, c.SearchSnapshot(), 40, "snapshot is taken when the search task runs")
}

func TestListCoordinator_ConcurrentLoadAndSearch(t *testing.T) {
	repo := newFakeRepo(100)
	sched := NewTaskScheduler()
	c := NewListCoordinator(context.Background(), repo, sched, ListConfig{PageSize: 20}, nil)
	t.Cleanup(c.Close)
	sched.Wait()

	repo.mu.Lock()
	repo.gate = make(chan struct{})
	gate := repo.gate
	repo.mu.Unlock()

	c.LoadNextPage()
	c.Search("mon1")
	close(gate)
	sched.Wait()

	s := c.State()
	assert.False(t, s.IsLoading)
	assert.True(t, s.IsSearching)
	assert.Equal(t, 2, c.Cursor())
	for _, e := range s.Entries {
		assert.NotEmpty(t, e.DisplayName)
	}
}

func TestListCoordinator_SubscribeReceivesUpdates(t *testing.T) {
	repo := newFakeRepo(100)
	sched := NewTaskScheduler()
	c := NewListCoordinator(context.Background(), repo, sched, ListConfig{PageSize: 20}, nil)
	t.Cleanup(c.Close)
	sched.Wait()

	ch, cancel := c.Subscribe()
	defer cancel()

	c.LoadNextPage()
	sched.Wait()

	select {
	case s := <-ch:
		assert.Len(t, s.Entries, 40)
	case <-time.After(time.Second):
		t.Fatal("no state published")
	}
}

func TestListCoordinator_CloseCancelsRequests(t *testing.T) {
	var gotErr error
	repo := repoFunc(func(ctx context.Context) domain.Result[domain.PageResult] {
		gotErr = ctx.Err()
		return domain.Error[domain.PageResult]("", nil)
	})

	sched := &queueScheduler{}
	c := NewListCoordinator(context.Background(), repo, sched, ListConfig{PageSize: 20}, nil)
	c.Close()
	sched.runAll()

	assert.ErrorIs(t, gotErr, context.Canceled)
	assert.NotEmpty(t, c.State().ErrorMessage)
}

func TestShouldLoadMore(t *testing.T) {
	assert.True(t, ShouldLoadMore(ListState{}, 19, 20))
	assert.False(t, ShouldLoadMore(ListState{}, 10, 20))
	assert.False(t, ShouldLoadMore(ListState{IsLoading: true}, 19, 20))
	assert.False(t, ShouldLoadMore(ListState{EndReached: true}, 19, 20))
	assert.False(t, ShouldLoadMore(ListState{IsSearching: true}, 19, 20))
}

func TestListAll(t *testing.T) {
	repo := newFakeRepo(45)
	var progress []int

	entries, msg := ListAll(context.Background(), repo, ListConfig{PageSize: 20}, func(loaded, total int) {
		progress = append(progress, loaded)
	})

	assert.Empty(t, msg)
	assert.Len(t, entries, 45)
	assert.Equal(t, []int{20, 40, 45}, progress)
}

func TestListAll_StopsOnError(t *testing.T) {
	repo := newFakeRepo(45)
	repo.failNext = 1

	entries, msg := ListAll(context.Background(), repo, ListConfig{PageSize: 20}, nil)
	assert.Nil(t, entries)
	assert.Equal(t, "An unknown error occurred.", msg)
}

func TestDetailCoordinator_PassesThrough(t *testing.T) {
	repo := newFakeRepo(0)
	repo.detail = domain.Success(domain.DetailRecord{ID: 25, Name: "pikachu"})
	d := NewDetailCoordinator(repo, nil)

	res := d.GetDetail(context.Background(), "pikachu")
	got, ok := res.Payload()
	require.True(t, ok)
	assert.Equal(t, 25, got.ID)

	repo.detail = domain.Error[domain.DetailRecord]("", nil)
	res = d.GetDetail(context.Background(), "pikachu")
	assert.Equal(t, domain.KindError, res.Kind())
	assert.Equal(t, []string{"pikachu", "pikachu"}, repo.detailReqs, "no caching between calls")
}

// queueScheduler holds tasks until the test runs them
type queueScheduler struct {
	tasks []func()
}

func (q *queueScheduler) Submit(task func()) {
	q.tasks = append(q.tasks, task)
}

func (q *queueScheduler) runAll() {
	for len(q.tasks) > 0 {
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		task()
	}
}

func (q *queueScheduler) runLast() {
	n := len(q.tasks)
	task := q.tasks[n-1]
	q.tasks = q.tasks[:n-1]
	task()
}

type repoFunc func(ctx context.Context) domain.Result[domain.PageResult]

func (f repoFunc) FetchIndexPage(ctx context.Context, limit, offset int) domain.Result[domain.PageResult] {
	return f(ctx)
}

func (f repoFunc) FetchDetail(ctx context.Context, name string) domain.Result[domain.DetailRecord] {
	return domain.Error[domain.DetailRecord]("", nil)
}
