package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/dex/internal/domain"
	"github.com/mmcdole/dex/internal/search"
	"github.com/mmcdole/dex/internal/state"
)

const defaultRequestTimeout = 30 * time.Second

var errPageIncomplete = errors.New("page did not load")

// ListState is the observable view of the list coordinator.
// Each published value is a whole replacement.
type ListState struct {
	Entries      []domain.DisplayEntry
	IsLoading    bool
	EndReached   bool
	ErrorMessage string // Empty means no error
	IsSearching  bool
}

// ListConfig holds the list coordinator's tunables
type ListConfig struct {
	PageSize       int
	AssetURL       string // Template with a {number} placeholder
	RequestTimeout time.Duration
}

// ListCoordinator owns pagination and search over the index listing.
//
// LoadNextPage and Search are submitted to the scheduler as independent
// tasks. There is no lock across a whole operation: if a page load and a
// search overlap, whichever writes Entries last wins. Callers must not
// call LoadNextPage while IsLoading, EndReached or IsSearching is set.
type ListCoordinator struct {
	repo      domain.IndexRepository
	scheduler Scheduler
	cfg       ListConfig
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu                sync.Mutex // Protects the fields below
	cursor            int
	cachedEntries     []domain.DisplayEntry
	searchJustStarted bool

	state *state.Observable[ListState]
}

// NewListCoordinator creates the coordinator and immediately requests the first page
func NewListCoordinator(
	ctx context.Context,
	repo domain.IndexRepository,
	scheduler Scheduler,
	cfg ListConfig,
	logger *slog.Logger,
) *ListCoordinator {
	if logger == nil {
		logger = slog.Default()
	}
	if scheduler == nil {
		scheduler = NewTaskScheduler()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	ctx, cancel := context.WithCancel(ctx)
	c := &ListCoordinator{
		repo:              repo,
		scheduler:         scheduler,
		cfg:               cfg,
		logger:            logger,
		ctx:               ctx,
		cancel:            cancel,
		searchJustStarted: true,
		state:             state.NewObservable(ListState{}),
	}

	c.LoadNextPage()
	return c
}

// State returns the current published state
func (c *ListCoordinator) State() ListState {
	return c.state.Get()
}

// Subscribe delivers each newly published state. Call cancel when done.
func (c *ListCoordinator) Subscribe() (<-chan ListState, func()) {
	return c.state.Subscribe()
}

// Cursor returns the zero-based index of the next page to load
func (c *ListCoordinator) Cursor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// Close abandons in-flight work. Tasks already running finish against a
// cancelled context and still publish their outcome.
func (c *ListCoordinator) Close() {
	c.cancel()
}

// LoadNextPage requests the page at the cursor and appends it on success.
// It does not check IsLoading, EndReached or IsSearching.
func (c *ListCoordinator) LoadNextPage() {
	c.scheduler.Submit(c.loadPage)
}

func (c *ListCoordinator) loadPage() {
	c.state.Update(func(s ListState) ListState {
		s.IsLoading = true
		return s
	})

	c.mu.Lock()
	offset := c.cursor * c.cfg.PageSize
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(c.ctx, c.cfg.RequestTimeout)
	defer cancel()

	result := c.repo.FetchIndexPage(ctx, c.cfg.PageSize, offset)

	result.Handle(
		func(*domain.PageResult) {
			// The repository never yields Loading; stay loading until a real outcome arrives
			c.logger.Warn("page fetch returned loading state", "offset", offset)
		},
		func(page domain.PageResult) {
			mapped := domain.ToDisplayEntries(page.Entries, c.cfg.AssetURL)

			c.mu.Lock()
			// Compared against the cursor before it advances
			endReached := c.cfg.PageSize*c.cursor >= page.TotalCount
			c.cursor++
			cursor := c.cursor
			c.mu.Unlock()

			c.state.Update(func(s ListState) ListState {
				entries := make([]domain.DisplayEntry, 0, len(s.Entries)+len(mapped))
				entries = append(entries, s.Entries...)
				entries = append(entries, mapped...)

				s.EndReached = endReached
				s.ErrorMessage = ""
				s.IsLoading = false
				s.Entries = entries
				return s
			})

			c.logger.Debug("page loaded",
				"offset", offset,
				"count", len(mapped),
				"total", page.TotalCount,
				"cursor", cursor,
				"endReached", endReached,
			)
		},
		func(message string, _ *domain.PageResult) {
			c.state.Update(func(s ListState) ListState {
				s.ErrorMessage = message
				s.IsLoading = false
				return s
			})
			c.logger.Warn("page load failed", "offset", offset, "message", message)
		},
	)
}

// Search filters the list by query on a separate task.
// An empty query restores the entries saved when the search began.
func (c *ListCoordinator) Search(query string) {
	c.mu.Lock()
	var source []domain.DisplayEntry
	if c.searchJustStarted {
		source = c.state.Get().Entries
	} else {
		source = c.cachedEntries
	}
	c.mu.Unlock()

	c.scheduler.Submit(func() {
		c.runSearch(query, source)
	})
}

func (c *ListCoordinator) runSearch(query string, source []domain.DisplayEntry) {
	if query == "" {
		c.mu.Lock()
		defer c.mu.Unlock()

		if c.searchJustStarted {
			// Deliberately skips assigning the (empty) snapshot: with no search
			// active that would blank the list instead of restoring it
			return
		}
		cached := c.cachedEntries
		c.searchJustStarted = true

		c.state.Update(func(s ListState) ListState {
			s.Entries = cached
			s.IsSearching = false
			return s
		})
		c.logger.Debug("search cleared", "restored", len(cached))
		return
	}

	results := search.Filter(source, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.searchJustStarted {
		c.cachedEntries = c.state.Get().Entries
		c.searchJustStarted = false
	}

	c.state.Update(func(s ListState) ListState {
		s.Entries = results
		s.IsSearching = true
		return s
	})
	c.logger.Debug("search applied", "query", query, "matches", len(results))
}

// SearchSnapshot returns the entries saved when the current search began,
// or nil when no search is active.
func (c *ListCoordinator) SearchSnapshot() []domain.DisplayEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.searchJustStarted {
		return nil
	}
	return c.cachedEntries
}

// ShouldLoadMore reports whether reaching row index of itemCount rows
// should request the next page.
func ShouldLoadMore(s ListState, index, itemCount int) bool {
	return index >= itemCount-1 && !s.EndReached && !s.IsLoading && !s.IsSearching
}

// ListAll walks the whole index through the repository, page by page.
// The first failed page aborts the walk and its message is returned.
func ListAll(
	ctx context.Context,
	repo domain.IndexRepository,
	cfg ListConfig,
	onProgress domain.ProgressFunc,
) ([]domain.DisplayEntry, string) {
	var failure string
	fetch := func(ctx context.Context, offset, limit int) ([]domain.DisplayEntry, int, error) {
		var (
			entries []domain.DisplayEntry
			total   int
			err     error
		)
		repo.FetchIndexPage(ctx, limit, offset).Handle(
			func(*domain.PageResult) {
				failure = domain.UnknownErrorMessage
				err = errPageIncomplete
			},
			func(page domain.PageResult) {
				entries = domain.ToDisplayEntries(page.Entries, cfg.AssetURL)
				total = page.TotalCount
			},
			func(message string, _ *domain.PageResult) {
				failure = message
				err = errPageIncomplete
			},
		)
		return entries, total, err
	}

	entries, err := fetchAll(ctx, fetch, cfg.PageSize, onProgress)
	if err != nil {
		if failure == "" {
			failure = domain.UnknownErrorMessage
		}
		return nil, failure
	}
	return entries, ""
}
