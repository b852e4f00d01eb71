package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/mmcdole/dex/internal/domain"
)

// fakeRepo serves a fixed catalogue of totalCount entries, optionally
// failing the next N page requests.
type fakeRepo struct {
	mu         sync.Mutex
	totalCount int
	failNext   int
	calls      []int // offsets requested
	gate       chan struct{}
	detail     domain.Result[domain.DetailRecord]
	detailReqs []string
}

func newFakeRepo(total int) *fakeRepo {
	return &fakeRepo{totalCount: total}
}

func (r *fakeRepo) FetchIndexPage(ctx context.Context, limit, offset int) domain.Result[domain.PageResult] {
	r.mu.Lock()
	gate := r.gate
	r.mu.Unlock()
	if gate != nil {
		<-gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, offset)

	if r.failNext > 0 {
		r.failNext--
		return domain.Error[domain.PageResult](domain.UnknownErrorMessage, nil)
	}

	var entries []domain.IndexEntry
	for n := offset + 1; n <= offset+limit && n <= r.totalCount; n++ {
		entries = append(entries, domain.IndexEntry{
			Name: fmt.Sprintf("mon%d", n),
			URL:  fmt.Sprintf("https://pokeapi.co/api/v2/pokemon/%d/", n),
		})
	}
	return domain.Success(domain.PageResult{TotalCount: r.totalCount, Entries: entries})
}

func (r *fakeRepo) FetchDetail(ctx context.Context, name string) domain.Result[domain.DetailRecord] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detailReqs = append(r.detailReqs, name)
	return r.detail
}

func (r *fakeRepo) offsets() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.calls...)
}

// namedRepo serves one page with the given names and numbers
type namedRepo struct {
	entries []domain.IndexEntry
}

func (r *namedRepo) FetchIndexPage(ctx context.Context, limit, offset int) domain.Result[domain.PageResult] {
	if offset > 0 {
		return domain.Success(domain.PageResult{TotalCount: len(r.entries)})
	}
	return domain.Success(domain.PageResult{TotalCount: len(r.entries), Entries: r.entries})
}

func (r *namedRepo) FetchDetail(ctx context.Context, name string) domain.Result[domain.DetailRecord] {
	return domain.Error[domain.DetailRecord]("", nil)
}
