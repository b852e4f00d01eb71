package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/dex/internal/domain"
)

// IndexRepository turns gateway calls into Results. Every failure,
// including a panic inside the gateway, becomes Error(UnknownErrorMessage).
type IndexRepository struct {
	gateway domain.IndexGateway
	logger  *slog.Logger
}

var _ domain.IndexRepository = (*IndexRepository)(nil)

// New creates a repository over the given gateway
func New(gateway domain.IndexGateway, logger *slog.Logger) *IndexRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexRepository{gateway: gateway, logger: logger}
}

// FetchIndexPage requests one page of the listing
func (r *IndexRepository) FetchIndexPage(ctx context.Context, limit, offset int) (res domain.Result[domain.PageResult]) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("index page fetch panicked", "panic", fmt.Sprint(p), "offset", offset)
			res = domain.Error[domain.PageResult](domain.UnknownErrorMessage, nil)
		}
	}()

	page, err := r.gateway.GetIndexPage(ctx, limit, offset)
	if err != nil || page == nil {
		r.logger.Warn("index page fetch failed", "error", err, "limit", limit, "offset", offset)
		return domain.Error[domain.PageResult](domain.UnknownErrorMessage, nil)
	}
	return domain.Success(*page)
}

// FetchDetail requests one detail record
func (r *IndexRepository) FetchDetail(ctx context.Context, name string) (res domain.Result[domain.DetailRecord]) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("detail fetch panicked", "panic", fmt.Sprint(p), "name", name)
			res = domain.Error[domain.DetailRecord](domain.UnknownErrorMessage, nil)
		}
	}()

	record, err := r.gateway.GetDetail(ctx, name)
	if err != nil || record == nil {
		r.logger.Warn("detail fetch failed", "error", err, "name", name)
		return domain.Error[domain.DetailRecord](domain.UnknownErrorMessage, nil)
	}
	return domain.Success(*record)
}
