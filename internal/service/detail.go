package service

import (
	"context"
	"log/slog"

	"github.com/mmcdole/dex/internal/domain"
)

// DetailCoordinator fetches a single detail record per screen activation.
// No caching and no retry happen here.
type DetailCoordinator struct {
	repo   domain.IndexRepository
	logger *slog.Logger
}

// NewDetailCoordinator creates a detail coordinator
func NewDetailCoordinator(repo domain.IndexRepository, logger *slog.Logger) *DetailCoordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetailCoordinator{repo: repo, logger: logger}
}

// GetDetail passes straight through to the repository
func (d *DetailCoordinator) GetDetail(ctx context.Context, name string) domain.Result[domain.DetailRecord] {
	d.logger.Debug("fetching detail", "name", name)
	return d.repo.FetchDetail(ctx, name)
}
