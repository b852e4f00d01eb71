package library

import (
	"context"
	"log/slog"

	"github.com/mmcdole/dex/internal/domain"
)

// Service is a read-through cache in front of an index gateway.
// It implements domain.IndexGateway so callers cannot tell it apart
// from the remote client.
type Service struct {
	client domain.IndexGateway
	store  domain.Store
	logger *slog.Logger
}

var _ domain.IndexGateway = (*Service)(nil)

// NewService creates a new caching library service.
func NewService(client domain.IndexGateway, store domain.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, store: store, logger: logger}
}

func (s *Service) GetIndexPage(ctx context.Context, limit, offset int) (*domain.PageResult, error) {
	if page, ok := s.store.GetPage(limit, offset); ok {
		s.logger.Debug("page cache hit", "limit", limit, "offset", offset)
		return page, nil
	}

	page, err := s.client.GetIndexPage(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to fetch page", "error", err, "limit", limit, "offset", offset)
		return nil, err
	}
	if err := s.store.SavePage(limit, offset, page); err != nil {
		s.logger.Error("failed to save page", "error", err, "offset", offset)
	}
	s.logger.Debug("fetched page", "count", len(page.Entries), "offset", offset)
	return page, nil
}

func (s *Service) GetDetail(ctx context.Context, name string) (*domain.DetailRecord, error) {
	if record, ok := s.store.GetDetail(name); ok {
		if record.ID != 0 {
			s.logger.Debug("detail cache hit", "name", name)
			return record, nil
		}
		// A record without an id cannot have come from the API
		s.logger.Warn("dropping invalid cached detail", "name", name)
		s.store.InvalidateDetail(name)
	}

	record, err := s.client.GetDetail(ctx, name)
	if err != nil {
		s.logger.Error("failed to fetch detail", "error", err, "name", name)
		return nil, err
	}
	if err := s.store.SaveDetail(name, record); err != nil {
		s.logger.Error("failed to save detail", "error", err, "name", name)
	}
	return record, nil
}

// Refresh drops cached pages so the next listing hits the network.
// Detail records are immutable upstream and are kept.
func (s *Service) Refresh() {
	s.store.InvalidatePages()
	s.logger.Info("page cache invalidated")
}

// Purge drops every cached page and detail record for this API host
func (s *Service) Purge() {
	s.store.InvalidateAll()
	s.logger.Info("cache purged")
}
