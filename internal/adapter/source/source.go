package source

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/mmcdole/dex/internal/adapter"
	"github.com/mmcdole/dex/internal/adapter/source/pokeapi"
	"github.com/mmcdole/dex/internal/domain"
	"github.com/mmcdole/dex/internal/library"
	"github.com/mmcdole/dex/internal/store"
)

// Source bundles everything the presentation core reads from the network.
type Source struct {
	Gateway domain.IndexGateway // Possibly wrapped by the response cache
	Images  domain.ImageFetcher

	cache *library.Service
	store *store.CacheStore
}

// NewClient creates the index source from the application config.
// When caching is enabled the gateway reads through a bolt-backed store.
func NewClient(cfg *adapter.Config, logger *slog.Logger) (*Source, error) {
	if cfg == nil {
		return nil, fmt.Errorf("source config is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := pokeapi.NewClient(cfg.API.URL, logger, pokeapi.WithTimeout(cfg.API.Timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	src := &Source{Gateway: client, Images: client}
	if !cfg.Cache.Enabled {
		return src, nil
	}

	cacheStore, err := store.NewCacheStore(cfg.Cache.Dir, cfg.API.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	src.store = cacheStore
	src.cache = library.NewService(client, cacheStore, logger)
	src.Gateway = src.cache

	logger.Info("response cache enabled", "dir", cfg.Cache.Dir)
	return src, nil
}

// Refresh drops cached index pages so the next load hits the network.
// It is a no-op without a cache.
func (s *Source) Refresh() {
	if s.cache != nil {
		s.cache.Refresh()
	}
}

// Purge empties the cache for the configured API host.
// It is a no-op without a cache.
func (s *Source) Purge() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

// Close releases the cache, if any
func (s *Source) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

var _ io.Closer = (*Source)(nil)
