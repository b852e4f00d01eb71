package domain

import (
	"context"
)

// IndexGateway is the remote creature-index API.
// Implemented by the pokeapi client and by the caching library service.
type IndexGateway interface {
	// GetIndexPage returns one page of the listing
	GetIndexPage(ctx context.Context, limit, offset int) (*PageResult, error)

	// GetDetail returns the full record for a name or numeric id
	GetDetail(ctx context.Context, name string) (*DetailRecord, error)
}

// ImageFetcher downloads raw artwork bytes
type ImageFetcher interface {
	FetchImage(ctx context.Context, imageURL string) ([]byte, error)
}

// IndexRepository maps gateway outcomes into Results.
// Transport failures never cross this boundary as errors.
type IndexRepository interface {
	FetchIndexPage(ctx context.Context, limit, offset int) Result[PageResult]
	FetchDetail(ctx context.Context, name string) Result[DetailRecord]
}
