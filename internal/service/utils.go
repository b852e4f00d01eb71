package service

import (
	"context"

	"github.com/mmcdole/dex/internal/domain"
)

const defaultPageSize = 20

// fetchAll walks every page of a paginated source.
func fetchAll[T any](
	ctx context.Context,
	fetch func(ctx context.Context, offset, limit int) ([]T, int, error),
	pageSize int,
	onProgress domain.ProgressFunc,
) ([]T, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var all []T
	offset := 0

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		items, total, err := fetch(ctx, offset, pageSize)
		if err != nil {
			return nil, err
		}

		all = append(all, items...)

		if onProgress != nil {
			onProgress(len(all), total)
		}

		if len(all) >= total || len(items) == 0 {
			break
		}
		offset += pageSize
	}

	return all, nil
}
