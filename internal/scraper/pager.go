package scraper

import (
	"context"
	"fmt"
)

// collectPages loads page first, then every remaining page the first response
// announced, and concatenates the items in page order. fetch returns the items
// of one page and the total number of pages. Any failed page aborts the whole
// collection.
func collectPages[T any](ctx context.Context, first int, fetch func(ctx context.Context, page int) ([]T, int, error)) ([]T, error) {
	items, pages, err := fetch(ctx, first)
	if err != nil {
		return nil, err
	}

	for page := first + 1; page < first+pages; page++ {
		next, _, err := fetch(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		items = append(items, next...)
	}

	return items, nil
}

// pageCount converts a total item count into a number of pages of size perPage.
func pageCount(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
