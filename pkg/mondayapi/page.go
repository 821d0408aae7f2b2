package mondayapi

import (
	"context"
	"fmt"
)

// maxPageFetches bounds every pagination run. The cursor is an opaque
// upstream token; a server that keeps handing out cursors forever must not
// turn into an infinite loop here.
const maxPageFetches = 1000

// Page is one upstream page of normalized entities. An empty Cursor means
// end of data. Warnings records entities that were dropped because they
// could not be normalized.
type Page[T any] struct {
	Items    []T
	Cursor   string
	Warnings []string
}

// PageFunc fetches a single page. cursor is empty for the first page and
// otherwise the token returned by the previous page. pageSize is the most
// entities the page may carry; it never exceeds what the caller still needs.
type PageFunc[T any] func(ctx context.Context, cursor string, pageSize int) (Page[T], error)

// CollectPages walks cursor pagination until limit entities are collected,
// the upstream reports end of data, or a fetch fails. A fetch failure
// propagates; partially accumulated pages are discarded, never returned as
// success. When the caller passes no limit (limit <= 0) defaultLimit
// applies; an explicit limit is honored exactly, never clamped.
func CollectPages[T any](ctx context.Context, fetch PageFunc[T], limit, defaultLimit, pageSize int) ([]T, []string, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit <= 0 {
		return nil, nil, fmt.Errorf("pagination requires a positive limit")
	}

	out := make([]T, 0, min(limit, pageSize))
	var warnings []string
	cursor := ""

	for fetches := 0; fetches < maxPageFetches; fetches++ {
		remaining := limit - len(out)
		if remaining <= 0 {
			return out, warnings, nil
		}
		size := pageSize
		if size > remaining {
			size = remaining
		}

		page, err := fetch(ctx, cursor, size)
		if err != nil {
			return nil, nil, err
		}
		warnings = append(warnings, page.Warnings...)
		out = append(out, page.Items...)
		if len(out) > limit {
			out = out[:limit]
		}

		if page.Cursor == "" {
			return out, warnings, nil
		}
		cursor = page.Cursor
	}

	warnings = append(warnings, fmt.Sprintf("pagination stopped after %d pages: upstream kept returning cursors", maxPageFetches))
	return out, warnings, nil
}
