package catalogcache

import (
	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/store"
)

// pageRequest is a validated page number and clamped page size.
type pageRequest struct {
	page int
	size int
}

func (p pageRequest) offset() int {
	return (p.page - 1) * p.size
}

// newPageRequest rejects non positive values and clamps size to maxSize.
func newPageRequest(page, size, maxSize int) (pageRequest, error) {
	if page <= 0 {
		return pageRequest{}, catalog.InvalidArgument("page", "must be a positive integer")
	}
	if size <= 0 {
		return pageRequest{}, catalog.InvalidArgument("page_size", "must be a positive integer")
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	return pageRequest{page: page, size: size}, nil
}

// newPage wraps one page of items. A page past the end has no items but
// still reports the real totals.
func newPage[T any](items []T, total int, p pageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		TotalCount:  total,
		TotalPages:  (total + p.size - 1) / p.size,
		CurrentPage: p.page,
		PageSize:    p.size,
		Items:       items,
	}
}

// resolveSort normalizes field to snake_case and checks it against allowed.
// An empty field selects fallback.
func resolveSort(field string, ascending bool, fallback string, allowed []string) (store.Sort, error) {
	if field == "" {
		return store.Sort{Field: fallback, Ascending: ascending}, nil
	}
	field = toSnake(field)
	if err := store.CheckSort(field, allowed); err != nil {
		return store.Sort{}, err
	}
	return store.Sort{Field: field, Ascending: ascending}, nil
}
