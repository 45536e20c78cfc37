package catalogcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/store"
)

func TestNewPage_TotalPages(t *testing.T) {
	tests := []struct {
		total int
		size  int
		want  int
	}{
		{0, 5, 0},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{11, 5, 3},
	}

	for _, tt := range tests {
		p := newPage[int](nil, tt.total, pageRequest{page: 1, size: tt.size})
		assert.Equal(t, tt.want, p.TotalPages, "total=%d size=%d", tt.total, tt.size)
		assert.NotNil(t, p.Items)
	}
}

func TestNewPageRequest(t *testing.T) {
	req, err := newPageRequest(3, 50, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, req.size)
	assert.Equal(t, 40, req.offset())

	req, err = newPageRequest(1, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 50, req.size, "no ceiling when max is unset")

	_, err = newPageRequest(0, 10, 20)
	assert.True(t, catalog.IsInvalidArgument(err))
	_, err = newPageRequest(1, 0, 20)
	assert.True(t, catalog.IsInvalidArgument(err))
}

func TestResolveSort(t *testing.T) {
	s, err := resolveSort("", false, store.SortCreatedAt, store.ProductSortFields)
	require.NoError(t, err)
	assert.Equal(t, store.Sort{Field: store.SortCreatedAt}, s)

	s, err = resolveSort("CreatedAt", true, store.SortCreatedAt, store.ProductSortFields)
	require.NoError(t, err)
	assert.Equal(t, store.Sort{Field: store.SortCreatedAt, Ascending: true}, s)

	_, err = resolveSort("uploaded_at", false, store.SortCreatedAt, store.ProductSortFields)
	assert.True(t, catalog.IsInvalidArgument(err))
}
