package httptransport

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-catalog-cache/catalog"
)

// listQuery holds the paging and sorting parameters shared by list routes.
type listQuery struct {
	page      int
	pageSize  int
	sortField string
	ascending bool
}

// parseListQuery reads page, page_size, sort and order. Missing values take
// their defaults; malformed ones are rejected. Range checks on page and
// page_size happen in the read service.
func parseListQuery(q url.Values, defaultPageSize int) (listQuery, error) {
	out := listQuery{page: 1, pageSize: defaultPageSize}

	var err error
	if out.page, err = intParam(q, "page", out.page); err != nil {
		return listQuery{}, err
	}
	if out.pageSize, err = intParam(q, "page_size", out.pageSize); err != nil {
		return listQuery{}, err
	}

	out.sortField = strings.TrimSpace(q.Get("sort"))
	switch strings.ToLower(q.Get("order")) {
	case "", "desc":
	case "asc":
		out.ascending = true
	default:
		return listQuery{}, catalog.InvalidArgument("order", "must be asc or desc")
	}
	return out, nil
}

func intParam(q url.Values, name string, fallback int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, catalog.InvalidArgument(name, "must be an integer")
	}
	return n, nil
}

func boolParam(q url.Values, name string) (bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, catalog.InvalidArgument(name, "must be a boolean")
	}
	return b, nil
}

// optionalParam returns nil for a missing or empty parameter.
func optionalParam(q url.Values, name string) *string {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return nil
	}
	return &v
}
