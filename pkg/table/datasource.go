package table

import (
	"context"
)

//go:generate mockgen --build_flags=--mod=mod -package table -destination ./datasource_mocks_test.go github.com/fastclicker/TableBundle/pkg/table DataSource,SourceResolver

// FetchOptions is everything a data source applies to its base query for one build.
// Sort and Pagination are nil when the capability is not active.
type FetchOptions struct {
	Filters    []BoundFilter
	Sort       *Sort
	Pagination *Pagination
}

// Result is one page of items.
type Result struct {
	Items []any
	// TotalItems and TotalPages are only set when pagination was requested.
	TotalItems int
	TotalPages int
}

// DataSource turns filters, sort and pagination into materialized items.
type DataSource interface {
	// Fetch returns the items matching opts. When opts.Pagination is set, the matching items are
	// counted first with the same filters and a page outside [0, TotalPages-1] is a not-found condition.
	Fetch(ctx context.Context, opts FetchOptions) (*Result, error)
	// CountPages returns the number of pages of items matching filters, at least 1.
	CountPages(ctx context.Context, filters []BoundFilter, pagination Pagination) (int, error)
}

// SourceResolver returns the data source of a data entity.
type SourceResolver interface {
	Source(entity string) (DataSource, error)
}

// SourceResolverFunc adapts a function to SourceResolver.
type SourceResolverFunc func(entity string) (DataSource, error)

func (f SourceResolverFunc) Source(entity string) (DataSource, error) {
	return f(entity)
}

// TotalPages returns max(1, ceil(items / itemsPerPage)).
func TotalPages(items, itemsPerPage int) int {
	if itemsPerPage <= 0 {
		return 1
	}
	pages := (items + itemsPerPage - 1) / itemsPerPage
	if pages < 1 {
		return 1
	}
	return pages
}

// CheckPage returns a not-found condition when page is outside [0, totalPages-1].
func CheckPage(page, totalPages int) error {
	if page < 0 || page > totalPages-1 {
		return NotFound("page %d does not exist, there are %d pages", page+1, totalPages)
	}
	return nil
}
