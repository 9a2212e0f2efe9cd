// Package tabletest provides in-memory collaborators for tests of code built on package table.
package tabletest

import (
	"context"

	"github.com/fastclicker/TableBundle/pkg/table"
)

// Source serves a fixed slice of items. Only pagination is applied; filters and sort are
// recorded in Last for assertions.
type Source struct {
	Items []any
	Last  table.FetchOptions
}

// Fetch implements table.DataSource.
func (s *Source) Fetch(_ context.Context, opts table.FetchOptions) (*table.Result, error) {
	s.Last = opts
	if opts.Pagination == nil {
		return &table.Result{Items: append([]any{}, s.Items...)}, nil
	}
	result := &table.Result{
		TotalItems: len(s.Items),
		TotalPages: table.TotalPages(len(s.Items), opts.Pagination.ItemsPerPage),
	}
	if err := table.CheckPage(opts.Pagination.CurrentPage, result.TotalPages); err != nil {
		return nil, err
	}
	start := opts.Pagination.Offset()
	end := min(start+opts.Pagination.ItemsPerPage, len(s.Items))
	result.Items = append([]any{}, s.Items[start:end]...)
	return result, nil
}

// CountPages implements table.DataSource.
func (s *Source) CountPages(_ context.Context, _ []table.BoundFilter, pagination table.Pagination) (int, error) {
	return table.TotalPages(len(s.Items), pagination.ItemsPerPage), nil
}

// Resolver resolves every entity to source.
func Resolver(source table.DataSource) table.SourceResolver {
	return table.SourceResolverFunc(func(string) (table.DataSource, error) {
		return source, nil
	})
}
