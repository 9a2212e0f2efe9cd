package table

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Direction is a sort direction as it appears in requests.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Valid reports whether d is asc or desc.
func (d Direction) Valid() bool {
	return d == Asc || d == Desc
}

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// Pagination is the resolved pagination of one build.
type Pagination struct {
	PaginationOptions
	// CurrentPage is 0-based.
	CurrentPage int
	// TotalPages is at least 1 once the data source has counted the matching items.
	TotalPages int
	// TotalItems is the number of items matching the filters.
	TotalItems int
}

// Offset returns the index of the first item of the current page.
func (p Pagination) Offset() int {
	return p.CurrentPage * p.ItemsPerPage
}

// Sort is the resolved sort of one build.
type Sort struct {
	SortOptions
	Column    Column
	Direction Direction
}

// resolveSort picks the sort column and direction from params, falling back to the declared
// default column, then to the first sortable column.
func resolveSort(name string, opts SortOptions, columns Columns, params Params) (*Sort, error) {
	columnName, ok := params.Get(opts.ColumnParam)
	if !ok || columnName == "" {
		columnName = opts.DefaultColumn
		if columnName == "" {
			first, ok := columns.FirstSortable()
			if !ok {
				return nil, errors.Wrapf(ErrInvalidConfig, "table %s: no sortable column", name)
			}
			columnName = first.Name
		} else if _, ok := columns.Get(columnName); !ok {
			return nil, errors.Wrapf(ErrInvalidConfig, "table %s: default sort column %q does not exist", name, columnName)
		}
	}

	column, ok := columns.Get(columnName)
	if !ok {
		return nil, NotFound("table %s has no column %q", name, columnName)
	}
	if !column.Sortable {
		return nil, NotFound("column %q of table %s is not sortable", columnName, name)
	}

	direction := opts.DefaultDirection
	if raw, ok := params.Get(opts.DirectionParam); ok && raw != "" {
		direction = Direction(strings.ToLower(raw))
	}
	if !direction.Valid() {
		return nil, NotFound("unknown sort direction %q", direction)
	}

	return &Sort{
		SortOptions: opts,
		Column:      column,
		Direction:   direction,
	}, nil
}

// resolvePagination reads the 1-based page number from params. Bounds are checked by the
// data source once the number of pages is known.
func resolvePagination(opts PaginationOptions, params Params) (*Pagination, error) {
	page := 0
	if raw, ok := params.Get(opts.Param); ok && raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, NotFound("invalid page %q", raw)
		}
		page = n - 1
	}
	return &Pagination{
		PaginationOptions: opts,
		CurrentPage:       page,
	}, nil
}
