// Package table assembles paginated, sortable and filterable views of tabular data.
//
// A table type declares columns and, optionally, filters, sorting and pagination. For every
// request the Assembler resolves the type's options, validates the request parameters against
// them, asks the data source for one page of items and packages everything into an immutable View.
package table

import (
	"context"
	"time"

	"github.com/fastclicker/TableBundle/pkg/metrics"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Assembler builds views. It holds no per-build state and is safe for concurrent use.
type Assembler struct {
	sources  SourceResolver
	renderer Renderer
}

// NewAssembler returns an assembler reading from sources. renderer is used by tables whose
// options do not choose one.
func NewAssembler(sources SourceResolver, renderer Renderer) *Assembler {
	return &Assembler{
		sources:  sources,
		renderer: renderer,
	}
}

// Build assembles the view of def for the request parameters params.
// Configuration errors wrap ErrInvalidConfig and are raised before the data source is queried;
// out-of-range pages and unsortable sort columns are not-found conditions (see IsNotFound).
func (a *Assembler) Build(ctx context.Context, def *Definition, params Params) (*View, error) {
	start := time.Now()
	view, err := a.build(ctx, def, params)

	rows := 0
	outcome := metrics.OutcomeOK
	switch {
	case err == nil:
		rows = len(view.rows)
	case IsNotFound(err):
		outcome = metrics.OutcomeNotFound
	case IsInvalidConfig(err):
		outcome = metrics.OutcomeInvalidConfig
	default:
		outcome = metrics.OutcomeError
	}
	metrics.ObserveBuild(def.Name(), outcome, rows, time.Since(start))
	logrus.Debugf("table %s built in %v: %s", def.Name(), time.Since(start), outcome)
	return view, err
}

func (a *Assembler) build(ctx context.Context, def *Definition, params Params) (*View, error) {
	if params == nil {
		params = Map{}
	}
	name := def.Name()

	// 1- options
	opts, err := resolveOptions(def.typ, a.renderer)
	if err != nil {
		return nil, err
	}

	// 2- columns
	columnBuilder := newColumnBuilder()
	if err := def.typ.BuildColumns(columnBuilder); err != nil {
		return nil, errors.Wrapf(err, "table %s: building columns", name)
	}
	if err := columnBuilder.Err(); err != nil {
		return nil, errors.Wrapf(err, "table %s", name)
	}
	columns := columnBuilder.Columns()
	if columns.Len() == 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "table %s has no columns", name)
	}

	// 3- filters
	var filters []Filter
	if def.capabilities.Has(CapFilter) {
		filterBuilder := newFilterBuilder(columns)
		if err := def.filterable.BuildFilters(filterBuilder); err != nil {
			return nil, errors.Wrapf(err, "table %s: building filters", name)
		}
		if err := filterBuilder.Err(); err != nil {
			return nil, errors.Wrapf(err, "table %s", name)
		}
		filters = filterBuilder.Filters()
	}

	// 4- sort
	var sort *Sort
	if def.capabilities.Has(CapSort) {
		sortOpts, err := resolveSortOptions(name, def.sortable)
		if err != nil {
			return nil, err
		}
		sort, err = resolveSort(name, sortOpts, columns, params)
		if err != nil {
			return nil, err
		}
	}

	// 5- pagination, bounds are checked by the data source
	var pagination *Pagination
	if def.capabilities.Has(CapPaginate) {
		paginationOpts, err := resolvePaginationOptions(name, def.paginatable)
		if err != nil {
			return nil, err
		}
		pagination, err = resolvePagination(paginationOpts, params)
		if err != nil {
			return nil, err
		}
	}

	// 6- query
	bound, filterValues := bindFilters(filters, params)
	source, err := a.sources.Source(opts.DataEntity)
	if err != nil {
		return nil, err
	}
	result, err := source.Fetch(ctx, FetchOptions{
		Filters:    bound,
		Sort:       sort,
		Pagination: pagination,
	})
	if err != nil {
		return nil, err
	}
	if pagination != nil {
		pagination.TotalItems = result.TotalItems
		pagination.TotalPages = TotalPages(result.TotalItems, pagination.ItemsPerPage)
		if result.TotalPages > 0 {
			pagination.TotalPages = result.TotalPages
		}
	}

	// 7- rows
	position := 0
	if pagination != nil {
		position = pagination.Offset()
	}
	rows := make([]Row, 0, len(result.Items))
	for _, item := range result.Items {
		position++
		row := Row{Item: item, Position: position}
		row.Attr = def.rowAttributes(row)
		rows = append(rows, row)
	}

	// 8- view
	return &View{
		name:         name,
		columns:      columns,
		rows:         rows,
		filters:      filters,
		filterValues: filterValues,
		pagination:   pagination,
		sort:         sort,
		emptyValue:   opts.EmptyValue,
		attr:         opts.Attr,
		headAttr:     opts.HeadAttr,
		renderer:     opts.Renderer,
	}, nil
}
