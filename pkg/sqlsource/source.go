// Package sqlsource implements table data sources over SQL databases. Filters, sort and pagination
// are applied to a copy of a base query; the count query shares the data query's predicate.
package sqlsource

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/Velocidex/ordereddict"
	"github.com/fastclicker/TableBundle/pkg/query"
	"github.com/fastclicker/TableBundle/pkg/table"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var entityRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Querier is the subset of *sqlx.DB used by Source.
type Querier interface {
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	DriverName() string
}

// ScanFunc turns the current row of rows into an item.
type ScanFunc func(rows *sqlx.Rows) (any, error)

// Source is the data source of one base query.
type Source struct {
	db   Querier
	base query.Query
	scan ScanFunc
}

// New returns a source running base on db. Rows are scanned into *ordereddict.Dict items.
func New(db Querier, base query.Query) *Source {
	return &Source{
		db:   db,
		base: base,
		scan: ScanDict,
	}
}

// WithScan returns a copy of s scanning rows with scan.
func (s *Source) WithScan(scan ScanFunc) *Source {
	n := *s
	n.scan = scan
	return &n
}

// Fetch implements table.DataSource.
func (s *Source) Fetch(ctx context.Context, opts table.FetchOptions) (*table.Result, error) {
	q, err := applyFilters(s.base, opts.Filters)
	if err != nil {
		return nil, err
	}
	q = applySort(q, opts.Sort)

	result := &table.Result{}
	if opts.Pagination != nil {
		// count first: the number of pages decides whether the page exists
		count, err := s.count(ctx, q)
		if err != nil {
			return nil, err
		}
		result.TotalItems = count
		result.TotalPages = table.TotalPages(count, opts.Pagination.ItemsPerPage)
		if err := table.CheckPage(opts.Pagination.CurrentPage, result.TotalPages); err != nil {
			return nil, err
		}
		q = applyPagination(q, opts.Pagination)
	}

	items, err := s.query(ctx, q)
	if err != nil {
		return nil, err
	}
	result.Items = items
	return result, nil
}

// CountPages implements table.DataSource.
func (s *Source) CountPages(ctx context.Context, filters []table.BoundFilter, pagination table.Pagination) (int, error) {
	q, err := applyFilters(s.base, filters)
	if err != nil {
		return 0, err
	}
	count, err := s.count(ctx, q)
	if err != nil {
		return 0, err
	}
	return table.TotalPages(count, pagination.ItemsPerPage), nil
}

func (s *Source) count(ctx context.Context, q query.Query) (int, error) {
	stmt, args, err := q.Count().Bind(sqlx.BindType(s.db.DriverName()))
	if err != nil {
		return 0, err
	}
	logrus.Debugf("sqlsource count statement: %v", stmt)
	logrus.Debugf("Params: %v", args)

	var count int
	if err := s.db.GetContext(ctx, &count, stmt, args...); err != nil {
		logrus.Debugf("sqlsource count failed: %v", err)
		return 0, err
	}
	return count, nil
}

func (s *Source) query(ctx context.Context, q query.Query) ([]any, error) {
	stmt, args, err := q.Bind(sqlx.BindType(s.db.DriverName()))
	if err != nil {
		return nil, err
	}
	logrus.Debugf("sqlsource prepared statement: %v", stmt)
	logrus.Debugf("Params: %v", args)

	rows, err := s.db.QueryxContext(ctx, stmt, args...)
	if err != nil {
		logrus.Debugf("sqlsource query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	items := []any{}
	for rows.Next() {
		item, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ScanDict scans the current row into an ordered dict keyed by column name, in select order.
// Byte slices are converted to strings.
func ScanDict(rows *sqlx.Rows) (any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values, err := rows.SliceScan()
	if err != nil {
		return nil, err
	}
	item := ordereddict.NewDict()
	for i, column := range columns {
		value := values[i]
		if b, ok := value.([]byte); ok {
			value = string(b)
		}
		item.Set(column, value)
	}
	return item, nil
}

// Catalog resolves data entities to sources over one database.
type Catalog struct {
	db Querier

	lock     sync.RWMutex
	entities map[string]query.Query
}

// NewCatalog returns a catalog over db.
func NewCatalog(db Querier) *Catalog {
	return &Catalog{
		db:       db,
		entities: map[string]query.Query{},
	}
}

// Register sets the base query of entity.
func (c *Catalog) Register(entity string, base query.Query) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.entities[entity] = base
}

// Source implements table.SourceResolver. Entities without a registered base query are read
// from the table of the same name.
func (c *Catalog) Source(entity string) (table.DataSource, error) {
	c.lock.RLock()
	base, ok := c.entities[entity]
	c.lock.RUnlock()
	if ok {
		return New(c.db, base), nil
	}
	if !entityRegex.MatchString(entity) {
		return nil, errors.Wrapf(table.ErrInvalidConfig, "unknown data entity %q", entity)
	}
	return New(c.db, query.Select().From(fmt.Sprintf(`"%s"`, entity))), nil
}
