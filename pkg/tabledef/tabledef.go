// Package tabledef declares tables in YAML files instead of Go code.
//
// A definition file holds a list of tables:
//
//	tables:
//	  - name: users
//	    entity: users
//	    query: {select: [id, first_name], from: users, where: "deleted = 0"}
//	    columns:
//	      - {name: id, label: "#", sortable: true}
//	      - {name: first_name, label: First name, sortable: true}
//	    filters:
//	      - {name: q, operator: like, columns: [first_name]}
//	    sort: {defaultColumn: id, defaultDirection: asc}
//	    pagination: {itemsPerPage: 10}
//
// Sorting and pagination are enabled by their sections, filtering by a non-empty filter list.
package tabledef

import (
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/fastclicker/TableBundle/pkg/query"
	"github.com/fastclicker/TableBundle/pkg/table"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"sigs.k8s.io/yaml"
)

type File struct {
	Tables []Table `json:"tables"`
}

type Table struct {
	Name       string            `json:"name"`
	Entity     string            `json:"entity,omitempty"`
	EmptyValue string            `json:"emptyValue,omitempty"`
	Attr       map[string]string `json:"attr,omitempty"`
	HeadAttr   map[string]string `json:"headAttr,omitempty"`
	Query      *Query            `json:"query,omitempty"`
	Columns    []Column          `json:"columns"`
	Filters    []Filter          `json:"filters,omitempty"`
	Sort       *Sort             `json:"sort,omitempty"`
	Pagination *Pagination       `json:"pagination,omitempty"`
	RowAttr    map[string]string `json:"rowAttr,omitempty"`
}

// Query is the base query of the table's data entity.
type Query struct {
	Select []string `json:"select,omitempty"`
	From   string   `json:"from"`
	Where  string   `json:"where,omitempty"`
}

type Column struct {
	Name     string            `json:"name"`
	Label    string            `json:"label,omitempty"`
	Field    string            `json:"field,omitempty"`
	Sortable bool              `json:"sortable,omitempty"`
	Attr     map[string]string `json:"attr,omitempty"`
	HeadAttr map[string]string `json:"headAttr,omitempty"`
}

type Filter struct {
	Name     string         `json:"name"`
	Label    string         `json:"label,omitempty"`
	Operator string         `json:"operator"`
	Columns  []string       `json:"columns"`
	Values   map[string]any `json:"values,omitempty"`
}

type Sort struct {
	ColumnParam      string `json:"columnParam,omitempty"`
	DirectionParam   string `json:"directionParam,omitempty"`
	DefaultColumn    string `json:"defaultColumn,omitempty"`
	DefaultDirection string `json:"defaultDirection,omitempty"`
	ClassAsc         string `json:"classAsc,omitempty"`
	ClassDesc        string `json:"classDesc,omitempty"`
}

type Pagination struct {
	Param           string `json:"param,omitempty"`
	ItemsPerPage    int    `json:"itemsPerPage,omitempty"`
	ULClass         string `json:"ulClass,omitempty"`
	LIClass         string `json:"liClass,omitempty"`
	LIClassActive   string `json:"liClassActive,omitempty"`
	LIClassDisabled string `json:"liClassDisabled,omitempty"`
}

// Catalog receives the base queries of the tables declaring one.
type Catalog interface {
	Register(entity string, base query.Query)
}

// Parse decodes one definition file.
func Parse(r io.Reader) ([]Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var file File
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, errors.Wrap(table.ErrInvalidConfig, err.Error())
	}
	return file.Tables, nil
}

// Load reads the definitions at path, a file or a directory of *.yaml and *.yml files read in name order.
func Load(path string) ([]Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	files := []string{path}
	if info.IsDir() {
		files = nil
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(path, pattern))
			if err != nil {
				return nil, err
			}
			files = append(files, matches...)
		}
		slices.Sort(files)
	}

	var tables []Table
	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		parsed, err := Parse(f)
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "unable to load %s", file)
		}
		logrus.Debugf("loaded %d table definitions from %s", len(parsed), file)
		tables = append(tables, parsed...)
	}
	return tables, nil
}

// Register registers every table with registry and their base queries with catalog.
// The first invalid table stops registration.
func Register(registry *table.Registry, catalog Catalog, tables []Table) error {
	for _, t := range tables {
		typ, err := newType(t)
		if err != nil {
			return err
		}
		if _, err := registry.Register(typ); err != nil {
			return err
		}
		if t.Query != nil {
			catalog.Register(typ.entity(), t.Query.build())
		}
	}
	return nil
}

func (q *Query) build() query.Query {
	base := query.Select(q.Select...).From(q.From)
	if q.Where != "" {
		base = base.Where(q.Where)
	}
	return base
}

// tableType adapts a definition to table.Type and every capability interface,
// masking the capabilities the definition leaves out.
type tableType struct {
	def       Table
	operators map[string]table.Operator
}

func newType(t Table) (*tableType, error) {
	if t.Name == "" {
		return nil, errors.Wrap(table.ErrInvalidConfig, "table definition without a name")
	}
	if t.Query != nil && t.Query.From == "" {
		return nil, errors.Wrapf(table.ErrInvalidConfig, "table %s: query without from", t.Name)
	}
	typ := &tableType{def: t, operators: map[string]table.Operator{}}
	for _, f := range t.Filters {
		op, err := table.ParseOperator(f.Operator)
		if err != nil {
			return nil, errors.Wrapf(err, "table %s: filter %s", t.Name, f.Name)
		}
		typ.operators[f.Name] = op
	}
	return typ, nil
}

func (t *tableType) entity() string {
	if t.def.Entity != "" {
		return t.def.Entity
	}
	return t.def.Name
}

func (t *tableType) Name() string {
	return t.def.Name
}

func (t *tableType) ConfigureOptions(opts *table.Options) {
	opts.DataEntity = t.entity()
	if t.def.EmptyValue != "" {
		opts.EmptyValue = t.def.EmptyValue
	}
	opts.Attr = maps.Clone(t.def.Attr)
	opts.HeadAttr = maps.Clone(t.def.HeadAttr)
}

func (t *tableType) BuildColumns(b *table.ColumnBuilder) error {
	for _, c := range t.def.Columns {
		b.Add(table.Column{
			Name:     c.Name,
			Label:    c.Label,
			Field:    c.Field,
			Sortable: c.Sortable,
			Attr:     c.Attr,
			HeadAttr: c.HeadAttr,
		})
	}
	return b.Err()
}

func (t *tableType) BuildFilters(b *table.FilterBuilder) error {
	for _, f := range t.def.Filters {
		b.Add(f.Name, table.FilterOptions{
			Label:    f.Label,
			Operator: t.operators[f.Name],
			Columns:  f.Columns,
			Values:   f.Values,
		})
	}
	return b.Err()
}

func (t *tableType) ConfigureSort(opts *table.SortOptions) {
	s := t.def.Sort
	if s == nil {
		return
	}
	setString(&opts.ColumnParam, s.ColumnParam)
	setString(&opts.DirectionParam, s.DirectionParam)
	setString(&opts.DefaultColumn, s.DefaultColumn)
	setString(&opts.ClassAsc, s.ClassAsc)
	setString(&opts.ClassDesc, s.ClassDesc)
	if s.DefaultDirection != "" {
		opts.DefaultDirection = table.Direction(s.DefaultDirection)
	}
}

func (t *tableType) ConfigurePagination(opts *table.PaginationOptions) {
	p := t.def.Pagination
	if p == nil {
		return
	}
	setString(&opts.Param, p.Param)
	setString(&opts.ULClass, p.ULClass)
	setString(&opts.LIClass, p.LIClass)
	setString(&opts.LIClassActive, p.LIClassActive)
	setString(&opts.LIClassDisabled, p.LIClassDisabled)
	if p.ItemsPerPage != 0 {
		opts.ItemsPerPage = p.ItemsPerPage
	}
}

func (t *tableType) RowAttributes(table.Row) map[string]string {
	return maps.Clone(t.def.RowAttr)
}

func (t *tableType) Capabilities() table.Capability {
	var c table.Capability
	if len(t.def.Filters) > 0 {
		c |= table.CapFilter
	}
	if t.def.Sort != nil {
		c |= table.CapSort
	}
	if t.def.Pagination != nil {
		c |= table.CapPaginate
	}
	return c
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
