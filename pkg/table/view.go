package table

import (
	"io"
	"maps"
	"slices"

	"github.com/pkg/errors"
)

// Row is one item of a view with its 1-based position in the whole, unpaginated result.
type Row struct {
	Item     any
	Position int
	Attr     map[string]string
}

// URLGenerator builds links from the current request, overriding only the given parameters.
type URLGenerator interface {
	Generate(overrides map[string]string) (string, error)
}

// Renderer writes a view.
type Renderer interface {
	Render(w io.Writer, view *View, urls URLGenerator) error
}

// View is the immutable result of a build. Accessors return copies.
type View struct {
	name         string
	columns      Columns
	rows         []Row
	filters      []Filter
	filterValues map[string]string
	pagination   *Pagination
	sort         *Sort
	emptyValue   string
	attr         map[string]string
	headAttr     map[string]string
	renderer     Renderer
}

// Name returns the table name.
func (v *View) Name() string {
	return v.name
}

// Columns returns the columns in declaration order.
func (v *View) Columns() []Column {
	return v.columns.List()
}

// Column returns the column called name, or a not-found condition.
func (v *View) Column(name string) (Column, error) {
	column, ok := v.columns.Get(name)
	if !ok {
		return Column{}, NotFound("table %s has no column %q", v.name, name)
	}
	return column, nil
}

// Rows returns the rows of the current page.
func (v *View) Rows() []Row {
	rows := make([]Row, len(v.rows))
	for i, row := range v.rows {
		row.Attr = maps.Clone(row.Attr)
		rows[i] = row
	}
	return rows
}

// Filters returns the declared filters, for rendering filter controls.
func (v *View) Filters() []Filter {
	filters := make([]Filter, len(v.filters))
	for i, f := range v.filters {
		filters[i] = f.clone()
	}
	return filters
}

// FilterValue returns the request value of the filter called name.
func (v *View) FilterValue(name string) (string, bool) {
	value, ok := v.filterValues[name]
	return value, ok
}

// Pagination returns the pagination state, or nil when the table is not paginated.
func (v *View) Pagination() *Pagination {
	if v.pagination == nil {
		return nil
	}
	p := *v.pagination
	return &p
}

// Sort returns the sort state, or nil when the table is not sorted.
func (v *View) Sort() *Sort {
	if v.sort == nil {
		return nil
	}
	s := *v.sort
	s.Column = s.Column.clone()
	return &s
}

// EmptyValue returns the message shown when there are no rows.
func (v *View) EmptyValue() string {
	return v.emptyValue
}

// Attr returns the attributes of the table element.
func (v *View) Attr() map[string]string {
	return maps.Clone(v.attr)
}

// HeadAttr returns the attributes of the head row.
func (v *View) HeadAttr() map[string]string {
	return maps.Clone(v.headAttr)
}

// Render writes the view with the renderer chosen by the table options.
func (v *View) Render(w io.Writer, urls URLGenerator) error {
	if v.renderer == nil {
		return errors.Errorf("table %s has no renderer", v.name)
	}
	return v.renderer.Render(w, v, urls)
}

// SortedAttr returns the keys of attr in order, for deterministic rendering.
func SortedAttr(attr map[string]string) []string {
	return slices.Sorted(maps.Keys(attr))
}
