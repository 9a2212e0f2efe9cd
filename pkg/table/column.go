package table

import (
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/Velocidex/ordereddict"
	"github.com/pkg/errors"
)

// ContentFunc extracts the content of one cell.
type ContentFunc func(row Row) string

// Column describes one column of a table.
type Column struct {
	// Name identifies the column within its table, it is also the value of the sort column parameter.
	Name string
	// Label is the head cell content.
	Label string
	// Field is the path of the value in the data source, it defaults to Name.
	Field string
	// Sortable allows the column to be the sort column.
	Sortable bool
	// Attr are attributes of every body cell of the column.
	Attr map[string]string
	// HeadAttr are attributes of the head cell.
	HeadAttr map[string]string
	// Content overrides the default content, which is the field's value read from the row item.
	Content ContentFunc
}

// CellContent returns the content of the column for row. Without a Content func the value is read
// from the item by Field, then by Name, then by the unqualified Field: a column selected as
// u.first_name comes back from the database as first_name.
func (c Column) CellContent(row Row) string {
	if c.Content != nil {
		return c.Content(row)
	}
	for _, key := range c.itemKeys() {
		value, ok := FieldValue(row.Item, key)
		if !ok {
			continue
		}
		if value == nil {
			return ""
		}
		return fmt.Sprint(value)
	}
	return ""
}

func (c Column) itemKeys() []string {
	keys := []string{c.Field}
	if c.Name != c.Field {
		keys = append(keys, c.Name)
	}
	if i := strings.LastIndex(c.Field, "."); i >= 0 && c.Field[i+1:] != c.Name {
		keys = append(keys, c.Field[i+1:])
	}
	return keys
}

func (c Column) clone() Column {
	c.Attr = maps.Clone(c.Attr)
	c.HeadAttr = maps.Clone(c.HeadAttr)
	return c
}

// FieldValue reads field from a row item. Supported items are ordered dicts, string keyed maps and
// structs (or pointers to structs) with an exported field of that name.
func FieldValue(item any, field string) (any, bool) {
	switch typed := item.(type) {
	case nil:
		return nil, false
	case *ordereddict.Dict:
		return typed.Get(field)
	case map[string]any:
		v, ok := typed[field]
		return v, ok
	case map[string]string:
		v, ok := typed[field]
		return v, ok
	}
	v := reflect.ValueOf(item)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, false
	}
	f := v.FieldByName(field)
	if !f.IsValid() || !f.CanInterface() {
		return nil, false
	}
	return f.Interface(), true
}

// Columns is an ordered set of columns keyed by name.
type Columns struct {
	dict *ordereddict.Dict
}

// Get returns the column called name.
func (c Columns) Get(name string) (Column, bool) {
	if c.dict == nil {
		return Column{}, false
	}
	v, ok := c.dict.Get(name)
	if !ok {
		return Column{}, false
	}
	return v.(Column).clone(), true
}

// List returns the columns in declaration order.
func (c Columns) List() []Column {
	if c.dict == nil {
		return nil
	}
	result := make([]Column, 0, c.dict.Len())
	for _, name := range c.dict.Keys() {
		column, _ := c.Get(name)
		result = append(result, column)
	}
	return result
}

// Len returns the number of columns.
func (c Columns) Len() int {
	if c.dict == nil {
		return 0
	}
	return c.dict.Len()
}

// FirstSortable returns the first sortable column in declaration order.
func (c Columns) FirstSortable() (Column, bool) {
	for _, column := range c.List() {
		if column.Sortable {
			return column, true
		}
	}
	return Column{}, false
}

// ColumnBuilder collects the columns of a table. The first error is kept and
// returned by every later call, so callers may chain Add calls and check once.
type ColumnBuilder struct {
	columns *ordereddict.Dict
	err     error
}

func newColumnBuilder() *ColumnBuilder {
	return &ColumnBuilder{columns: ordereddict.NewDict()}
}

// Add appends a column. Label and Field default to the column name.
func (b *ColumnBuilder) Add(column Column) *ColumnBuilder {
	if b.err != nil {
		return b
	}
	if column.Name == "" {
		b.err = errors.Wrap(ErrInvalidConfig, "column without a name")
		return b
	}
	if _, ok := b.columns.Get(column.Name); ok {
		b.err = errors.Wrapf(ErrInvalidConfig, "duplicate column %q", column.Name)
		return b
	}
	if column.Label == "" {
		column.Label = column.Name
	}
	if column.Field == "" {
		column.Field = column.Name
	}
	b.columns.Set(column.Name, column.clone())
	return b
}

// Err returns the first error encountered by Add.
func (b *ColumnBuilder) Err() error {
	return b.err
}

// Columns returns the columns added so far.
func (b *ColumnBuilder) Columns() Columns {
	return Columns{dict: b.columns}
}
