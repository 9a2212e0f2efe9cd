package table

import (
	"fmt"
	"maps"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/sets"
)

// Operator is the comparison a filter applies between its columns and the request value.
type Operator int

const (
	EQ Operator = iota + 1
	NotEQ
	GT
	GEQ
	LT
	LEQ
	Like
	NotLike
)

var operatorNames = map[Operator]string{
	EQ:      "eq",
	NotEQ:   "not_eq",
	GT:      "gt",
	GEQ:     "geq",
	LT:      "lt",
	LEQ:     "leq",
	Like:    "like",
	NotLike: "not_like",
}

// filter names double as named query parameters
var filterNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (o Operator) String() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// Valid reports whether o is one of the declared operators.
func (o Operator) Valid() bool {
	_, ok := operatorNames[o]
	return ok
}

// Wildcard reports whether bind values of o are wrapped in wildcards.
func (o Operator) Wildcard() bool {
	return o == Like || o == NotLike
}

// ParseOperator parses the lower-case operator names, also accepting the upper-case and
// symbolic forms (EQ, NOT_EQ, =, !=, <>, >, >=, <, <=, LIKE, NOT LIKE).
func ParseOperator(s string) (Operator, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch normalized {
	case "=", "==":
		return EQ, nil
	case "!=", "<>":
		return NotEQ, nil
	case ">":
		return GT, nil
	case ">=":
		return GEQ, nil
	case "<":
		return LT, nil
	case "<=":
		return LEQ, nil
	case "not like", "notlike":
		return NotLike, nil
	}
	for op, name := range operatorNames {
		if name == normalized {
			return op, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidConfig, "unknown filter operator %q", s)
}

// Filter is a named predicate over one or more columns. Columns of one filter are OR'd,
// the filters of a table are AND'd.
type Filter struct {
	// Name identifies the filter and is the request parameter holding its value.
	Name     string
	Label    string
	Operator Operator
	Columns  []Column
	// Values maps raw request values to domain values. When set, request values that are
	// not keys of the map disable the filter.
	Values map[string]any
}

func (f Filter) clone() Filter {
	columns := make([]Column, len(f.Columns))
	for i, column := range f.Columns {
		columns[i] = column.clone()
	}
	f.Columns = columns
	f.Values = maps.Clone(f.Values)
	return f
}

// FilterOptions declares a filter for FilterBuilder.Add.
type FilterOptions struct {
	Label    string
	Operator Operator
	// Columns are names of columns declared by the column builder.
	Columns []string
	Values  map[string]any
}

// FilterBuilder collects the filters of a table. Like ColumnBuilder, it keeps the first error.
type FilterBuilder struct {
	columns Columns
	filters []Filter
	names   sets.Set[string]
	err     error
}

func newFilterBuilder(columns Columns) *FilterBuilder {
	return &FilterBuilder{
		columns: columns,
		names:   sets.New[string](),
	}
}

// Add appends a filter called name.
func (b *FilterBuilder) Add(name string, opts FilterOptions) *FilterBuilder {
	if b.err != nil {
		return b
	}
	if !filterNameRegex.MatchString(name) {
		b.err = errors.Wrapf(ErrInvalidConfig, "invalid filter name %q", name)
		return b
	}
	if b.names.Has(name) {
		b.err = errors.Wrapf(ErrInvalidConfig, "duplicate filter %q", name)
		return b
	}
	if !opts.Operator.Valid() {
		b.err = errors.Wrapf(ErrInvalidConfig, "filter %q has unknown operator %s", name, opts.Operator)
		return b
	}
	if len(opts.Columns) == 0 {
		b.err = errors.Wrapf(ErrInvalidConfig, "filter %q has no columns", name)
		return b
	}
	columns := make([]Column, 0, len(opts.Columns))
	for _, columnName := range opts.Columns {
		column, ok := b.columns.Get(columnName)
		if !ok {
			b.err = errors.Wrapf(ErrInvalidConfig, "filter %q references unknown column %q", name, columnName)
			return b
		}
		columns = append(columns, column)
	}
	label := opts.Label
	if label == "" {
		label = name
	}
	b.names.Insert(name)
	b.filters = append(b.filters, Filter{
		Name:     name,
		Label:    label,
		Operator: opts.Operator,
		Columns:  columns,
		Values:   maps.Clone(opts.Values),
	})
	return b
}

// Err returns the first error encountered by Add.
func (b *FilterBuilder) Err() error {
	return b.err
}

// Filters returns the filters added so far in declaration order.
func (b *FilterBuilder) Filters() []Filter {
	result := make([]Filter, len(b.filters))
	for i, f := range b.filters {
		result[i] = f.clone()
	}
	return result
}

// BoundFilter is a filter together with the value taken from the current request,
// after value-map translation.
type BoundFilter struct {
	Filter
	Value any
}

// BindValue returns the value to bind for the filter's named parameter:
// wildcard operators wrap the value in % on both sides.
func (f BoundFilter) BindValue() any {
	if f.Operator.Wildcard() {
		return fmt.Sprintf("%%%v%%", f.Value)
	}
	return f.Value
}

// bindFilters binds every filter to its request value. Filters without a value, or with a
// value missing from their value map, are left out.
func bindFilters(filters []Filter, params Params) ([]BoundFilter, map[string]string) {
	bound := make([]BoundFilter, 0, len(filters))
	values := map[string]string{}
	for _, f := range filters {
		raw, ok := params.Get(f.Name)
		if !ok || raw == "" {
			continue
		}
		values[f.Name] = raw
		var value any = raw
		if len(f.Values) > 0 {
			mapped, ok := f.Values[raw]
			if !ok {
				logrus.Debugf("filter %s: value %q is not one of its values, skipping", f.Name, raw)
				continue
			}
			value = mapped
		}
		bound = append(bound, BoundFilter{Filter: f, Value: value})
	}
	return bound, values
}
