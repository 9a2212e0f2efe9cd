package table

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Type declares a table: its options and columns. Filtering, sorting, pagination and row
// attributes are optional capabilities, declared by also implementing Filterable, Sortable,
// Paginatable and RowAttributer.
type Type interface {
	// Name is the table name, used as the id of the rendered table.
	Name() string
	// ConfigureOptions adjusts the defaulted options. It must at least set DataEntity.
	ConfigureOptions(opts *Options)
	// BuildColumns declares the columns.
	BuildColumns(b *ColumnBuilder) error
}

// Filterable tables declare filters bound to request parameters.
type Filterable interface {
	BuildFilters(b *FilterBuilder) error
}

// Sortable tables are ordered by one sortable column chosen by request parameters.
type Sortable interface {
	ConfigureSort(opts *SortOptions)
}

// Paginatable tables show one page of items chosen by a request parameter.
type Paginatable interface {
	ConfigurePagination(opts *PaginationOptions)
}

// RowAttributer tables attach attributes to each row.
type RowAttributer interface {
	RowAttributes(row Row) map[string]string
}

// CapabilityMasker lets a type implementing every capability interface switch some off,
// for types whose capabilities are only known at run time.
type CapabilityMasker interface {
	Capabilities() Capability
}

// Capability is a set of optional table features.
type Capability uint8

const (
	CapFilter Capability = 1 << iota
	CapSort
	CapPaginate
)

// Has reports whether all of other is in c.
func (c Capability) Has(other Capability) bool {
	return c&other == other
}

func (c Capability) String() string {
	var parts []string
	if c.Has(CapFilter) {
		parts = append(parts, "filter")
	}
	if c.Has(CapSort) {
		parts = append(parts, "sort")
	}
	if c.Has(CapPaginate) {
		parts = append(parts, "paginate")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Definition is a registered table type with its capabilities resolved.
type Definition struct {
	typ          Type
	capabilities Capability

	filterable  Filterable
	sortable    Sortable
	paginatable Paginatable
	attributer  RowAttributer
}

// Register inspects t once and returns its definition.
func Register(t Type) (*Definition, error) {
	if t == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "nil table type")
	}
	if t.Name() == "" {
		return nil, errors.Wrap(ErrInvalidConfig, "table type without a name")
	}
	d := &Definition{typ: t}
	if f, ok := t.(Filterable); ok {
		d.filterable = f
		d.capabilities |= CapFilter
	}
	if s, ok := t.(Sortable); ok {
		d.sortable = s
		d.capabilities |= CapSort
	}
	if p, ok := t.(Paginatable); ok {
		d.paginatable = p
		d.capabilities |= CapPaginate
	}
	if a, ok := t.(RowAttributer); ok {
		d.attributer = a
	}
	if m, ok := t.(CapabilityMasker); ok {
		d.capabilities &= m.Capabilities()
	}
	return d, nil
}

// MustRegister is like Register but panics on error.
func MustRegister(t Type) *Definition {
	d, err := Register(t)
	if err != nil {
		panic(err)
	}
	return d
}

// Name returns the table name.
func (d *Definition) Name() string {
	return d.typ.Name()
}

// Capabilities returns the capabilities resolved at registration.
func (d *Definition) Capabilities() Capability {
	return d.capabilities
}

func (d *Definition) rowAttributes(row Row) map[string]string {
	if d.attributer == nil {
		return map[string]string{}
	}
	attr := d.attributer.RowAttributes(row)
	if attr == nil {
		return map[string]string{}
	}
	return attr
}

// Registry holds definitions by table name.
type Registry struct {
	lock        sync.RWMutex
	definitions map[string]*Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{definitions: map[string]*Definition{}}
}

// Register registers t under its name.
func (r *Registry) Register(t Type) (*Definition, error) {
	d, err := Register(t)
	if err != nil {
		return nil, err
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.definitions[d.Name()]; ok {
		return nil, errors.Wrapf(ErrInvalidConfig, "table %s is already registered", d.Name())
	}
	r.definitions[d.Name()] = d
	return d, nil
}

// Lookup returns the definition called name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	d, ok := r.definitions[name]
	return d, ok
}

// Names returns the registered table names, sorted.
func (r *Registry) Names() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()
	names := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
