package table

import (
	"maps"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
)

// Options are the table-wide options. Defaults come from the struct tags and are applied
// before the table type's ConfigureOptions hook runs.
type Options struct {
	// DataEntity identifies the data source of the table. Required.
	DataEntity string
	// EmptyValue is shown in place of the rows when there are none.
	EmptyValue string `default:"No data found."`
	// Attr are attributes of the table element.
	Attr map[string]string
	// HeadAttr are attributes of the head row.
	HeadAttr map[string]string
	// Renderer renders the view. Nil selects the assembler's default renderer.
	Renderer Renderer
}

// PaginationOptions configure pagination of a paginatable table.
type PaginationOptions struct {
	// Param is the request parameter holding the 1-based page number.
	Param        string `default:"page"`
	ItemsPerPage int    `default:"20"`

	ULClass         string `default:"pagination"`
	LIClass         string
	LIClassActive   string `default:"active"`
	LIClassDisabled string `default:"disabled"`
}

// SortOptions configure sorting of a sortable table.
type SortOptions struct {
	ColumnParam    string `default:"column"`
	DirectionParam string `default:"direction"`
	// DefaultColumn is used when the request has no sort column. Empty selects the
	// first sortable column.
	DefaultColumn    string
	DefaultDirection Direction `default:"desc"`

	ClassAsc  string
	ClassDesc string
}

func resolveOptions(t Type, renderer Renderer) (Options, error) {
	opts := Options{}
	if err := defaults.Set(&opts); err != nil {
		return Options{}, errors.Wrap(err, "unable to set default table options")
	}
	t.ConfigureOptions(&opts)
	if opts.DataEntity == "" {
		return Options{}, errors.Wrapf(ErrInvalidConfig, "table %s: missing required option DataEntity", t.Name())
	}
	opts.Attr = maps.Clone(opts.Attr)
	if opts.Attr == nil {
		opts.Attr = map[string]string{}
	}
	opts.HeadAttr = maps.Clone(opts.HeadAttr)
	if opts.HeadAttr == nil {
		opts.HeadAttr = map[string]string{}
	}
	if opts.Renderer == nil {
		opts.Renderer = renderer
	}
	return opts, nil
}

func resolvePaginationOptions(name string, p Paginatable) (PaginationOptions, error) {
	opts := PaginationOptions{}
	if err := defaults.Set(&opts); err != nil {
		return PaginationOptions{}, errors.Wrap(err, "unable to set default pagination options")
	}
	p.ConfigurePagination(&opts)
	if opts.Param == "" {
		return PaginationOptions{}, errors.Wrapf(ErrInvalidConfig, "table %s: empty pagination parameter", name)
	}
	if opts.ItemsPerPage <= 0 {
		return PaginationOptions{}, errors.Wrapf(ErrInvalidConfig, "table %s: items per page must be positive, got %d", name, opts.ItemsPerPage)
	}
	return opts, nil
}

func resolveSortOptions(name string, s Sortable) (SortOptions, error) {
	opts := SortOptions{}
	if err := defaults.Set(&opts); err != nil {
		return SortOptions{}, errors.Wrap(err, "unable to set default sort options")
	}
	s.ConfigureSort(&opts)
	if opts.ColumnParam == "" || opts.DirectionParam == "" {
		return SortOptions{}, errors.Wrapf(ErrInvalidConfig, "table %s: empty sort parameter", name)
	}
	if !opts.DefaultDirection.Valid() {
		return SortOptions{}, errors.Wrapf(ErrInvalidConfig, "table %s: invalid default direction %q", name, opts.DefaultDirection)
	}
	return opts, nil
}
