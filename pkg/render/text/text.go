// Package text renders table views as plain text grids for terminals.
package text

import (
	"fmt"
	"html"
	"io"

	"github.com/fastclicker/TableBundle/pkg/table"
	"github.com/microcosm-cc/bluemonday"
	"github.com/olekukonko/tablewriter"
)

const (
	ascMarker  = "▲"
	descMarker = "▼"
)

// Renderer implements table.Renderer with tablewriter. Markup is stripped from cells.
// Links cannot be followed in a terminal, so the URL generator is ignored.
type Renderer struct {
	policy *bluemonday.Policy
}

// New returns a text renderer.
func New() *Renderer {
	return &Renderer{policy: bluemonday.StrictPolicy()}
}

// Render writes view as a grid. The sorted column is marked in the header and paginated views
// get a caption with the current page.
func (r *Renderer) Render(w io.Writer, view *table.View, _ table.URLGenerator) error {
	columns := view.Columns()
	sort := view.Sort()

	writer := tablewriter.NewWriter(w)
	writer.SetAutoFormatHeaders(false)
	writer.SetAutoWrapText(false)

	header := make([]string, 0, len(columns))
	for _, column := range columns {
		label := column.Label
		if sort != nil && sort.Column.Name == column.Name {
			marker := descMarker
			if sort.Direction == table.Asc {
				marker = ascMarker
			}
			label = fmt.Sprintf("%s %s", label, marker)
		}
		header = append(header, label)
	}
	writer.SetHeader(header)

	rows := view.Rows()
	for _, row := range rows {
		cells := make([]string, 0, len(columns))
		for _, column := range columns {
			cells = append(cells, html.UnescapeString(r.policy.Sanitize(column.CellContent(row))))
		}
		writer.Append(cells)
	}
	if len(rows) == 0 && len(columns) > 0 {
		empty := make([]string, len(columns))
		empty[0] = view.EmptyValue()
		writer.Append(empty)
	}

	if p := view.Pagination(); p != nil {
		writer.SetCaption(true, fmt.Sprintf("page %d of %d (%d items)", p.CurrentPage+1, p.TotalPages, p.TotalItems))
	}
	writer.Render()
	return nil
}
