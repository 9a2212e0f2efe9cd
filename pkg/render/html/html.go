// Package html renders table views as HTML tables with sort links and a pagination list.
package html

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/fastclicker/TableBundle/pkg/table"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	prevLabel = "«"
	nextLabel = "»"
)

var attrNameRegex = regexp.MustCompile(`^[A-Za-z_:][-A-Za-z0-9_:.]*$`)

const layout = `{{.Open}}
<thead>{{.HeadOpen}}{{range .Heads}}{{.Open}}{{if .Link}}<a href="{{.Link}}">{{.Label}}</a>{{if .Sorted}} <span class="{{.SortClass}}"></span>{{end}}{{else}}{{.Label}}{{end}}</th>{{end}}</tr></thead>
<tbody>{{range .Rows}}{{.Open}}{{range .Cells}}{{.Open}}{{.Content}}</td>{{end}}</tr>{{else}}<tr><td colspan="{{.Colspan}}">{{.EmptyValue}}</td></tr>{{end}}</tbody>
</table>
{{with .Pages}}<ul{{with .Class}} class="{{.}}"{{end}}>{{range .Items}}<li{{if .Classes}} class="{{join " " .Classes}}"{{end}}>{{if .Link}}<a href="{{.Link}}">{{.Label}}</a>{{else}}<a>{{.Label}}</a>{{end}}</li>{{end}}</ul>
{{end}}`

type headModel struct {
	Open      template.HTML
	Label     string
	Link      string
	Sorted    bool
	SortClass string
}

type cellModel struct {
	Open    template.HTML
	Content template.HTML
}

type rowModel struct {
	Open  template.HTML
	Cells []cellModel
}

type pageItem struct {
	Classes []string
	Link    string
	Label   string
}

type pagesModel struct {
	Class string
	Items []pageItem
}

type tableModel struct {
	Open       template.HTML
	HeadOpen   template.HTML
	Heads      []headModel
	Rows       []rowModel
	Colspan    int
	EmptyValue string
	Pages      *pagesModel
}

// Renderer implements table.Renderer. Cell content is sanitized with a bluemonday policy,
// so columns may produce markup such as links.
type Renderer struct {
	policy *bluemonday.Policy
	tmpl   *template.Template
}

// New returns a renderer sanitizing cells with the UGC policy.
func New() *Renderer {
	return NewWithPolicy(NewPolicy())
}

// NewWithPolicy returns a renderer sanitizing cells with policy.
func NewWithPolicy(policy *bluemonday.Policy) *Renderer {
	return &Renderer{
		policy: policy,
		tmpl:   template.Must(template.New("table").Funcs(sprig.FuncMap()).Parse(layout)),
	}
}

// NewPolicy returns the default cell policy: user generated content plus classes on spans.
func NewPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowStandardURLs()
	p.AllowAttrs("class").OnElements("span", "div")
	return p
}

// Render writes view. Nothing is written when rendering fails.
func (r *Renderer) Render(w io.Writer, view *table.View, urls table.URLGenerator) error {
	model, err := r.model(view, urls)
	if err != nil {
		return errors.Wrapf(err, "unable to render table %s", view.Name())
	}
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, model); err != nil {
		return errors.Wrapf(err, "unable to render table %s", view.Name())
	}
	_, err = buf.WriteTo(w)
	return err
}

func (r *Renderer) model(view *table.View, urls table.URLGenerator) (*tableModel, error) {
	columns := view.Columns()
	tableAttr := view.Attr()
	delete(tableAttr, "id")

	model := &tableModel{
		Open:       openTag("table", tableAttr, "id", view.Name()),
		HeadOpen:   openTag("tr", view.HeadAttr()),
		Colspan:    len(columns),
		EmptyValue: view.EmptyValue(),
	}

	sort := view.Sort()
	pagination := view.Pagination()
	for _, column := range columns {
		head := headModel{
			Open:  openTag("th", column.HeadAttr),
			Label: column.Label,
		}
		if sort != nil && column.Sortable {
			link, err := sortLink(urls, sort, pagination, column)
			if err != nil {
				return nil, err
			}
			head.Link = link
			if sort.Column.Name == column.Name {
				head.Sorted = true
				head.SortClass = sort.ClassDesc
				if sort.Direction == table.Asc {
					head.SortClass = sort.ClassAsc
				}
			}
		}
		model.Heads = append(model.Heads, head)
	}

	for _, row := range view.Rows() {
		rm := rowModel{Open: openTag("tr", row.Attr)}
		for _, column := range columns {
			rm.Cells = append(rm.Cells, cellModel{
				Open:    openTag("td", column.Attr),
				Content: template.HTML(r.policy.Sanitize(column.CellContent(row))),
			})
		}
		model.Rows = append(model.Rows, rm)
	}

	if pagination != nil && pagination.TotalPages > 1 {
		pages, err := pageList(urls, pagination)
		if err != nil {
			return nil, err
		}
		model.Pages = pages
	}
	return model, nil
}

// sortLink links to the table sorted by column: the current sort column toggles its direction,
// other columns start with the default direction. Sorting always goes back to the first page.
func sortLink(urls table.URLGenerator, sort *table.Sort, pagination *table.Pagination, column table.Column) (string, error) {
	direction := sort.DefaultDirection
	if sort.Column.Name == column.Name {
		direction = sort.Direction.Toggle()
	}
	overrides := map[string]string{
		sort.ColumnParam:    column.Name,
		sort.DirectionParam: string(direction),
	}
	if pagination != nil {
		overrides[pagination.Param] = "1"
	}
	return generate(urls, overrides)
}

func pageList(urls table.URLGenerator, p *table.Pagination) (*pagesModel, error) {
	pages := &pagesModel{Class: p.ULClass}
	link := func(page int) (string, error) {
		return generate(urls, map[string]string{p.Param: strconv.Itoa(page)})
	}

	prev := pageItem{Label: prevLabel, Classes: classes(p.LIClass)}
	if p.CurrentPage == 0 {
		prev.Classes = classes(p.LIClass, p.LIClassDisabled)
	} else {
		href, err := link(p.CurrentPage)
		if err != nil {
			return nil, err
		}
		prev.Link = href
	}
	pages.Items = append(pages.Items, prev)

	for page := 0; page < p.TotalPages; page++ {
		href, err := link(page + 1)
		if err != nil {
			return nil, err
		}
		item := pageItem{Label: strconv.Itoa(page + 1), Link: href, Classes: classes(p.LIClass)}
		if page == p.CurrentPage {
			item.Classes = classes(p.LIClass, p.LIClassActive)
		}
		pages.Items = append(pages.Items, item)
	}

	next := pageItem{Label: nextLabel, Classes: classes(p.LIClass)}
	if p.CurrentPage == p.TotalPages-1 {
		next.Classes = classes(p.LIClass, p.LIClassDisabled)
	} else {
		href, err := link(p.CurrentPage + 2)
		if err != nil {
			return nil, err
		}
		next.Link = href
	}
	pages.Items = append(pages.Items, next)
	return pages, nil
}

func generate(urls table.URLGenerator, overrides map[string]string) (string, error) {
	if urls == nil {
		return "", nil
	}
	return urls.Generate(overrides)
}

func classes(names ...string) []string {
	var result []string
	for _, name := range names {
		if name != "" {
			result = append(result, name)
		}
	}
	return result
}

// openTag renders an opening tag with the leading attribute pairs first, then attr sorted by name.
// Attributes with invalid names are dropped, values are escaped.
func openTag(name string, attr map[string]string, leading ...string) template.HTML {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(name)
	for i := 0; i+1 < len(leading); i += 2 {
		writeAttr(&b, leading[i], leading[i+1])
	}
	for _, key := range table.SortedAttr(attr) {
		writeAttr(&b, key, attr[key])
	}
	b.WriteString(">")
	return template.HTML(b.String())
}

func writeAttr(b *strings.Builder, key, value string) {
	if !attrNameRegex.MatchString(key) {
		logrus.Debugf("dropping invalid attribute name %q", key)
		return
	}
	fmt.Fprintf(b, ` %s="%s"`, key, template.HTMLEscapeString(value))
}
