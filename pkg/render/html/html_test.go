package html

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/fastclicker/TableBundle/pkg/render/urlgen"
	"github.com/fastclicker/TableBundle/pkg/table"
	"github.com/fastclicker/TableBundle/pkg/table/tabletest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type usersTable struct {
	sortable  bool
	paginated bool
}

func (u usersTable) Name() string { return "users" }

func (u usersTable) ConfigureOptions(opts *table.Options) {
	opts.DataEntity = "users"
	opts.Attr = map[string]string{"class": "table", "data-x": `a"b`, "on click": "x"}
	opts.HeadAttr = map[string]string{"class": "head"}
}

func (u usersTable) BuildColumns(b *table.ColumnBuilder) error {
	b.Add(table.Column{Name: "id", Label: "#", Sortable: true, HeadAttr: map[string]string{"style": "width: 1em"}}).
		Add(table.Column{Name: "name", Sortable: true, Attr: map[string]string{"class": "name"}}).
		Add(table.Column{Name: "bio"})
	return b.Err()
}

func (u usersTable) ConfigureSort(opts *table.SortOptions) {
	opts.DefaultColumn = "id"
	opts.ClassAsc = "sort-asc"
	opts.ClassDesc = "sort-desc"
}

func (u usersTable) ConfigurePagination(opts *table.PaginationOptions) {
	opts.ItemsPerPage = 2
}

func (u usersTable) RowAttributes(row table.Row) map[string]string {
	return map[string]string{"data-position": fmt.Sprint(row.Position)}
}

func (u usersTable) Capabilities() table.Capability {
	var c table.Capability
	if u.sortable {
		c |= table.CapSort
	}
	if u.paginated {
		c |= table.CapPaginate
	}
	return c
}

func users(n int) []any {
	items := []any{}
	for i := 1; i <= n; i++ {
		items = append(items, map[string]any{
			"id":   i,
			"name": fmt.Sprintf("user%d", i),
			"bio":  "<b>bold</b><script>alert(1)</script>",
		})
	}
	return items
}

func render(t *testing.T, typ usersTable, items []any, query url.Values) string {
	t.Helper()
	assembler := table.NewAssembler(tabletest.Resolver(&tabletest.Source{Items: items}), New())
	view, err := assembler.Build(context.Background(), table.MustRegister(typ), table.Values(query))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, view.Render(&buf, urlgen.New("/tables/users", query)))
	return buf.String()
}

func TestRenderSortedPage(t *testing.T) {
	query := url.Values{"page": {"2"}, "column": {"id"}, "direction": {"asc"}}
	out := render(t, usersTable{sortable: true, paginated: true}, users(5), query)

	expected := []string{
		`<table id="users" class="table" data-x="a&#34;b">`,
		`<thead><tr class="head">`,
		`<th style="width: 1em"><a href="/tables/users?column=id&amp;direction=desc&amp;page=1">#</a> <span class="sort-asc"></span></th>`,
		`<th><a href="/tables/users?column=name&amp;direction=desc&amp;page=1">name</a></th>`,
		`<th>bio</th></tr></thead>`,
		`<tr data-position="3"><td>3</td><td class="name">user3</td><td><b>bold</b></td></tr>`,
		`<tr data-position="4"><td>4</td><td class="name">user4</td><td><b>bold</b></td></tr>`,
		`<ul class="pagination">`,
		`<li><a href="/tables/users?column=id&amp;direction=asc&amp;page=1">«</a></li>`,
		`<li><a href="/tables/users?column=id&amp;direction=asc&amp;page=1">1</a></li>`,
		`<li class="active"><a href="/tables/users?column=id&amp;direction=asc&amp;page=2">2</a></li>`,
		`<li><a href="/tables/users?column=id&amp;direction=asc&amp;page=3">3</a></li>`,
		`<li><a href="/tables/users?column=id&amp;direction=asc&amp;page=3">»</a></li></ul>`,
	}
	for _, fragment := range expected {
		assert.Contains(t, out, fragment)
	}
	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "on click")
	assert.NotContains(t, out, "user5")
}

func TestRenderFirstAndLastPage(t *testing.T) {
	out := render(t, usersTable{paginated: true}, users(5), url.Values{})
	assert.Contains(t, out, `<li class="disabled"><a>«</a></li>`)
	assert.Contains(t, out, `<li class="active"><a href="/tables/users?page=1">1</a></li>`)
	assert.Contains(t, out, `<li><a href="/tables/users?page=2">»</a></li>`)

	out = render(t, usersTable{paginated: true}, users(5), url.Values{"page": {"3"}})
	assert.Contains(t, out, `<li><a href="/tables/users?page=2">«</a></li>`)
	assert.Contains(t, out, `<li class="disabled"><a>»</a></li>`)
	assert.Contains(t, out, `<tr data-position="5">`)
}

func TestRenderDescendingSort(t *testing.T) {
	out := render(t, usersTable{sortable: true}, users(2), url.Values{"column": {"name"}})
	assert.Contains(t, out, `<a href="/tables/users?column=name&amp;direction=asc">name</a> <span class="sort-desc"></span>`)
	assert.Contains(t, out, `<a href="/tables/users?column=id&amp;direction=desc">#</a></th>`)
	assert.NotContains(t, out, "<ul")
}

func TestRenderWithoutCapabilities(t *testing.T) {
	out := render(t, usersTable{}, users(3), url.Values{})
	assert.Contains(t, out, `<th style="width: 1em">#</th><th>name</th><th>bio</th>`)
	assert.NotContains(t, out, "<a")
	assert.NotContains(t, out, "<ul")
	assert.Equal(t, 3, strings.Count(out, "<tr data-position="))
}

func TestRenderEmpty(t *testing.T) {
	out := render(t, usersTable{sortable: true, paginated: true}, nil, url.Values{})
	assert.Contains(t, out, `<tbody><tr><td colspan="3">No data found.</td></tr></tbody>`)
	assert.NotContains(t, out, "<ul")
}

func TestRenderWithoutURLs(t *testing.T) {
	assembler := table.NewAssembler(tabletest.Resolver(&tabletest.Source{Items: users(1)}), New())
	view, err := assembler.Build(context.Background(), table.MustRegister(usersTable{sortable: true}), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, New().Render(&buf, view, nil))
	assert.Contains(t, buf.String(), `<th>name</th>`)
}

type failingURLs struct{}

func (failingURLs) Generate(map[string]string) (string, error) {
	return "", fmt.Errorf("no route")
}

func TestRenderURLError(t *testing.T) {
	assembler := table.NewAssembler(tabletest.Resolver(&tabletest.Source{Items: users(1)}), New())
	view, err := assembler.Build(context.Background(), table.MustRegister(usersTable{sortable: true}), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = view.Render(&buf, failingURLs{})
	assert.ErrorContains(t, err, "no route")
	assert.Empty(t, buf.String())
}
