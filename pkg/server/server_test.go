package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fastclicker/TableBundle/pkg/table"
	"github.com/fastclicker/TableBundle/pkg/table/tabletest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ordersTable struct {
	entity string
}

func (o ordersTable) Name() string {
	if o.entity == "" {
		return "broken"
	}
	return "orders"
}

func (o ordersTable) ConfigureOptions(opts *table.Options) {
	opts.DataEntity = o.entity
}

func (o ordersTable) BuildColumns(b *table.ColumnBuilder) error {
	b.Add(table.Column{Name: "id", Sortable: true}).Add(table.Column{Name: "total"})
	return b.Err()
}

func (o ordersTable) ConfigureSort(*table.SortOptions) {}

func (o ordersTable) ConfigurePagination(opts *table.PaginationOptions) {
	opts.ItemsPerPage = 2
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	registry := table.NewRegistry()
	_, err := registry.Register(ordersTable{entity: "orders"})
	require.NoError(t, err)
	_, err = registry.Register(ordersTable{})
	require.NoError(t, err)

	items := []any{
		map[string]any{"id": 1, "total": "9.99"},
		map[string]any{"id": 2, "total": "19.99"},
		map[string]any{"id": 3, "total": "29.99"},
	}
	s := &Server{
		Registry: registry,
		Sources:  tabletest.Resolver(&tabletest.Source{Items: items}),
		Metrics:  prometheus.NewRegistry(),
	}
	h, err := s.Handler()
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path, accept string) (int, string, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, resp.Header.Get("Content-Type"), string(body)
}

func TestServer(t *testing.T) {
	srv := newTestServer(t)

	type testCase struct {
		description string
		path        string
		accept      string
		status      int
		contentType string
		contains    []string
	}
	tests := []testCase{
		{
			description: "first page",
			path:        "/tables/orders",
			status:      http.StatusOK,
			contentType: "text/html; charset=utf-8",
			contains: []string{
				`<table id="orders">`,
				`<a href="/tables/orders?column=id&amp;direction=asc&amp;page=1">id</a> <span class=""></span>`,
				`<li class="active"><a href="/tables/orders?page=1">1</a></li>`,
				`<td>19.99</td>`,
			},
		},
		{
			description: "second page keeps the query",
			path:        "/tables/orders?page=2&column=id&direction=asc",
			status:      http.StatusOK,
			contentType: "text/html; charset=utf-8",
			contains: []string{
				`<td>29.99</td>`,
				`<li><a href="/tables/orders?column=id&amp;direction=asc&amp;page=1">«</a></li>`,
			},
		},
		{
			description: "text rendering",
			path:        "/tables/orders?page=2",
			accept:      "text/plain",
			status:      http.StatusOK,
			contentType: "text/plain; charset=utf-8",
			contains:    []string{"29.99", "page 2 of 2 (3 items)"},
		},
		{
			description: "unknown table",
			path:        "/tables/nope",
			status:      http.StatusNotFound,
			contains:    []string{"table nope does not exist"},
		},
		{
			description: "page out of range",
			path:        "/tables/orders?page=3",
			status:      http.StatusNotFound,
			contains:    []string{"page 3 does not exist"},
		},
		{
			description: "unsortable column",
			path:        "/tables/orders?column=total",
			status:      http.StatusNotFound,
		},
		{
			description: "invalid table configuration",
			path:        "/tables/broken",
			status:      http.StatusInternalServerError,
		},
		{
			description: "health",
			path:        "/healthz",
			status:      http.StatusOK,
			contains:    []string{"ok"},
		},
		{
			description: "no route",
			path:        "/nope",
			status:      http.StatusNotFound,
		},
	}
	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			status, contentType, body := get(t, srv, test.path, test.accept)
			assert.Equal(t, test.status, status)
			if test.contentType != "" {
				assert.Equal(t, test.contentType, contentType)
			}
			for _, fragment := range test.contains {
				assert.Contains(t, body, fragment)
			}
		})
	}

	status, _, body := get(t, srv, "/metrics", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `tablebundle_builds_total{outcome="ok",table="orders"}`)
	assert.Contains(t, body, `tablebundle_builds_total{outcome="not_found",table="orders"}`)
	assert.Contains(t, body, `tablebundle_builds_total{outcome="invalid_config",table="broken"}`)
}

func TestHandlerDefaults(t *testing.T) {
	_, err := (&Server{}).Handler()
	assert.ErrorIs(t, err, ErrRegistryRequired)

	_, err = (&Server{Registry: table.NewRegistry()}).Handler()
	assert.ErrorIs(t, err, ErrSourcesRequired)
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t)
	resp, err := srv.Client().Get(srv.URL + "/tables/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Len(t, resp.Header.Get("X-Request-Id"), 36)
}

// shopsTable has a filter sharing its name with the table route variable.
type shopsTable struct{}

func (shopsTable) Name() string { return "shops" }

func (shopsTable) ConfigureOptions(opts *table.Options) {
	opts.DataEntity = "shops"
}

func (shopsTable) BuildColumns(b *table.ColumnBuilder) error {
	b.Add(table.Column{Name: "id"}).Add(table.Column{Name: "table_count"})
	return b.Err()
}

func (shopsTable) BuildFilters(b *table.FilterBuilder) error {
	b.Add("table", table.FilterOptions{Operator: table.EQ, Columns: []string{"table_count"}})
	return nil
}

func TestFilterNamedLikeRouteVariable(t *testing.T) {
	registry := table.NewRegistry()
	_, err := registry.Register(shopsTable{})
	require.NoError(t, err)
	source := &tabletest.Source{Items: []any{map[string]any{"id": 1, "table_count": 4}}}
	h, err := (&Server{Registry: registry, Sources: tabletest.Resolver(source), Metrics: prometheus.NewRegistry()}).Handler()
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	status, _, _ := get(t, srv, "/tables/shops", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, source.Last.Filters, "the table name is not a filter value")

	status, _, _ = get(t, srv, "/tables/shops?table=4", "")
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, source.Last.Filters, 1)
	assert.Equal(t, "table", source.Last.Filters[0].Name)
	assert.Equal(t, "4", source.Last.Filters[0].Value)
}
