package table

import (
	"testing"

	"github.com/Velocidex/ordereddict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user struct {
	ID        int
	FirstName string
	secret    string
}

func TestFieldValue(t *testing.T) {
	dict := ordereddict.NewDict().Set("id", 1).Set("first_name", "Ada")
	type testCase struct {
		description string
		item        any
		field       string
		expected    any
		found       bool
	}
	tests := []testCase{
		{description: "ordered dict", item: dict, field: "first_name", expected: "Ada", found: true},
		{description: "ordered dict miss", item: dict, field: "last_name"},
		{description: "map of any", item: map[string]any{"id": 3}, field: "id", expected: 3, found: true},
		{description: "map of strings", item: map[string]string{"id": "3"}, field: "id", expected: "3", found: true},
		{description: "struct", item: user{ID: 4}, field: "ID", expected: 4, found: true},
		{description: "struct pointer", item: &user{FirstName: "Grace"}, field: "FirstName", expected: "Grace", found: true},
		{description: "unexported field", item: user{secret: "x"}, field: "secret"},
		{description: "nil pointer", item: (*user)(nil), field: "ID"},
		{description: "nil", item: nil, field: "ID"},
		{description: "scalar", item: 42, field: "ID"},
	}
	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			value, found := FieldValue(test.item, test.field)
			assert.Equal(t, test.found, found)
			assert.Equal(t, test.expected, value)
		})
	}
}

func TestCellContent(t *testing.T) {
	row := Row{Item: map[string]any{"id": 7, "name": nil}, Position: 3}

	assert.Equal(t, "7", Column{Field: "id"}.CellContent(row))
	assert.Equal(t, "", Column{Field: "name"}.CellContent(row))
	assert.Equal(t, "", Column{Field: "missing"}.CellContent(row))

	dict := ordereddict.NewDict().Set("first_name", "Ada").Set("surname", "Lovelace")
	assert.Equal(t, "Ada", Column{Name: "first", Field: "u.first_name"}.CellContent(Row{Item: dict}), "unqualified field")
	assert.Equal(t, "Lovelace", Column{Name: "surname", Field: "u.last_name"}.CellContent(Row{Item: dict}), "column name")
	assert.Equal(t, "", Column{Name: "age", Field: "u.age"}.CellContent(Row{Item: dict}))

	custom := Column{Field: "id", Content: func(row Row) string { return "#" + Column{Field: "id"}.CellContent(row) }}
	assert.Equal(t, "#7", custom.CellContent(row))
}

func TestColumnBuilder(t *testing.T) {
	b := newColumnBuilder()
	b.Add(Column{Name: "id", Sortable: true}).
		Add(Column{Name: "author", Label: "Author", Field: "a.name", Attr: map[string]string{"class": "author"}}).
		Add(Column{Name: "title"})
	require.NoError(t, b.Err())

	columns := b.Columns()
	assert.Equal(t, 3, columns.Len())

	list := columns.List()
	names := []string{}
	for _, c := range list {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"id", "author", "title"}, names)

	id, ok := columns.Get("id")
	require.True(t, ok)
	assert.Equal(t, "id", id.Label)
	assert.Equal(t, "id", id.Field)

	author, ok := columns.Get("author")
	require.True(t, ok)
	assert.Equal(t, "Author", author.Label)
	assert.Equal(t, "a.name", author.Field)
	author.Attr["class"] = "changed"
	author, _ = columns.Get("author")
	assert.Equal(t, "author", author.Attr["class"])

	first, ok := columns.FirstSortable()
	require.True(t, ok)
	assert.Equal(t, "id", first.Name)
}

func TestColumnBuilderErrors(t *testing.T) {
	b := newColumnBuilder()
	b.Add(Column{Name: "id"}).Add(Column{Name: "id"}).Add(Column{})
	require.Error(t, b.Err())
	assert.True(t, IsInvalidConfig(b.Err()))
	assert.Contains(t, b.Err().Error(), `duplicate column "id"`)

	b = newColumnBuilder()
	b.Add(Column{})
	assert.True(t, IsInvalidConfig(b.Err()))

	var empty Columns
	assert.Equal(t, 0, empty.Len())
	assert.Nil(t, empty.List())
	_, ok := empty.FirstSortable()
	assert.False(t, ok)
}
