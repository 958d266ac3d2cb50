package nicetable

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return "row" + strconv.Itoa(n)
	})
}

func mustNew(t *testing.T, payload string, opts ...Option) *TableData {
	t.Helper()
	table, err := New([]byte(payload), append([]Option{sequentialIDs()}, opts...)...)
	require.NoError(t, err)
	return table
}

func viewTexts(table *TableData, key string) []string {
	var texts []string
	for _, row := range table.ViewRows() {
		texts = append(texts, CellText(row.Data, key))
	}
	return texts
}

func visibleTexts(table *TableData, key string) []string {
	var texts []string
	for _, row := range table.VisibleRows() {
		texts = append(texts, CellText(row.Data, key))
	}
	return texts
}

func TestNew_InferredHeaders(t *testing.T) {
	table := mustNew(t, `[
		{"zeta": "1", "alpha": {"text": "A", "href": "/a"}, "mid": "x"},
		{"zeta": "2", "alpha": "B", "mid": "y", "extra": "ignored for headers"}
	]`)

	require.Equal(t, []string{"zeta", "alpha", "mid"}, table.Keys())
	for _, h := range table.Headers() {
		assert.False(t, h.Sortable, h.Key)
		assert.False(t, h.AutoFilters, h.Key)
		assert.Equal(t, h.Key, h.DisplayName())
	}

	rows := table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "row1", rows[0].ID)
	assert.Equal(t, "row2", rows[1].ID)
	assert.Equal(t, Link("A", "/a"), rows[0].Cell("alpha"))
	assert.Equal(t, Plain("B"), rows[1].Cell("alpha"))
}

func TestNew_Schema(t *testing.T) {
	table := mustNew(t, `{
		"headers": [
			{"key": "col1", "display": "Column 1", "sortable": true},
			{"key": "col2", "autoFilters": true},
			{"key": "col3", "autoFilters": true, "autoFilterValues": [{"value": "b", "display": "Bee"}, {"value": "a"}]}
		],
		"data": [
			{"col1": "v1", "col2": "x", "col3": "a"},
			{"col1": "v2", "col2": "<i>y</i>", "col3": "b"},
			{"col1": "v3", "col2": "x", "col3": "c"}
		]
	}`)

	headers := table.Headers()
	require.Len(t, headers, 3)
	assert.Equal(t, "Column 1", headers[0].DisplayName())
	assert.True(t, headers[0].Sortable)
	assert.Equal(t, []string{"col2", "col3"}, table.FilterKeys())

	values, err := table.FilterValues("col2")
	require.NoError(t, err)
	assert.Equal(t, []FilterValue{{Value: "x"}, {Value: "y"}}, values, "generated in first-seen order, markup stripped")

	values, err = table.FilterValues("col3")
	require.NoError(t, err)
	assert.Equal(t, []FilterValue{{Value: "b", Display: "Bee"}, {Value: "a"}}, values, "explicit values are not extended")
	assert.Equal(t, "Bee", values[0].Label())
	assert.Equal(t, "a", values[1].Label())

	_, err = table.FilterValues("col1")
	require.ErrorIs(t, err, ErrLookup)
	_, err = table.FilterValues("nope")
	require.ErrorIs(t, err, ErrLookup)
}

func TestNew_SchemaWithoutHeaders(t *testing.T) {
	table := mustNew(t, `{"data": [{"b": "1", "a": "2"}]}`)
	assert.Equal(t, []string{"b", "a"}, table.Keys())
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty", payload: ``},
		{name: "whitespace", payload: " \n "},
		{name: "empty array", payload: `[]`},
		{name: "not JSON", payload: `{headers`},
		{name: "scalar", payload: `"hello"`},
		{name: "row not an object", payload: `[1, 2]`},
		{name: "array cell", payload: `[{"a": [1]}]`},
		{name: "empty first row", payload: `[{}]`},
		{name: "empty schema", payload: `{}`},
		{name: "header without key", payload: `{"headers": [{"display": "X"}], "data": []}`},
		{name: "duplicate header key", payload: `{"headers": [{"key": "a"}, {"key": "a"}], "data": []}`},
		{name: "duplicate filter value", payload: `{"headers": [{"key": "a", "autoFilters": true, "autoFilterValues": [{"value": "x"}, {"value": "x"}]}], "data": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := New([]byte(tt.payload))
			require.ErrorIs(t, err, ErrConstruction)
			require.Nil(t, table)
		})
	}
}

func TestNew_DuplicateRowIDs(t *testing.T) {
	_, err := New([]byte(`[{"a": "1"}, {"a": "2"}]`), WithIDGenerator(func() string { return "same" }))
	require.ErrorIs(t, err, ErrConstruction)
}

func TestNew_DefaultIDsAreUnique(t *testing.T) {
	table, err := New([]byte(`[{"a": "1"}, {"a": "2"}, {"a": "3"}]`))
	require.NoError(t, err)
	ids := make(map[string]bool)
	for _, row := range table.Rows() {
		require.NotEmpty(t, row.ID)
		ids[row.ID] = true
	}
	assert.Len(t, ids, 3)
}

func TestNew_HeaderKeysUnique(t *testing.T) {
	payloads := []string{
		`[{"a": "1", "b": "2", "c": "3"}]`,
		`{"headers": [{"key": "x"}], "data": []}`,
		`{"data": [{"q": "1"}]}`,
	}
	for _, payload := range payloads {
		table := mustNew(t, payload)
		keys := table.Keys()
		require.GreaterOrEqual(t, len(keys), 1)
		seen := make(map[string]bool)
		for _, key := range keys {
			require.False(t, seen[key], "duplicate key %q", key)
			seen[key] = true
		}
	}
}

func TestNew_WithHeaders(t *testing.T) {
	table := mustNew(t,
		`[{"title": "Dune", "genre": "SciFi"}, {"title": "Emma", "genre": "Classic"}]`,
		WithHeaders(
			Header{Key: "title", Display: "Title", Sortable: true},
			Header{Key: "genre", AutoFilters: true},
		),
	)

	title, ok := table.Header("title")
	require.True(t, ok)
	assert.Equal(t, "Title", title.DisplayName())
	assert.True(t, title.Sortable)
	assert.False(t, title.AutoFilters)

	genre, ok := table.Header("genre")
	require.True(t, ok)
	assert.Equal(t, "genre", genre.DisplayName())
	assert.False(t, genre.Sortable)
	assert.True(t, genre.AutoFilters)

	assert.Equal(t, []string{"genre"}, table.FilterKeys())
	values, err := table.FilterValues("genre")
	require.NoError(t, err)
	assert.Equal(t, []FilterValue{{Value: "SciFi"}, {Value: "Classic"}}, values)

	require.NoError(t, table.SortByColumn("title", false))
	assert.Equal(t, []string{"Emma", "Dune"}, viewTexts(table, "title"))
}

func TestNew_WithHeadersMerge(t *testing.T) {
	payload := `{
		"headers": [{"key": "a", "display": "Alpha", "sortable": true}, {"key": "b"}],
		"data": [{"a": "1", "b": "x"}, {"a": "2", "b": "y"}]
	}`

	tests := []struct {
		name    string
		headers []Header
		want    []Header
	}{
		{
			name: "no headers",
			want: []Header{{Key: "a", Display: "Alpha", Sortable: true}, {Key: "b"}},
		},
		{
			name:    "display kept when empty",
			headers: []Header{{Key: "a", Sortable: true, AutoFilters: true}},
			want:    []Header{{Key: "a", Display: "Alpha", Sortable: true, AutoFilters: true, AutoFilterValues: []FilterValue{{Value: "1"}, {Value: "2"}}}, {Key: "b"}},
		},
		{
			name:    "settings replaced",
			headers: []Header{{Key: "a", Display: "A"}},
			want:    []Header{{Key: "a", Display: "A"}, {Key: "b"}},
		},
		{
			name:    "explicit filter values",
			headers: []Header{{Key: "b", AutoFilters: true, AutoFilterValues: []FilterValue{{Value: "y", Display: "Why"}}}},
			want:    []Header{{Key: "a", Display: "Alpha", Sortable: true}, {Key: "b", AutoFilters: true, AutoFilterValues: []FilterValue{{Value: "y", Display: "Why"}}}},
		},
		{
			name:    "later header wins",
			headers: []Header{{Key: "b", Sortable: true}, {Key: "b", AutoFilters: true}},
			want:    []Header{{Key: "a", Display: "Alpha", Sortable: true}, {Key: "b", AutoFilters: true, AutoFilterValues: []FilterValue{{Value: "x"}, {Value: "y"}}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := mustNew(t, payload, WithHeaders(tt.headers...))
			assert.Equal(t, tt.want, table.Headers())
		})
	}
}

func TestNew_WithHeadersUnknownKey(t *testing.T) {
	table, err := New([]byte(`[{"a": "1"}]`), WithHeaders(Header{Key: "missing", Sortable: true}))
	require.ErrorIs(t, err, ErrConstruction)
	require.Nil(t, table)
}

func TestTableData_ViewIsIndependentCopy(t *testing.T) {
	table := mustNew(t, `{
		"headers": [{"key": "n", "sortable": true}, {"key": "f", "autoFilters": true}],
		"data": [{"n": "3", "f": "a"}, {"n": "1", "f": "b"}, {"n": "2", "f": "a"}]
	}`)

	_, err := table.ToggleAutoFilter("f", "a")
	require.NoError(t, err)
	table.ApplyFilters()
	require.NoError(t, table.SortByColumn("n", true))

	// Original rows are untouched
	original := table.Rows()
	assert.Equal(t, []string{"3", "1", "2"}, []string{
		CellText(original[0].Data, "n"),
		CellText(original[1].Data, "n"),
		CellText(original[2].Data, "n"),
	})
	for _, row := range original {
		assert.False(t, row.Hidden)
	}

	// Same row identities in the view
	viewIDs := make(map[string]bool)
	for _, row := range table.ViewRows() {
		viewIDs[row.ID] = true
	}
	for _, row := range original {
		assert.True(t, viewIDs[row.ID], row.ID)
	}
	assert.Len(t, viewIDs, len(original))

	// Mutating returned rows does not affect the table
	rows := table.ViewRows()
	rows[0].Data.Set("n", Plain("changed"))
	assert.Equal(t, []string{"1", "2", "3"}, viewTexts(table, "n"))
}

func TestTableData_SelectionState(t *testing.T) {
	table := mustNew(t, `{"headers": [{"key": "a", "autoFilters": true}], "data": [{"a": "x"}, {"a": "y"}]}`)

	state, err := table.SelectionState("a")
	require.NoError(t, err)
	assert.Equal(t, SelectedNone, state)

	_, err = table.ToggleAutoFilter("a", "x")
	require.NoError(t, err)
	state, _ = table.SelectionState("a")
	assert.Equal(t, SelectedSome, state)

	_, err = table.ToggleAutoFilter("a", "y")
	require.NoError(t, err)
	state, _ = table.SelectionState("a")
	assert.Equal(t, SelectedAll, state)
	assert.Equal(t, "all", state.String())

	_, err = table.SelectionState("b")
	require.ErrorIs(t, err, ErrLookup)
}

func TestFetchError(t *testing.T) {
	inner := errors.New("connection refused")
	var err error = &FetchError{Location: "https://example.com/t.json", Err: inner}
	require.ErrorIs(t, err, inner)
	var fetchErr *FetchError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &fetchErr)
	assert.Equal(t, "https://example.com/t.json", fetchErr.Location)
}

func ExampleTableData_SortByColumn() {
	table, err := New([]byte(`{
		"headers": [{"key": "n", "sortable": true}],
		"data": [{"n": "10"}, {"n": "9"}, {"n": "2"}]
	}`))
	if err != nil {
		panic(err)
	}
	err = table.SortByColumn("n", true)
	if err != nil {
		panic(err)
	}
	for _, row := range table.ViewRows() {
		fmt.Println(CellText(row.Data, "n"))
	}

	// Output:
	// 2
	// 9
	// 10
}
