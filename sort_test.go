package nicetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableData_SortByColumn(t *testing.T) {
	tests := []struct {
		name      string
		values    []string
		ascending bool
		want      []string
	}{
		{
			name:      "numeric aware text",
			values:    []string{"item 9", "item 10", "item 2"},
			ascending: true,
			want:      []string{"item 2", "item 9", "item 10"},
		},
		{
			name:      "numeric aware text descending",
			values:    []string{"item 9", "item 10", "item 2"},
			ascending: false,
			want:      []string{"item 10", "item 9", "item 2"},
		},
		{
			name:      "integers",
			values:    []string{"10", "9", "-3", "100"},
			ascending: true,
			want:      []string{"-3", "9", "10", "100"},
		},
		{
			name:      "integers in markup",
			values:    []string{"<b>42</b>", "7", "<i>100</i>"},
			ascending: true,
			want:      []string{"7", "42", "100"},
		},
		{
			name:      "case insensitive",
			values:    []string{"banana", "Apple", "cherry"},
			ascending: true,
			want:      []string{"Apple", "banana", "cherry"},
		},
		{
			name:      "accent insensitive keeps order of equal values",
			values:    []string{"Zoo", "éclair", "eclair"},
			ascending: true,
			want:      []string{"éclair", "eclair", "Zoo"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]RowData, len(tt.values))
			for i, v := range tt.values {
				data[i] = NewRowData("k", v)
			}
			table, err := NewFromSchema(Schema{Headers: []Header{{Key: "k", Sortable: true}}, Data: data}, sequentialIDs())
			require.NoError(t, err)

			require.NoError(t, table.SortByColumn("k", tt.ascending))
			assert.Equal(t, tt.want, viewTexts(table, "k"))
		})
	}
}

func TestTableData_SortByColumn_Stable(t *testing.T) {
	table := mustNew(t, `[
		{"k": "b", "n": "1"},
		{"k": "a", "n": "2"},
		{"k": "b", "n": "3"},
		{"k": "a", "n": "4"}
	]`)

	require.NoError(t, table.SortByColumn("k", true))
	assert.Equal(t, []string{"2", "4", "1", "3"}, viewTexts(table, "n"))

	require.NoError(t, table.SortByColumn("k", false))
	assert.Equal(t, []string{"1", "3", "2", "4"}, viewTexts(table, "n"))

	// Descending directly from the original order
	table = mustNew(t, `[
		{"k": "b", "n": "1"},
		{"k": "a", "n": "2"},
		{"k": "b", "n": "3"},
		{"k": "a", "n": "4"}
	]`)
	require.NoError(t, table.SortByColumn("k", false))
	assert.Equal(t, []string{"1", "3", "2", "4"}, viewTexts(table, "n"))
}

func TestTableData_SortByColumn_KeepsHiddenFlags(t *testing.T) {
	table := mustNew(t, `{
		"headers": [{"key": "n"}, {"key": "f", "autoFilters": true}],
		"data": [{"n": "3", "f": "x"}, {"n": "2", "f": "y"}, {"n": "1", "f": "x"}]
	}`)
	_, err := table.ToggleAutoFilter("f", "x")
	require.NoError(t, err)
	table.ApplyFilters()

	require.NoError(t, table.SortByColumn("n", true))
	assert.Equal(t, []string{"1", "3"}, visibleTexts(table, "n"))
	assert.Equal(t, []string{"1", "2", "3"}, viewTexts(table, "n"))
}

func TestTableData_SortByColumn_UnknownKey(t *testing.T) {
	table := mustNew(t, `[{"a": "1"}]`)
	require.ErrorIs(t, table.SortByColumn("b", true), ErrLookup)
}

func TestTableData_Compare(t *testing.T) {
	table := mustNew(t, `[{"a": "1"}]`)
	assert.Negative(t, table.Compare(NewRowData("a", "2"), NewRowData("a", "10"), "a"))
	assert.Positive(t, table.Compare(NewRowData("a", "file 10"), NewRowData("a", "File 9"), "a"))
	assert.Zero(t, table.Compare(NewRowData("a", "<b>5</b>"), NewRowData("a", "5"), "a"))
}
