package nicetable

import (
	"cmp"
	"slices"
)

// SortByColumn sorts the view rows by the normalized
// cell values of the column with key.
//
// If both compared values are integers they are compared
// as numbers, else they are collated with numeric ordering
// ignoring case and accents, so "item 9" sorts before "item 10".
// The sort is stable in both directions, rows with equal
// values keep their relative order.
//
// Hidden flags are not changed.
func (t *TableData) SortByColumn(key string, ascending bool) error {
	if _, ok := t.headerIdx[key]; !ok {
		return lookupErrorf("unknown header %q", key)
	}

	type keyedRow struct {
		row Row
		key SortKey
	}
	keyed := make([]keyedRow, len(t.view))
	for i := range t.view {
		keyed[i] = keyedRow{row: t.view[i], key: CellSortKey(t.view[i].Data, key)}
	}

	slices.SortStableFunc(keyed, func(a, b keyedRow) int {
		result := t.compareSortKeys(a.key, b.key)
		if !ascending {
			return -result
		}
		return result
	})

	for i := range keyed {
		t.view[i] = keyed[i].row
	}
	return nil
}

// Compare compares the normalized cell values of two rows
// for the column with key like SortByColumn does in ascending order.
func (t *TableData) Compare(a, b RowData, key string) int {
	return t.compareSortKeys(CellSortKey(a, key), CellSortKey(b, key))
}

func (t *TableData) compareSortKeys(a, b SortKey) int {
	if a.IsInt && b.IsInt {
		return cmp.Compare(a.Int, b.Int)
	}
	return t.collator.CompareString(a.Text, b.Text)
}
