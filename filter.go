package nicetable

import (
	"slices"
	"strings"
)

// SelectAll is the value for ToggleAutoFilter
// that toggles all filter values of a column at once.
const SelectAll = "ALL"

// ToggleAutoFilter flips the Selected flag of the filter value
// of the header with key and returns the resulting filter values
// of the column.
//
// If value is SelectAll then all values of the column get selected
// unless all are already selected, in which case all get deselected.
//
// The view is not filtered until ApplyFilters is called.
// Unknown keys and values return an error wrapping ErrLookup.
func (t *TableData) ToggleAutoFilter(key, value string) ([]FilterValue, error) {
	fs, err := t.filterSet(key)
	if err != nil {
		return nil, err
	}
	if value == SelectAll {
		selectAll := SelectionOf(fs.values) != SelectedAll
		for i := range fs.values {
			fs.values[i].Selected = selectAll
		}
		return slices.Clone(fs.values), nil
	}
	i, ok := fs.index[value]
	if !ok {
		return nil, lookupErrorf("unknown auto-filter value %q for header %q", value, key)
	}
	fs.values[i].Selected = !fs.values[i].Selected
	return slices.Clone(fs.values), nil
}

// ClearFilters deselects all filter values
// and applies the filters, so every row becomes visible.
func (t *TableData) ClearFilters() {
	for _, fs := range t.filters {
		for i := range fs.values {
			fs.values[i].Selected = false
		}
	}
	t.ApplyFilters()
}

// HasActiveFilters returns true if any
// filter value of any column is selected.
func (t *TableData) HasActiveFilters() bool {
	for _, fs := range t.filters {
		if SelectionOf(fs.values) != SelectedNone {
			return true
		}
	}
	return false
}

// ApplyFilters recomputes the Hidden flag of every view row.
//
// A column is an active filter if at least one of its values is selected.
// A row stays visible if its cell matches any selected value
// of every active column and gets hidden if it matches none
// of the selected values of at least one active column.
// Without active filters all rows are visible.
func (t *TableData) ApplyFilters() {
	type activeFilter struct {
		key    string
		values []string
	}
	var active []activeFilter
	for _, fs := range t.filters {
		var selected []string
		for _, v := range fs.values {
			if v.Selected {
				selected = append(selected, t.folder.String(v.Value))
			}
		}
		if len(selected) > 0 {
			active = append(active, activeFilter{key: fs.key, values: selected})
		}
	}

	for i := range t.view {
		row := &t.view[i]
		row.Hidden = false
		for _, f := range active {
			if !t.matchesAny(t.folder.String(CellText(row.Data, f.key)), f.values) {
				row.Hidden = true
				break
			}
		}
	}
}

// matchesAny expects text and values to be case folded.
func (t *TableData) matchesAny(text string, values []string) bool {
	for _, v := range values {
		switch t.opts.matchMode {
		case MatchContains:
			if strings.Contains(text, v) {
				return true
			}
		default:
			if text == v {
				return true
			}
		}
	}
	return false
}
