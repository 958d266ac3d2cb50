package nicetable

// Header describes a table column.
type Header struct {
	// Key of the column in the row data, unique per table.
	Key string `json:"key"`
	// Display name of the column, Key is used if empty.
	Display string `json:"display,omitempty"`
	// Sortable columns can be sorted by the user.
	Sortable bool `json:"sortable,omitempty"`
	// AutoFilters enables filtering by the values of the column.
	AutoFilters bool `json:"autoFilters,omitempty"`
	// AutoFilterValues are the selectable filter values.
	// If AutoFilters is set and no values are provided
	// then they are generated from the distinct cell values.
	AutoFilterValues []FilterValue `json:"autoFilterValues,omitempty"`
}

// DisplayName returns Display or Key if Display is empty.
func (h *Header) DisplayName() string {
	if h.Display != "" {
		return h.Display
	}
	return h.Key
}

func (h *Header) clone() Header {
	c := *h
	c.AutoFilterValues = append([]FilterValue(nil), h.AutoFilterValues...)
	return c
}

// FilterValue is one selectable value of a column's auto-filter menu.
type FilterValue struct {
	// Value is compared with the normalized cell text,
	// unique within the filter values of a column.
	Value string `json:"value"`
	// Display label, Value is used if empty.
	Display  string `json:"display,omitempty"`
	Selected bool   `json:"selected,omitempty"`
}

// Label returns Display or Value if Display is empty.
func (v *FilterValue) Label() string {
	if v.Display != "" {
		return v.Display
	}
	return v.Value
}

// SelectionState summarizes the selected flags of a column's filter values.
type SelectionState int

const (
	// SelectedNone means no value is selected.
	SelectedNone SelectionState = iota
	// SelectedSome means at least one but not all values are selected.
	SelectedSome
	// SelectedAll means every value is selected.
	SelectedAll
)

func (s SelectionState) String() string {
	switch s {
	case SelectedSome:
		return "some"
	case SelectedAll:
		return "all"
	default:
		return "none"
	}
}

// SelectionOf returns the SelectionState of values.
// An empty slice counts as SelectedNone.
func SelectionOf(values []FilterValue) SelectionState {
	selected := 0
	for i := range values {
		if values[i].Selected {
			selected++
		}
	}
	switch {
	case selected == 0:
		return SelectedNone
	case selected == len(values):
		return SelectedAll
	default:
		return SelectedSome
	}
}
