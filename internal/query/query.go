// Package query carries the sort and filter state of a table
// between requests or command invocations and applies it
// to a freshly constructed nicetable.TableData.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/domonda/go-nicetable"
	"github.com/domonda/go-nicetable/htmltable"
)

// ErrInvalid is wrapped by all parsing errors.
var ErrInvalid = errors.New("invalid table query")

// Sort is the requested sort column and direction.
type Sort struct {
	Key       string `json:"key"`
	Ascending bool   `json:"ascending"`
}

// Selection is the list of selected filter values of one column.
type Selection struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

// State is the sort and filter state of a table.
type State struct {
	Sort    *Sort       `json:"sort,omitempty"`
	Filters []Selection `json:"filters,omitempty"`
}

// ParseSort parses a sort value like "title:asc" or "title:desc".
// A key without direction sorts ascending.
func ParseSort(value string) (*Sort, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	key, dir, _ := strings.Cut(value, ":")
	if key == "" {
		return nil, fmt.Errorf("%w: missing sort key in %q", ErrInvalid, value)
	}
	switch strings.ToLower(dir) {
	case "", "asc":
		return &Sort{Key: key, Ascending: true}, nil
	case "desc":
		return &Sort{Key: key, Ascending: false}, nil
	default:
		return nil, fmt.Errorf("%w: sort direction %q", ErrInvalid, dir)
	}
}

// FromValues reads the state from URL query values
// in the format submitted by the htmltable form.
// Filter columns are ordered by key.
func FromValues(values url.Values) (*State, error) {
	s, err := ParseSort(values.Get(htmltable.SortParam))
	if err != nil {
		return nil, err
	}
	state := &State{Sort: s}
	var keys []string
	for param := range values {
		if key, ok := strings.CutPrefix(param, htmltable.FilterParamPrefix); ok && key != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		state.add(key, values[htmltable.FilterParamPrefix+key]...)
	}
	return state, nil
}

// FromFlags reads the state from a sort flag value
// and filter flag values in the format "key=value".
// Filter columns keep the order of their first flag.
func FromFlags(sortValue string, filters []string) (*State, error) {
	s, err := ParseSort(sortValue)
	if err != nil {
		return nil, err
	}
	state := &State{Sort: s}
	for _, f := range filters {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: filter %q, expected key=value", ErrInvalid, f)
		}
		state.add(key, value)
	}
	return state, nil
}

func (s *State) add(key string, values ...string) {
	for i := range s.Filters {
		if s.Filters[i].Key == key {
			s.Filters[i].Values = append(s.Filters[i].Values, values...)
			return
		}
	}
	s.Filters = append(s.Filters, Selection{Key: key, Values: values})
}

// IsZero returns true if the state neither sorts nor filters.
func (s *State) IsZero() bool {
	return s == nil || (s.Sort == nil && len(s.Filters) == 0)
}

// Values returns the state as URL query values.
func (s *State) Values() url.Values {
	values := make(url.Values)
	if s == nil {
		return values
	}
	if s.Sort != nil {
		values.Set(htmltable.SortParam, htmltable.SortValue(s.Sort.Key, s.Sort.Ascending))
	}
	for _, f := range s.Filters {
		for _, v := range f.Values {
			values.Add(htmltable.FilterParamPrefix+f.Key, v)
		}
	}
	return values
}

// Apply selects the filter values of the state,
// applies the filters and then sorts the table.
//
// The table is expected to be freshly constructed
// without any selected filter values.
// nicetable.SelectAll selects all values of a column
// unless individual values of the column are passed as well,
// then only those are selected.
// Duplicate values are only toggled once.
// Errors wrap nicetable.ErrLookup.
func (s *State) Apply(table *nicetable.TableData) error {
	if s == nil {
		return nil
	}
	for _, f := range s.Filters {
		selectAll := false
		toggled := make(map[string]bool, len(f.Values))
		for _, v := range f.Values {
			if v == nicetable.SelectAll {
				selectAll = true
				continue
			}
			if toggled[v] {
				continue
			}
			toggled[v] = true
			if _, err := table.ToggleAutoFilter(f.Key, v); err != nil {
				return err
			}
		}
		if selectAll && len(toggled) == 0 {
			if _, err := table.ToggleAutoFilter(f.Key, nicetable.SelectAll); err != nil {
				return err
			}
		}
	}
	table.ApplyFilters()
	if s.Sort != nil {
		if err := table.SortByColumn(s.Sort.Key, s.Sort.Ascending); err != nil {
			return err
		}
	}
	return nil
}

// Writer returns w configured with the sort state.
func (s *State) Writer(w *htmltable.Writer) *htmltable.Writer {
	if s == nil || s.Sort == nil {
		return w.WithSort("", false)
	}
	return w.WithSort(s.Sort.Key, s.Sort.Ascending)
}
