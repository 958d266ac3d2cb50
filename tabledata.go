// Package nicetable implements the data model behind an interactive
// HTML table: it ingests JSON rows, derives column headers, generates
// per column auto-filter values, filters rows by the selected values
// and sorts them with numeric aware, locale specific collation.
//
// The model is a pure in-memory data structure without any rendering
// or I/O of its own (except for the Load helper). Adapters like the
// htmltable package render it and call back into it on user interaction.
//
// A TableData is constructed from one of two JSON forms:
//
//	// Bare row array, headers inferred from the keys of the first row
//	[ { "col1": "v1", "col2": { "text": "v2", "href": "/x" } } ]
//
//	// Explicit schema
//	{
//	  "headers": [
//	    { "key": "col1", "display": "Column 1", "sortable": true },
//	    { "key": "col2", "autoFilters": true }
//	  ],
//	  "data": [ { "col1": "v1", "col2": "v2" } ]
//	}
//
// A TableData is not safe for concurrent use, every table
// must be owned and mutated by a single caller.
package nicetable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/tiendc/go-deepcopy"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
)

// Schema is the explicit form of table data with headers.
type Schema struct {
	Headers []Header  `json:"headers"`
	Data    []RowData `json:"data"`
}

// TableData holds the headers, the original rows and a view
// of the rows that reflects the current sort order and filters.
type TableData struct {
	opts options

	headers   []Header
	headerIdx map[string]int

	// rows are never modified after construction
	rows []Row
	// view contains the same rows as rows
	// but gets sorted and filtered
	view []Row

	filters   []*filterSet
	filterIdx map[string]*filterSet

	collator *collate.Collator
	folder   cases.Caser
}

// filterSet holds the filter values of one column in order.
type filterSet struct {
	key    string
	values []FilterValue
	index  map[string]int
}

func (fs *filterSet) add(v FilterValue) bool {
	if _, exists := fs.index[v.Value]; exists {
		return false
	}
	fs.index[v.Value] = len(fs.values)
	fs.values = append(fs.values, v)
	return true
}

// New parses payload as JSON table data in
// either the bare row array or the schema form
// and returns the constructed TableData.
//
// All errors wrap ErrConstruction.
func New(payload []byte, opts ...Option) (*TableData, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return nil, constructionErrorf("empty JSON payload")
	}
	switch payload[0] {
	case '[':
		var rows []RowData
		if err := json.Unmarshal(payload, &rows); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConstruction, err)
		}
		return NewFromRows(rows, opts...)
	case '{':
		var schema Schema
		if err := json.Unmarshal(payload, &schema); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConstruction, err)
		}
		return NewFromSchema(schema, opts...)
	default:
		return nil, constructionErrorf("expected JSON array or object, got %q", payload[:1])
	}
}

// NewFromRows returns a TableData with headers
// inferred from the keys of the first row.
func NewFromRows(rows []RowData, opts ...Option) (*TableData, error) {
	if len(rows) == 0 {
		return nil, constructionErrorf("no rows to infer headers from")
	}
	return newTableData(inferHeaders(rows[0]), rows, opts)
}

// NewFromSchema returns a TableData with the headers of the schema.
// If the schema has no headers then they are inferred
// from the keys of the first data row.
func NewFromSchema(schema Schema, opts ...Option) (*TableData, error) {
	headers := schema.Headers
	if len(headers) == 0 {
		if len(schema.Data) == 0 {
			return nil, constructionErrorf("no headers and no rows to infer headers from")
		}
		headers = inferHeaders(schema.Data[0])
	}
	return newTableData(headers, schema.Data, opts)
}

func inferHeaders(sample RowData) []Header {
	headers := make([]Header, len(sample.Keys))
	for i, key := range sample.Keys {
		headers[i] = Header{Key: key}
	}
	return headers
}

func newTableData(headers []Header, data []RowData, opts []Option) (*TableData, error) {
	if len(headers) == 0 {
		return nil, constructionErrorf("no headers")
	}
	t := &TableData{
		opts:      defaultOptions(),
		headers:   make([]Header, len(headers)),
		headerIdx: make(map[string]int, len(headers)),
		rows:      make([]Row, len(data)),
		filterIdx: make(map[string]*filterSet),
	}
	for _, opt := range opts {
		opt(&t.opts)
	}
	t.collator = collate.New(t.opts.locale, collate.Numeric, collate.Loose)
	t.folder = cases.Fold()

	for i := range headers {
		h := headers[i].clone()
		if h.Key == "" {
			return nil, constructionErrorf("header %d has no key", i)
		}
		if _, dup := t.headerIdx[h.Key]; dup {
			return nil, constructionErrorf("duplicate header key %q", h.Key)
		}
		t.headerIdx[h.Key] = i
		t.headers[i] = h
	}
	if err := t.mergeHeaders(); err != nil {
		return nil, err
	}

	ids := make(map[string]struct{}, len(data))
	for i, d := range data {
		id := t.opts.idGen()
		if _, dup := ids[id]; dup {
			return nil, constructionErrorf("generated duplicate row ID %q", id)
		}
		ids[id] = struct{}{}
		t.rows[i] = Row{ID: id, Data: d.Clone()}
	}

	if err := deepcopy.Copy(&t.view, &t.rows); err != nil {
		return nil, fmt.Errorf("%w: copy rows: %w", ErrConstruction, err)
	}

	if err := t.generateAutoFilters(); err != nil {
		return nil, err
	}
	return t, nil
}

// mergeHeaders applies the headers of the WithHeaders option.
func (t *TableData) mergeHeaders() error {
	for _, m := range t.opts.headers {
		i, ok := t.headerIdx[m.Key]
		if !ok {
			return constructionErrorf("header settings for unknown column %q", m.Key)
		}
		h := &t.headers[i]
		if m.Display != "" {
			h.Display = m.Display
		}
		h.Sortable = m.Sortable
		h.AutoFilters = m.AutoFilters
		if len(m.AutoFilterValues) > 0 {
			h.AutoFilterValues = slices.Clone(m.AutoFilterValues)
		}
	}
	return nil
}

// generateAutoFilters registers the filter values of every header
// with AutoFilters and generates the distinct cell values
// in first-seen order for headers without explicit values.
// Generated values are distinct under Unicode case folding.
func (t *TableData) generateAutoFilters() error {
	var generate []*filterSet
	for i := range t.headers {
		h := &t.headers[i]
		if !h.AutoFilters {
			continue
		}
		fs := &filterSet{key: h.Key, index: make(map[string]int)}
		for _, v := range h.AutoFilterValues {
			if !fs.add(v) {
				return constructionErrorf("duplicate auto-filter value %q for header %q", v.Value, h.Key)
			}
		}
		// Values live in the filterSet from now on
		h.AutoFilterValues = nil
		t.filters = append(t.filters, fs)
		t.filterIdx[h.Key] = fs
		if len(fs.values) == 0 {
			generate = append(generate, fs)
		}
	}
	// Cells that only differ in case match the same rows,
	// so they share the value of their first occurrence
	folded := make([]map[string]struct{}, len(generate))
	for j := range generate {
		folded[j] = make(map[string]struct{})
	}
	for i := range t.rows {
		for j, fs := range generate {
			text := CellText(t.rows[i].Data, fs.key)
			f := t.folder.String(text)
			if _, seen := folded[j][f]; seen {
				continue
			}
			folded[j][f] = struct{}{}
			fs.add(FilterValue{Value: text})
		}
	}
	return nil
}

// Headers returns a copy of the table headers
// with their current auto-filter values.
func (t *TableData) Headers() []Header {
	headers := make([]Header, len(t.headers))
	for i := range t.headers {
		headers[i] = t.headers[i].clone()
		if fs, ok := t.filterIdx[headers[i].Key]; ok {
			headers[i].AutoFilterValues = slices.Clone(fs.values)
		}
	}
	return headers
}

// Header returns the header with key
// or false if there is no such header.
func (t *TableData) Header(key string) (Header, bool) {
	i, ok := t.headerIdx[key]
	if !ok {
		return Header{}, false
	}
	h := t.headers[i].clone()
	if fs, ok := t.filterIdx[key]; ok {
		h.AutoFilterValues = slices.Clone(fs.values)
	}
	return h, true
}

// Keys returns the header keys in order.
func (t *TableData) Keys() []string {
	keys := make([]string, len(t.headers))
	for i := range t.headers {
		keys[i] = t.headers[i].Key
	}
	return keys
}

// NumRows returns the number of rows including hidden ones.
func (t *TableData) NumRows() int { return len(t.rows) }

// Rows returns a copy of the original rows
// in the order they were constructed with.
func (t *TableData) Rows() []Row {
	return cloneRows(t.rows)
}

// ViewRows returns a copy of the rows in the current
// sort order with their current Hidden flags.
func (t *TableData) ViewRows() []Row {
	return cloneRows(t.view)
}

// VisibleRows returns a copy of the view rows
// that are not hidden by filters.
func (t *TableData) VisibleRows() []Row {
	visible := make([]Row, 0, len(t.view))
	for i := range t.view {
		if !t.view[i].Hidden {
			visible = append(visible, cloneRow(&t.view[i]))
		}
	}
	return visible
}

// FilterKeys returns the keys of all headers
// with auto-filters in header order.
func (t *TableData) FilterKeys() []string {
	keys := make([]string, len(t.filters))
	for i, fs := range t.filters {
		keys[i] = fs.key
	}
	return keys
}

// FilterValues returns a copy of the auto-filter values
// of the header with key.
func (t *TableData) FilterValues(key string) ([]FilterValue, error) {
	fs, err := t.filterSet(key)
	if err != nil {
		return nil, err
	}
	return slices.Clone(fs.values), nil
}

// SelectionState returns if none, some, or all
// auto-filter values of the header with key are selected.
func (t *TableData) SelectionState(key string) (SelectionState, error) {
	fs, err := t.filterSet(key)
	if err != nil {
		return SelectedNone, err
	}
	return SelectionOf(fs.values), nil
}

func (t *TableData) filterSet(key string) (*filterSet, error) {
	fs, ok := t.filterIdx[key]
	if !ok {
		if _, isHeader := t.headerIdx[key]; isHeader {
			return nil, lookupErrorf("header %q has no auto-filters", key)
		}
		return nil, lookupErrorf("unknown header %q", key)
	}
	return fs, nil
}

func cloneRow(r *Row) Row {
	return Row{ID: r.ID, Hidden: r.Hidden, Data: r.Data.Clone()}
}

func cloneRows(rows []Row) []Row {
	c := make([]Row, len(rows))
	for i := range rows {
		c[i] = cloneRow(&rows[i])
	}
	return c
}
