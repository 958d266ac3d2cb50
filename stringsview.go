package nicetable

import (
	"fmt"
	"strings"
)

var _ View = new(StringsView)

// StringsView is a View implementation that uses strings as cell values.
//
// A row within Rows can have fewer elements than Cols,
// in which case empty strings are returned for the missing cells.
type StringsView struct {
	Tit  string
	Cols []string
	Rows [][]string
}

// NewStringsView returns a StringsView with the passed columns.
// If no cols are passed then the first row is used as columns.
// Column names are trimmed of whitespace.
func NewStringsView(title string, rows [][]string, cols ...string) *StringsView {
	if len(cols) == 0 && len(rows) > 0 {
		cols = rows[0]
		rows = rows[1:]
	}
	for i, col := range cols {
		cols[i] = strings.TrimSpace(col)
	}
	return &StringsView{Tit: title, Cols: cols, Rows: rows}
}

// Title implements View.
func (view *StringsView) Title() string { return view.Tit }

// Columns implements View.
func (view *StringsView) Columns() []string { return view.Cols }

// NumRows implements View.
func (view *StringsView) NumRows() int { return len(view.Rows) }

// Cell returns the string at row and col, an empty string
// for a missing cell of a short row or nil if out of bounds.
// Implements View.
func (view *StringsView) Cell(row, col int) any {
	if row < 0 || col < 0 || row >= len(view.Rows) || col >= len(view.Cols) {
		return nil
	}
	if col >= len(view.Rows[row]) {
		return ""
	}
	return view.Rows[row][col]
}

// NewFromView returns a TableData with the columns
// of the view as header keys and its cells as row data.
//
// CellValue cells are used as is, strings as PlainText,
// nil as empty PlainText and other types are
// formatted with fmt.Sprint.
func NewFromView(view View, opts ...Option) (*TableData, error) {
	cols := view.Columns()
	headers := make([]Header, len(cols))
	for i, col := range cols {
		headers[i] = Header{Key: col}
	}
	data := make([]RowData, view.NumRows())
	for row := range data {
		for col, key := range cols {
			data[row].Set(key, cellValueOf(view.Cell(row, col)))
		}
	}
	return NewFromSchema(Schema{Headers: headers, Data: data}, opts...)
}

func cellValueOf(v any) CellValue {
	switch x := v.(type) {
	case nil:
		return Plain("")
	case CellValue:
		return x
	case string:
		return Plain(x)
	default:
		return Plain(fmt.Sprint(x))
	}
}
