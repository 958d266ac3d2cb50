package nicetable

// View is a read-only tabular view of data
// with column titles and cells addressed by index.
type View interface {
	Title() string
	Columns() []string
	NumRows() int
	// Cell returns the value at row and col
	// or nil if the indices are out of bounds.
	Cell(row, col int) any
}

var _ View = new(TableView)

// TableView is a View of the visible rows of a TableData
// in their sort order at the time the view was created.
//
// Columns returns the display names of the headers,
// cells are of type CellValue.
type TableView struct {
	title   string
	headers []Header
	rows    []Row
}

// View returns a TableView of the currently visible rows.
// Later changes to the TableData are not reflected by the view.
func (t *TableData) View(title string) *TableView {
	return &TableView{
		title:   title,
		headers: t.Headers(),
		rows:    t.VisibleRows(),
	}
}

// Title returns the title passed to TableData.View.
// Implements View.
func (view *TableView) Title() string { return view.title }

// Columns returns the display names of the headers.
// Implements View.
func (view *TableView) Columns() []string {
	cols := make([]string, len(view.headers))
	for i := range view.headers {
		cols[i] = view.headers[i].DisplayName()
	}
	return cols
}

// Keys returns the header keys of the columns.
func (view *TableView) Keys() []string {
	keys := make([]string, len(view.headers))
	for i := range view.headers {
		keys[i] = view.headers[i].Key
	}
	return keys
}

// NumRows returns the number of rows that were
// visible when the view was created.
// Implements View.
func (view *TableView) NumRows() int { return len(view.rows) }

// Cell returns the CellValue at row and col
// or nil if out of bounds.
// Implements View.
func (view *TableView) Cell(row, col int) any {
	if row < 0 || col < 0 || row >= len(view.rows) || col >= len(view.headers) {
		return nil
	}
	return view.rows[row].Cell(view.headers[col].Key)
}

// RowID returns the ID of the row at index row
// or an empty string if out of bounds.
func (view *TableView) RowID(row int) string {
	if row < 0 || row >= len(view.rows) {
		return ""
	}
	return view.rows[row].ID
}
