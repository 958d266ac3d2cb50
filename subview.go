package nicetable

var _ View = new(SubView)

// SubView is a View of a row range and a column
// selection of a Source view.
type SubView struct {
	Source View
	// RowOffset is the index of the first Source row, negative is zero.
	RowOffset int
	// RowLimit limits the number of rows if > 0.
	RowLimit int
	// If not nil then the view has as many columns as
	// ColumnMapping has elements and every element
	// is a column index into the Source view.
	ColumnMapping []int
}

// SelectColumns returns a SubView of view with the columns
// of the passed header keys in the passed order.
// Unknown keys return an error wrapping ErrLookup.
func SelectColumns(view *TableView, keys ...string) (*SubView, error) {
	index := make(map[string]int, len(view.headers))
	for i := range view.headers {
		index[view.headers[i].Key] = i
	}
	mapping := make([]int, len(keys))
	for i, key := range keys {
		col, ok := index[key]
		if !ok {
			return nil, lookupErrorf("unknown header %q", key)
		}
		mapping[i] = col
	}
	return &SubView{Source: view, ColumnMapping: mapping}, nil
}

func (view *SubView) Title() string {
	return view.Source.Title()
}

func (view *SubView) Columns() []string {
	sourceCols := view.Source.Columns()
	if view.ColumnMapping == nil {
		return sourceCols
	}
	mappedCols := make([]string, len(view.ColumnMapping))
	for i, iSource := range view.ColumnMapping {
		mappedCols[i] = sourceCols[iSource]
	}
	return mappedCols
}

func (view *SubView) numCols() int {
	if view.ColumnMapping != nil {
		return len(view.ColumnMapping)
	}
	return len(view.Source.Columns())
}

func (view *SubView) NumRows() int {
	n := view.Source.NumRows() - max(view.RowOffset, 0)
	if n < 0 {
		return 0
	}
	if view.RowLimit > 0 && n > view.RowLimit {
		return view.RowLimit
	}
	return n
}

func (view *SubView) Cell(row, col int) any {
	if row < 0 || col < 0 || row >= view.NumRows() || col >= view.numCols() {
		return nil
	}
	row += max(view.RowOffset, 0)
	if view.ColumnMapping != nil {
		col = view.ColumnMapping[col]
	}
	return view.Source.Cell(row, col)
}
