package nicetable

import (
	"fmt"
	"unicode/utf8"
)

// ViewStrings returns the cells of the view as strings.
// CellValue cells are markup stripped,
// nil cells become empty strings.
// If addHeaderRow is true then the first row
// contains the view's column titles.
func ViewStrings(view View, addHeaderRow bool) (rows [][]string) {
	numCols := len(view.Columns())
	if addHeaderRow {
		rows = append(rows, append([]string(nil), view.Columns()...))
	}
	for row := 0; row < view.NumRows(); row++ {
		rowStrs := make([]string, numCols)
		for col := range rowStrs {
			rowStrs[col] = CellString(view.Cell(row, col))
		}
		rows = append(rows, rowStrs)
	}
	return rows
}

// CellString returns the text of a cell value.
func CellString(cell any) string {
	switch x := cell.(type) {
	case nil:
		return ""
	case CellValue:
		return x.String()
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// StringColumnWidths returns the column widths of the passed
// table as count of UTF-8 runes.
func StringColumnWidths(rows [][]string, numCols int) []int {
	if numCols < 0 {
		for _, row := range rows {
			if rowCols := len(row); rowCols > numCols {
				numCols = rowCols
			}
		}
		if numCols <= 0 {
			return nil
		}
	}
	colWidths := make([]int, numCols)
	for row := range rows {
		for col := 0; col < numCols && col < len(rows[row]); col++ {
			numRunes := utf8.RuneCountInString(rows[row][col])
			if numRunes > colWidths[col] {
				colWidths[col] = numRunes
			}
		}
	}
	return colWidths
}
