// Package exceltable reads Excel sheets into nicetable.TableData
// and writes the visible rows of a table as XLSX workbook.
//
// The package uses the excelize library (github.com/xuri/excelize/v2)
// under the hood. The first row of a sheet is used as header keys.
//
// Example usage:
//
//	table, err := nicetable.Load(ctx, "books.json")
//	if err != nil {
//	    return err
//	}
//	err = table.SortByColumn("title", true)
//	...
//	err = exceltable.Write(file, table.View("Books"), "")
package exceltable

import (
	"errors"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/domonda/go-nicetable"
)

// ReadFirstSheet reads the first sheet of an Excel file
// and returns it as TableData.
//
// Empty rows and columns at the edges of the sheet are removed.
// If rawCellStrings is true, cell values are read without
// applying the number format of the cell.
//
// Returns ErrEmptySheet if the sheet has no data.
func ReadFirstSheet(reader io.Reader, rawCellStrings bool, opts ...nicetable.Option) (table *nicetable.TableData, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrSheetNotExist{SheetName: "<FirstSheet>"}
	}
	view, err := readSheet(f, sheet, rawCellStrings)
	if err != nil {
		return nil, err
	}
	return nicetable.NewFromView(view, opts...)
}

// Read reads all non empty sheets of an Excel file.
// The returned map is keyed by sheet name,
// the slice of names has the sheet order of the file.
func Read(reader io.Reader, rawCellStrings bool, opts ...nicetable.Option) (sheets []string, tables map[string]*nicetable.TableData, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	tables = make(map[string]*nicetable.TableData)
	for _, sheet := range f.GetSheetList() {
		view, err := readSheet(f, sheet, rawCellStrings)
		if err != nil {
			if errors.Is(err, ErrEmptySheet) {
				continue
			}
			return nil, nil, err
		}
		table, err := nicetable.NewFromView(view, opts...)
		if err != nil {
			return nil, nil, err
		}
		sheets = append(sheets, sheet)
		tables[sheet] = table
	}
	return sheets, tables, nil
}

func readSheet(f *excelize.File, sheet string, rawCellStrings bool) (*nicetable.StringsView, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: rawCellStrings})
	if err != nil {
		return nil, err
	}
	rows = trimEmptyRows(rows)
	numCols := trimEmptyColumns(rows)
	if len(rows) == 0 || numCols == 0 {
		return nil, ErrEmptySheet
	}
	columns := rows[0]
	if len(columns) < numCols {
		columns = append(columns, make([]string, numCols-len(columns))...)
	}
	return nicetable.NewStringsView(sheet, rows[1:], columns...), nil
}

func isEmptyRow(row []string) bool {
	for _, s := range row {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

// trimEmptyRows removes empty rows at the top and bottom.
func trimEmptyRows(rows [][]string) [][]string {
	for len(rows) > 0 && isEmptyRow(rows[0]) {
		rows = rows[1:]
	}
	for len(rows) > 0 && isEmptyRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// trimEmptyColumns removes empty columns at the left and right
// in place and returns the resulting maximum number of columns.
func trimEmptyColumns(rows [][]string) (numCols int) {
	left := -1
	for _, row := range rows {
		for col, s := range row {
			if strings.TrimSpace(s) == "" {
				continue
			}
			if left < 0 || col < left {
				left = col
			}
			if col+1 > numCols {
				numCols = col + 1
			}
		}
	}
	if left < 0 {
		return 0
	}
	for i, row := range rows {
		if len(row) > numCols {
			row = row[:numCols]
		}
		if len(row) > left {
			row = row[left:]
		} else {
			row = nil
		}
		rows[i] = row
	}
	return numCols - left
}
