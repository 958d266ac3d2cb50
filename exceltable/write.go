package exceltable

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/domonda/go-nicetable"
)

const (
	// DefaultSheet is the sheet name used by Write
	// if neither a name nor a view title is given.
	DefaultSheet = "Sheet1"

	maxSheetNameLen = 31
	maxColWidth     = 80
)

var invalidSheetNameChars = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_", "*", "_", "[", "(", "]", ")",
)

// SheetName returns name as valid Excel sheet name
// or DefaultSheet if name is empty.
func SheetName(name string) string {
	name = strings.TrimSpace(invalidSheetNameChars.Replace(name))
	if name == "" {
		return DefaultSheet
	}
	if r := []rune(name); len(r) > maxSheetNameLen {
		name = string(r[:maxSheetNameLen])
	}
	return name
}

// Write writes the view as single sheet XLSX workbook to dest.
//
// The first row contains the bold column titles.
// Cells with integer text are written as numbers,
// linked CellValue cells as hyperlinks and all other
// cells as markup stripped text.
// If sheet is empty then the view title is used as sheet name.
func Write(dest io.Writer, view nicetable.View, sheet string) (err error) {
	if sheet == "" {
		sheet = view.Title()
	}
	sheet = SheetName(sheet)

	f := excelize.NewFile()
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if err = f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	columns := view.Columns()
	for col, title := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err = f.SetCellStr(sheet, cell, title); err != nil {
			return err
		}
	}
	if len(columns) > 0 {
		last, err := excelize.CoordinatesToCellName(len(columns), 1)
		if err != nil {
			return err
		}
		if err = f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	for row := 0; row < view.NumRows(); row++ {
		for col := range columns {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err = writeCell(f, sheet, cell, view.Cell(row, col)); err != nil {
				return err
			}
		}
	}

	widths := nicetable.StringColumnWidths(nicetable.ViewStrings(view, true), len(columns))
	for col, width := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err = f.SetColWidth(sheet, name, name, float64(min(width+2, maxColWidth))); err != nil {
			return err
		}
	}

	return f.Write(dest)
}

func writeCell(f *excelize.File, sheet, cell string, value any) error {
	text := nicetable.CellString(value)
	if cv, ok := value.(nicetable.CellValue); ok && cv.HasLink() {
		if err := f.SetCellStr(sheet, cell, text); err != nil {
			return err
		}
		return f.SetCellHyperLink(sheet, cell, cv.Href, "External")
	}
	if i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64); err == nil {
		return f.SetCellValue(sheet, cell, i)
	}
	return f.SetCellStr(sheet, cell, text)
}
