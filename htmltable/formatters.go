package htmltable

import (
	"context"
	"fmt"
	"html/template"

	"github.com/domonda/go-nicetable"
)

// CellFormatter formats the cell of a row for the column with key.
type CellFormatter interface {
	// FormatCell formats a cell as string
	// or returns an error wrapping errors.ErrUnsupported
	// if it doesn't support formatting the cell,
	// in which case the default formatting is used.
	// The raw result indicates if the returned string
	// is HTML that can be used as is or if it has to be escaped.
	FormatCell(ctx context.Context, row *nicetable.Row, key string) (str string, raw bool, err error)
}

// CellFormatterFunc implements CellFormatter for a function.
type CellFormatterFunc func(ctx context.Context, row *nicetable.Row, key string) (str string, raw bool, err error)

func (f CellFormatterFunc) FormatCell(ctx context.Context, row *nicetable.Row, key string) (str string, raw bool, err error) {
	return f(ctx, row, key)
}

var (
	_ CellFormatter = PrintfCellFormatter("")
	_ CellFormatter = HTMLSpanClassCellFormatter("")

	// HTMLCodeCellFormatter renders the markup stripped
	// cell text within a <code> element.
	HTMLCodeCellFormatter CellFormatterFunc = func(ctx context.Context, row *nicetable.Row, key string) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(nicetable.CellText(row.Data, key))
		return "<code>" + value + "</code>", true, nil
	}

	// TextCellFormatter renders the markup stripped cell text.
	TextCellFormatter CellFormatterFunc = func(ctx context.Context, row *nicetable.Row, key string) (str string, raw bool, err error) {
		return nicetable.CellText(row.Data, key), false, nil
	}
)

// PrintfCellFormatter formats the markup stripped cell text
// with fmt.Sprintf using the underlying string as format.
// The result is escaped.
type PrintfCellFormatter string

func (format PrintfCellFormatter) FormatCell(ctx context.Context, row *nicetable.Row, key string) (str string, raw bool, err error) {
	return fmt.Sprintf(string(format), nicetable.CellText(row.Data, key)), false, nil
}

// HTMLSpanClassCellFormatter renders the markup stripped cell text
// within an HTML span element with the class of the underlying string value.
type HTMLSpanClassCellFormatter string

func (class HTMLSpanClassCellFormatter) FormatCell(ctx context.Context, row *nicetable.Row, key string) (str string, raw bool, err error) {
	text := template.HTMLEscapeString(nicetable.CellText(row.Data, key))
	return fmt.Sprintf("<span class='%s'>%s</span>", template.HTMLEscapeString(string(class)), text), true, nil
}
