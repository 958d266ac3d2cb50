package csvtable

import (
	"encoding/csv"
	"io"

	"github.com/domonda/go-nicetable"
)

// Write writes the column titles and the markup stripped
// cells of the view as UTF-8 CSV to dest.
func Write(dest io.Writer, view nicetable.View, separator rune) error {
	writer := csv.NewWriter(dest)
	writer.Comma = separator
	err := writer.WriteAll(nicetable.ViewStrings(view, true))
	if err != nil {
		return err
	}
	return writer.Error()
}
