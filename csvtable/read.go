package csvtable

import (
	"github.com/domonda/go-nicetable"
)

// Read parses CSV data with Parse and returns a TableData
// with the first record as header keys.
func Read(data []byte, config *DetectionConfig, opts ...nicetable.Option) (*nicetable.TableData, *Format, error) {
	rows, format, err := Parse(data, config)
	if err != nil {
		return nil, format, err
	}
	table, err := nicetable.NewFromView(nicetable.NewStringsView("", rows), opts...)
	return table, format, err
}
