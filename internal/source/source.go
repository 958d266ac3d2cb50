// Package source constructs a nicetable.TableData from JSON,
// CSV or XLSX data, choosing the format by file extension.
package source

import (
	"bytes"
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/domonda/go-nicetable"
	"github.com/domonda/go-nicetable/csvtable"
	"github.com/domonda/go-nicetable/exceltable"
)

// Format of table data.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf returns the format of location by its extension.
// URL query strings are ignored, unknown extensions are JSON.
func FormatOf(location string) Format {
	p := location
	if u, err := url.Parse(location); err == nil && u.Scheme != "" && u.Path != "" {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".csv", ".tsv", ".txt":
		return FormatCSV
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatXLSX
	default:
		return FormatJSON
	}
}

// Payload is the raw table data read from a location.
type Payload struct {
	Location string
	Format   Format
	Data     []byte
}

// Fetch reads the raw data from location with nicetable.Fetch.
func Fetch(ctx context.Context, location string) (*Payload, error) {
	data, err := nicetable.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	return &Payload{Location: location, Format: FormatOf(location), Data: data}, nil
}

// Table constructs a new TableData from the payload.
// Every call returns an independent table.
func (p *Payload) Table(opts ...nicetable.Option) (*nicetable.TableData, error) {
	switch p.Format {
	case FormatCSV:
		table, _, err := csvtable.Read(p.Data, nil, opts...)
		return table, err
	case FormatXLSX:
		return exceltable.ReadFirstSheet(bytes.NewReader(p.Data), false, opts...)
	default:
		return nicetable.New(p.Data, opts...)
	}
}

// Load fetches location and constructs a TableData from it.
func Load(ctx context.Context, location string, opts ...nicetable.Option) (*nicetable.TableData, error) {
	p, err := Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	return p.Table(opts...)
}
