package nicetable

import (
	"fmt"

	"github.com/oklog/ulid/v2"
	"golang.org/x/text/language"
)

// MatchMode defines how a selected filter value
// is compared with the normalized text of a cell.
type MatchMode int

const (
	// MatchEqualFold matches if value and cell text
	// are equal under Unicode case folding.
	// Generated auto-filter values are distinct under folding,
	// the first spelling of a column is the selectable value.
	MatchEqualFold MatchMode = iota
	// MatchContains matches if the cell text contains
	// the value ignoring case.
	MatchContains
)

func (m MatchMode) String() string {
	switch m {
	case MatchEqualFold:
		return "equal"
	case MatchContains:
		return "contains"
	}
	return "unknown MatchMode"
}

// ParseMatchMode parses the String representation of a MatchMode.
// An empty string returns MatchEqualFold.
func ParseMatchMode(s string) (MatchMode, error) {
	switch s {
	case "", "equal":
		return MatchEqualFold, nil
	case "contains":
		return MatchContains, nil
	}
	return 0, fmt.Errorf("unknown match mode %q", s)
}

// Option configures a TableData at construction.
type Option func(*options)

type options struct {
	idGen     func() string
	locale    language.Tag
	matchMode MatchMode
	headers   []Header
}

func defaultOptions() options {
	return options{
		idGen:     func() string { return ulid.Make().String() },
		locale:    language.English,
		matchMode: MatchEqualFold,
	}
}

// WithIDGenerator sets the function used to generate row IDs.
// The generated IDs must be unique within a table.
func WithIDGenerator(idGen func() string) Option {
	return func(o *options) {
		if idGen != nil {
			o.idGen = idGen
		}
	}
}

// WithLocale sets the collation locale used for sorting.
func WithLocale(locale language.Tag) Option {
	return func(o *options) { o.locale = locale }
}

// WithMatchMode sets how selected filter values match cells.
func WithMatchMode(mode MatchMode) Option {
	return func(o *options) { o.matchMode = mode }
}

// WithHeaders merges the passed headers by key into the headers
// of the constructed table, so that sources without a schema
// like CSV or XLSX can have sortable and auto-filtered columns.
//
// Sortable and AutoFilters of a passed header replace the values
// of the table header, a non empty Display and non empty
// AutoFilterValues replace them as well.
// A key that is not a column of the table is a construction error.
// Multiple calls add to the headers to merge.
func WithHeaders(headers ...Header) Option {
	return func(o *options) {
		o.headers = append(o.headers, headers...)
	}
}
