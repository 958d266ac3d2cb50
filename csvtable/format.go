// Package csvtable reads CSV data into a nicetable.TableData
// and writes the visible rows of a table as CSV.
//
// Reading detects the character encoding, a leading "sep=X"
// declaration line and the field separator (comma, semicolon or tab).
// The first CSV record is used as header row.
package csvtable

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Format describes the encoding and separator of CSV data.
type Format struct {
	// Encoding of the CSV data, like "UTF-8" or "Windows 1252".
	Encoding string `json:"encoding"`
	// Separator is the single character field delimiter.
	Separator string `json:"separator"`
}

// Validate checks that the format has an encoding
// and a separator of exactly one character.
// It can be called on a nil receiver.
func (f *Format) Validate() error {
	switch {
	case f == nil:
		return errors.New("<nil> csvtable.Format")
	case f.Encoding == "":
		return errors.New("missing csvtable.Format.Encoding")
	case utf8.RuneCountInString(f.Separator) != 1:
		return fmt.Errorf("invalid csvtable.Format.Separator: %q", f.Separator)
	}
	return nil
}

// SeparatorRune returns the separator as rune.
func (f *Format) SeparatorRune() rune {
	r, _ := utf8.DecodeRuneInString(f.Separator)
	return r
}

// DetectionConfig configures the encoding detection of Parse.
type DetectionConfig struct {
	// Encodings to test in priority order.
	Encodings []string `json:"encodings"`
	// EncodingTests are strings with characters that have
	// different byte representations across encodings.
	EncodingTests []string `json:"encodingTests"`
}

// NewDefaultDetectionConfig returns a DetectionConfig
// for European and Cyrillic CSV files.
func NewDefaultDetectionConfig() *DetectionConfig {
	return &DetectionConfig{
		Encodings: []string{
			"UTF-8",
			"UTF-16LE",
			"ISO 8859-1",
			"Windows 1252", // like ANSI
			"Macintosh",
		},
		EncodingTests: []string{
			"ä", "Ä", "ö", "Ö", "ü", "Ü", "ß", "§", "€",
			"д", "Д", "ъ", "Ъ", "б", "Б", "л", "Л", "и", "И", "ж",
		},
	}
}
