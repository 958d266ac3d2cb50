package nicetable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CellKind tells how a CellValue was provided.
type CellKind int

const (
	// PlainText is a display string that may contain inline markup.
	PlainText CellKind = iota
	// Linked is a structured cell with a text and an optional href.
	Linked
)

func (k CellKind) String() string {
	switch k {
	case PlainText:
		return "PlainText"
	case Linked:
		return "Linked"
	}
	return fmt.Sprintf("CellKind(%d)", int(k))
}

var (
	_ json.Marshaler   = CellValue{}
	_ json.Unmarshaler = new(CellValue)
)

// CellValue is the value of a single table cell.
//
// In JSON a cell is either a string, decoded as PlainText,
// or an object with a "text" and an optional "href" field,
// decoded as Linked.
// Numbers and booleans are kept as PlainText of their literal,
// null decodes to an empty PlainText.
type CellValue struct {
	Kind CellKind
	Text string
	Href string
}

// Plain returns a PlainText cell.
func Plain(text string) CellValue {
	return CellValue{Kind: PlainText, Text: text}
}

// Link returns a Linked cell.
// An empty href is allowed and renders as text only.
func Link(text, href string) CellValue {
	return CellValue{Kind: Linked, Text: text, Href: href}
}

// HasLink returns true if the cell is Linked and has a non empty Href.
func (c CellValue) HasLink() bool {
	return c.Kind == Linked && c.Href != ""
}

// String returns the markup stripped text of the cell.
func (c CellValue) String() string {
	return StripMarkup(c.Text)
}

type linkedCellJSON struct {
	Text string `json:"text"`
	Href string `json:"href,omitempty"`
}

// MarshalJSON implements json.Marshaler.
// A Linked cell is encoded as object with "text" and "href",
// every other cell as string of its text.
func (c CellValue) MarshalJSON() ([]byte, error) {
	if c.Kind == Linked {
		return json.Marshal(linkedCellJSON{Text: c.Text, Href: c.Href})
	}
	return json.Marshal(c.Text)
}

// UnmarshalJSON implements json.Unmarshaler
// for the cell forms described at CellValue.
func (c *CellValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty JSON for table cell")
	}
	switch data[0] {
	case '{':
		var linked linkedCellJSON
		if err := json.Unmarshal(data, &linked); err != nil {
			return err
		}
		*c = Link(linked.Text, linked.Href)
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*c = Plain(text)
	case '[':
		return fmt.Errorf("JSON array is not a valid table cell: %s", data)
	default:
		if string(data) == "null" {
			*c = Plain("")
			return nil
		}
		// Numbers and booleans keep their literal text
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*c = Plain(string(data))
	}
	return nil
}

// markupPattern matches opening, closing and self closing tags
// including their attributes.
var markupPattern = regexp.MustCompile(`<[^<>]*>`)

// StripMarkup removes all HTML-like tags from text.
func StripMarkup(text string) string {
	if !strings.ContainsRune(text, '<') {
		return text
	}
	return markupPattern.ReplaceAllString(text, "")
}

// CellText returns the normalized text of the cell
// at key in data: the cell's text with all markup stripped.
// A missing cell resolves to an empty string.
func CellText(data RowData, key string) string {
	cell, _ := data.Get(key)
	return StripMarkup(cell.Text)
}

// SortKey is the comparison key of a cell.
// If Text parses completely as integer then IsInt is true
// and Int holds the parsed value.
type SortKey struct {
	Text  string
	Int   int64
	IsInt bool
}

// CellSortKey returns the SortKey for the cell at key in data.
func CellSortKey(data RowData, key string) SortKey {
	text := CellText(data, key)
	i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return SortKey{Text: text}
	}
	return SortKey{Text: text, Int: i, IsInt: true}
}
