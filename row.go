package nicetable

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

var (
	_ json.Marshaler   = RowData{}
	_ json.Unmarshaler = new(RowData)
)

// RowData maps column keys to cell values
// and remembers the order in which the keys were set.
//
// The zero value is an empty RowData ready to use.
type RowData struct {
	// Keys in insertion order, every key is unique.
	Keys []string
	// Cells by key, contains exactly the Keys.
	Cells map[string]CellValue
}

// NewRowData returns RowData with the passed key/value pairs
// where every even element is a key and every odd a cell value.
// Values can be of type CellValue or string.
func NewRowData(keysAndValues ...any) RowData {
	if len(keysAndValues)%2 != 0 {
		panic("NewRowData needs an even number of arguments")
	}
	var data RowData
	for i := 0; i < len(keysAndValues); i += 2 {
		key := keysAndValues[i].(string)
		switch v := keysAndValues[i+1].(type) {
		case CellValue:
			data.Set(key, v)
		case string:
			data.Set(key, Plain(v))
		default:
			panic(fmt.Sprintf("NewRowData value for key %q has unsupported type %T", key, v))
		}
	}
	return data
}

// Set sets the cell for key.
// A new key is appended to Keys, an existing keeps its position.
func (d *RowData) Set(key string, cell CellValue) {
	if d.Cells == nil {
		d.Cells = make(map[string]CellValue)
	}
	if _, exists := d.Cells[key]; !exists {
		d.Keys = append(d.Keys, key)
	}
	d.Cells[key] = cell
}

// Get returns the cell for key and
// false if there is no cell for key.
func (d RowData) Get(key string) (CellValue, bool) {
	cell, ok := d.Cells[key]
	return cell, ok
}

// Len returns the number of cells.
func (d RowData) Len() int { return len(d.Keys) }

// Clone returns a copy that shares no memory with d.
func (d RowData) Clone() RowData {
	if d.Keys == nil && d.Cells == nil {
		return RowData{}
	}
	c := RowData{
		Keys:  slices.Clone(d.Keys),
		Cells: make(map[string]CellValue, len(d.Cells)),
	}
	for k, v := range d.Cells {
		c.Cells[k] = v
	}
	return c
}

func (d RowData) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(d.Cells[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object
// keeping the order of its keys.
func (d *RowData) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("table row must be a JSON object, got %s", tokenDescription(tok))
	}
	*d = RowData{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return errors.New("expected JSON object key")
		}
		var cell CellValue
		if err := dec.Decode(&cell); err != nil {
			return fmt.Errorf("cell %q: %w", key, err)
		}
		d.Set(key, cell)
	}
	_, err = dec.Token() // closing '}'
	return err
}

func tokenDescription(tok json.Token) string {
	switch t := tok.(type) {
	case json.Delim:
		return string(t)
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", t)
	}
}

// Row is a data row of a TableData.
type Row struct {
	// ID is unique within a TableData and stable for the row's lifetime.
	ID string `json:"id"`
	// Hidden is only changed by applying auto-filters.
	Hidden bool    `json:"hidden"`
	Data   RowData `json:"data"`
}

// Cell returns the cell for key or an empty PlainText
// cell if the row has no value for key.
func (r *Row) Cell(key string) CellValue {
	cell, _ := r.Data.Get(key)
	return cell
}
