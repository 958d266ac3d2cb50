package csvtable

import (
	"bytes"
	"encoding/csv"
	"errors"

	"github.com/domonda/go-types/charset"
)

// Parse detects the format of the CSV data
// and returns its records including the header row.
// A nil config uses NewDefaultDetectionConfig.
func Parse(data []byte, config *DetectionConfig) (rows [][]string, format *Format, err error) {
	if config == nil {
		config = NewDefaultDetectionConfig()
	}
	format = new(Format)

	var encodings []charset.Encoding
	for _, name := range config.Encodings {
		enc, err := charset.GetEncoding(name)
		if err != nil {
			return nil, nil, err
		}
		encodings = append(encodings, enc)
	}
	data, format.Encoding, err = charset.AutoDecode(data, encodings, config.EncodingTests)
	if err != nil {
		return nil, nil, err
	}
	if format.Encoding == "" {
		format.Encoding = "UTF-8"
	}
	data = charset.TrimBOM(data, charset.BOMUTF8)
	data = sanitizeUTF8(data)

	if sep, rest, ok := cutSepHeaderLine(data); ok {
		format.Separator = sep
		data = rest
	} else {
		format.Separator = detectSeparator(data)
	}

	rows, err = read(data, format)
	return rows, format, err
}

// ParseWithFormat parses UTF-8 or format.Encoding
// encoded CSV data with the separator of format.
func ParseWithFormat(data []byte, format *Format) (rows [][]string, err error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if format.Encoding == "UTF-8" {
		data = charset.TrimBOM(data, charset.BOMUTF8)
	} else {
		enc, err := charset.GetEncoding(format.Encoding)
		if err != nil {
			return nil, err
		}
		data, err = enc.Decode(data)
		if err != nil {
			return nil, err
		}
	}
	data = sanitizeUTF8(data)
	if sep, rest, ok := cutSepHeaderLine(data); ok {
		if sep != format.Separator {
			return nil, errors.New("separator in sep= header line is different from format.Separator")
		}
		data = rest
	}
	return read(data, format)
}

func read(data []byte, format *Format) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = format.SeparatorRune()
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return RemoveEmptyRows(rows), nil
}

// cutSepHeaderLine cuts a first line like sep=; or "SEP=,"
// and returns the declared separator.
func cutSepHeaderLine(data []byte) (sep string, rest []byte, ok bool) {
	line, rest, _ := bytes.Cut(data, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) >= 2 && line[0] == '"' && line[len(line)-1] == '"' {
		line = line[1 : len(line)-1]
	}
	if len(line) != 5 || !(bytes.HasPrefix(line, []byte("sep=")) || bytes.HasPrefix(line, []byte("SEP="))) {
		return "", data, false
	}
	return string(line[4:5]), rest, true
}

// detectSeparator returns the most frequent of comma,
// semicolon and tab in data, comma if none is found.
func detectSeparator(data []byte) string {
	separator, maxCount := ",", 0
	for _, sep := range []string{",", ";", "\t"} {
		if count := bytes.Count(data, []byte(sep)); count > maxCount {
			separator, maxCount = sep, count
		}
	}
	return separator
}

func sanitizeUTF8(str []byte) []byte {
	return bytes.Map(
		func(r rune) rune {
			switch r {
			// \u00a0 is No-Break Space (NBSP)
			case '\uFFFD', '\u00a0':
				return ' '
			default:
				return r
			}
		},
		str,
	)
}

// RemoveEmptyRows removes rows without any non empty field.
func RemoveEmptyRows(rows [][]string) [][]string {
	result := rows[:0]
	for _, row := range rows {
		for _, field := range row {
			if field != "" {
				result = append(result, row)
				break
			}
		}
	}
	return result
}
