package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// ErrEmptyFile is returned when the input contains no header row.
var ErrEmptyFile = errors.New("file is empty")

// Table is the tokenized form of an uploaded file: ordered headers plus rows
// keyed by header. Downstream components never touch CSV syntax again.
type Table struct {
	Headers []string
	Rows    []map[string]string

	// BadRows counts lines the tokenizer could not parse. The rows that
	// did parse are still processed; the count is surfaced as a warning.
	BadRows int
}

// ReadCSV tokenizes CSV text into a Table. The delimiter is detected from
// the header line (comma, semicolon, tab or pipe); quoting follows RFC 4180
// with lazy quotes for real-world exports.
func ReadCSV(data []byte) (*Table, error) {
	data = bytes.TrimPrefix(data, bomUTF8)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	headerLine := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		headerLine = data[:i]
	}
	delimiter := detectDelimiter(string(headerLine))

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delimiter
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	headers, err := r.Read()
	if err != nil {
		return nil, ErrEmptyFile
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	table := &Table{Headers: headers}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			table.BadRows++
			continue
		}
		if isEmptyRecord(record) {
			continue
		}
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// detectDelimiter picks the separator with the most occurrences in the
// header line.
func detectDelimiter(line string) rune {
	best := ','
	bestCount := 0
	for _, d := range []rune{';', '\t', ',', '|'} {
		if count := strings.Count(line, string(d)); count > bestCount {
			bestCount = count
			best = d
		}
	}
	return best
}

func isEmptyRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
