package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/giygas/drugs-eda/logging"
	"golang.org/x/text/encoding/charmap"
)

var (
	// ErrInputNotFound is returned when the input CSV does not exist
	ErrInputNotFound = errors.New("input file not found")
	// ErrMissingColumn is returned when a contractual column is absent from the header
	ErrMissingColumn = errors.New("missing expected column")
	// ErrEmptyInput is returned when the input has no header row
	ErrEmptyInput = errors.New("input has no header row")
)

// RawTable is the CSV as read from disk: the header and the untyped cells of each row.
// Rows are padded or truncated to the header width.
type RawTable struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// NewRawTable builds a raw table from a header and rows
func NewRawTable(header []string, rows [][]string) *RawTable {
	t := &RawTable{Header: header, Rows: rows}
	t.buildIndex()
	return t
}

func (t *RawTable) buildIndex() {
	t.index = make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		// First occurrence wins on duplicated header names
		if _, exists := t.index[h]; !exists {
			t.index[h] = i
		}
	}
}

// Index returns the position of a column in the header
func (t *RawTable) Index(col string) (int, bool) {
	if t.index == nil {
		t.buildIndex()
	}
	i, ok := t.index[col]
	return i, ok
}

// Len returns the number of data rows
func (t *RawTable) Len() int {
	return len(t.Rows)
}

// MissingColumns returns the contractual columns absent from the header
func (t *RawTable) MissingColumns(cols ...string) []string {
	var missing []string
	for _, c := range cols {
		if _, ok := t.Index(c); !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// RequireColumns fails with ErrMissingColumn when any of cols is absent
func (t *RawTable) RequireColumns(cols ...string) error {
	if missing := t.MissingColumns(cols...); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// ReadFile reads a CSV file from disk
func ReadFile(path string) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.Warn("Failed to close input CSV file", "path", path, "error", err)
		}
	}()

	table, err := ReadRaw(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return table, nil
}

// ReadRaw reads CSV content. Input that is not valid UTF-8 is decoded as ISO-8859-1.
func ReadRaw(r io.Reader) (*RawTable, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var reader io.Reader
	if utf8.Valid(content) {
		reader = bytes.NewReader(bytes.TrimPrefix(content, []byte("\xef\xbb\xbf")))
	} else {
		logging.Debug("Input is not valid UTF-8, decoding as ISO-8859-1")
		reader = charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(content))
	}

	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyInput
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) == 0 {
		return nil, ErrEmptyInput
	}

	ncol := len(header)
	var rows [][]string
	paddedRows := 0
	truncatedRows := 0

	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+1, err)
		}

		switch {
		case len(rec) < ncol:
			padded := make([]string, ncol)
			copy(padded, rec)
			rec = padded
			paddedRows++
		case len(rec) > ncol:
			rec = rec[:ncol]
			truncatedRows++
		}
		rows = append(rows, rec)
	}

	if paddedRows > 0 || truncatedRows > 0 {
		logging.Info("CSV row width statistics",
			"padded_rows", paddedRows,
			"truncated_rows", truncatedRows,
			"total_rows", len(rows))
	}

	return NewRawTable(header, rows), nil
}
