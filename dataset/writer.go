package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the table with its original header, one line per record
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	line := make([]string, len(t.Header))
	for i := range t.Records {
		for j, col := range t.Header {
			line[j] = t.Records[i].Cell(col)
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
