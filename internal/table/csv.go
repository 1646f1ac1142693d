package table

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// readCSV loads a CSV table. A UTF-8 BOM is stripped if present; workbooks
// exported from spreadsheet tools commonly carry one.
func readCSV(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if bom, err := br.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		br.Discard(3)
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: empty table", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	doc := &Document{Name: sheetNameFor(path), Header: header}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		doc.Rows = append(doc.Rows, rec)
	}
	return doc, nil
}

// writeCSV saves a CSV table atomically.
func writeCSV(path string, doc *Document) error {
	return writeAtomic(path, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.Write(doc.Header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		for _, rec := range doc.Rows {
			if err := w.Write(rec); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
		w.Flush()
		return w.Error()
	})
}

// sheetNameFor derives a fallback sheet name from a file path.
func sheetNameFor(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
