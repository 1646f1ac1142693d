// Package table implements the tabular source layer: loading and saving
// row-oriented tables in the two interchangeable encodings (CSV and XLSX),
// with an encoding-agnostic in-memory representation and eager schema
// validation for each table kind.
package table

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document is an encoding-agnostic table: a header row plus data rows.
// Every cell is a string; both encodings are read and written without type
// coercion, so a written document reloads field-for-field equal.
type Document struct {
	Name   string // sheet name when written into a workbook
	Header []string
	Rows   [][]string
}

// NewDocument creates an empty document with the given sheet name and header.
func NewDocument(name string, header []string) *Document {
	return &Document{Name: name, Header: header}
}

// Append adds one data row.
func (d *Document) Append(rec []string) {
	d.Rows = append(d.Rows, rec)
}

// columnIndex maps trimmed header names to their position.
// Later duplicates of a header name are ignored.
func (d *Document) columnIndex() map[string]int {
	idx := make(map[string]int, len(d.Header))
	for i, h := range d.Header {
		name := strings.TrimSpace(h)
		if _, ok := idx[name]; !ok {
			idx[name] = i
		}
	}
	return idx
}

// cell returns the i-th cell of rec, or "" when the row is shorter than the
// header (XLSX readers drop trailing empty cells).
func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// ReadDocument loads a table from path, selecting the codec by extension.
func ReadDocument(path string) (*Document, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, &UnsupportedFormatError{Path: path, Ext: ext}
	}
}

// WriteDocument saves a table to path, selecting the codec by extension.
// The file is written to a temporary name in the destination directory and
// renamed into place, so a crash mid-write never leaves a partial artifact
// under the canonical name.
func WriteDocument(path string, doc *Document) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return writeCSV(path, doc)
	case ".xlsx":
		return WriteWorkbook(path, doc)
	default:
		return &UnsupportedFormatError{Path: path, Ext: ext}
	}
}

// writeAtomic writes via a temp file in the destination directory, fsyncs,
// then renames over path.
func writeAtomic(path string, write func(*os.File) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err := write(tmp); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to rename into place: %w", err)
	}
	committed = true
	return nil
}
