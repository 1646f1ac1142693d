package table

import (
	"fmt"
	"strings"
)

// MissingColumnsError reports every required header absent from a loaded
// table, in one shot. Structural: the run aborts before any output.
type MissingColumnsError struct {
	Path    string
	Table   string // table kind: RAW, Narr, manual map, PreMerge, edited
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s table %s: missing required columns: %s",
		e.Table, e.Path, strings.Join(e.Missing, ", "))
}

// DuplicateKeyError reports a key column value appearing more than once
// within a single table. Structural: the run aborts.
type DuplicateKeyError struct {
	Path  string
	Table string
	Key   string // the duplicated Code value
	Count int    // occurrences seen
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s table %s: duplicate key %q (%d occurrences)",
		e.Table, e.Path, e.Key, e.Count)
}

// UnsupportedFormatError reports a file extension neither codec handles.
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported table format %q (want .csv or .xlsx)", e.Path, e.Ext)
}
