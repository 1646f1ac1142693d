package table

import (
	"strings"

	"stepmerge/internal/types"
)

// Table kind names used in error reporting.
const (
	kindRaw      = "RAW"
	kindNarr     = "Narr"
	kindManual   = "manual map"
	kindPreMerge = "PreMerge"
	kindEdited   = "edited"
)

// requireColumns validates that every required header is present, reporting
// all absences in a single error.
func requireColumns(doc *Document, path, kind string, required []string) (map[string]int, error) {
	idx := doc.columnIndex()
	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Path: path, Table: kind, Missing: missing}
	}
	return idx, nil
}

// LoadRaw loads the RAW step export. Requires Code and Title; the decision
// question and successor columns are optional. Rows with a blank Code are
// skipped (trailing spreadsheet rows). Duplicate codes are fatal.
func LoadRaw(path string) ([]types.RawStep, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	idx, err := requireColumns(doc, path, kindRaw, []string{types.ColCode, types.ColTitle})
	if err != nil {
		return nil, err
	}

	get := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok {
			return ""
		}
		return cell(rec, i)
	}

	var steps []types.RawStep
	seen := make(map[string]int)
	for _, rec := range doc.Rows {
		code := strings.TrimSpace(get(rec, types.ColCode))
		if code == "" {
			continue
		}
		seen[code]++
		if seen[code] > 1 {
			return nil, &DuplicateKeyError{Path: path, Table: kindRaw, Key: code, Count: seen[code]}
		}
		steps = append(steps, types.RawStep{
			Code:         code,
			Title:        get(rec, types.ColTitle),
			DeciQuestion: get(rec, types.ColDeciQuestion),
			Next1Code:    strings.TrimSpace(get(rec, types.ColNext1Code)),
			Next2Code:    strings.TrimSpace(get(rec, types.ColNext2Code)),
			Next3Code:    strings.TrimSpace(get(rec, types.ColNext3Code)),
		})
	}
	return steps, nil
}

// Narration catalog column names.
const (
	ColNarrSimple  = "Step_narr_out_simple"
	ColNarrFull    = "Step_narr_out"
	ColNarrMSimple = "Step_narr_m_out_simple"
	ColNarrMFull   = "Step_narr_m_out"
)

// LoadNarr loads the narration catalog. All seven catalog columns are
// required. Duplicate codes are fatal.
func LoadNarr(path string) ([]types.NarrEntry, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	required := []string{
		types.ColCode, types.ColOPMStep, types.ColSourceTitle,
		ColNarrSimple, ColNarrFull, ColNarrMSimple, ColNarrMFull,
	}
	idx, err := requireColumns(doc, path, kindNarr, required)
	if err != nil {
		return nil, err
	}

	get := func(rec []string, col string) string { return cell(rec, idx[col]) }

	var entries []types.NarrEntry
	seen := make(map[string]int)
	for _, rec := range doc.Rows {
		code := strings.TrimSpace(get(rec, types.ColCode))
		if code == "" {
			continue
		}
		seen[code]++
		if seen[code] > 1 {
			return nil, &DuplicateKeyError{Path: path, Table: kindNarr, Key: code, Count: seen[code]}
		}
		entries = append(entries, types.NarrEntry{
			Code:        code,
			OPMStep:     get(rec, types.ColOPMStep),
			SourceTitle: get(rec, types.ColSourceTitle),
			NarrSimple:  get(rec, ColNarrSimple),
			NarrFull:    get(rec, ColNarrFull),
			NarrMSimple: get(rec, ColNarrMSimple),
			NarrMFull:   get(rec, ColNarrMFull),
		})
	}
	return entries, nil
}

// Manual mapping column names.
const (
	ColMapCode  = "CODE"
	ColMapMatch = "Match"
)

// LoadManualMap loads the optional manual mapping table (CODE, Match).
// Rows with a blank CODE or blank Match are skipped; they are "no opinion".
func LoadManualMap(path string) ([]types.ManualMapEntry, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	idx, err := requireColumns(doc, path, kindManual, []string{ColMapCode, ColMapMatch})
	if err != nil {
		return nil, err
	}

	var entries []types.ManualMapEntry
	for _, rec := range doc.Rows {
		code := strings.TrimSpace(cell(rec, idx[ColMapCode]))
		token := strings.TrimSpace(cell(rec, idx[ColMapMatch]))
		if code == "" || token == "" {
			continue
		}
		entries = append(entries, types.ManualMapEntry{RawCode: code, MatchToken: token})
	}
	return entries, nil
}

// LoadPreMerge reloads a previously written PreMerge artifact. The full
// artifact column set is required; the loader refuses tables that lost
// columns in editing.
func LoadPreMerge(path string) ([]types.PreMergeRow, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	idx, err := requireColumns(doc, path, kindPreMerge, types.PreMergeColumns())
	if err != nil {
		return nil, err
	}

	var rows []types.PreMergeRow
	seen := make(map[string]int)
	for _, rec := range doc.Rows {
		code := strings.TrimSpace(cell(rec, idx[types.ColCode]))
		if code == "" {
			continue
		}
		seen[code]++
		if seen[code] > 1 {
			return nil, &DuplicateKeyError{Path: path, Table: kindPreMerge, Key: code, Count: seen[code]}
		}
		var row types.PreMergeRow
		for _, col := range types.PreMergeColumns() {
			row.SetField(col, cell(rec, idx[col]))
		}
		row.Code = code
		rows = append(rows, row)
	}
	return rows, nil
}

// EditedRow is one row of a user-edited PreMerge copy: the row key plus the
// cells the file carries, keyed by trimmed header name. An empty cell means
// "no opinion", never "clear this field".
type EditedRow struct {
	Code  string
	Cells map[string]string
}

// LoadEdited loads the user-edited copy of a PreMerge artifact. Only the key
// column is required ("Code", or "CODE" as hand-edited sheets sometimes have
// it); all other columns are taken as found.
func LoadEdited(path string) ([]EditedRow, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}

	idx := doc.columnIndex()
	keyCol := types.ColCode
	if _, ok := idx[keyCol]; !ok {
		keyCol = ColMapCode
		if _, ok := idx[keyCol]; !ok {
			return nil, &MissingColumnsError{Path: path, Table: kindEdited, Missing: []string{types.ColCode}}
		}
	}

	var rows []EditedRow
	for _, rec := range doc.Rows {
		code := strings.TrimSpace(cell(rec, idx[keyCol]))
		if code == "" {
			continue
		}
		cells := make(map[string]string, len(idx))
		for col, i := range idx {
			if col == keyCol {
				continue
			}
			cells[col] = cell(rec, i)
		}
		rows = append(rows, EditedRow{Code: code, Cells: cells})
	}
	return rows, nil
}
