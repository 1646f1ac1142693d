package pipeline

import (
	"fmt"
	"strings"

	"stepmerge/internal/table"
	"stepmerge/internal/types"
)

// StartHereViolationError reports a final row set with zero or multiple
// start_here markers. Fatal: no Final artifact is written; the qualifying
// codes are listed so the edit can be fixed.
type StartHereViolationError struct {
	Codes []string // rows with start_here = Yes; empty when none qualify
}

func (e *StartHereViolationError) Error() string {
	if len(e.Codes) == 0 {
		return "no row has start_here = Yes; exactly one is required"
	}
	return fmt.Sprintf("%d rows have start_here = Yes (%s); exactly one is required",
		len(e.Codes), strings.Join(e.Codes, ", "))
}

// MergeResult is the output of merging user edits into a PreMerge set.
type MergeResult struct {
	Rows    []types.FinalRow
	Changes []types.ChangeRecord
}

// MergeEdits applies a user-edited copy onto the original PreMerge rows.
// For each row (by Code) and each artifact column, a non-empty edited cell
// that differs from the original overwrites it and produces a ChangeRecord;
// an empty cell is "no opinion" and never clears a field. Mismatch is forced
// to Yes/No from the row's change count. Edited rows whose code is not in
// the original set are ignored; PreMerge is the row authority.
//
// After merging, exactly one row must carry start_here = Yes, or the merge
// fails with StartHereViolationError before anything is written.
func MergeEdits(original []types.PreMergeRow, edits []table.EditedRow) (*MergeResult, error) {
	editedByCode := make(map[string]*table.EditedRow, len(edits))
	for i := range edits {
		e := &edits[i]
		if _, ok := editedByCode[e.Code]; !ok {
			editedByCode[e.Code] = e
		}
	}

	res := &MergeResult{Rows: make([]types.FinalRow, 0, len(original))}
	for _, orig := range original {
		row := orig
		changed := 0
		if edit, ok := editedByCode[row.Code]; ok {
			for _, col := range types.PreMergeColumns() {
				if col == types.ColCode {
					continue
				}
				val, present := edit.Cells[col]
				if !present || strings.TrimSpace(val) == "" {
					continue
				}
				cur, _ := row.Field(col)
				if val == cur {
					continue
				}
				res.Changes = append(res.Changes, types.ChangeRecord{
					Code:  row.Code,
					Field: col,
					From:  cur,
					To:    val,
				})
				row.SetField(col, val)
				changed++
			}
		}
		if changed > 0 {
			row.Mismatch = "Yes"
		} else {
			row.Mismatch = "No"
		}
		res.Rows = append(res.Rows, row)
	}

	var startCodes []string
	for i := range res.Rows {
		if strings.EqualFold(strings.TrimSpace(res.Rows[i].StartHere), "yes") {
			res.Rows[i].StartHere = "Yes"
			startCodes = append(startCodes, res.Rows[i].Code)
		} else {
			res.Rows[i].StartHere = "No"
		}
	}
	if len(startCodes) != 1 {
		return nil, &StartHereViolationError{Codes: startCodes}
	}

	return res, nil
}

// BuildFinal runs the change merge and wraps the outcome with its summary.
func BuildFinal(original []types.PreMergeRow, edits []table.EditedRow) (*MergeResult, *types.RunSummary, error) {
	res, err := MergeEdits(original, edits)
	if err != nil {
		return nil, nil, err
	}
	summary := &types.RunSummary{Rows: len(res.Rows), Changes: len(res.Changes)}
	return res, summary, nil
}
