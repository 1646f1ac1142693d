// Package derive computes the per-row derived fields of a PreMerge row:
// the three narration variants, the three next-step display labels, and the
// catalog carry-over columns. Derivation is pure: same inputs, same row.
package derive

import (
	"regexp"
	"strings"

	"stepmerge/internal/types"
)

// Title separators: an en-dash or hyphen surrounded by spaces. The earliest
// occurrence of either wins when both are present.
var titleSeps = []string{" – ", " - "}

// FirstHalfTitle returns the text preceding the first " – " or " - "
// separator of title, trimmed. Titles without a separator come back whole.
func FirstHalfTitle(title string) string {
	cut := -1
	for _, sep := range titleSeps {
		if i := strings.Index(title, sep); i >= 0 && (cut < 0 || i < cut) {
			cut = i
		}
	}
	if cut < 0 {
		return strings.TrimSpace(title)
	}
	return strings.TrimSpace(title[:cut])
}

var trailingPunctRE = regexp.MustCompile(`[.?!\s]+$`)

// Questionize turns a step title into its question form: trailing
// punctuation dropped, a single "?" appended. Used by the legacy direct
// mapping for decision-class codes.
func Questionize(title string) string {
	t := strings.TrimSpace(title)
	if t == "" {
		return ""
	}
	t = trailingPunctRE.ReplaceAllString(t, "")
	if !strings.HasSuffix(t, "?") {
		t += "?"
	}
	return t
}

// Deriver derives PreMerge fields for steps of one RAW set. The next-step
// labels are looked up against that same set by exact, case-sensitive code.
type Deriver struct {
	titleByCode map[string]string
}

// NewDeriver indexes the RAW set for next-step label lookup.
func NewDeriver(steps []types.RawStep) *Deriver {
	d := &Deriver{titleByCode: make(map[string]string, len(steps))}
	for _, s := range steps {
		d.titleByCode[s.Code] = s.Title
	}
	return d
}

// Derive produces the full PreMerge row for one step and its resolution.
// Dangling next-references are returned, not raised: the label stays empty
// and the caller folds them into the run summary.
func (d *Deriver) Derive(step types.RawStep, res types.MatchResolution) (types.PreMergeRow, []types.UnresolvedRef) {
	row := types.PreMergeRow{
		RawStep:   step,
		StartHere: "No",
		Mismatch:  "No",
	}

	switch res.Class {
	case types.MatchM:
		row.Narr1 = res.Entry.NarrSimple
		if strings.TrimSpace(row.Narr1) == "" {
			row.Narr1 = FirstHalfTitle(step.Title)
		}
		row.Narr2 = res.Entry.NarrMSimple
		row.Narr3 = res.Entry.NarrMFull
	case types.MatchNonM:
		row.Narr1 = res.Entry.NarrSimple
		row.Narr2 = res.Entry.NarrFull
	default:
		row.Narr1 = FirstHalfTitle(step.Title)
	}

	if res.Entry != nil {
		row.MatchCodeOPM = res.Entry.Code
		row.OPMStep = res.Entry.OPMStep
		row.SourceTitle = res.Entry.SourceTitle
	}

	var unresolved []types.UnresolvedRef
	nextCols := [3]string{types.ColNext1Code, types.ColNext2Code, types.ColNext3Code}
	disp := [3]*string{&row.DispNext1, &row.DispNext2, &row.DispNext3}
	for i, code := range step.NextCodes() {
		if code == "" {
			continue
		}
		title, ok := d.titleByCode[code]
		if !ok {
			unresolved = append(unresolved, types.UnresolvedRef{
				Code:   step.Code,
				Field:  nextCols[i],
				Target: code,
			})
			continue
		}
		*disp[i] = title
	}

	return row, unresolved
}
