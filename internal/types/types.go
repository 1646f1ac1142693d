// Package types holds the shared data model for the stepmerge pipeline:
// the two input tables (RAW steps and the narration catalog), the optional
// manual mapping, and the derived row shapes that flow between stages.
package types

// RawStep is one row of the RAW export: a step of the branching document
// and its successor links. Immutable once loaded.
type RawStep struct {
	Code         string // unique key within RAW
	Title        string
	DeciQuestion string
	Next1Code    string
	Next2Code    string
	Next3Code    string
}

// NextCodes returns the three successor codes in order.
func (s RawStep) NextCodes() [3]string {
	return [3]string{s.Next1Code, s.Next2Code, s.Next3Code}
}

// NarrEntry is one row of the narration catalog. Entries whose code carries
// the M prefix form a distinct sub-class with a richer text-variant pair.
type NarrEntry struct {
	Code        string // unique key within Narr
	OPMStep     string
	SourceTitle string
	NarrSimple  string // Step_narr_out_simple
	NarrFull    string // Step_narr_out
	NarrMSimple string // Step_narr_m_out_simple
	NarrMFull   string // Step_narr_m_out
}

// ManualMapEntry binds a RAW step code to a narration match token. The token
// is either a NarrEntry code or a full OPM_Step value.
type ManualMapEntry struct {
	RawCode    string
	MatchToken string
}

// MatchClass classifies how a RAW step resolved against the catalog.
type MatchClass int

const (
	MatchNone MatchClass = iota // no narration entry applies
	MatchM                      // resolved to an M-class entry
	MatchNonM                   // resolved to a regular entry
)

func (c MatchClass) String() string {
	switch c {
	case MatchM:
		return "M"
	case MatchNonM:
		return "non-M"
	default:
		return "none"
	}
}

// MatchResolution is the per-step outcome of exact-key resolution.
// Entry is nil iff Class is MatchNone.
type MatchResolution struct {
	Entry *NarrEntry
	Class MatchClass
}

// PreMergeRow is a RawStep plus the derived narration and display fields.
// Row identity is Code. One row per RawStep, produced once per run.
type PreMergeRow struct {
	RawStep

	MatchCodeOPM string
	OPMStep      string
	SourceTitle  string
	Narr1        string
	Narr2        string
	Narr3        string
	DispNext1    string
	DispNext2    string
	DispNext3    string
	UAPURL       string
	UAPLabel     string
	StartHere    string // "Yes"/"No"
	Mismatch     string // "Yes"/"No"
}

// FinalRow is a PreMergeRow with user edits applied and Mismatch set where
// any field changed. Same shape, later lifecycle stage.
type FinalRow = PreMergeRow

// ChangeRecord documents one cell the user changed between the PreMerge
// artifact and its edited copy.
type ChangeRecord struct {
	Code  string
	Field string
	From  string
	To    string
}

// UnresolvedRef records a nextK_code that does not exist in RAW. Non-fatal:
// the display label is left empty and the reference surfaces in the summary.
type UnresolvedRef struct {
	Code   string // RAW step holding the dangling reference
	Field  string // which nextK_code column
	Target string // the code that did not resolve
}

// RunSummary aggregates per-row data-quality outcomes for one pipeline run.
type RunSummary struct {
	RunID      string
	Mode       string
	Rows       int
	Matched    int
	Unmatched  int
	Unresolved []UnresolvedRef
	Changes    int
}

// Column names of the PreMerge/Final artifacts, in output order.
const (
	ColCode         = "Code"
	ColTitle        = "Title"
	ColDeciQuestion = "Deci_Question"
	ColNext1Code    = "next1_code"
	ColNext2Code    = "next2_code"
	ColNext3Code    = "next3_code"
	ColMatchCodeOPM = "match_code_OPM"
	ColOPMStep      = "OPM_Step"
	ColSourceTitle  = "Source_Title"
	ColNarr1        = "Narr1"
	ColNarr2        = "Narr2"
	ColNarr3        = "Narr3"
	ColDispNext1    = "Disp_next1"
	ColDispNext2    = "Disp_next2"
	ColDispNext3    = "Disp_next3"
	ColUAPURL       = "UAP url"
	ColUAPLabel     = "UAP Label"
	ColStartHere    = "start_here"
	ColMismatch     = "Mismatch"
)

// PreMergeColumns lists the artifact columns in output order.
func PreMergeColumns() []string {
	return []string{
		ColCode, ColTitle, ColDeciQuestion,
		ColNext1Code, ColNext2Code, ColNext3Code,
		ColMatchCodeOPM, ColOPMStep, ColSourceTitle,
		ColNarr1, ColNarr2, ColNarr3,
		ColDispNext1, ColDispNext2, ColDispNext3,
		ColUAPURL, ColUAPLabel, ColStartHere, ColMismatch,
	}
}

// Field returns the value of the named artifact column. The second return
// is false for unknown column names.
func (r *PreMergeRow) Field(col string) (string, bool) {
	switch col {
	case ColCode:
		return r.Code, true
	case ColTitle:
		return r.Title, true
	case ColDeciQuestion:
		return r.DeciQuestion, true
	case ColNext1Code:
		return r.Next1Code, true
	case ColNext2Code:
		return r.Next2Code, true
	case ColNext3Code:
		return r.Next3Code, true
	case ColMatchCodeOPM:
		return r.MatchCodeOPM, true
	case ColOPMStep:
		return r.OPMStep, true
	case ColSourceTitle:
		return r.SourceTitle, true
	case ColNarr1:
		return r.Narr1, true
	case ColNarr2:
		return r.Narr2, true
	case ColNarr3:
		return r.Narr3, true
	case ColDispNext1:
		return r.DispNext1, true
	case ColDispNext2:
		return r.DispNext2, true
	case ColDispNext3:
		return r.DispNext3, true
	case ColUAPURL:
		return r.UAPURL, true
	case ColUAPLabel:
		return r.UAPLabel, true
	case ColStartHere:
		return r.StartHere, true
	case ColMismatch:
		return r.Mismatch, true
	}
	return "", false
}

// SetField assigns the named artifact column. Returns false for unknown
// column names; the row is untouched in that case.
func (r *PreMergeRow) SetField(col, val string) bool {
	switch col {
	case ColCode:
		r.Code = val
	case ColTitle:
		r.Title = val
	case ColDeciQuestion:
		r.DeciQuestion = val
	case ColNext1Code:
		r.Next1Code = val
	case ColNext2Code:
		r.Next2Code = val
	case ColNext3Code:
		r.Next3Code = val
	case ColMatchCodeOPM:
		r.MatchCodeOPM = val
	case ColOPMStep:
		r.OPMStep = val
	case ColSourceTitle:
		r.SourceTitle = val
	case ColNarr1:
		r.Narr1 = val
	case ColNarr2:
		r.Narr2 = val
	case ColNarr3:
		r.Narr3 = val
	case ColDispNext1:
		r.DispNext1 = val
	case ColDispNext2:
		r.DispNext2 = val
	case ColDispNext3:
		r.DispNext3 = val
	case ColUAPURL:
		r.UAPURL = val
	case ColUAPLabel:
		r.UAPLabel = val
	case ColStartHere:
		r.StartHere = val
	case ColMismatch:
		r.Mismatch = val
	default:
		return false
	}
	return true
}

// Record flattens the row into artifact column order.
func (r *PreMergeRow) Record() []string {
	cols := PreMergeColumns()
	rec := make([]string, len(cols))
	for i, c := range cols {
		rec[i], _ = r.Field(c)
	}
	return rec
}
