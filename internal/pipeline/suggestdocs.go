package pipeline

import (
	"strconv"

	"stepmerge/internal/suggest"
	"stepmerge/internal/table"
	"stepmerge/internal/types"
)

// Sheet names of the manual-assist workbook, kept from the original mapping
// workbook so reviewers land on familiar tabs.
const (
	SheetMapEntries = "Map_Entries"
	SheetLookup     = "OPM_Code_Lookup"
)

// SuggestionDocument flattens ranked suggestions into the Map_Entries table.
// Steps with no candidate above the threshold still get a row, with the
// match columns blank, so the reviewer sees every step needing a decision.
func SuggestionDocument(sugs []suggest.Suggestion) *table.Document {
	doc := table.NewDocument(SheetMapEntries, []string{
		types.ColCode, types.ColTitle, "Rank",
		types.ColMatchCodeOPM, types.ColOPMStep, types.ColSourceTitle, "Match_Conf",
	})
	for _, s := range sugs {
		if len(s.Candidates) == 0 {
			doc.Append([]string{s.RawCode, s.RawTitle, "", "", "", "", "0"})
			continue
		}
		for rank, c := range s.Candidates {
			doc.Append([]string{
				s.RawCode, s.RawTitle, strconv.Itoa(rank + 1),
				c.NarrCode, c.OPMStep, c.SourceTitle, strconv.Itoa(c.Confidence),
			})
		}
	}
	return doc
}

// LookupDocument lists the whole catalog for manual reference: every
// narration code with its step, title, and simple narration text.
func LookupDocument(entries []types.NarrEntry) *table.Document {
	doc := table.NewDocument(SheetLookup, []string{
		types.ColCode, types.ColOPMStep, types.ColSourceTitle, table.ColNarrSimple,
	})
	for _, e := range entries {
		doc.Append([]string{e.Code, e.OPMStep, e.SourceTitle, e.NarrSimple})
	}
	return doc
}
