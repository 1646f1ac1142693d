package pipeline

import (
	"strings"

	"stepmerge/internal/derive"
	"stepmerge/internal/match"
	"stepmerge/internal/types"
)

// BuildDirect is the legacy direct-mapping build: it joins RAW to the
// catalog through the mapping table's match token without the PreMerge
// review round-trip. The token's lead code token selects the catalog entry,
// and the narration variants follow the lead-code conventions of the
// original authoring flow:
//
//	D*   decision codes: Narr1 is the question form of the raw title
//	Y*/N* branch codes:  Narr1 is the title first half
//	M*   M-class codes:  Narr1 from the catalog, plus the M-variant pair
//	else                 Narr1 from the catalog, falling back to the title
func BuildDirect(raw []types.RawStep, narr []types.NarrEntry, mapping []types.ManualMapEntry) ([]types.PreMergeRow, *types.RunSummary) {
	tokenByCode := make(map[string]string, len(mapping))
	for _, m := range mapping {
		if _, ok := tokenByCode[m.RawCode]; !ok {
			tokenByCode[m.RawCode] = m.MatchToken
		}
	}

	byLead := make(map[string]*types.NarrEntry, len(narr))
	for i := range narr {
		e := &narr[i]
		if tok := match.LeadCodeToken(e.Code); tok != "" {
			if _, ok := byLead[tok]; !ok {
				byLead[tok] = e
			}
		}
	}

	deriver := derive.NewDeriver(raw)
	summary := &types.RunSummary{Rows: len(raw)}

	rows := make([]types.PreMergeRow, 0, len(raw))
	for _, step := range raw {
		row := types.PreMergeRow{RawStep: step, StartHere: "No", Mismatch: "No"}

		lead := match.LeadCodeToken(tokenByCode[step.Code])
		var entry *types.NarrEntry
		if lead != "" {
			entry = byLead[lead]
		}

		if entry != nil {
			row.MatchCodeOPM = entry.Code
			row.OPMStep = entry.OPMStep
			row.SourceTitle = entry.SourceTitle
			summary.Matched++
		} else {
			summary.Unmatched++
		}

		effLead := lead
		if entry != nil {
			if t := match.LeadCodeToken(entry.OPMStep); t != "" {
				effLead = t
			}
		}

		switch {
		case strings.HasPrefix(effLead, "D"):
			row.Narr1 = derive.Questionize(step.Title)
		case strings.HasPrefix(effLead, "Y"), strings.HasPrefix(effLead, "N"):
			row.Narr1 = derive.FirstHalfTitle(step.Title)
		case entry != nil:
			row.Narr1 = entry.NarrSimple
			if strings.TrimSpace(row.Narr1) == "" {
				row.Narr1 = step.Title
			}
			if strings.HasPrefix(effLead, "M") || match.IsMClass(entry.Code) {
				row.Narr2 = entry.NarrMSimple
				row.Narr3 = entry.NarrMFull
			}
		default:
			row.Narr1 = step.Title
		}

		// Display labels resolve the same way as the premerge build.
		derived, unresolved := deriver.Derive(step, types.MatchResolution{Class: types.MatchNone})
		row.DispNext1, row.DispNext2, row.DispNext3 = derived.DispNext1, derived.DispNext2, derived.DispNext3
		summary.Unresolved = append(summary.Unresolved, unresolved...)

		rows = append(rows, row)
	}
	return rows, summary
}
