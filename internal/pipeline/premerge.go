// Package pipeline orchestrates the merge stages: building the reviewable
// PreMerge table, merging user edits into the final table with a change log,
// and the legacy direct-mapping build. Each run loads everything up front,
// computes in one pass, and hands fully built tables to the artifact writer.
package pipeline

import (
	"stepmerge/internal/derive"
	"stepmerge/internal/match"
	"stepmerge/internal/types"
)

// BuildPreMerge resolves every RAW step against the narration catalog via
// the optional manual mapping and derives the full PreMerge row set. Rows
// come back in RAW order. The summary carries matched/unmatched counts and
// any dangling next-references.
func BuildPreMerge(raw []types.RawStep, narr []types.NarrEntry, manual []types.ManualMapEntry) ([]types.PreMergeRow, *types.RunSummary, error) {
	manualByCode := make(map[string]*types.ManualMapEntry, len(manual))
	for i := range manual {
		m := &manual[i]
		if _, ok := manualByCode[m.RawCode]; !ok {
			manualByCode[m.RawCode] = m
		}
	}

	resolver := match.NewResolver(narr)
	deriver := derive.NewDeriver(raw)
	summary := &types.RunSummary{Rows: len(raw)}

	rows := make([]types.PreMergeRow, 0, len(raw))
	for _, step := range raw {
		res, err := resolver.Resolve(step, manualByCode[step.Code])
		if err != nil {
			return nil, nil, err
		}
		if res.Class == types.MatchNone {
			summary.Unmatched++
		} else {
			summary.Matched++
		}

		row, unresolved := deriver.Derive(step, res)
		summary.Unresolved = append(summary.Unresolved, unresolved...)
		rows = append(rows, row)
	}
	return rows, summary, nil
}
