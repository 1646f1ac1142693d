package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stepmerge/internal/match"
	"stepmerge/internal/types"
)

func rawFixture() []types.RawStep {
	return []types.RawStep{
		{Code: "S1", Title: "Open panel – step one", Next1Code: "S2"},
		{Code: "S2", Title: "Close panel"},
	}
}

func narrFixture() []types.NarrEntry {
	return []types.NarrEntry{
		{
			Code: "M7", OPMStep: "Prep station", SourceTitle: "Prep the station",
			NarrSimple: "Simple text", NarrFull: "Full text",
			NarrMSimple: "Press start", NarrMFull: "Press start and hold",
		},
		{Code: "P2", OPMStep: "Shared step"},
		{Code: "P3", OPMStep: "Shared step"},
	}
}

func TestBuildPreMerge_NoMapping(t *testing.T) {
	rows, summary, err := BuildPreMerge(rawFixture(), narrFixture(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "S1", rows[0].Code)
	assert.Equal(t, "Open panel", rows[0].Narr1)
	assert.Equal(t, "Close panel", rows[0].DispNext1)
	assert.Equal(t, "", rows[0].MatchCodeOPM)
	assert.Equal(t, "No", rows[0].StartHere)
	assert.Equal(t, "No", rows[0].Mismatch)

	assert.Equal(t, 2, summary.Rows)
	assert.Equal(t, 0, summary.Matched)
	assert.Equal(t, 2, summary.Unmatched)
	assert.Empty(t, summary.Unresolved)
}

func TestBuildPreMerge_ManualMatch(t *testing.T) {
	manual := []types.ManualMapEntry{{RawCode: "S1", MatchToken: "M7"}}

	rows, summary, err := BuildPreMerge(rawFixture(), narrFixture(), manual)
	require.NoError(t, err)

	assert.Equal(t, "M7", rows[0].MatchCodeOPM)
	assert.Equal(t, "Prep station", rows[0].OPMStep)
	assert.Equal(t, "Simple text", rows[0].Narr1)
	assert.Equal(t, "Press start", rows[0].Narr2)
	assert.Equal(t, "Press start and hold", rows[0].Narr3)

	// S2 has no mapping entry and stays title-derived.
	assert.Equal(t, "", rows[1].MatchCodeOPM)
	assert.Equal(t, "Close panel", rows[1].Narr1)

	assert.Equal(t, 1, summary.Matched)
	assert.Equal(t, 1, summary.Unmatched)
}

func TestBuildPreMerge_AmbiguousMappingFails(t *testing.T) {
	manual := []types.ManualMapEntry{{RawCode: "S1", MatchToken: "Shared step"}}

	_, _, err := BuildPreMerge(rawFixture(), narrFixture(), manual)
	var ambiguous *match.AmbiguousMatchError
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, "S1", ambiguous.RawCode)
}

func TestBuildPreMerge_DanglingNextReference(t *testing.T) {
	raw := []types.RawStep{
		{Code: "S1", Title: "Open", Next1Code: "MISSING"},
	}

	rows, summary, err := BuildPreMerge(raw, narrFixture(), nil)
	require.NoError(t, err)
	assert.Equal(t, "", rows[0].DispNext1)
	require.Len(t, summary.Unresolved, 1)
	assert.Equal(t, types.UnresolvedRef{
		Code: "S1", Field: types.ColNext1Code, Target: "MISSING",
	}, summary.Unresolved[0])
}

func TestBuildPreMerge_DuplicateMappingFirstWins(t *testing.T) {
	manual := []types.ManualMapEntry{
		{RawCode: "S1", MatchToken: "M7"},
		{RawCode: "S1", MatchToken: "P2"},
	}

	rows, _, err := BuildPreMerge(rawFixture(), narrFixture(), manual)
	require.NoError(t, err)
	assert.Equal(t, "M7", rows[0].MatchCodeOPM)
}
