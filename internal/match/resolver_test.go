package match

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stepmerge/internal/types"
)

func catalog() []types.NarrEntry {
	return []types.NarrEntry{
		{Code: "P1", OPMStep: "Stage the cart", NarrSimple: "simple p1"},
		{Code: "M7", OPMStep: "Prep station", NarrMSimple: "Press start"},
		{Code: "P2", OPMStep: "Shared step"},
		{Code: "P3", OPMStep: "Shared step"},
	}
}

func TestLeadCodeToken(t *testing.T) {
	assert.Equal(t, "M7", LeadCodeToken("M7 – confirm"))
	assert.Equal(t, "P12A", LeadCodeToken("  p12a trailing"))
	assert.Equal(t, "", LeadCodeToken("no code here"))
	assert.Equal(t, "", LeadCodeToken(""))
}

func TestIsMClass(t *testing.T) {
	assert.True(t, IsMClass("M7"))
	assert.True(t, IsMClass("m3a"))
	assert.False(t, IsMClass("P1"))
	assert.False(t, IsMClass(""))
}

func TestResolve_NoManualEntry(t *testing.T) {
	r := NewResolver(catalog())

	res, err := r.Resolve(types.RawStep{Code: "S1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, types.MatchNone, res.Class)
	assert.Nil(t, res.Entry)
}

func TestResolve_ByCode(t *testing.T) {
	r := NewResolver(catalog())

	res, err := r.Resolve(types.RawStep{Code: "S1"}, &types.ManualMapEntry{RawCode: "S1", MatchToken: "M7"})
	require.NoError(t, err)
	assert.Equal(t, types.MatchM, res.Class)
	require.NotNil(t, res.Entry)
	assert.Equal(t, "Press start", res.Entry.NarrMSimple)
}

func TestResolve_ByOPMStep(t *testing.T) {
	r := NewResolver(catalog())

	res, err := r.Resolve(types.RawStep{Code: "S1"}, &types.ManualMapEntry{RawCode: "S1", MatchToken: "Stage the cart"})
	require.NoError(t, err)
	assert.Equal(t, types.MatchNonM, res.Class)
	require.NotNil(t, res.Entry)
	assert.Equal(t, "P1", res.Entry.Code)
}

func TestResolve_AmbiguousOPMStep(t *testing.T) {
	r := NewResolver(catalog())

	_, err := r.Resolve(types.RawStep{Code: "S9"}, &types.ManualMapEntry{RawCode: "S9", MatchToken: "Shared step"})
	require.Error(t, err)

	var ambiguous *AmbiguousMatchError
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, "S9", ambiguous.RawCode)
	assert.Equal(t, "Shared step", ambiguous.Token)
	assert.ElementsMatch(t, []string{"P2", "P3"}, ambiguous.Candidates)
}

func TestResolve_UnknownToken(t *testing.T) {
	r := NewResolver(catalog())

	res, err := r.Resolve(types.RawStep{Code: "S1"}, &types.ManualMapEntry{RawCode: "S1", MatchToken: "Z99"})
	require.NoError(t, err)
	assert.Equal(t, types.MatchNone, res.Class)
	assert.Nil(t, res.Entry)
}

func TestResolve_CodeTakesPrecedenceOverOPMStep(t *testing.T) {
	entries := []types.NarrEntry{
		{Code: "P1", OPMStep: "alpha"},
		{Code: "alpha", OPMStep: "beta"},
	}
	r := NewResolver(entries)

	// "alpha" is both an entry code and another entry's OPM_Step; the code
	// match wins.
	res, err := r.Resolve(types.RawStep{Code: "S1"}, &types.ManualMapEntry{RawCode: "S1", MatchToken: "alpha"})
	require.NoError(t, err)
	require.NotNil(t, res.Entry)
	assert.Equal(t, "alpha", res.Entry.Code)
}
