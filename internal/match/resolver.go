// Package match resolves RAW steps against the narration catalog. Resolution
// is exact-key lookup only: a manual mapping token is matched first against
// entry codes, then against full OPM_Step values. Approximate matching lives
// in the advisory suggest package and never feeds this resolver.
package match

import (
	"fmt"
	"regexp"
	"strings"

	"stepmerge/internal/types"
)

// leadCodeRE captures the leading step-code token of a value, e.g. "M7" in
// "M7 – confirm" or "P12a".
var leadCodeRE = regexp.MustCompile(`^\s*([A-Za-z]\d+[a-z]?)\b`)

// LeadCodeToken returns the leading step-code token of s, upper-cased, or ""
// when s does not start with one.
func LeadCodeToken(s string) string {
	m := leadCodeRE.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

// IsMClass reports whether a narration code carries the M-class marker:
// its lead code token starts with M.
func IsMClass(code string) bool {
	tok := LeadCodeToken(code)
	if tok == "" {
		tok = strings.ToUpper(strings.TrimSpace(code))
	}
	return strings.HasPrefix(tok, "M")
}

// AmbiguousMatchError reports a manual mapping token that matches more than
// one catalog entry by OPM_Step. Fatal for the run; carries the offending
// raw code so the mapping can be corrected.
type AmbiguousMatchError struct {
	RawCode    string
	Token      string
	Candidates []string // narration codes sharing the OPM_Step value
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("manual match for %s: token %q matches %d narration entries (%s)",
		e.RawCode, e.Token, len(e.Candidates), strings.Join(e.Candidates, ", "))
}

// Resolver performs exact-key resolution over a fixed narration catalog.
type Resolver struct {
	byCode map[string]*types.NarrEntry
	byOPM  map[string][]*types.NarrEntry
}

// NewResolver indexes the catalog by code and by OPM_Step value. The entry
// slice must already be duplicate-free on Code (the loader enforces it).
func NewResolver(entries []types.NarrEntry) *Resolver {
	r := &Resolver{
		byCode: make(map[string]*types.NarrEntry, len(entries)),
		byOPM:  make(map[string][]*types.NarrEntry),
	}
	for i := range entries {
		e := &entries[i]
		r.byCode[e.Code] = e
		if opm := strings.TrimSpace(e.OPMStep); opm != "" {
			r.byOPM[opm] = append(r.byOPM[opm], e)
		}
	}
	return r
}

// Lookup returns the catalog entry with the given code, if any.
func (r *Resolver) Lookup(code string) (*types.NarrEntry, bool) {
	e, ok := r.byCode[code]
	return e, ok
}

// Resolve decides which narration entry, if any, applies to a RAW step.
// With no manual entry the class is always MatchNone. A token matching an
// OPM_Step value shared by multiple entries fails with AmbiguousMatchError.
func (r *Resolver) Resolve(step types.RawStep, manual *types.ManualMapEntry) (types.MatchResolution, error) {
	if manual == nil {
		return types.MatchResolution{Class: types.MatchNone}, nil
	}

	token := strings.TrimSpace(manual.MatchToken)
	if token == "" {
		return types.MatchResolution{Class: types.MatchNone}, nil
	}

	entry, ok := r.byCode[token]
	if !ok {
		cands := r.byOPM[token]
		switch len(cands) {
		case 0:
			return types.MatchResolution{Class: types.MatchNone}, nil
		case 1:
			entry = cands[0]
		default:
			codes := make([]string, len(cands))
			for i, c := range cands {
				codes[i] = c.Code
			}
			return types.MatchResolution{}, &AmbiguousMatchError{
				RawCode:    step.Code,
				Token:      token,
				Candidates: codes,
			}
		}
	}

	class := types.MatchNonM
	if IsMClass(entry.Code) {
		class = types.MatchM
	}
	return types.MatchResolution{Entry: entry, Class: class}, nil
}
