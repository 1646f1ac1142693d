package suggest

import (
	"context"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"stepmerge/internal/types"
)

// Candidate is one proposed narration match for a RAW step.
type Candidate struct {
	NarrCode    string
	OPMStep     string
	SourceTitle string
	Score       float64
	Confidence  int // ceil(Score * 100)
}

// Suggestion holds the ranked candidates for one RAW step. Candidates is
// empty when nothing reached the threshold.
type Suggestion struct {
	RawCode    string
	RawTitle   string
	Candidates []Candidate
}

// Options tune the suggester. Zero values fall back to the defaults below.
type Options struct {
	Threshold      float64  // minimum score to retain, default 0.80
	MaxCandidates  int      // per-step cap, default 3
	IgnorePrefixes []string // narration code prefixes excluded, default D,N,Y
	Workers        int      // scoring goroutines, default 4
}

const (
	DefaultThreshold     = 0.80
	DefaultMaxCandidates = 3
	DefaultWorkers       = 4
)

// DefaultIgnorePrefixes excludes the decision and yes/no branch codes from
// suggestions; those are never narration matches.
func DefaultIgnorePrefixes() []string { return []string{"D", "N", "Y"} }

func (o Options) withDefaults() Options {
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.MaxCandidates <= 0 {
		o.MaxCandidates = DefaultMaxCandidates
	}
	if o.IgnorePrefixes == nil {
		o.IgnorePrefixes = DefaultIgnorePrefixes()
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	return o
}

// candidate text precomputed per catalog entry
type target struct {
	entry *types.NarrEntry
	text  string // normalized Source_Title, falling back to OPM_Step
	order int    // catalog insertion order, the tie breaker
}

// Suggester scores RAW steps against the narration catalog.
type Suggester struct {
	scorer Scorer
	opts   Options
}

// New builds a suggester with the given scorer and options.
func New(scorer Scorer, opts Options) *Suggester {
	return &Suggester{scorer: scorer, opts: opts.withDefaults()}
}

// Suggest scores every step against every eligible catalog entry and returns
// one suggestion per step, in step order. Steps are scored in parallel on a
// bounded group; results are deterministic regardless of worker count since
// each step's ranking is computed independently.
func (s *Suggester) Suggest(ctx context.Context, steps []types.RawStep, entries []types.NarrEntry) ([]Suggestion, error) {
	targets := s.targets(entries)
	out := make([]Suggestion, len(steps))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i := range steps {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = s.suggestOne(steps[i], targets)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Suggester) targets(entries []types.NarrEntry) []target {
	targets := make([]target, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		if s.ignored(e.Code) {
			continue
		}
		text := e.SourceTitle
		if strings.TrimSpace(text) == "" {
			text = e.OPMStep
		}
		targets = append(targets, target{entry: e, text: Normalize(text), order: i})
	}
	return targets
}

func (s *Suggester) ignored(code string) bool {
	c := strings.ToUpper(strings.TrimSpace(code))
	for _, p := range s.opts.IgnorePrefixes {
		if p != "" && strings.HasPrefix(c, strings.ToUpper(p)) {
			return true
		}
	}
	return false
}

func (s *Suggester) suggestOne(step types.RawStep, targets []target) Suggestion {
	sug := Suggestion{RawCode: step.Code, RawTitle: step.Title}

	title := Normalize(step.Title)
	if title == "" {
		return sug
	}

	type scored struct {
		target
		score float64
	}
	var kept []scored
	for _, t := range targets {
		if t.text == "" {
			continue
		}
		score := s.scorer.Score(title, t.text)
		if score >= s.opts.Threshold {
			kept = append(kept, scored{target: t, score: score})
		}
	}

	// Descending by score, catalog order on ties.
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].score != kept[j].score {
			return kept[i].score > kept[j].score
		}
		return kept[i].order < kept[j].order
	})
	if len(kept) > s.opts.MaxCandidates {
		kept = kept[:s.opts.MaxCandidates]
	}

	for _, k := range kept {
		sug.Candidates = append(sug.Candidates, Candidate{
			NarrCode:    k.entry.Code,
			OPMStep:     k.entry.OPMStep,
			SourceTitle: k.entry.SourceTitle,
			Score:       k.score,
			Confidence:  int(math.Ceil(k.score * 100)),
		})
	}
	return sug
}
