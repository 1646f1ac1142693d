// Package suggest is the advisory manual-assist matcher: it scores every RAW
// step against every narration entry by normalized text similarity and
// proposes ranked candidates. Output is reference material for the human
// mapping pass and is never applied to PreMerge or Final rows.
package suggest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Scorer computes a normalized similarity in [0, 1] between two already
// normalized strings. The metric is configuration, not a hard-coded choice.
type Scorer interface {
	Name() string
	Score(a, b string) float64
}

// Metric names accepted by NewScorer.
const (
	MetricJaro         = "jaro"
	MetricJaroWinkler  = "jaro_winkler"
	MetricLevenshtein  = "levenshtein"
	MetricSorensenDice = "sorensen_dice"
)

// DefaultMetric is used when the configuration names no metric.
const DefaultMetric = MetricJaroWinkler

type metricScorer struct {
	name   string
	metric strutil.StringMetric
}

func (s *metricScorer) Name() string { return s.name }

func (s *metricScorer) Score(a, b string) float64 {
	return strutil.Similarity(a, b, s.metric)
}

// NewScorer builds a scorer for the named metric.
func NewScorer(name string) (Scorer, error) {
	if name == "" {
		name = DefaultMetric
	}
	var m strutil.StringMetric
	switch name {
	case MetricJaro:
		m = metrics.NewJaro()
	case MetricJaroWinkler:
		m = metrics.NewJaroWinkler()
	case MetricLevenshtein:
		m = metrics.NewLevenshtein()
	case MetricSorensenDice:
		m = metrics.NewSorensenDice()
	default:
		return nil, fmt.Errorf("unknown similarity metric %q", name)
	}
	return &metricScorer{name: name, metric: m}, nil
}

var (
	leadCodePrefixRE = regexp.MustCompile(`^\s*[A-Za-z]\d+[a-z]?\s*[:\-–—]\s*`)
	bracketCodeRE    = regexp.MustCompile(`\[[A-Za-z]\d+[a-z]?\]`)
	bareCodeRE       = regexp.MustCompile(`\b[A-Za-z]\d+[a-z]?\b`)
	punctRE          = regexp.MustCompile(`[^\w\s]`)
	spaceRE          = regexp.MustCompile(`\s+`)
)

// Normalize prepares text for scoring: step-code tokens stripped, separators
// and punctuation flattened to spaces, whitespace collapsed, lower-cased.
// Step codes are identifiers, not prose; leaving them in would let two
// unrelated steps score high on their codes alone.
func Normalize(s string) string {
	s = leadCodePrefixRE.ReplaceAllString(s, "")
	s = bracketCodeRE.ReplaceAllString(s, " ")
	s = bareCodeRE.ReplaceAllString(s, " ")
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	s = punctRE.ReplaceAllString(s, " ")
	s = spaceRE.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}
