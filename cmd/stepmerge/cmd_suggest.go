package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stepmerge/internal/pipeline"
	"stepmerge/internal/suggest"
	"stepmerge/internal/table"
)

var (
	suggestRawPath   string
	suggestNarrPath  string
	suggestThreshold float64
	suggestMetric    string
	suggestMax       int
	suggestIgnore    []string
)

// suggestCmd scores fuzzy candidates for the manual mapping pass
var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Score fuzzy match candidates for the manual mapping pass",
	Long: `Scores every RAW step against every narration entry by normalized
text similarity and writes the Manual_Match workbook: a Map_Entries sheet of
ranked candidates above the threshold, plus an OPM_Code_Lookup sheet listing
the whole catalog. Advisory only; nothing here is applied automatically.

Example:
  stepmerge suggest --sop LineEnt \
    --raw inputs/LineEnt_raw.csv \
    --narr outputs/LineEnt_narr_latest.csv \
    --threshold 0.85 --metric jaro`,
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().StringVar(&suggestRawPath, "raw", "", "Path to the RAW step export (required)")
	suggestCmd.Flags().StringVar(&suggestNarrPath, "narr", "", "Path to the narration catalog (required)")
	suggestCmd.Flags().Float64Var(&suggestThreshold, "threshold", 0, "Minimum similarity to retain (overrides config)")
	suggestCmd.Flags().StringVar(&suggestMetric, "metric", "", "Similarity metric (overrides config)")
	suggestCmd.Flags().IntVar(&suggestMax, "max-candidates", 0, "Candidates kept per step (overrides config)")
	suggestCmd.Flags().StringSliceVar(&suggestIgnore, "ignore-prefixes", nil, "Narration code prefixes to exclude (overrides config)")
	suggestCmd.MarkFlagRequired("raw")
	suggestCmd.MarkFlagRequired("narr")
}

const stageSuggest = "Manual_Match"

func runSuggest(cmd *cobra.Command, args []string) error {
	sc := cfg.Suggest
	if suggestThreshold > 0 {
		sc.Threshold = suggestThreshold
	}
	if suggestMetric != "" {
		sc.Metric = suggestMetric
	}
	if suggestMax > 0 {
		sc.MaxCandidates = suggestMax
	}
	if suggestIgnore != nil {
		sc.IgnorePrefixes = suggestIgnore
	}

	scorer, err := suggest.NewScorer(sc.Metric)
	if err != nil {
		return err
	}
	logger.Info("building suggestions",
		zap.String("raw", suggestRawPath),
		zap.String("narr", suggestNarrPath),
		zap.String("metric", scorer.Name()),
		zap.Float64("threshold", sc.Threshold),
	)

	raw, err := table.LoadRaw(suggestRawPath)
	if err != nil {
		return err
	}
	narr, err := table.LoadNarr(suggestNarrPath)
	if err != nil {
		return err
	}

	suggester := suggest.New(scorer, suggest.Options{
		Threshold:      sc.Threshold,
		MaxCandidates:  sc.MaxCandidates,
		IgnorePrefixes: sc.IgnorePrefixes,
		Workers:        sc.Workers,
	})
	sugs, err := suggester.Suggest(cmd.Context(), raw, narr)
	if err != nil {
		return err
	}

	proposed := 0
	for _, s := range sugs {
		if len(s.Candidates) > 0 {
			proposed++
		}
	}
	logger.Info("scored suggestions",
		zap.Int("steps", len(raw)),
		zap.Int("with_candidates", proposed),
	)

	entriesDoc := pipeline.SuggestionDocument(sugs)
	lookupDoc := pipeline.LookupDocument(narr)
	paths, err := newWriter().Write(stageSuggest, entriesDoc, lookupDoc)
	if err != nil {
		return err
	}
	for _, p := range paths {
		logger.Info("wrote artifact", zap.String("path", p))
	}
	return nil
}
