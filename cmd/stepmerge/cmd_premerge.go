package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stepmerge/internal/pipeline"
	"stepmerge/internal/table"
	"stepmerge/internal/types"
)

var (
	premergeRawPath  string
	premergeNarrPath string
	premergeMapPath  string
)

// premergeCmd builds the reviewable PreMerge table
var premergeCmd = &cobra.Command{
	Use:   "premerge",
	Short: "Build the reviewable PreMerge table from RAW + narration",
	Long: `Loads the RAW step export and the narration catalog, resolves each
step through the optional manual mapping, derives the narration variants and
next-step display labels, and writes the timestamped PreMerge artifact in
both encodings.

Example:
  stepmerge premerge --sop LineEnt \
    --raw inputs/LineEnt_raw.csv \
    --narr outputs/LineEnt_narr_latest.csv \
    --map outputs/LineEnt_manual_map.xlsx`,
	RunE: runPremerge,
}

func init() {
	premergeCmd.Flags().StringVar(&premergeRawPath, "raw", "", "Path to the RAW step export (required)")
	premergeCmd.Flags().StringVar(&premergeNarrPath, "narr", "", "Path to the narration catalog (required)")
	premergeCmd.Flags().StringVar(&premergeMapPath, "map", "", "Path to the manual mapping table (optional)")
	premergeCmd.MarkFlagRequired("raw")
	premergeCmd.MarkFlagRequired("narr")
}

const stagePreMerge = "PreMerge"

func runPremerge(cmd *cobra.Command, args []string) error {
	logger.Info("building premerge",
		zap.String("raw", premergeRawPath),
		zap.String("narr", premergeNarrPath),
		zap.String("map", premergeMapPath),
	)

	raw, err := table.LoadRaw(premergeRawPath)
	if err != nil {
		return err
	}
	narr, err := table.LoadNarr(premergeNarrPath)
	if err != nil {
		return err
	}
	var manual []types.ManualMapEntry
	if premergeMapPath != "" {
		manual, err = table.LoadManualMap(premergeMapPath)
		if err != nil {
			return err
		}
	}

	rows, summary, err := pipeline.BuildPreMerge(raw, narr, manual)
	if err != nil {
		return err
	}

	doc := table.PreMergeDocument(stagePreMerge, rows)
	paths, err := newWriter().Write(stagePreMerge, doc)
	if err != nil {
		return err
	}

	logSummary("build-premerge", summary)
	for _, p := range paths {
		logger.Info("wrote artifact", zap.String("path", p))
	}
	return nil
}
