package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stepmerge/internal/pipeline"
	"stepmerge/internal/table"
)

var (
	directRawPath  string
	directNarrPath string
	directMapPath  string
)

// directCmd is the legacy one-shot build from a completed mapping table
var directCmd = &cobra.Command{
	Use:   "direct",
	Short: "Legacy one-shot build from a completed mapping table",
	Long: `Joins RAW to the narration catalog directly through a completed
mapping table, skipping the PreMerge review round-trip. Narration fields
follow the legacy lead-code conventions (D questionizes the title, Y/N take
its first half, M adds the M-variant pair). Kept for mapping workbooks
authored before the review flow existed.

Example:
  stepmerge direct --sop Tech \
    --raw inputs/Tech_raw.csv \
    --narr outputs/Tech_narr_latest.xlsx \
    --map reviewed/Tech_manual_map.xlsx`,
	RunE: runDirect,
}

func init() {
	directCmd.Flags().StringVar(&directRawPath, "raw", "", "Path to the RAW step export (required)")
	directCmd.Flags().StringVar(&directNarrPath, "narr", "", "Path to the narration catalog (required)")
	directCmd.Flags().StringVar(&directMapPath, "map", "", "Path to the completed mapping table (required)")
	directCmd.MarkFlagRequired("raw")
	directCmd.MarkFlagRequired("narr")
	directCmd.MarkFlagRequired("map")
}

func runDirect(cmd *cobra.Command, args []string) error {
	logger.Info("building direct mapping",
		zap.String("raw", directRawPath),
		zap.String("narr", directNarrPath),
		zap.String("map", directMapPath),
	)

	raw, err := table.LoadRaw(directRawPath)
	if err != nil {
		return err
	}
	narr, err := table.LoadNarr(directNarrPath)
	if err != nil {
		return err
	}
	mapping, err := table.LoadManualMap(directMapPath)
	if err != nil {
		return err
	}

	rows, summary := pipeline.BuildDirect(raw, narr, mapping)

	doc := table.PreMergeDocument(stageFinal, rows)
	paths, err := newWriter().Write(stageFinal, doc)
	if err != nil {
		return err
	}

	logSummary("legacy-direct-mapping", summary)
	for _, p := range paths {
		logger.Info("wrote artifact", zap.String("path", p))
	}
	return nil
}
