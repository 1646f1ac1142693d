package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stepmerge/internal/pipeline"
	"stepmerge/internal/table"
)

var (
	finalPremergePath string
	finalEditedPath   string
)

// finalCmd folds reviewer edits into the final mk_tw_in artifact
var finalCmd = &cobra.Command{
	Use:   "final",
	Short: "Apply reviewer edits onto a PreMerge table and emit mk_tw_in",
	Long: `Diffs the reviewer's edited copy against the original PreMerge
table, applies every non-empty differing cell, and writes the final mk_tw_in
artifact together with the change log. An empty edited cell never clears a
field. Exactly one row must carry start_here = Yes or the run fails without
writing anything.

Example:
  stepmerge final --sop LineEnt \
    --premerge out/LineEnt_PreMerge_latest.csv \
    --edited reviewed/LineEnt_resp_merge.xlsx`,
	RunE: runFinal,
}

func init() {
	finalCmd.Flags().StringVar(&finalPremergePath, "premerge", "", "Path to the original PreMerge artifact (required)")
	finalCmd.Flags().StringVar(&finalEditedPath, "edited", "", "Path to the reviewer-edited copy (required)")
	finalCmd.MarkFlagRequired("premerge")
	finalCmd.MarkFlagRequired("edited")
}

const (
	stageFinal     = "mk_tw_in"
	sheetChangeLog = "ChangeLog"
)

func runFinal(cmd *cobra.Command, args []string) error {
	logger.Info("building final",
		zap.String("premerge", finalPremergePath),
		zap.String("edited", finalEditedPath),
	)

	original, err := table.LoadPreMerge(finalPremergePath)
	if err != nil {
		return err
	}
	edits, err := table.LoadEdited(finalEditedPath)
	if err != nil {
		return err
	}

	res, summary, err := pipeline.BuildFinal(original, edits)
	if err != nil {
		return err
	}

	primary := table.PreMergeDocument(stageFinal, res.Rows)
	changes := table.ChangeLogDocument(sheetChangeLog, res.Changes)
	paths, err := newWriter().Write(stageFinal, primary, changes)
	if err != nil {
		return err
	}

	logSummary("build-final-from-edits", summary)
	for _, c := range res.Changes {
		logger.Debug("applied edit",
			zap.String("code", c.Code),
			zap.String("field", c.Field),
			zap.String("from", c.From),
			zap.String("to", c.To),
		)
	}
	for _, p := range paths {
		logger.Info("wrote artifact", zap.String("path", p))
	}
	return nil
}
