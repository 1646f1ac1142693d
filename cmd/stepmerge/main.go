package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"stepmerge/internal/artifact"
	"stepmerge/internal/config"
	"stepmerge/internal/types"
)

var (
	// Global flags
	cfgPath  string
	sop      string
	outDir   string
	noLatest bool
	verbose  bool

	// Run state
	cfg    *config.Config
	logger *zap.Logger
	runID  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "stepmerge",
	Short: "stepmerge - RAW/narration merge pipeline for branching documents",
	Long: `stepmerge merges a slide/step export (RAW) with a narration catalog
into a reviewable PreMerge table, then folds the reviewer's edits into the
final mk_tw_in artifact with an auditable change log.

Stages:
  premerge  build the reviewable PreMerge table from RAW + narration
  final     apply reviewer edits onto a PreMerge table, emit mk_tw_in
  suggest   score fuzzy match candidates for the manual mapping pass
  direct    legacy one-shot build from a completed mapping table`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if sop != "" {
			cfg.SOP = sop
		}
		if outDir != "" {
			cfg.OutputDir = outDir
		}
		if noLatest {
			cfg.LatestAlias = false
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err = buildLogger(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		runID = uuid.NewString()
		logger = logger.With(zap.String("run_id", runID), zap.String("sop", cfg.SOP))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// buildLogger constructs the run logger from the logging config, with the
// --verbose flag forcing debug level.
func buildLogger(lc config.LoggingConfig) (*zap.Logger, error) {
	var zc zap.Config
	if lc.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else if level, err := zapcore.ParseLevel(lc.Level); err == nil {
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	return zc.Build()
}

// newWriter builds the artifact writer for the current run.
func newWriter() *artifact.Writer {
	return &artifact.Writer{
		OutDir:      cfg.OutputDir,
		SOP:         cfg.SOP,
		LatestAlias: cfg.LatestAlias,
	}
}

// logSummary reports per-run data-quality outcomes. Unresolved references
// are warnings: the display label stays empty, the run continues.
func logSummary(mode string, s *types.RunSummary) {
	s.RunID = runID
	s.Mode = mode
	logger.Info("run summary",
		zap.String("mode", s.Mode),
		zap.Int("rows", s.Rows),
		zap.Int("matched", s.Matched),
		zap.Int("unmatched", s.Unmatched),
		zap.Int("changes", s.Changes),
		zap.Int("unresolved_refs", len(s.Unresolved)),
	)
	for _, ref := range s.Unresolved {
		logger.Warn("unresolved next-step reference",
			zap.String("code", ref.Code),
			zap.String("field", ref.Field),
			zap.String("target", ref.Target),
		)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "stepmerge.yaml", "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&sop, "sop", "", "SOP code scoping this run (e.g. LineEnt)")
	rootCmd.PersistentFlags().StringVar(&outDir, "out", "", "Output directory (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noLatest, "no-latest", false, "Skip refreshing the *_latest aliases")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(premergeCmd)
	rootCmd.AddCommand(finalCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(directCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
