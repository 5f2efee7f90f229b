package cmd

import (
	"sprite-index/feature/sprite"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	buildDryRun  bool
	buildPersist bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Match the input directory and write trimmed, canonically named sprites",
	Long: `Builds the sprite table from the game master, matches every asset in the
input directory, trims each source once with the image tool and writes the
outputs plus index.json to the output directory.

Examples:
  # Report what would be written
  build --dry-run

  # Convert and store the table and index run in the database
  build --persist`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(buildPersist)
		if err != nil {
			return err
		}
		defer e.logger.Sync()

		report, err := e.svc.Build(cmd.Context(), sprite.BuildOptions{
			DryRun:  buildDryRun,
			Persist: buildPersist,
		})
		if err != nil {
			return err
		}

		fields := []zap.Field{
			zap.Int("entries", report.Entries),
			zap.Int("assets", report.Assets),
			zap.Int("instructions", len(report.Index.Instructions)),
			zap.Int("never_observed", len(report.Audit.NeverObserved)),
			zap.Any("diagnostics", report.Diagnostics),
		}
		if report.RunID != "" {
			fields = append(fields, zap.String("run_id", report.RunID))
		}
		if buildDryRun {
			e.logger.Info("Dry-run mode: no files were written", fields...)
			return nil
		}
		e.logger.Info("Build report", fields...)
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "Match and report without converting")
	buildCmd.Flags().BoolVar(&buildPersist, "persist", false, "Store the table and index run in the database")
	RootCmd.AddCommand(buildCmd)
}
