package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateDryRun bool

// migrateCmd is the parent command for asset migrations.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate third-party sprite sets to canonical names",
}

var migratePMSFCmd = &cobra.Command{
	Use:   "pmsf <input-dir> <output-dir>",
	Short: "Copy a PMSF icon set to hyphen-convention names",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(false)
		if err != nil {
			return err
		}
		defer e.logger.Sync()

		report, err := e.svc.MigratePMSF(cmd.Context(), args[0], args[1], migrateDryRun)
		if err != nil {
			return err
		}
		e.logger.Info("Migration report",
			zap.Int("copies", len(report.Copies)),
			zap.Int("written", len(report.Written)),
			zap.Bool("dry_run", migrateDryRun),
			zap.Any("diagnostics", report.Diagnostics),
		)
		return nil
	},
}

func init() {
	migratePMSFCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "Plan the copies without writing")
	migrateCmd.AddCommand(migratePMSFCmd)
	RootCmd.AddCommand(migrateCmd)
}
