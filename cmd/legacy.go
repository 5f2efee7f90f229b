package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var legacyCmd = &cobra.Command{
	Use:   "legacy [dir]",
	Short: "Audit a legacy asset directory against the sprite table",
	Long: `Matches every asset of a legacy directory without converting it and reports
unrecognized, dropped and multi-target assets, plus configured keys that
never matched. Defaults to the configured input directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(false)
		if err != nil {
			return err
		}
		defer e.logger.Sync()

		dir := e.cfg.Sprite.InputDir
		if len(args) == 1 {
			dir = args[0]
		}
		report, err := e.svc.AuditLegacy(cmd.Context(), dir)
		if err != nil {
			return err
		}
		e.logger.Info("Legacy audit report",
			zap.String("dir", dir),
			zap.Int("assets", report.Assets),
			zap.Int("unrecognized", len(report.Unrecognized)),
			zap.Int("dropped", len(report.Dropped)),
			zap.Int("multi_target", len(report.MultiTarget)),
			zap.Int("never_observed", len(report.Audit.NeverObserved)),
			zap.Strings("now_present", report.Audit.NowPresent),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(legacyCmd)
}
