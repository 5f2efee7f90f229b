package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"sprite-index/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	publishUpload bool
	publishPurge  bool
	publishDryRun bool
	yesConfirm    bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Reconcile the output directory with the storage bucket",
	Long: `Compares index.json, the output directory and the bucket.

Reports outputs missing in storage, size mismatches and orphaned objects.
Optionally upload missing or changed outputs, or purge objects that are no
longer indexed.

Examples:
  # Report only
  publish

  # Upload with interactive confirmation
  publish --upload

  # Upload and purge without prompting
  publish --upload --purge --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(false)
		if err != nil {
			return err
		}
		defer e.logger.Sync()

		opts := reconcile.ReconcileOptions{
			DoUpload: publishUpload,
			DoPurge:  publishPurge,
			DryRun:   publishDryRun,
		}

		e.logger.Info("Planning publish...")
		plan, _, err := e.svc.Publish(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("failed to plan publish: %w", err)
		}
		printPublishReport(e.logger, plan)

		if !publishUpload && !publishPurge {
			e.logger.Info("No actions requested. Use --upload to publish outputs or --purge to delete orphans.")
			return nil
		}
		if publishDryRun {
			e.logger.Info("Dry-run mode: No changes were made.")
			return nil
		}
		if len(plan.Actions) == 0 {
			e.logger.Info("No actions required based on current flags.")
			return nil
		}
		if !confirmDestructiveAction() {
			e.logger.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}

		opts.Confirmed = true
		e.logger.Info("Applying actions...")
		_, executed, err := e.svc.Publish(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("failed to apply plan: %w", err)
		}
		e.logger.Info("Successfully executed actions", zap.Int("count", executed))
		return nil
	},
}

func init() {
	publishCmd.Flags().BoolVar(&publishUpload, "upload", false, "Upload outputs missing or changed in storage")
	publishCmd.Flags().BoolVar(&publishPurge, "purge", false, "Delete storage objects that are not indexed")
	publishCmd.Flags().BoolVar(&publishDryRun, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	publishCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	RootCmd.AddCommand(publishCmd)
}

func printPublishReport(l *zap.Logger, plan *reconcile.ReconcilePlan) {
	s := plan.Summary
	l.Info("Publish report",
		zap.Int("total_items", s.TotalItems),
		zap.Int("missing_local", s.MissingLocal),
		zap.Int("missing_storage", s.MissingStorage),
		zap.Int("orphans", s.Orphans),
		zap.Int("mismatches", s.Mismatches),
	)
	if len(plan.Actions) == 0 {
		return
	}
	l.Info("Planned actions",
		zap.Int("upload_actions", s.UploadActions),
		zap.Int("purge_actions", s.PurgeActions),
		zap.Int("total_actions", len(plan.Actions)),
	)

	maxShow := min(5, len(plan.Actions))
	for _, action := range plan.Actions[:maxShow] {
		l.Info("Sample action",
			zap.String("type", string(action.Type)),
			zap.String("key", action.Key),
			zap.String("reason", action.Reason),
		)
	}
	if len(plan.Actions) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm: ")
	response, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
