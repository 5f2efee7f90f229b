package cmd

import (
	"fmt"
	"os"

	"sprite-index/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "sprite-index",
	Short: "Creature sprite identity resolver and asset index builder",
	Long: `sprite-index turns a game master and a directory of creature sprites into
canonically named, trimmed output files plus an index, and publishes them
to S3 compatible storage.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Debug level selects the development encoder with readable timestamps.
		l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
