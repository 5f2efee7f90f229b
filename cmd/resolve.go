package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// resolveCmd matches single filenames, handy for checking a new asset.
var resolveCmd = &cobra.Command{
	Use:   "resolve [filename...]",
	Short: "Resolve asset filenames to canonical output names",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(false)
		if err != nil {
			return err
		}
		defer e.logger.Sync()

		if _, err := e.svc.LoadTable(cmd.Context()); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		for _, name := range args {
			res, err := e.svc.Resolve(name)
			if err != nil {
				e.logger.Warn("Failed to resolve asset", zap.String("file", name), zap.Error(err))
				continue
			}
			if err := enc.Encode(res); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(resolveCmd)
}
