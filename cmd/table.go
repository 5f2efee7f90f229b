package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"sprite-index/feature/sprite/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	tableCheckSchema bool
	tablePrint       bool
)

// tableCmd builds the sprite table and writes the snapshot.
var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Build the sprite table from the game master and write its snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(tableCheckSchema)
		if err != nil {
			return err
		}
		defer e.logger.Sync()

		if tableCheckSchema {
			return checkSchema(e)
		}

		t, err := e.svc.BuildTable(cmd.Context(), nil)
		if err != nil {
			return err
		}
		if path := e.cfg.Sprite.SnapshotPath; path != "" {
			if err := e.svc.WriteSnapshot(path, nil); err != nil {
				return err
			}
			e.logger.Info("Wrote table snapshot", zap.String("path", path), zap.Int("entries", t.Len()))
		}
		if tablePrint {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(t.Entries())
		}
		return nil
	},
}

func checkSchema(e *env) error {
	missing, err := store.New(e.db).CheckSchema()
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		e.logger.Info("Database schema is complete")
		return nil
	}
	for _, col := range missing {
		e.logger.Warn("Missing column", zap.String("column", col))
	}
	return fmt.Errorf("%d columns missing, run build --persist to migrate", len(missing))
}

func init() {
	tableCmd.Flags().BoolVar(&tableCheckSchema, "check-schema", false, "Only check the database schema of the snapshot tables")
	tableCmd.Flags().BoolVar(&tablePrint, "print", false, "Print the table entries as JSON")
	RootCmd.AddCommand(tableCmd)
}
