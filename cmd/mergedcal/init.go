package mergedcal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssk090/git-contri-merged/internal/app"
	"github.com/ssk090/git-contri-merged/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize local mergedcal database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		if err := app.EnsureDBDir(path); err != nil {
			return err
		}

		sqldb, err := db.Open(path)
		if err != nil {
			return err
		}
		defer sqldb.Close()

		if err := db.ApplyMigrations(sqldb); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Initialized mergedcal database at %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
