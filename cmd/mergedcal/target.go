package mergedcal

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ssk090/git-contri-merged/internal/service"
)

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Manage saved account lists and repositories",
}

var (
	targetUsers []string
	targetRepo  string
	targetYears []string
)

var targetSaveCmd = &cobra.Command{
	Use:   "save NAME",
	Short: "Save an account list or repository under a name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		years, err := service.ParseYears(strings.Join(targetYears, ","))
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			t, err := service.SaveTarget(sqldb, service.SaveTargetInput{
				Name:     args[0],
				Accounts: targetUsers,
				Project:  targetRepo,
				Years:    years,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved target %s (%s: %s)\n", t.Name, t.Kind, targetValue(t))
			return nil
		})
	},
}

var targetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			targets, err := service.ListTargets(sqldb)
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved targets.")
				return nil
			}
			tbl := table.NewWriter()
			tbl.SetOutputMirror(cmd.OutOrStdout())
			tbl.SetStyle(table.StyleLight)
			tbl.AppendHeader(table.Row{"Name", "Kind", "Value", "Years"})
			for _, t := range targets {
				years := service.FormatYears(t.Years)
				if years == "" {
					years = "-"
				}
				tbl.AppendRow(table.Row{t.Name, t.Kind, targetValue(t), years})
			}
			tbl.Render()
			return nil
		})
	},
}

var targetDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a saved target",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteTarget(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted target %s\n", strings.ToLower(strings.TrimSpace(args[0])))
			return nil
		})
	},
}

func targetValue(t service.Target) string {
	if t.Kind == service.TargetKindProject {
		return t.Project
	}
	return strings.Join(t.Accounts, ",")
}

func init() {
	rootCmd.AddCommand(targetCmd)
	targetCmd.AddCommand(targetSaveCmd, targetListCmd, targetDeleteCmd)

	targetSaveCmd.Flags().StringSliceVar(&targetUsers, "users", nil, "Comma separated GitHub accounts")
	targetSaveCmd.Flags().StringVar(&targetRepo, "repo", "", "Repository in owner/name form")
	targetSaveCmd.Flags().StringSliceVar(&targetYears, "year", nil, "Years to fetch by default (repeatable)")
}
