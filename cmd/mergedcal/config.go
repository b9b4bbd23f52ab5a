package mergedcal

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ssk090/git-contri-merged/internal/service"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage stored mergedcal settings",
}

var (
	cfgToken string
	cfgYears string
	cfgTheme string
)

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set configuration values",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			updates := 0
			if cmd.Flags().Changed("token") {
				if err := service.SetConfig(sqldb, service.ConfigGitHubToken, cfgToken); err != nil {
					return err
				}
				updates++
			}
			if cmd.Flags().Changed("years") {
				if err := service.SetConfig(sqldb, service.ConfigDefaultYears, cfgYears); err != nil {
					return err
				}
				updates++
			}
			if cmd.Flags().Changed("theme") {
				if err := service.SetConfig(sqldb, service.ConfigColorScheme, cfgTheme); err != nil {
					return err
				}
				updates++
			}
			if updates == 0 {
				return fmt.Errorf("set at least one flag")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d config value(s)\n", updates)
			return nil
		})
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			cfg, err := service.ListConfig(sqldb)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(cfg))
			for k := range cfg {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintln(cmd.OutOrStdout(), "KEY\tVALUE")
			for _, k := range keys {
				v := cfg[k]
				if k == service.ConfigGitHubToken {
					v = maskToken(v)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", k, v)
			}
			return nil
		})
	},
}

var configUnsetCmd = &cobra.Command{
	Use:       "unset KEY",
	Short:     "Remove a configuration value",
	Args:      cobra.ExactArgs(1),
	ValidArgs: service.ConfigKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			removed, err := service.UnsetConfig(sqldb, args[0])
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s was not set\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configGetCmd, configUnsetCmd)

	configSetCmd.Flags().StringVar(&cfgToken, "token", "", "GitHub token used when none is given on the command line or env")
	configSetCmd.Flags().StringVar(&cfgYears, "years", "", "Default years, e.g. 2024 or 2022-2024")
	configSetCmd.Flags().StringVar(&cfgTheme, "theme", "", "Default colour theme: light or dark")
}
