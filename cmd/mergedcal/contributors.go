package mergedcal

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	contribToken string
	contribJSON  bool
)

var contributorsCmd = &cobra.Command{
	Use:   "contributors owner/name",
	Short: "List the human contributors of a repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := loadSession(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = sess.logger.Sync() }()

		return withDB(func(sqldb *sql.DB) error {
			token, err := sess.resolveToken(sqldb, contribToken)
			if err != nil {
				return err
			}
			logins, err := sess.client().FetchContributors(cmd.Context(), args[0], token)
			if err != nil {
				return err
			}
			if contribJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(logins)
			}
			for _, login := range logins {
				fmt.Fprintln(cmd.OutOrStdout(), login)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(contributorsCmd)
	contributorsCmd.Flags().StringVar(&contribToken, "token", "", "GitHub token (overrides env and stored token)")
	contributorsCmd.Flags().BoolVar(&contribJSON, "json", false, "Print logins as a JSON array")
}
