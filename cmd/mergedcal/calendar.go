package mergedcal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssk090/git-contri-merged/internal/render"
	"github.com/ssk090/git-contri-merged/internal/service"
)

var (
	calUsers   []string
	calRepo    string
	calTarget  string
	calYears   []string
	calToken   string
	calJSON    bool
	calHTML    string
	calTheme   string
	calNoColor bool
	calSummary bool
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show the merged contribution calendar",
	Example: `  mergedcal calendar --users alice,bob --year 2024
  mergedcal calendar --repo acme/widgets --year 2022-2024 --html widgets.html
  mergedcal calendar --target team --summary`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sources := 0
		for _, set := range []bool{len(calUsers) > 0, calRepo != "", calTarget != ""} {
			if set {
				sources++
			}
		}
		if sources != 1 {
			return fmt.Errorf("set exactly one of --users, --repo or --target")
		}

		sess, err := loadSession(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = sess.logger.Sync() }()

		return withDB(func(sqldb *sql.DB) error {
			req, err := buildCalendarRequest(sess, sqldb)
			if err != nil {
				return err
			}
			themeName, err := resolveTheme(sqldb, calTheme)
			if err != nil {
				return err
			}
			theme, err := render.ThemeByName(themeName)
			if err != nil {
				return err
			}

			sess.logger.Debug("loading calendar",
				zap.Strings("accounts", req.Accounts),
				zap.String("project", req.ProjectRef),
				zap.Ints("years", req.Years),
				zap.Bool("authenticated", req.Token != ""))
			res, err := service.LoadCalendar(cmd.Context(), sess.client(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if calHTML != "" {
				if err := writeHTML(calHTML, res, theme, req); err != nil {
					return err
				}
				if !calJSON {
					fmt.Fprintf(out, "Wrote HTML calendar to %s\n", calHTML)
				}
			}
			if calJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			if calHTML != "" && !calSummary {
				return nil
			}
			if err := render.Terminal(out, res, render.TerminalOptions{Theme: theme, NoColor: calNoColor}); err != nil {
				return err
			}
			if calSummary {
				fmt.Fprintln(out)
				return render.Summary(out, res)
			}
			return nil
		})
	},
}

func buildCalendarRequest(sess *session, sqldb *sql.DB) (service.CalendarRequest, error) {
	token, err := sess.resolveToken(sqldb, calToken)
	if err != nil {
		return service.CalendarRequest{}, err
	}
	years, err := resolveYears(sqldb, calYears)
	if err != nil {
		return service.CalendarRequest{}, err
	}
	if calTarget != "" {
		target, err := service.GetTarget(sqldb, calTarget)
		if err != nil {
			return service.CalendarRequest{}, err
		}
		// Saved target years beat the stored default but not --year.
		if len(calYears) == 0 && len(target.Years) > 0 {
			years = nil
		}
		return target.Request(token, years), nil
	}
	return service.CalendarRequest{
		Accounts:   calUsers,
		ProjectRef: calRepo,
		Years:      years,
		Token:      token,
	}, nil
}

func writeHTML(path string, res *service.CalendarResult, theme render.Theme, req service.CalendarRequest) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create html output: %w", err)
	}
	title := "Merged contributions"
	if req.ProjectRef != "" {
		title = "Contributors to " + req.ProjectRef
	} else if len(res.Accounts) > 0 && len(res.Accounts) <= 4 {
		title = strings.Join(res.Accounts, " + ")
	}
	if err := render.HTML(f, res, render.HTMLOptions{Theme: theme, Title: title}); err != nil {
		_ = f.Close()
		return fmt.Errorf("render html: %w", err)
	}
	return f.Close()
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	f := calendarCmd.Flags()
	f.StringSliceVar(&calUsers, "users", nil, "Comma separated GitHub accounts to merge")
	f.StringVar(&calRepo, "repo", "", "Merge every contributor of owner/name")
	f.StringVar(&calTarget, "target", "", "Use a saved target")
	f.StringSliceVar(&calYears, "year", nil, "Year or range to fetch (repeatable, e.g. 2024 or 2022-2024)")
	f.StringVar(&calToken, "token", "", "GitHub token (overrides env and stored token)")
	f.BoolVar(&calJSON, "json", false, "Print the calendar as JSON")
	f.StringVar(&calHTML, "html", "", "Write an HTML heatmap to `FILE`")
	f.StringVar(&calTheme, "theme", "", "Colour theme: light or dark")
	f.BoolVar(&calNoColor, "no-color", false, "Draw shade characters instead of colours")
	f.BoolVar(&calSummary, "summary", false, "Print per-year totals and streaks")
}
