package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ssk090/git-contri-merged/internal/service"
)

// Summary writes per-year totals, streak figures and account status as
// tables.
func Summary(w io.Writer, res *service.CalendarResult) error {
	if res == nil {
		return fmt.Errorf("summary: no calendar result")
	}

	years := make([]int, 0, len(res.Merged.PerYearTotal))
	for y := range res.Merged.PerYearTotal {
		years = append(years, y)
	}
	sort.Ints(years)

	totals := table.NewWriter()
	totals.SetOutputMirror(w)
	totals.SetStyle(table.StyleLight)
	totals.SetTitle("Contributions")
	totals.AppendHeader(table.Row{"Year", "Contributions"})
	for _, y := range years {
		totals.AppendRow(table.Row{y, humanize.Comma(int64(res.Merged.PerYearTotal[y]))})
	}
	totals.AppendFooter(table.Row{"Total", humanize.Comma(int64(res.Total))})
	totals.Render()

	stats := service.Stats(res.Days)
	busiest := "-"
	if stats.BusiestDay.Count > 0 {
		busiest = fmt.Sprintf("%s (%s)", stats.BusiestDay.Date, humanize.Comma(int64(stats.BusiestDay.Count)))
	}
	figures := table.NewWriter()
	figures.SetOutputMirror(w)
	figures.SetStyle(table.StyleLight)
	figures.AppendRows([]table.Row{
		{"Range", fmt.Sprintf("%s to %s", orDash(res.Start), orDash(res.End))},
		{"Active days", humanize.Comma(int64(stats.ActiveDays))},
		{"Busiest day", busiest},
		{"Longest streak", fmt.Sprintf("%d days", stats.LongestStreak)},
		{"Current streak", fmt.Sprintf("%d days", stats.CurrentStreak)},
	})
	figures.Render()

	accounts := table.NewWriter()
	accounts.SetOutputMirror(w)
	accounts.SetStyle(table.StyleLight)
	accounts.AppendHeader(table.Row{"Account", "Status"})
	for _, a := range res.Fetched {
		accounts.AppendRow(table.Row{a, "fetched"})
	}
	for _, a := range res.Missing {
		accounts.AppendRow(table.Row{a, "unavailable"})
	}
	accounts.AppendFooter(table.Row{"Accounts", humanize.Comma(int64(len(res.Fetched)))})
	accounts.Render()
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
