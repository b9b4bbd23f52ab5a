package render_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssk090/git-contri-merged/internal/model"
	"github.com/ssk090/git-contri-merged/internal/render"
	"github.com/ssk090/git-contri-merged/internal/service"
)

type staticSource map[string]model.AccountSeries

func (s staticSource) FetchContributors(context.Context, string, string) ([]string, error) {
	return nil, nil
}

func (s staticSource) FetchMultipleAccountSeries(_ context.Context, accounts []string, _ []int, _ string) map[string]model.AccountSeries {
	out := map[string]model.AccountSeries{}
	for _, a := range accounts {
		if v, ok := s[a]; ok {
			out[a] = v
		}
	}
	return out
}

func sampleResult(t *testing.T) *service.CalendarResult {
	t.Helper()
	var alice, bob []model.DailyRecord
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 90; i++ {
		date := start.AddDate(0, 0, i).Format(model.DateLayout)
		alice = append(alice, model.DailyRecord{Date: date, Count: i % 5})
		if i%3 == 0 {
			bob = append(bob, model.DailyRecord{Date: date, Count: i % 11})
		}
	}
	res, err := service.LoadCalendar(context.Background(), staticSource{
		"alice": {Account: "alice", Days: alice},
		"bob":   {Account: "bob", Days: bob},
	}, service.CalendarRequest{Accounts: []string{"alice", "bob", "ghost"}, Years: []int{2024}})
	require.NoError(t, err)
	return res
}

func TestThemeByName(t *testing.T) {
	t.Parallel()

	th, err := render.ThemeByName("")
	require.NoError(t, err)
	assert.Equal(t, render.Light, th)

	th, err = render.ThemeByName("DARK")
	require.NoError(t, err)
	assert.Equal(t, "#39d353", th.LevelColor(4))
	assert.Equal(t, "#161b22", th.LevelColor(-3))
	assert.Equal(t, "#39d353", th.LevelColor(9))

	_, err = render.ThemeByName("neon")
	assert.Error(t, err)
}

func TestTerminalPlain(t *testing.T) {
	t.Parallel()

	res := sampleResult(t)
	var buf bytes.Buffer
	require.NoError(t, render.Terminal(&buf, res, render.TerminalOptions{NoColor: true}))

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 10)

	// The first column is the week of 2023-12-31; its December label is too
	// close to January and is dropped.
	assert.True(t, strings.HasPrefix(lines[0], "      Jan"), lines[0])
	assert.Contains(t, lines[0], "Feb")
	assert.Contains(t, lines[0], "Mar")
	assert.True(t, strings.HasPrefix(lines[2], "Mon "))
	assert.True(t, strings.HasPrefix(lines[4], "Wed "))
	assert.True(t, strings.HasPrefix(lines[6], "Fri "))
	assert.Contains(t, out, "Less · ░ ▒ ▓ █ More")
	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "2 accounts")
	assert.Contains(t, out, "1 unavailable: ghost")
	assert.Contains(t, out, "in 2024")
}

func TestTerminalForcedColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.Terminal(&buf, sampleResult(t), render.TerminalOptions{Theme: render.Dark, ForceColor: true}))
	// 24-bit foreground escape for the dark level 4 colour #39d353.
	assert.Contains(t, buf.String(), "\x1b[38;2;57;211;83m")
}

func TestTerminalEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.Terminal(&buf, &service.CalendarResult{}, render.TerminalOptions{}))
	assert.Equal(t, "No contribution data.\n", buf.String())
}

func TestSummaryLine(t *testing.T) {
	t.Parallel()

	res := &service.CalendarResult{Total: 12345, Years: []int{2023, 2024}, Fetched: []string{"a"}}
	assert.Equal(t, "12,345 contributions in 2023, 2024 by 1 account", render.SummaryLine(res))
}

func TestSummaryTables(t *testing.T) {
	t.Parallel()

	res := sampleResult(t)
	var buf bytes.Buffer
	require.NoError(t, render.Summary(&buf, res))

	out := buf.String()
	assert.Contains(t, out, "2024")
	assert.Contains(t, out, "Longest streak")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "unavailable")
	assert.Contains(t, out, "2024-01-01 to 2024-03-30")
}

func TestHTML(t *testing.T) {
	t.Parallel()

	res := sampleResult(t)
	var buf bytes.Buffer
	require.NoError(t, render.HTML(&buf, res, render.HTMLOptions{Theme: render.Dark, Title: "Team activity"}))

	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Team activity")
	assert.Contains(t, out, "piecewise")
	assert.Contains(t, out, "calendar")
	assert.Contains(t, out, "2024-01-01")
	assert.Contains(t, out, "#39d353")
}
