package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/ssk090/git-contri-merged/internal/level"
	"github.com/ssk090/git-contri-merged/internal/model"
	"github.com/ssk090/git-contri-merged/internal/service"
)

const (
	cellWidth   = 2
	gutterWidth = 4
	colorBlock  = "■"
)

// plainBlocks stand in for colours when colour output is off.
var plainBlocks = [level.Levels]string{"·", "░", "▒", "▓", "█"}

var weekdayLabels = [7]string{"", "Mon", "", "Wed", "", "Fri", ""}

type TerminalOptions struct {
	Theme Theme
	// NoColor prints shade characters instead of coloured blocks.
	NoColor bool
	// ForceColor emits colour escapes even when stdout is not a terminal.
	ForceColor bool
}

// Terminal prints the calendar grid with month and weekday labels, a legend
// and a one-line summary.
func Terminal(w io.Writer, res *service.CalendarResult, opts TerminalOptions) error {
	if res == nil || len(res.Weeks) == 0 {
		_, err := fmt.Fprintln(w, "No contribution data.")
		return err
	}
	if opts.Theme.Name == "" {
		opts.Theme = Light
	}
	p := newPainter(opts)

	var b strings.Builder
	b.WriteString(monthRow(res.Weeks))
	b.WriteByte('\n')
	for wd := 0; wd < 7; wd++ {
		fmt.Fprintf(&b, "%-*s", gutterWidth, weekdayLabels[wd])
		for _, week := range res.Weeks {
			b.WriteString(p.cell(week[wd], res.Start, res.End))
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", gutterWidth))
	b.WriteString("Less ")
	for lvl := 0; lvl < level.Levels; lvl++ {
		b.WriteString(p.block(lvl))
		b.WriteByte(' ')
	}
	b.WriteString("More\n")
	b.WriteString(SummaryLine(res))
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

// SummaryLine reads like "1,234 contributions in 2023, 2024 by 3 accounts".
func SummaryLine(res *service.CalendarResult) string {
	years := make([]string, 0, len(res.Years))
	for _, y := range res.Years {
		years = append(years, fmt.Sprint(y))
	}
	noun := "contributions"
	if res.Total == 1 {
		noun = "contribution"
	}
	accounts := "accounts"
	if len(res.Fetched) == 1 {
		accounts = "account"
	}
	line := fmt.Sprintf("%s %s in %s by %d %s",
		humanize.Comma(int64(res.Total)), noun, strings.Join(years, ", "), len(res.Fetched), accounts)
	if len(res.Missing) > 0 {
		line += fmt.Sprintf(" (%d unavailable: %s)", len(res.Missing), strings.Join(res.Missing, ", "))
	}
	return line
}

func monthRow(grid model.CalendarGrid) string {
	width := gutterWidth + len(grid)*cellWidth
	row := []rune(strings.Repeat(" ", width))
	for _, l := range service.MonthLabels(grid) {
		at := gutterWidth + l.Week*cellWidth
		for i, r := range l.Label {
			if at+i < len(row) {
				row[at+i] = r
			}
		}
	}
	return strings.TrimRight(string(row), " ")
}

type painter struct {
	plain  bool
	colors [level.Levels]*color.Color
}

func newPainter(opts TerminalOptions) *painter {
	p := &painter{plain: opts.NoColor || (color.NoColor && !opts.ForceColor)}
	if p.plain {
		return p
	}
	for lvl := range p.colors {
		r, g, b := hexRGB(opts.Theme.LevelColor(lvl))
		c := color.RGB(r, g, b)
		c.EnableColor()
		p.colors[lvl] = c
	}
	return p
}

func (p *painter) block(lvl int) string {
	if lvl < 0 {
		lvl = 0
	}
	if lvl > level.Max {
		lvl = level.Max
	}
	if p.plain {
		return plainBlocks[lvl]
	}
	return p.colors[lvl].Sprint(colorBlock)
}

// cell leaves week padding outside [start, end] blank.
func (p *painter) cell(d model.DailyRecord, start, end string) string {
	if d.Date == "" || (start != "" && d.Date < start) || (end != "" && d.Date > end) {
		return " "
	}
	return p.block(d.Level)
}
