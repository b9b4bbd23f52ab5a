package render

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ssk090/git-contri-merged/internal/level"
	"github.com/ssk090/git-contri-merged/internal/service"
)

const (
	htmlWidth        = "1000px"
	calendarHeight   = 170
	calendarTopInset = 110
)

type HTMLOptions struct {
	Theme Theme
	Title string
}

// HTML renders the merged series as an echarts calendar heatmap, one
// calendar per year, coloured with the merged level thresholds.
func HTML(w io.Writer, res *service.CalendarResult, o HTMLOptions) error {
	if res == nil {
		return fmt.Errorf("html: no calendar result")
	}
	if o.Theme.Name == "" {
		o.Theme = Light
	}
	if o.Title == "" {
		o.Title = "Merged contributions"
	}

	years := calendarYears(res)
	byYear := make(map[int][]opts.HeatMapData, len(years))
	for _, d := range res.Days {
		if len(d.Date) < 4 {
			continue
		}
		y, err := strconv.Atoi(d.Date[:4])
		if err != nil {
			continue
		}
		byYear[y] = append(byYear[y], opts.HeatMapData{Name: d.Date, Value: []any{d.Date, d.Count}})
	}

	chart := charts.NewHeatMap()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       o.Title,
			Width:           htmlWidth,
			Height:          fmt.Sprintf("%dpx", calendarTopInset+len(years)*calendarHeight),
			BackgroundColor: o.Theme.Background,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      o.Title,
			Subtitle:   SummaryLine(res),
			TitleStyle: &opts.TextStyle{Color: o.Theme.Text},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithVisualMapOpts(visualMap(o.Theme)),
	)

	for i, y := range years {
		chart.AddCalendar(&opts.Calendar{
			Top:      strconv.Itoa(calendarTopInset + i*calendarHeight - 40),
			Left:     "60",
			Right:    "30",
			CellSize: "auto",
			Range:    []string{strconv.Itoa(y)},
			ItemStyle: &opts.ItemStyle{
				BorderColor: o.Theme.Background,
				BorderWidth: 2,
			},
			DayLabel:   &opts.CalendarLabel{Show: opts.Bool(true), FirstDay: 0, Color: o.Theme.Text},
			MonthLabel: &opts.CalendarLabel{Show: opts.Bool(true), Color: o.Theme.Text},
			YearLabel:  &opts.CalendarLabel{Show: opts.Bool(true), Color: o.Theme.Text},
		})
		chart.AddSeries(strconv.Itoa(y), byYear[y],
			charts.WithCoordinateSystem("calendar"),
			charts.WithCalendarIndex(i),
		)
	}
	return chart.Render(w)
}

// visualMap turns the merged threshold table into piecewise colour bands.
func visualMap(t Theme) opts.VisualMap {
	pieces := []opts.Piece{{Lt: 1, Color: t.LevelColor(0)}}
	lower := 1
	for _, th := range level.MergedThresholds {
		pieces = append(pieces, opts.Piece{Gte: float32(lower), Lte: float32(th.Upper), Color: t.LevelColor(th.Level)})
		lower = th.Upper + 1
	}
	pieces = append(pieces, opts.Piece{Gte: float32(lower), Color: t.LevelColor(level.Max)})

	return opts.VisualMap{
		Type:      "piecewise",
		Show:      opts.Bool(true),
		Orient:    "horizontal",
		Left:      "center",
		Bottom:    "10",
		Pieces:    pieces,
		TextStyle: &opts.TextStyle{Color: t.Text},
	}
}

func calendarYears(res *service.CalendarResult) []int {
	seen := map[int]bool{}
	for _, y := range res.Years {
		seen[y] = true
	}
	for y := range res.Merged.PerYearTotal {
		seen[y] = true
	}
	for _, d := range res.Days {
		if y, err := strconv.Atoi(d.Date[:min(4, len(d.Date))]); err == nil {
			seen[y] = true
		}
	}
	out := make([]int, 0, len(seen))
	for y := range seen {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}
