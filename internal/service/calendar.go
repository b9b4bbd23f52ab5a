package service

import (
	"strings"
	"time"

	"github.com/ssk090/git-contri-merged/internal/model"
)

type MonthLabel struct {
	Week  int    `json:"week"`
	Label string `json:"label"`
}

// DateRange returns the earliest and latest dates in days. With no usable
// dates it covers the year up to today.
func DateRange(days []model.DailyRecord) (time.Time, time.Time) {
	return DateRangeAt(days, time.Now())
}

func DateRangeAt(days []model.DailyRecord, now time.Time) (time.Time, time.Time) {
	var start, end time.Time
	found := false
	for _, d := range days {
		t, err := parseDay(d.Date)
		if err != nil {
			continue
		}
		if !found || t.Before(start) {
			start = t
		}
		if !found || t.After(end) {
			end = t
		}
		found = true
	}
	if !found {
		end = truncateDay(now)
		return end.AddDate(-1, 0, 0), end
	}
	return start, end
}

// FillGaps returns exactly one record per UTC day in [start, end], reusing
// records from days and zero-filling the rest.
func FillGaps(days []model.DailyRecord, start, end time.Time) []model.DailyRecord {
	start, end = truncateDay(start), truncateDay(end)
	if start.After(end) {
		return []model.DailyRecord{}
	}

	existing := make(map[string]model.DailyRecord, len(days))
	for _, d := range days {
		existing[dayKey(d.Date)] = d
	}

	span := int(end.Sub(start).Hours()/24) + 1
	out := make([]model.DailyRecord, 0, span)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(model.DateLayout)
		if rec, ok := existing[key]; ok {
			rec.Date = key
			out = append(out, rec)
			continue
		}
		out = append(out, model.DailyRecord{Date: key})
	}
	return out
}

func GroupIntoWeeks(days []model.DailyRecord) model.CalendarGrid {
	if len(days) == 0 {
		return model.CalendarGrid{}
	}

	cells := make([]model.DailyRecord, 0, len(days)+12)
	if first, err := parseDay(days[0].Date); err == nil {
		for i := int(first.Weekday()); i > 0; i-- {
			cells = append(cells, model.DailyRecord{Date: first.AddDate(0, 0, -i).Format(model.DateLayout)})
		}
	}
	cells = append(cells, days...)

	if rem := len(cells) % 7; rem != 0 {
		last, err := parseDay(cells[len(cells)-1].Date)
		for i := 1; i <= 7-rem; i++ {
			pad := model.DailyRecord{}
			if err == nil {
				pad.Date = last.AddDate(0, 0, i).Format(model.DateLayout)
			}
			cells = append(cells, pad)
		}
	}

	grid := make(model.CalendarGrid, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		var w model.Week
		copy(w[:], cells[i:i+7])
		grid = append(grid, w)
	}
	return grid
}

// MonthLabels places a label on the first week and on every week whose
// Sunday falls in a new month. A leading label crowded by the next one
// (less than two weeks apart) is dropped.
func MonthLabels(grid model.CalendarGrid) []MonthLabel {
	labels := make([]MonthLabel, 0, 13)
	var prev time.Month
	for i, w := range grid {
		t, err := parseDay(w[0].Date)
		if err != nil {
			continue
		}
		if i == 0 || t.Month() != prev {
			labels = append(labels, MonthLabel{Week: i, Label: t.Month().String()[:3]})
		}
		prev = t.Month()
	}
	if len(labels) > 1 && labels[1].Week-labels[0].Week < 2 {
		labels = labels[1:]
	}
	return labels
}

// dayKey reduces a date or RFC 3339 timestamp to its YYYY-MM-DD prefix so
// records compare as calendar days rather than instants.
func dayKey(date string) string {
	date = strings.TrimSpace(date)
	if len(date) > len(model.DateLayout) {
		if _, err := time.Parse(model.DateLayout, date[:len(model.DateLayout)]); err == nil {
			return date[:len(model.DateLayout)]
		}
	}
	return date
}

func parseDay(date string) (time.Time, error) {
	return time.ParseInLocation(model.DateLayout, dayKey(date), time.UTC)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
