package service

import (
	"sort"

	"github.com/ssk090/git-contri-merged/internal/level"
	"github.com/ssk090/git-contri-merged/internal/model"
)

// Merge sums daily counts by date and reclassifies them with the merged thresholds.
func Merge(series map[string]model.AccountSeries) model.MergedSeries {
	byDate := make(map[string]int)
	totals := make(map[int]int)

	for _, s := range series {
		for _, d := range s.Days {
			key := dayKey(d.Date)
			byDate[key] += d.Count
			if day, err := parseDay(key); err == nil {
				totals[day.Year()] += d.Count
			}
		}
	}

	days := make([]model.DailyRecord, 0, len(byDate))
	for date, count := range byDate {
		days = append(days, model.DailyRecord{
			Date:  date,
			Count: count,
			Level: level.Merged(count),
		})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})

	return model.MergedSeries{PerYearTotal: totals, Days: days}
}
