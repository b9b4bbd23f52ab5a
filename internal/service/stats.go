package service

import "github.com/ssk090/git-contri-merged/internal/model"

type CalendarStats struct {
	ActiveDays    int               `json:"active_days"`
	BusiestDay    model.DailyRecord `json:"busiest_day"`
	LongestStreak int               `json:"longest_streak"`
	CurrentStreak int               `json:"current_streak"`
}

// Stats expects days as produced by FillGaps. CurrentStreak counts back from
// the last day.
func Stats(days []model.DailyRecord) CalendarStats {
	var s CalendarStats
	run := 0
	for _, d := range days {
		if d.Count <= 0 {
			run = 0
			continue
		}
		s.ActiveDays++
		run++
		if run > s.LongestStreak {
			s.LongestStreak = run
		}
		if d.Count > s.BusiestDay.Count {
			s.BusiestDay = d
		}
	}
	s.CurrentStreak = run
	return s
}
