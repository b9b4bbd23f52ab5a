package model

// DateLayout is the ISO calendar-day layout used for every DailyRecord date.
const DateLayout = "2006-01-02"

type DailyRecord struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// AccountSeries is one account's daily activity as returned by the remote API.
// Days may be sparse and may span several years when multiple years were fetched.
type AccountSeries struct {
	Account string        `json:"account"`
	Days    []DailyRecord `json:"days"`
}

// MergedSeries is the per-date sum of several AccountSeries.
// Days is strictly ascending by date with one record per date.
type MergedSeries struct {
	PerYearTotal map[int]int   `json:"per_year_total"`
	Days         []DailyRecord `json:"days"`
}

// Total sums every year in PerYearTotal.
func (m MergedSeries) Total() int {
	total := 0
	for _, v := range m.PerYearTotal {
		total += v
	}
	return total
}

// Week holds seven consecutive days, Sunday first.
type Week [7]DailyRecord

type CalendarGrid []Week

// Days flattens the grid back into a single day sequence.
func (g CalendarGrid) Days() []DailyRecord {
	out := make([]DailyRecord, 0, len(g)*7)
	for _, w := range g {
		out = append(out, w[:]...)
	}
	return out
}
