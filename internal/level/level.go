// Package level maps daily contribution counts to the 0-4 intensity buckets
// used for calendar cells.
package level

const (
	// Max is the highest bucket either table can produce.
	Max = 4
	// Levels is the number of distinct buckets, including 0.
	Levels = Max + 1
)

// Threshold is the inclusive upper count bound of a bucket.
type Threshold struct {
	Level int
	Upper int
}

// RawThresholds apply to a single account's counts.
var RawThresholds = []Threshold{
	{Level: 1, Upper: 3},
	{Level: 2, Upper: 6},
	{Level: 3, Upper: 9},
}

// MergedThresholds apply to counts summed across accounts; sums run higher so
// the buckets are wider.
var MergedThresholds = []Threshold{
	{Level: 1, Upper: 5},
	{Level: 2, Upper: 10},
	{Level: 3, Upper: 15},
}

// Raw classifies a single-account count.
func Raw(count int) int {
	return classify(count, RawThresholds)
}

// Merged classifies a count summed across accounts.
func Merged(count int) int {
	return classify(count, MergedThresholds)
}

func classify(count int, table []Threshold) int {
	if count <= 0 {
		return 0
	}
	for _, t := range table {
		if count <= t.Upper {
			return t.Level
		}
	}
	return Max
}
