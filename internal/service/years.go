package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	minYear = 2008
	// maxYearSpan caps ranges like 2008-2030 typed by mistake.
	maxYearSpan = 30
)

// ParseYears accepts a comma separated list of years and inclusive ranges,
// e.g. "2022,2024" or "2020-2023". The result is sorted and deduplicated.
func ParseYears(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	seen := map[int]bool{}
	var out []int
	add := func(y int) {
		if !seen[y] {
			seen[y] = true
			out = append(out, y)
		}
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			from, err := parseYear(lo)
			if err != nil {
				return nil, err
			}
			to, err := parseYear(hi)
			if err != nil {
				return nil, err
			}
			if from > to {
				return nil, fmt.Errorf("%w: year range %q is reversed", ErrInvalidArgument, part)
			}
			if to-from >= maxYearSpan {
				return nil, fmt.Errorf("%w: year range %q is too wide", ErrInvalidArgument, part)
			}
			for y := from; y <= to; y++ {
				add(y)
			}
			continue
		}
		y, err := parseYear(part)
		if err != nil {
			return nil, err
		}
		add(y)
	}
	sort.Ints(out)
	return out, nil
}

func FormatYears(years []int) string {
	parts := make([]string, 0, len(years))
	for _, y := range years {
		parts = append(parts, strconv.Itoa(y))
	}
	return strings.Join(parts, ",")
}

func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid year %q", ErrInvalidArgument, s)
	}
	if y < minYear || y > time.Now().UTC().Year()+1 {
		return 0, fmt.Errorf("%w: year %d is out of range", ErrInvalidArgument, y)
	}
	return y, nil
}

func normalizeYears(years []int, now time.Time) []int {
	seen := map[int]bool{}
	out := make([]int, 0, len(years))
	for _, y := range years {
		if y <= 0 || seen[y] {
			continue
		}
		seen[y] = true
		out = append(out, y)
	}
	if len(out) == 0 {
		return []int{now.UTC().Year()}
	}
	sort.Ints(out)
	return out
}
