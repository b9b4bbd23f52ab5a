package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ssk090/git-contri-merged/internal/model"
	"github.com/ssk090/git-contri-merged/internal/provider/github"
)

// ErrInvalidArgument is returned for malformed calendar requests. It is the
// same sentinel the GitHub client uses so callers need a single errors.Is.
var ErrInvalidArgument = github.ErrInvalidArgument

type ContributionSource interface {
	FetchContributors(ctx context.Context, projectRef, token string) ([]string, error)
	FetchMultipleAccountSeries(ctx context.Context, accounts []string, years []int, token string) map[string]model.AccountSeries
}

type CalendarRequest struct {
	Accounts   []string
	ProjectRef string
	Years      []int
	Token      string
}

type CalendarResult struct {
	Accounts []string            `json:"accounts"`
	Fetched  []string            `json:"fetched"`
	Missing  []string            `json:"missing"`
	Years    []int               `json:"years"`
	Merged   model.MergedSeries  `json:"merged"`
	Start    string              `json:"start,omitempty"`
	End      string              `json:"end,omitempty"`
	Days     []model.DailyRecord `json:"days"`
	Weeks    model.CalendarGrid  `json:"weeks"`
	Total    int                 `json:"total"`
}

func LoadCalendar(ctx context.Context, src ContributionSource, req CalendarRequest) (*CalendarResult, error) {
	return loadCalendar(ctx, src, req, time.Now())
}

func loadCalendar(ctx context.Context, src ContributionSource, req CalendarRequest, now time.Time) (*CalendarResult, error) {
	accounts := NormalizeAccounts(req.Accounts)
	ref := strings.TrimSpace(req.ProjectRef)
	switch {
	case len(req.Accounts) > 0 && ref != "":
		return nil, fmt.Errorf("%w: accounts and project reference are mutually exclusive", ErrInvalidArgument)
	case len(accounts) == 0 && ref == "" && len(req.Accounts) == 0:
		return nil, fmt.Errorf("%w: accounts or a project reference is required", ErrInvalidArgument)
	}

	years := normalizeYears(req.Years, now)
	if ref != "" {
		contributors, err := src.FetchContributors(ctx, ref, req.Token)
		if err != nil {
			return nil, fmt.Errorf("resolve contributors of %s: %w", ref, err)
		}
		accounts = NormalizeAccounts(contributors)
	}

	res := &CalendarResult{
		Accounts: accounts,
		Fetched:  []string{},
		Missing:  []string{},
		Years:    years,
		Merged:   model.MergedSeries{PerYearTotal: map[int]int{}, Days: []model.DailyRecord{}},
		Days:     []model.DailyRecord{},
		Weeks:    model.CalendarGrid{},
	}
	if len(accounts) == 0 {
		return res, nil
	}

	series := src.FetchMultipleAccountSeries(ctx, accounts, years, req.Token)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch contributions: %w", err)
	}
	for _, account := range accounts {
		if _, ok := series[account]; ok {
			res.Fetched = append(res.Fetched, account)
		} else {
			res.Missing = append(res.Missing, account)
		}
	}

	res.Merged = Merge(series)
	start, end := DateRangeAt(res.Merged.Days, now)
	res.Start = start.Format(model.DateLayout)
	res.End = end.Format(model.DateLayout)
	res.Days = FillGaps(res.Merged.Days, start, end)
	res.Weeks = GroupIntoWeeks(res.Days)
	res.Total = res.Merged.Total()
	return res, nil
}

// NormalizeAccounts trims account ids, drops blanks and removes duplicates,
// keeping the first spelling. Logins compare case-insensitively.
func NormalizeAccounts(accounts []string) []string {
	out := make([]string, 0, len(accounts))
	seen := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		a = strings.TrimSpace(a)
		key := strings.ToLower(a)
		if a == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}
