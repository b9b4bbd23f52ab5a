package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/ssk090/git-contri-merged/internal/level"
	"github.com/ssk090/git-contri-merged/internal/model"
)

const (
	defaultBaseURL   = "https://api.github.com"
	defaultUserAgent = "mergedcal/1.0 (+https://github.com/ssk090/git-contri-merged)"
	defaultTimeout   = 30 * time.Second

	// DefaultPageSize is the per_page value used when listing contributors.
	DefaultPageSize = 100
)

type Client struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Logger     *zap.Logger
	// Concurrency bounds the per-account fan-out of FetchMultipleAccountSeries.
	// Values below 1 fetch accounts one at a time.
	Concurrency int
	// PageSize overrides DefaultPageSize for contributor listing.
	PageSize int
}

// FetchAccountSeries returns one calendar year (UTC) of daily activity for account.
// When token is set it is sent as a bearer credential and, if it belongs to
// account itself, the viewer-scoped calendar is used instead of the public one.
func (c *Client) FetchAccountSeries(ctx context.Context, account string, year int, token string) (model.AccountSeries, error) {
	account = strings.TrimSpace(account)
	if account == "" {
		return model.AccountSeries{}, fmt.Errorf("%w: account is required", ErrInvalidArgument)
	}
	token = strings.TrimSpace(token)

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	reqBody := map[string]any{
		"query": calendarQuery(token != ""),
		"variables": map[string]any{
			"login": account,
			"from":  from.Format(time.RFC3339),
			"to":    to.Format(time.RFC3339),
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return model.AccountSeries{}, fmt.Errorf("marshal github graphql payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+"/graphql", bytes.NewReader(payload))
	if err != nil {
		return model.AccountSeries{}, fmt.Errorf("create github graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, body, err := c.send(req, token)
	if err != nil {
		return model.AccountSeries{}, err
	}

	var parsed graphQLResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return model.AccountSeries{}, fmt.Errorf("decode github graphql response: %w", err)
	}

	var user, viewer *calendarOwner
	if parsed.Data != nil {
		user, viewer = parsed.Data.User, parsed.Data.Viewer
	}
	viewerMatches := viewer != nil && strings.EqualFold(viewer.Login, account)

	if len(parsed.Errors) > 0 {
		notFound, other := splitGraphQLErrors(parsed.Errors)
		if len(other) > 0 {
			return model.AccountSeries{}, &UpstreamError{StatusCode: resp.StatusCode, Status: resp.Status, Messages: other}
		}
		if notFound && !viewerMatches {
			return model.AccountSeries{}, fmt.Errorf("%w: account %q", ErrNotFound, account)
		}
	}

	var calendar contributionCalendar
	switch {
	case viewerMatches:
		calendar = viewer.ContributionsCollection.ContributionCalendar
	case user != nil:
		calendar = user.ContributionsCollection.ContributionCalendar
	default:
		return model.AccountSeries{}, fmt.Errorf("%w: account %q", ErrNotFound, account)
	}

	out := model.AccountSeries{Account: account, Days: make([]model.DailyRecord, 0, 366)}
	for _, week := range calendar.Weeks {
		for _, day := range week.ContributionDays {
			out.Days = append(out.Days, model.DailyRecord{
				Date:  day.Date,
				Count: day.ContributionCount,
				Level: level.Raw(day.ContributionCount),
			})
		}
	}

	c.logger().Debug("fetched contribution calendar",
		zap.String("account", account),
		zap.Int("year", year),
		zap.Bool("viewer", viewerMatches),
		zap.Int("days", len(out.Days)),
		zap.Int("total", calendar.TotalContributions))
	return out, nil
}

// FetchMultipleAccountSeries fetches every year for every account and
// concatenates the years per account. An account whose fetch fails is logged
// and left out of the result. Once ctx is done no further fetches start.
func (c *Client) FetchMultipleAccountSeries(ctx context.Context, accounts []string, years []int, token string) map[string]model.AccountSeries {
	if len(years) == 0 {
		years = []int{time.Now().UTC().Year()}
	}

	var (
		mu      sync.Mutex
		results = make(map[string]model.AccountSeries, len(accounts))
		seen    = make(map[string]bool, len(accounts))
		group   errgroup.Group
	)
	group.SetLimit(c.concurrency())

	for _, account := range accounts {
		if ctx.Err() != nil {
			break
		}
		account = strings.TrimSpace(account)
		key := strings.ToLower(account)
		if account == "" || seen[key] {
			continue
		}
		seen[key] = true

		group.Go(func() error {
			series := model.AccountSeries{Account: account}
			for _, year := range years {
				if ctx.Err() != nil {
					return nil
				}
				part, err := c.FetchAccountSeries(ctx, account, year, token)
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					c.logger().Warn("dropping account after failed fetch",
						zap.String("account", account),
						zap.Int("year", year),
						zap.Error(err))
					return nil
				}
				series.Days = append(series.Days, part.Days...)
			}
			mu.Lock()
			results[account] = series
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	return results
}

func (c *Client) FetchContributors(ctx context.Context, projectRef, token string) ([]string, error) {
	owner, name, err := ParseProjectRef(projectRef)
	if err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	pageSize := c.pageSize()

	contributors := make([]string, 0)
	for page := 1; ; page++ {
		endpoint := fmt.Sprintf("%s/repos/%s/%s/contributors?per_page=%d&page=%d",
			c.baseURL(), url.PathEscape(owner), url.PathEscape(name), pageSize, page)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create github contributors request: %w", err)
		}
		req.Header.Set("Accept", "application/vnd.github+json")

		resp, body, err := c.send(req, token)
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusNotFound {
				return nil, fmt.Errorf("%w: project %q", ErrNotFound, owner+"/"+name)
			}
			return nil, err
		}
		// Empty repositories answer 204 with no body.
		if resp.StatusCode == http.StatusNoContent {
			break
		}

		var entries []contributorEntry
		if err := json.Unmarshal(body, &entries); err != nil {
			return nil, fmt.Errorf("decode github contributors page %d: %w", page, err)
		}
		if len(entries) == 0 {
			break
		}
		for _, e := range entries {
			if e.Login != "" && e.Type == "User" {
				contributors = append(contributors, e.Login)
			}
		}
		c.logger().Debug("fetched contributors page",
			zap.String("project", owner+"/"+name),
			zap.Int("page", page),
			zap.Int("entries", len(entries)))
		if len(entries) < pageSize {
			break
		}
	}
	return contributors, nil
}

func ParseProjectRef(ref string) (string, string, error) {
	ref = strings.TrimSpace(ref)
	parts := strings.Split(ref, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || strings.ContainsAny(ref, " \t\n") {
		return "", "", fmt.Errorf("%w: project reference %q must be in owner/name form", ErrInvalidArgument, ref)
	}
	return parts[0], parts[1], nil
}

// send executes req, authenticated with token when set, and returns the body
// of a 2xx response. On a non-2xx response the returned *http.Response is
// still set so callers can inspect it.
func (c *Client) send(req *http.Request, token string) (*http.Response, []byte, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent())
	}
	resp, err := c.clientFor(token).Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("execute github request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, fmt.Errorf("read github response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, body, &UpstreamError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return resp, body, nil
}

func (c *Client) clientFor(token string) *http.Client {
	base := c.httpClient()
	if token == "" {
		return base
	}
	authed := *base
	authed.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		Base:   base.Transport,
	}
	return &authed
}

func (c *Client) baseURL() string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return defaultBaseURL
	}
	return base
}

func (c *Client) userAgent() string {
	if ua := strings.TrimSpace(c.UserAgent); ua != "" {
		return ua
	}
	return defaultUserAgent
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: defaultTimeout}
}

func (c *Client) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

func (c *Client) concurrency() int {
	if c.Concurrency < 1 {
		return 1
	}
	return c.Concurrency
}

func (c *Client) pageSize() int {
	if c.PageSize > 0 {
		return c.PageSize
	}
	return DefaultPageSize
}
