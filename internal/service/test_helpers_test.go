package service_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssk090/git-contri-merged/internal/db"
	"github.com/ssk090/git-contri-merged/internal/model"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mergedcal.db")
	sqldb, err := db.Open(path)
	require.NoError(t, err, "open db")
	require.NoError(t, db.ApplyMigrations(sqldb), "apply migrations")
	t.Cleanup(func() { _ = sqldb.Close() })
	return sqldb
}

func rec(date string, count, lvl int) model.DailyRecord {
	return model.DailyRecord{Date: date, Count: count, Level: lvl}
}

// fakeSource serves canned series and records what the pipeline asked for.
type fakeSource struct {
	mu           sync.Mutex
	contributors []string
	contribErr   error
	series       map[string]model.AccountSeries

	contribCalls int
	fetchCalls   int
	lastAccounts []string
	lastYears    []int
	lastToken    string
}

func (f *fakeSource) FetchContributors(_ context.Context, _ string, token string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contribCalls++
	f.lastToken = token
	if f.contribErr != nil {
		return nil, f.contribErr
	}
	return f.contributors, nil
}

func (f *fakeSource) FetchMultipleAccountSeries(_ context.Context, accounts []string, years []int, token string) map[string]model.AccountSeries {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	f.lastAccounts = append([]string(nil), accounts...)
	f.lastYears = append([]int(nil), years...)
	f.lastToken = token
	out := map[string]model.AccountSeries{}
	for _, a := range accounts {
		if s, ok := f.series[a]; ok {
			out[a] = s
		}
	}
	return out
}
