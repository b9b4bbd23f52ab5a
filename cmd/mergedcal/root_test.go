package mergedcal

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssk090/git-contri-merged/internal/service"
)

// resetFlags puts every flag back to its default; cobra keeps flag values
// between Execute calls on the same command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("MERGEDCAL_TOKEN", "")
	t.Setenv("MERGEDCAL_GITHUB_TOKEN", "")
	t.Setenv("MERGEDCAL_GITHUB_API_URL", "")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// fakeGitHub serves two accounts with activity in January 2024 and a
// repository whose contributors are those accounts plus a bot.
func fakeGitHub(t *testing.T) *authLog {
	t.Helper()
	auth := &authLog{}
	days := map[string][]map[string]any{
		"alice": {{"date": "2024-01-01", "contributionCount": 3}, {"date": "2024-01-02", "contributionCount": 0}},
		"bob":   {{"date": "2024-01-01", "contributionCount": 4}, {"date": "2024-01-02", "contributionCount": 2}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.add(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/graphql":
			var body struct {
				Variables struct {
					Login string `json:"login"`
				} `json:"variables"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			d, ok := days[body.Variables.Login]
			if !ok {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"data":   map[string]any{"user": nil},
					"errors": []map[string]any{{"type": "NOT_FOUND", "message": "Could not resolve to a User with the login of 'x'."}},
				})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"user": map[string]any{
				"contributionsCollection": map[string]any{"contributionCalendar": map[string]any{
					"totalContributions": 0,
					"weeks":              []map[string]any{{"contributionDays": d}},
				}},
			}}})
		case "/repos/acme/widgets/contributors":
			_ = json.NewEncoder(w).Encode([]map[string]string{
				{"login": "alice", "type": "User"},
				{"login": "dependabot[bot]", "type": "Bot"},
				{"login": "bob", "type": "User"},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	t.Setenv("MERGEDCAL_GITHUB_API_URL", srv.URL)
	return auth
}

type authLog struct {
	mu     sync.Mutex
	values []string
}

func (a *authLog) add(v string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.values = append(a.values, v)
}

func (a *authLog) last() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.values) == 0 {
		return ""
	}
	return a.values[len(a.values)-1]
}

func TestRootHelp(t *testing.T) {
	isolateEnv(t)
	out, err := run(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "calendar")
}

func TestInitCommandIdempotent(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "mergedcal.db")
	for i := 0; i < 2; i++ {
		out, err := run(t, "--db", path, "init")
		require.NoError(t, err, "init run %d", i+1)
		assert.Contains(t, out, "Initialized mergedcal database")
	}
}

func TestVersionCommand(t *testing.T) {
	isolateEnv(t)
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "mergedcal "))
}

func TestCalendarJSON(t *testing.T) {
	isolateEnv(t)
	fakeGitHub(t)
	path := filepath.Join(t.TempDir(), "mergedcal.db")

	out, err := run(t, "--db", path, "calendar", "--users", "alice,bob,ghost", "--year", "2024", "--json")
	require.NoError(t, err)

	var res service.CalendarResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []string{"alice", "bob"}, res.Fetched)
	assert.Equal(t, []string{"ghost"}, res.Missing)
	assert.Equal(t, 9, res.Total)
	require.Len(t, res.Days, 2)
	assert.Equal(t, 7, res.Days[0].Count)
	assert.Equal(t, 2, res.Days[0].Level)
	assert.Equal(t, 1, res.Days[1].Level)
}

func TestCalendarTerminalFromRepo(t *testing.T) {
	isolateEnv(t)
	fakeGitHub(t)
	path := filepath.Join(t.TempDir(), "mergedcal.db")

	out, err := run(t, "--db", path, "calendar", "--repo", "acme/widgets", "--year", "2024", "--no-color", "--summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Less · ░ ▒ ▓ █ More")
	assert.Contains(t, out, "9 contributions in 2024 by 2 accounts")
	assert.Contains(t, out, "Longest streak")
	assert.NotContains(t, out, "dependabot")
}

func TestCalendarHTML(t *testing.T) {
	isolateEnv(t)
	fakeGitHub(t)
	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "cal.html")

	out, err := run(t, "--db", filepath.Join(dir, "mergedcal.db"), "calendar", "--users", "alice", "--year", "2024", "--html", htmlPath, "--theme", "dark")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote HTML calendar")

	data, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "piecewise")
}

func TestCalendarRequiresOneSource(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "mergedcal.db")

	_, err := run(t, "--db", path, "calendar")
	assert.Error(t, err)
	_, err = run(t, "--db", path, "calendar", "--users", "alice", "--repo", "acme/widgets")
	assert.Error(t, err)
}

func TestTokenPrecedence(t *testing.T) {
	isolateEnv(t)
	auth := fakeGitHub(t)
	path := filepath.Join(t.TempDir(), "mergedcal.db")

	_, err := run(t, "--db", path, "config", "set", "--token", "stored-token")
	require.NoError(t, err)

	_, err = run(t, "--db", path, "calendar", "--users", "alice", "--year", "2024", "--json")
	require.NoError(t, err)
	assert.Equal(t, "Bearer stored-token", auth.last())

	t.Setenv("GITHUB_TOKEN", "env-token")
	_, err = run(t, "--db", path, "calendar", "--users", "alice", "--year", "2024", "--json")
	require.NoError(t, err)
	assert.Equal(t, "Bearer env-token", auth.last())

	_, err = run(t, "--db", path, "calendar", "--users", "alice", "--year", "2024", "--json", "--token", "flag-token")
	require.NoError(t, err)
	assert.Equal(t, "Bearer flag-token", auth.last())
}

func TestContributorsCommand(t *testing.T) {
	isolateEnv(t)
	fakeGitHub(t)
	path := filepath.Join(t.TempDir(), "mergedcal.db")

	out, err := run(t, "--db", path, "contributors", "acme/widgets")
	require.NoError(t, err)
	assert.Equal(t, "alice\nbob\n", out)

	_, err = run(t, "--db", path, "contributors", "acme/missing")
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "mergedcal.db")

	out, err := run(t, "--db", path, "config", "set", "--token", "ghp_abcdefgh1234", "--years", "2023-2024", "--theme", "dark")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated 3 config value(s)")

	out, err = run(t, "--db", path, "config", "get")
	require.NoError(t, err)
	assert.Contains(t, out, "github_token\t********1234")
	assert.Contains(t, out, "default_years\t2023-2024")
	assert.NotContains(t, out, "ghp_abcdefgh")

	out, err = run(t, "--db", path, "config", "unset", "github_token")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed github_token")

	_, err = run(t, "--db", path, "config", "set")
	assert.Error(t, err)
	_, err = run(t, "--db", path, "config", "set", "--theme", "sepia")
	assert.Error(t, err)
}

func TestTargetCommands(t *testing.T) {
	isolateEnv(t)
	fakeGitHub(t)
	path := filepath.Join(t.TempDir(), "mergedcal.db")

	out, err := run(t, "--db", path, "target", "save", "Team", "--users", "alice,bob", "--year", "2024")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved target team (accounts: alice,bob)")

	out, err = run(t, "--db", path, "target", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "team")
	assert.Contains(t, out, "alice,bob")

	out, err = run(t, "--db", path, "calendar", "--target", "team", "--json")
	require.NoError(t, err)
	var res service.CalendarResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []int{2024}, res.Years)
	assert.Equal(t, 9, res.Total)

	_, err = run(t, "--db", path, "target", "delete", "team")
	require.NoError(t, err)
	_, err = run(t, "--db", path, "calendar", "--target", "team")
	assert.ErrorIs(t, err, service.ErrTargetNotFound)
}
