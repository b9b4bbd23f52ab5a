package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ssk090/git-contri-merged/internal/provider/github"
)

const (
	TargetKindAccounts = "accounts"
	TargetKindProject  = "project"
)

type Target struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Accounts  []string  `json:"accounts,omitempty"`
	Project   string    `json:"project,omitempty"`
	Years     []int     `json:"years,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SaveTargetInput struct {
	Name     string
	Accounts []string
	Project  string
	Years    []int
}

var ErrTargetNotFound = errors.New("target not found")

// Request turns the target into a calendar request. Years passed explicitly
// win over the saved ones.
func (t Target) Request(token string, years []int) CalendarRequest {
	if len(years) == 0 {
		years = t.Years
	}
	req := CalendarRequest{Years: years, Token: token}
	if t.Kind == TargetKindProject {
		req.ProjectRef = t.Project
	} else {
		req.Accounts = append([]string(nil), t.Accounts...)
	}
	return req
}

func SaveTarget(db *sql.DB, in SaveTargetInput) (Target, error) {
	name := normalizeName(in.Name)
	if name == "" {
		return Target{}, fmt.Errorf("target name is required")
	}
	accounts := NormalizeAccounts(in.Accounts)
	project := strings.TrimSpace(in.Project)

	var kind, value string
	switch {
	case len(accounts) > 0 && project != "":
		return Target{}, fmt.Errorf("%w: a target holds either accounts or a project", ErrInvalidArgument)
	case project != "":
		owner, repo, err := github.ParseProjectRef(project)
		if err != nil {
			return Target{}, err
		}
		kind, value = TargetKindProject, owner+"/"+repo
	case len(accounts) > 0:
		kind, value = TargetKindAccounts, strings.Join(accounts, ",")
	default:
		return Target{}, fmt.Errorf("%w: target needs accounts or a project", ErrInvalidArgument)
	}
	yearsText := ""
	if len(in.Years) > 0 {
		yearsText = FormatYears(normalizeYears(in.Years, time.Now()))
	}

	_, err := db.Exec(`
INSERT INTO saved_targets(name, kind, value, years, updated_at)
VALUES(?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(name) DO UPDATE SET kind=excluded.kind, value=excluded.value, years=excluded.years, updated_at=excluded.updated_at
`, name, kind, value, yearsText)
	if err != nil {
		return Target{}, fmt.Errorf("save target %q: %w", name, err)
	}
	return GetTarget(db, name)
}

func GetTarget(db *sql.DB, name string) (Target, error) {
	name = normalizeName(name)
	if name == "" {
		return Target{}, fmt.Errorf("target name is required")
	}
	row := db.QueryRow(`SELECT id, name, kind, value, years, updated_at FROM saved_targets WHERE name = ?`, name)
	t, err := scanTarget(row)
	if err == sql.ErrNoRows {
		return Target{}, fmt.Errorf("%w: %q", ErrTargetNotFound, name)
	}
	if err != nil {
		return Target{}, fmt.Errorf("get target %q: %w", name, err)
	}
	return t, nil
}

func ListTargets(db *sql.DB) ([]Target, error) {
	rows, err := db.Query(`SELECT id, name, kind, value, years, updated_at FROM saved_targets ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()
	out := make([]Target, 0)
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate targets: %w", err)
	}
	return out, nil
}

func DeleteTarget(db *sql.DB, name string) error {
	name = normalizeName(name)
	if name == "" {
		return fmt.Errorf("target name is required")
	}
	res, err := db.Exec(`DELETE FROM saved_targets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete target %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete target %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrTargetNotFound, name)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTarget(row rowScanner) (Target, error) {
	var (
		t         Target
		value     string
		years     string
		updatedAt string
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Kind, &value, &years, &updatedAt); err != nil {
		return Target{}, err
	}
	if t.Kind == TargetKindProject {
		t.Project = value
	} else {
		t.Accounts = NormalizeAccounts(strings.Split(value, ","))
	}
	if years != "" {
		parsed, err := ParseYears(years)
		if err != nil {
			return Target{}, err
		}
		t.Years = parsed
	}
	t.UpdatedAt = parseSQLiteTime(updatedAt)
	return t, nil
}

func parseSQLiteTime(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func normalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}
