package service

import (
	"database/sql"
	"fmt"
	"strings"
)

const (
	ConfigGitHubToken  = "github_token"
	ConfigDefaultYears = "default_years"
	ConfigColorScheme  = "color_scheme"
)

var ConfigKeys = []string{ConfigColorScheme, ConfigDefaultYears, ConfigGitHubToken}

func SetConfig(db *sql.DB, key, value string) error {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return fmt.Errorf("config key is required")
	}
	value = strings.TrimSpace(value)
	if err := validateConfig(key, value); err != nil {
		return err
	}
	_, err := db.Exec(`
INSERT INTO app_config(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, value)
	if err != nil {
		return fmt.Errorf("set config %q: %w", key, err)
	}
	return nil
}

func GetConfig(db *sql.DB, key string) (string, bool, error) {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return "", false, fmt.Errorf("config key is required")
	}
	var value string
	err := db.QueryRow(`SELECT value FROM app_config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get config %q: %w", key, err)
	}
	return value, true, nil
}

// UnsetConfig removes key and reports whether it was set.
func UnsetConfig(db *sql.DB, key string) (bool, error) {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return false, fmt.Errorf("config key is required")
	}
	res, err := db.Exec(`DELETE FROM app_config WHERE key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("unset config %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unset config %q: %w", key, err)
	}
	return n > 0, nil
}

func ListConfig(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT key, value FROM app_config ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate config: %w", err)
	}
	return out, nil
}

func StoredYears(db *sql.DB) ([]int, error) {
	value, ok, err := GetConfig(db, ConfigDefaultYears)
	if err != nil || !ok {
		return nil, err
	}
	return ParseYears(value)
}

func validateConfig(key, value string) error {
	switch key {
	case ConfigGitHubToken:
		if value == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
	case ConfigDefaultYears:
		years, err := ParseYears(value)
		if err != nil {
			return err
		}
		if len(years) == 0 {
			return fmt.Errorf("%s must list at least one year", key)
		}
	case ConfigColorScheme:
		if value != "light" && value != "dark" {
			return fmt.Errorf("%s must be light or dark", key)
		}
	default:
		return fmt.Errorf("unknown config key %q (want one of %s)", key, strings.Join(ConfigKeys, ", "))
	}
	return nil
}
