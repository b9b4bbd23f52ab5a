package mergedcal

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssk090/git-contri-merged/internal/app"
	"github.com/ssk090/git-contri-merged/internal/config"
	"github.com/ssk090/git-contri-merged/internal/db"
	"github.com/ssk090/git-contri-merged/internal/logging"
	"github.com/ssk090/git-contri-merged/internal/provider/github"
	"github.com/ssk090/git-contri-merged/internal/service"
)

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	return app.DefaultDBPath()
}

// session is the per-invocation config and logger.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
}

func loadSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	lvl := cfg.Log.Level
	if verbose {
		lvl = "debug"
	}
	logger, err := logging.New(cmd.ErrOrStderr(), lvl, cfg.Log.Development)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: logger}, nil
}

func (s *session) client() *github.Client {
	return &github.Client{
		BaseURL:     s.cfg.GitHub.APIURL,
		HTTPClient:  &http.Client{Timeout: s.cfg.HTTP.Timeout},
		Logger:      s.logger,
		Concurrency: s.cfg.Fetch.Concurrency,
		PageSize:    s.cfg.Fetch.PageSize,
	}
}

// resolveToken applies flag, then environment/config file, then the stored
// github_token setting.
func (s *session) resolveToken(sqldb *sql.DB, flagToken string) (string, error) {
	if t := strings.TrimSpace(flagToken); t != "" {
		return t, nil
	}
	if s.cfg.GitHub.Token != "" {
		return s.cfg.GitHub.Token, nil
	}
	stored, _, err := service.GetConfig(sqldb, service.ConfigGitHubToken)
	if err != nil {
		return "", err
	}
	return stored, nil
}

// resolveYears applies --year flags, then the stored default_years setting.
// Nil means the current year.
func resolveYears(sqldb *sql.DB, flagYears []string) ([]int, error) {
	if len(flagYears) > 0 {
		return service.ParseYears(strings.Join(flagYears, ","))
	}
	return service.StoredYears(sqldb)
}

func resolveTheme(sqldb *sql.DB, flagTheme string) (string, error) {
	if strings.TrimSpace(flagTheme) != "" {
		return flagTheme, nil
	}
	stored, _, err := service.GetConfig(sqldb, service.ConfigColorScheme)
	return stored, err
}

func maskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", 8) + token[len(token)-4:]
}
