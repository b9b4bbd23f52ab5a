package app_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssk090/git-contri-merged/internal/app"
)

func TestEnsureDBDirCreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "mergedcal.db")
	require.NoError(t, app.EnsureDBDir(path))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDefaultDBPathLivesInConfigDir(t *testing.T) {
	dir, err := app.ConfigDir()
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}
	path, err := app.DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mergedcal.db"), path)
}
