package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"tasklet/internal/task"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, filepath.Join(dir, "sub", DefaultDBName), cfg.DBPath)
	assert.Equal(t, DefaultStorageKey, cfg.StorageKey)
	assert.Equal(t, task.SortNone, cfg.SortOrder())
	assert.Equal(t, "q", cfg.Keys.Quit)

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadOrCreateReadsValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	content := `
db_path = "/var/lib/tasklet/data.db"
default_sort = "dueDate-asc"
locale = "fr"
log_level = "debug"

[keys]
quit = "x"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/tasklet/data.db", cfg.DBPath)
	assert.Equal(t, task.SortDueAsc, cfg.SortOrder())
	assert.Equal(t, language.French.String(), cfg.Language().String())
	assert.Equal(t, DefaultStorageKey, cfg.StorageKey)
	assert.Equal(t, "x", cfg.Keys.Quit)
	assert.Equal(t, "a", cfg.Keys.Add, "unset keys keep their defaults")
}

func TestLoadOrCreateRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"sort":   `default_sort = "shuffle"`,
		"locale": `locale = "not a locale!"`,
		"syntax": `db_path = `,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultConfigFileName)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			_, err := LoadOrCreate(path)
			require.Error(t, err)
		})
	}
}

func TestResolveConfigPathHonorsEnv(t *testing.T) {
	t.Setenv(configEnvVar, "/tmp/custom.toml")
	assert.Equal(t, "/tmp/custom.toml", ResolveConfigPath())
}
