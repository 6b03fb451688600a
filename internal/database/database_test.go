package database

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/klokku/meetingfinder/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Database {
	return config.Database{
		Host:   "db.internal",
		Port:   6543,
		User:   "finder",
		Pass:   "p@ss w'rd/:?",
		Name:   "meetings",
		Schema: "meetingfinder",
	}
}

func TestDsn(t *testing.T) {
	u, err := url.Parse(dsn(testConfig()))
	require.NoError(t, err)

	password, _ := u.User.Password()
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "finder", u.User.Username())
	assert.Equal(t, "p@ss w'rd/:?", password)
	assert.Equal(t, "db.internal:6543", u.Host)
	assert.Equal(t, "/meetings", u.Path)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	assert.Equal(t, "meetingfinder", u.Query().Get("search_path"))
}

func TestDsn_SSLMode(t *testing.T) {
	cfg := testConfig()
	cfg.SSLMode = "require"

	u, err := url.Parse(dsn(cfg))

	require.NoError(t, err)
	assert.Equal(t, "require", u.Query().Get("sslmode"))
}

func TestPoolConfig(t *testing.T) {
	t.Run("applies connection settings", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaxConns = 10
		cfg.MinConns = 3

		poolCfg, err := poolConfig(cfg)

		require.NoError(t, err)
		assert.Equal(t, "db.internal", poolCfg.ConnConfig.Host)
		assert.Equal(t, uint16(6543), poolCfg.ConnConfig.Port)
		assert.Equal(t, "p@ss w'rd/:?", poolCfg.ConnConfig.Password)
		assert.Equal(t, "meetings", poolCfg.ConnConfig.Database)
		assert.Equal(t, "meetingfinder", poolCfg.ConnConfig.RuntimeParams["search_path"])
		assert.Equal(t, int32(10), poolCfg.MaxConns)
		assert.Equal(t, int32(3), poolCfg.MinConns)
	})

	t.Run("min never exceeds max", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaxConns = 2
		cfg.MinConns = 5

		poolCfg, err := poolConfig(cfg)

		require.NoError(t, err)
		assert.Equal(t, int32(2), poolCfg.MinConns)
	})
}

func TestMigrationsDir_SearchesParents(t *testing.T) {
	path, err := migrationsDir("")

	require.NoError(t, err)
	assert.Equal(t, "migrations", filepath.Base(path))
	entries, err := os.ReadDir(path)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestMigrationsDir_NotFound(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := migrationsDir("")

	assert.Error(t, err)
}

func TestMigrationsDir_Configured(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir.sql")
	require.NoError(t, os.WriteFile(file, []byte("SELECT 1;"), 0o600))

	path, err := migrationsDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, path)

	_, err = migrationsDir(file)
	assert.Error(t, err)

	_, err = migrationsDir(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
