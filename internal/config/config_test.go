package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, defaults(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yaml")
	content := `
server:
  addr: ":9000"
db:
  host: postgres
  port: 6543
availability:
  timezone: Europe/Warsaw
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "meetingfinder", cfg.Database.User)
	assert.Equal(t, "Europe/Warsaw", cfg.Availability.Timezone)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db:\n  host: postgres\n"), 0o600))
	t.Setenv("MEETINGFINDER_DB_HOST", "db.internal")
	t.Setenv("MEETINGFINDER_GOOGLE_ENABLED", "true")
	t.Setenv("MEETINGFINDER_GOOGLE_ACCESSTOKEN", "token")
	t.Setenv("MEETINGFINDER_DB_MAXCONNS", "20")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, int32(1), cfg.Database.MinConns)
	assert.True(t, cfg.Google.Enabled)
	assert.Equal(t, "token", cfg.Google.AccessToken)
}

func TestLoad_InvalidYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db: [unclosed"), 0o600))

	_, err := Load(path)

	assert.Error(t, err)
}
