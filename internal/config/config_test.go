package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", cfg.Common.Timezone)
	assert.Equal(t, time.Monday, cfg.Common.WeekStart())
	assert.Equal(t, ":8181", cfg.Server.Addr)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yaml")
	yaml := `
common:
  timezone: Europe/Warsaw
  rate: 80
  start_weekday: 0
users:
  joschi: [jkphl, joe]
calendars:
  - id: business@example.com
    type: business
  - id: sick@example.com
    type: personal
    excused: true
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("LEDGER_DB_HOST", "db.internal")
	t.Setenv("LEDGER_COMMON_RATE", "95.5")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "Europe/Warsaw", cfg.Common.Timezone)
	assert.Equal(t, 95.5, cfg.Common.Rate)
	assert.Equal(t, time.Sunday, cfg.Common.WeekStart())
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, []string{"jkphl", "joe"}, cfg.Users["joschi"])
	require.Len(t, cfg.Calendars, 2)
	assert.Equal(t, "business", cfg.Calendars[0].Type)
	assert.True(t, cfg.Calendars[1].Excused)
}

func TestLoad_RejectsUnknownTimezone(t *testing.T) {
	t.Setenv("LEDGER_COMMON_TIMEZONE", "Mars/Olympus")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}
