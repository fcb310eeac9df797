package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("XLSX_PATH", "")
	t.Setenv("JOURNAL_XLSX_PATH", "")
	t.Setenv("LOCK_TIMEOUT_SECONDS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.telegram.org", cfg.Bot.APIURL)
	assert.Equal(t, "plavka.xlsx", filepath.Base(cfg.Store.XLSXPath))
	assert.Equal(t, "journal.xlsx", filepath.Base(cfg.Store.JournalPath))
	assert.Equal(t, filepath.Dir(cfg.Store.XLSXPath), filepath.Dir(cfg.Store.JournalPath))
	assert.Equal(t, 15*time.Second, cfg.Store.LockTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XLSX_PATH", filepath.Join(dir, "данные", "melts.xlsx"))
	t.Setenv("LOCK_TIMEOUT_SECONDS", "3")
	t.Setenv("DB_PORT", "5433")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "melts.xlsx", filepath.Base(cfg.Store.XLSXPath))
	assert.Equal(t, 3*time.Second, cfg.Store.LockTimeout)
	assert.Equal(t, 5433, cfg.Database.Port)
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("LOCK_TIMEOUT_SECONDS", "не число")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.Store.LockTimeout)
}

func TestLoadBot_RequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	_, err := LoadBot()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_TOKEN")
}

func TestLoadBot_CreatesJournalDirs(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("XLSX_PATH", filepath.Join(dir, "контроль", "plavka.xlsx"))
	t.Setenv("JOURNAL_XLSX_PATH", filepath.Join(dir, "журнал", "journal.xlsx"))

	cfg, err := LoadBot()
	require.NoError(t, err)

	assert.DirExists(t, filepath.Dir(cfg.Store.XLSXPath))
	assert.DirExists(t, filepath.Dir(cfg.Store.JournalPath))
}

func TestDatabaseConfigGetDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.local",
		Port:     5432,
		User:     "plavka",
		Password: "secret",
		Database: "journal",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.local port=5432 user=plavka password=secret dbname=journal sslmode=require",
		cfg.GetDSN(),
	)
}
