package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds process configuration. It is built once in main and passed
// down explicitly; nothing in this package caches state.
type Config struct {
	Bot struct {
		Token  string
		APIURL string
	}
	Store struct {
		XLSXPath    string
		JournalPath string
		LockTimeout time.Duration
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Database DatabaseConfig
	Log      struct {
		Level  string
		Format string
	}
	Locale string
}

// DatabaseConfig is used by the archive importer only.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN builds a lib/pq connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Bot.Token = os.Getenv("BOT_TOKEN")
	cfg.Bot.APIURL = getEnv("TELEGRAM_API_URL", "https://api.telegram.org")

	xlsxPath := getEnv("XLSX_PATH", "./Контроль/plavka.xlsx")
	abs, err := filepath.Abs(xlsxPath)
	if err != nil {
		return nil, fmt.Errorf("resolve XLSX_PATH: %w", err)
	}
	cfg.Store.XLSXPath = abs

	journalPath := getEnv("JOURNAL_XLSX_PATH", filepath.Join(filepath.Dir(abs), "journal.xlsx"))
	absJournal, err := filepath.Abs(journalPath)
	if err != nil {
		return nil, fmt.Errorf("resolve JOURNAL_XLSX_PATH: %w", err)
	}
	cfg.Store.JournalPath = absJournal
	cfg.Store.LockTimeout = time.Duration(parseInt(getEnv("LOCK_TIMEOUT_SECONDS", "15"), 15)) * time.Second

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "plavka")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")
	cfg.Locale = getEnv("LOCALE", "ru")

	return cfg, nil
}

// LoadBot is Load plus the checks the bot cannot start without.
func LoadBot() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("BOT_TOKEN is not configured")
	}
	for _, dir := range []string{filepath.Dir(cfg.Store.XLSXPath), filepath.Dir(cfg.Store.JournalPath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
