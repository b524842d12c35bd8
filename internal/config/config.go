package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
)

// Ledger storage backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Password hashing schemes.
const (
	HashSHA256 = "sha256"
	HashBcrypt = "bcrypt"
)

// DefaultCategories is the category list offered to users when none is configured.
var DefaultCategories = []string{"식비", "교통", "생활/통신", "쇼핑", "문화/여가", "교육", "의료/건강", "기타"}

type Config struct {
	// Root of ledgers, the account file and avatars.
	DataDir string

	// Ledger storage
	Backend    string
	SQLitePath string

	// Credentials
	PasswordHash string

	// Presentation
	Categories []string
	Currency   string

	LogLevel string
}

// LoadEnvFile loads a .env file for local use. A missing file is not an error.
func LoadEnvFile(paths ...string) {
	_ = godotenv.Load(paths...)
}

func Load() *Config {
	dataDir := getEnv("LEDGER_DATA_DIR", "./data")
	cfg := &Config{
		DataDir:      dataDir,
		Backend:      strings.ToLower(getEnv("LEDGER_BACKEND", BackendCSV)),
		SQLitePath:   getEnv("LEDGER_SQLITE_PATH", filepath.Join(dataDir, "ledger.db")),
		PasswordHash: strings.ToLower(getEnv("LEDGER_PASSWORD_HASH", HashSHA256)),
		Categories:   getEnvList("LEDGER_CATEGORIES", DefaultCategories),
		Currency:     strings.ToUpper(getEnv("LEDGER_CURRENCY", money.KRW)),
		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}
	return cfg
}

// Validate validates the configuration and returns an error listing every problem.
func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.DataDir) == "" {
		errors = append(errors, "data directory cannot be empty")
	}

	backends := []string{BackendCSV, BackendSQLite}
	if !slices.Contains(backends, c.Backend) {
		errors = append(errors, fmt.Sprintf("invalid ledger backend '%s': must be one of %v", c.Backend, backends))
	}
	if c.Backend == BackendSQLite && c.SQLitePath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	hashes := []string{HashSHA256, HashBcrypt}
	if !slices.Contains(hashes, c.PasswordHash) {
		errors = append(errors, fmt.Sprintf("invalid password hash '%s': must be one of %v", c.PasswordHash, hashes))
	}

	if money.GetCurrency(c.Currency) == nil {
		errors = append(errors, fmt.Sprintf("unknown currency code '%s'", c.Currency))
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// LedgersDir holds one CSV file per user.
func (c *Config) LedgersDir() string {
	return filepath.Join(c.DataDir, "ledgers")
}

// AccountsPath is the JSON account file.
func (c *Config) AccountsPath() string {
	return filepath.Join(c.DataDir, "users.json")
}

// AvatarsDir holds one avatar image per user.
func (c *Config) AvatarsDir() string {
	return filepath.Join(c.DataDir, "avatars")
}

// ParseLevel maps a LOG_LEVEL value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level '%s': must be debug, info, warn or error", s)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return slices.Clone(defaultValue)
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" && !slices.Contains(out, item) {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return slices.Clone(defaultValue)
	}
	return out
}
