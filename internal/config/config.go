package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	DatabaseURL string // postgres DSN; sqlite file is used when empty
	DBPath      string
	JWTSecret   string
	LogLevel    string
	Sheets      SheetsConfig
}

// SheetsConfig enables the activity log export when all fields are set.
type SheetsConfig struct {
	CredentialPath string
	SpreadsheetID  string
	SheetName      string
}

func (s SheetsConfig) Enabled() bool {
	return s.CredentialPath != "" && s.SpreadsheetID != ""
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignores error if not found)
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}

	return &Config{
		HTTPAddr:    getEnv("LOCK_HTTP_ADDR", ":8080"),
		DatabaseURL: os.Getenv("LOCK_DATABASE_URL"),
		DBPath:      getEnv("LOCK_DB_PATH", "data/lock.db"),
		JWTSecret:   jwtSecret,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Sheets: SheetsConfig{
			CredentialPath: os.Getenv("SHEETS_CREDENTIALS"),
			SpreadsheetID:  os.Getenv("SHEETS_SPREADSHEET_ID"),
			SheetName:      getEnv("SHEETS_SHEET_NAME", "activity"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
