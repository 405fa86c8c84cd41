package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	SQLitePath    string
	DatabaseName  string
	TemplatesDir  string
	SessionSecret string
	JwtKey        []byte
	// LoanPeriodDays is the calendar-day loan period stamped on borrow.
	LoanPeriodDays int
	// AdminEmail/AdminPassword seed the librarian account on startup when
	// no librarian exists yet. Leave empty to skip seeding.
	AdminEmail    string
	AdminPassword string
}

func LoadConfig() (*Config, error) {
	// A .env file is optional; real env vars win either way.
	_ = godotenv.Load()

	databaseName := getEnv("DATABASE_NAME", "openshelf")

	sqlitePath := os.Getenv("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = filepath.Join("data", fmt.Sprintf("%s.db", databaseName))
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY is not set")
	}

	loanDays := 14
	if v := os.Getenv("LOAN_PERIOD_DAYS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid LOAN_PERIOD_DAYS: %q", v)
		}
		loanDays = parsed
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		SQLitePath:     sqlitePath,
		DatabaseName:   databaseName,
		TemplatesDir:   getEnv("TEMPLATES_DIR", "templates"),
		SessionSecret:  sessionSecret,
		JwtKey:         []byte(jwtSecret),
		LoanPeriodDays: loanDays,
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
