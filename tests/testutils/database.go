package testutils

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"openshelf/db"
	"openshelf/internal/config"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func SetupTestDatabase(t *testing.T) (*sql.DB, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", dbPath)
	testDB, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)

	err = db.InitializeSchema(testDB)
	require.NoError(t, err)

	cleanup := func() {
		testDB.Close()
	}

	return testDB, cleanup
}

func SetupTestRepositoryFactory(t *testing.T) (*db.RepositoryFactory, func()) {
	testDB, cleanup := SetupTestDatabase(t)
	factory := db.NewRepositoryFactory(testDB, "openshelf_test")
	return factory, cleanup
}

func GetTestConfig() *config.Config {
	return &config.Config{
		Port:           "8080",
		SQLitePath:     ":memory:",
		DatabaseName:   "openshelf_test",
		TemplatesDir:   "../../templates",
		SessionSecret:  "test_session_secret_for_testing_only",
		JwtKey:         []byte("test_jwt_secret_key_for_testing_only"),
		LoanPeriodDays: 14,
	}
}
