package integration

import (
	"context"
	"testing"
	"time"

	"openshelf/db"
	"openshelf/internal/auth"
	"openshelf/internal/lending"
	"openshelf/internal/user"
	"openshelf/internal/web"
	"openshelf/middleware"
	"openshelf/tests/testutils"

	"github.com/stretchr/testify/require"
)

const (
	librarianEmail    = "librarian@example.com"
	librarianPassword = "shelf-keeper"
)

type testEnv struct {
	userService    *user.UserService
	lendingService *lending.LendingService
	server         *testutils.TestServer
}

// newTestEnv wires the full stack against a temp SQLite database and seeds
// the librarian account.
func newTestEnv(t *testing.T) *testEnv {
	factory, cleanup := testutils.SetupTestRepositoryFactory(t)
	t.Cleanup(cleanup)

	dbManager := db.NewDBManager()
	t.Cleanup(dbManager.Stop)

	cfg := testutils.GetTestConfig()

	userService := user.NewUserService(factory.NewUserRepository(), dbManager)
	lendingService := lending.NewLendingService(factory.NewBookRepository(), dbManager, cfg.LoanPeriodDays)

	require.NoError(t, userService.EnsureLibrarian(context.Background(), librarianEmail, librarianPassword))

	jwtManager := auth.NewJWTManager(cfg.JwtKey, time.Hour)
	webHandler, err := web.NewWebHandler(userService, lendingService, jwtManager, cfg)
	require.NoError(t, err)

	router := webHandler.SetupRoutes(middleware.NewMiddleware(jwtManager))

	return &testEnv{
		userService:    userService,
		lendingService: lendingService,
		server:         testutils.NewTestServer(t, router),
	}
}
