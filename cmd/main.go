package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"openshelf/db"
	"openshelf/internal/auth"
	"openshelf/internal/config"
	"openshelf/internal/lending"
	"openshelf/internal/logging"
	"openshelf/internal/user"
	"openshelf/internal/web"
	"openshelf/middleware"
)

const apiTokenDuration = 24 * time.Hour

func main() {
	logging.Setup()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	sqliteDB, err := db.ConnectToSQLite(cfg.SQLitePath)
	if err != nil {
		slog.Error("Failed to connect to SQLite", "error", err)
		os.Exit(1)
	}
	defer sqliteDB.Close()

	if err := db.InitializeSchema(sqliteDB); err != nil {
		slog.Error("Failed to initialize database schema", "error", err)
		os.Exit(1)
	}

	// Create repositories
	repoFactory := db.NewRepositoryFactory(sqliteDB, cfg.DatabaseName)
	userRepo := repoFactory.NewUserRepository()
	bookRepo := repoFactory.NewBookRepository()

	// Create database manager for serialized write access
	dbManager := db.NewDBManager()
	defer dbManager.Stop()

	// Initialize services with repositories
	userService := user.NewUserService(userRepo, dbManager)
	lendingService := lending.NewLendingService(bookRepo, dbManager, cfg.LoanPeriodDays)

	// Seed the librarian account if configured
	if err := userService.EnsureLibrarian(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		slog.Error("Failed to seed librarian account", "error", err)
		os.Exit(1)
	}

	jwtManager := auth.NewJWTManager(cfg.JwtKey, apiTokenDuration)

	webHandler, err := web.NewWebHandler(userService, lendingService, jwtManager, cfg)
	if err != nil {
		slog.Error("Failed to initialize web handlers", "error", err)
		os.Exit(1)
	}

	m := middleware.NewMiddleware(jwtManager)
	router := webHandler.SetupRoutes(m)
	handler := middleware.LoggingMiddleware(middleware.SetupCORS()(router))

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(server)
}

func waitForShutdown(server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	sig := <-stop
	slog.Info("Received shutdown signal", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}
