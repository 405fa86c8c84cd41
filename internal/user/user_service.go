package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"openshelf/db"
	"openshelf/internal/auth"
	"openshelf/models"
)

var (
	ErrDuplicateEmail     = db.ErrDuplicateEmail
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserService is the credential store: it owns registration and
// authentication against the users table.
type UserService struct {
	repo      db.UserRepository
	dbManager *db.DBManager
}

// NewUserService creates a new user service
func NewUserService(repo db.UserRepository, dbManager *db.DBManager) *UserService {
	return &UserService{
		repo:      repo,
		dbManager: dbManager,
	}
}

// Register creates a member account with a hashed password. It fails with
// ErrDuplicateEmail when the email is already registered; the existing
// account is left untouched.
func (s *UserService) Register(ctx context.Context, email, password, name, surname string) (*models.User, error) {
	return s.createWithRole(ctx, email, password, name, surname, models.RoleMember)
}

// Authenticate verifies the email/password pair. A missing account and a
// hash mismatch are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	found, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(found.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return found, nil
}

// GetByID resolves a user id to an account. Returns db.ErrNotFound when the
// account no longer exists.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

// EnsureLibrarian seeds the librarian account on startup. It is a no-op when
// credentials are not configured or a librarian already exists.
func (s *UserService) EnsureLibrarian(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	count, err := s.repo.CountByRole(ctx, models.RoleLibrarian)
	if err != nil {
		return fmt.Errorf("failed to count librarians: %w", err)
	}
	if count > 0 {
		return nil
	}

	librarian, err := s.createWithRole(ctx, email, password, "Default", "Librarian", models.RoleLibrarian)
	if err != nil {
		return fmt.Errorf("failed to seed librarian account: %w", err)
	}

	slog.Info("Seeded librarian account", "user_id", librarian.ID, "email", librarian.Email)
	return nil
}

func (s *UserService) createWithRole(ctx context.Context, email, password, name, surname string, role models.Role) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	account := &models.User{
		ID:           db.GenerateID(),
		Name:         name,
		Surname:      surname,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.dbManager.CreateUser(s.repo, ctx, account); err != nil {
		if errors.Is(err, db.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return account, nil
}
