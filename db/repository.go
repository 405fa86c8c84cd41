package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"openshelf/models"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateEmail   = errors.New("email already registered")
	ErrBookNotAvailable = errors.New("book is not available")
	ErrBookNotBorrowed  = errors.New("book is not borrowed")
)

// Repository defines a common interface for all repositories
type Repository interface {
	Close() error
}

// UserRepository defines the interface for user account operations
type UserRepository interface {
	Repository
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	CountByRole(ctx context.Context, role models.Role) (int, error)
}

// BookRepository defines the interface for catalog operations
type BookRepository interface {
	Repository
	Create(ctx context.Context, book *models.Book) (*models.Book, error)
	FindByID(ctx context.Context, id string) (*models.Book, error)
	FindAll(ctx context.Context) ([]*models.Book, error)
	// MarkBorrowed performs the Available -> Borrowed transition. It fails
	// with ErrNotFound if the book does not exist and ErrBookNotAvailable
	// if it is already borrowed; the existing borrower is never overwritten.
	MarkBorrowed(ctx context.Context, bookID, readerID, readerName string, dueDate time.Time) error
	// MarkReturned performs the Borrowed -> Available transition. It fails
	// with ErrNotFound if the book does not exist and ErrBookNotBorrowed
	// if it is not currently borrowed.
	MarkReturned(ctx context.Context, bookID string) error
	// DeleteByID removes a book. Deleting an absent id is a no-op.
	DeleteByID(ctx context.Context, id string) error
}

// RepositoryFactory creates repositories bound to a SQLite handle
type RepositoryFactory struct {
	SQLiteDB *sql.DB
	DBName   string
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(sqliteDB *sql.DB, dbName string) *RepositoryFactory {
	return &RepositoryFactory{
		SQLiteDB: sqliteDB,
		DBName:   dbName,
	}
}

// NewUserRepository creates a new user repository
func (f *RepositoryFactory) NewUserRepository() UserRepository {
	return NewSQLiteUserRepository(f.SQLiteDB)
}

// NewBookRepository creates a new book repository
func (f *RepositoryFactory) NewBookRepository() BookRepository {
	return NewSQLiteBookRepository(f.SQLiteDB)
}

// GenerateID generates a unique ID for a record
func GenerateID() string {
	return uuid.New().String()
}
