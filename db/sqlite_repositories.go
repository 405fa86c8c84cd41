package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"openshelf/models"

	"github.com/mattn/go-sqlite3"
)

// SQLiteUserRepository implements the UserRepository interface for SQLite
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository creates a new SQLiteUserRepository
func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

// Close closes the database connection
func (r *SQLiteUserRepository) Close() error {
	return r.db.Close()
}

// Create inserts a new user. A unique-constraint violation on the email
// column is reported as ErrDuplicateEmail.
func (r *SQLiteUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (id, name, surname, email, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Surname, user.Email,
		user.PasswordHash, string(user.Role), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("error inserting user: %w", err)
	}
	return nil
}

// FindByID finds a user by ID
func (r *SQLiteUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, name, surname, email, password_hash, role, created_at, updated_at
		FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// FindByEmail finds a user by email, the login key
func (r *SQLiteUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, name, surname, email, password_hash, role, created_at, updated_at
		FROM users WHERE email = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// CountByRole counts the users holding a role
func (r *SQLiteUserRepository) CountByRole(ctx context.Context, role models.Role) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = ?`, string(role)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting users by role: %w", err)
	}
	return count, nil
}

func (r *SQLiteUserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var role string
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(&user.ID, &user.Name, &user.Surname, &user.Email,
		&user.PasswordHash, &role, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}

	user.Role = models.Role(role)
	if createdAt.Valid {
		user.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	}

	return &user, nil
}

// SQLiteBookRepository implements the BookRepository interface for SQLite
type SQLiteBookRepository struct {
	db *sql.DB
}

// NewSQLiteBookRepository creates a new SQLiteBookRepository
func NewSQLiteBookRepository(db *sql.DB) *SQLiteBookRepository {
	return &SQLiteBookRepository{db: db}
}

// Close closes the database connection
func (r *SQLiteBookRepository) Close() error {
	return r.db.Close()
}

// Create inserts a new book in the Available state
func (r *SQLiteBookRepository) Create(ctx context.Context, book *models.Book) (*models.Book, error) {
	if book.ID == "" {
		book.ID = GenerateID()
	}
	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = now

	query := `INSERT INTO books (id, title, author, available, reader_id, reader_name, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		book.ID, book.Title, book.Author, book.Available,
		nullableString(book.ReaderID), nullableString(book.ReaderName),
		nullableTime(book.DueDate), book.CreatedAt, book.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error inserting book: %w", err)
	}
	return book, nil
}

// FindByID finds a book by ID
func (r *SQLiteBookRepository) FindByID(ctx context.Context, id string) (*models.Book, error) {
	query := `SELECT id, title, author, available, reader_id, reader_name, due_date, created_at, updated_at
		FROM books WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	book, err := scanBook(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error scanning book: %w", err)
	}
	return book, nil
}

// FindAll finds all books in the catalog
func (r *SQLiteBookRepository) FindAll(ctx context.Context) ([]*models.Book, error) {
	query := `SELECT id, title, author, available, reader_id, reader_name, due_date, created_at, updated_at
		FROM books ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying books: %w", err)
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		book, err := scanBook(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("error scanning book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}
	return books, nil
}

// MarkBorrowed transitions a book from Available to Borrowed. The UPDATE is
// guarded on available = 1 inside a transaction, so a concurrent borrow of
// the same book loses cleanly instead of overwriting the first borrower.
func (r *SQLiteBookRepository) MarkBorrowed(ctx context.Context, bookID, readerID, readerName string, dueDate time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM books WHERE id = ?`, bookID).Scan(&exists); err != nil {
		return fmt.Errorf("error checking book existence: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE books SET available = 0, reader_id = ?, reader_name = ?, due_date = ?, updated_at = ?
		 WHERE id = ? AND available = 1`,
		readerID, readerName, dueDate, time.Now(), bookID)
	if err != nil {
		return fmt.Errorf("error marking book borrowed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if affected == 0 {
		return ErrBookNotAvailable
	}

	return tx.Commit()
}

// MarkReturned transitions a book from Borrowed to Available, clearing the
// borrower reference, display name and due date together.
func (r *SQLiteBookRepository) MarkReturned(ctx context.Context, bookID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM books WHERE id = ?`, bookID).Scan(&exists); err != nil {
		return fmt.Errorf("error checking book existence: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE books SET available = 1, reader_id = NULL, reader_name = NULL, due_date = NULL, updated_at = ?
		 WHERE id = ? AND available = 0`,
		time.Now(), bookID)
	if err != nil {
		return fmt.Errorf("error marking book returned: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if affected == 0 {
		return ErrBookNotBorrowed
	}

	return tx.Commit()
}

// DeleteByID removes a book. A missing id is a no-op, not an error.
func (r *SQLiteBookRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting book: %w", err)
	}
	return nil
}

// scanBook scans one book row from either a *sql.Row or *sql.Rows scan func
func scanBook(scan func(dest ...interface{}) error) (*models.Book, error) {
	var book models.Book
	var readerID, readerName sql.NullString
	var dueDate, createdAt, updatedAt sql.NullTime

	err := scan(&book.ID, &book.Title, &book.Author, &book.Available,
		&readerID, &readerName, &dueDate, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if readerID.Valid {
		book.ReaderID = &readerID.String
	}
	if readerName.Valid {
		book.ReaderName = &readerName.String
	}
	if dueDate.Valid {
		book.DueDate = &dueDate.Time
	}
	if createdAt.Valid {
		book.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		book.UpdatedAt = updatedAt.Time
	}

	return &book, nil
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
