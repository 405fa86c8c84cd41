package lending

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"openshelf/db"
	"openshelf/models"
)

// Boundary errors for the lending state machine.
var (
	ErrBookNotFound     = db.ErrNotFound
	ErrBookNotAvailable = db.ErrBookNotAvailable
	ErrBookNotBorrowed  = db.ErrBookNotBorrowed
)

// DueDateFormat is the display format for due dates (day.month.year).
const DueDateFormat = "02.01.2006"

// LendingService implements the borrow/return state machine on top of the
// book repository. All mutations go through the serialized write manager.
type LendingService struct {
	repo       db.BookRepository
	dbManager  *db.DBManager
	loanPeriod time.Duration
}

// NewLendingService creates a new lending service. loanPeriodDays is the
// calendar-day loan period stamped on each borrow.
func NewLendingService(repo db.BookRepository, dbManager *db.DBManager, loanPeriodDays int) *LendingService {
	return &LendingService{
		repo:       repo,
		dbManager:  dbManager,
		loanPeriod: time.Duration(loanPeriodDays) * 24 * time.Hour,
	}
}

// Borrow transitions a book from Available to Borrowed on behalf of reader.
// Fails with ErrBookNotFound if the book does not exist and
// ErrBookNotAvailable if it is already borrowed; in that case the existing
// borrower's name and due date are left untouched.
func (s *LendingService) Borrow(ctx context.Context, bookID string, reader *models.User) (*models.Book, error) {
	dueDate := time.Now().Add(s.loanPeriod)

	err := s.dbManager.MarkBorrowed(s.repo, ctx, bookID, reader.ID, reader.DisplayName(), dueDate)
	if err != nil {
		return nil, err
	}

	slog.Info("Book borrowed", "book_id", bookID, "reader_id", reader.ID, "due_date", dueDate.Format(DueDateFormat))
	return s.repo.FindByID(ctx, bookID)
}

// Return transitions a book from Borrowed back to Available. Fails with
// ErrBookNotFound if the book does not exist and ErrBookNotBorrowed if it is
// not currently borrowed; state is left unchanged on failure.
func (s *LendingService) Return(ctx context.Context, bookID string) (*models.Book, error) {
	err := s.dbManager.MarkReturned(s.repo, ctx, bookID)
	if err != nil {
		return nil, err
	}

	slog.Info("Book returned", "book_id", bookID)
	return s.repo.FindByID(ctx, bookID)
}

// AddBook creates a new book in the Available state. The librarian privilege
// check belongs to the calling boundary, not the state machine.
func (s *LendingService) AddBook(ctx context.Context, title, author string) (*models.Book, error) {
	now := time.Now()
	book := &models.Book{
		ID:        db.GenerateID(),
		Title:     title,
		Author:    author,
		Available: true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.dbManager.CreateBook(s.repo, ctx, book)
	if err != nil {
		return nil, fmt.Errorf("failed to add book: %w", err)
	}

	slog.Info("Book added to catalog", "book_id", created.ID, "title", created.Title)
	return created, nil
}

// DeleteBook removes a book from the catalog. Deleting an absent id is a
// no-op.
func (s *LendingService) DeleteBook(ctx context.Context, bookID string) error {
	return s.dbManager.DeleteBook(s.repo, ctx, bookID)
}

// GetBook looks up a single book. Returns ErrBookNotFound when absent.
func (s *LendingService) GetBook(ctx context.Context, bookID string) (*models.Book, error) {
	return s.repo.FindByID(ctx, bookID)
}

// ListBooks returns a snapshot of the whole catalog.
func (s *LendingService) ListBooks(ctx context.Context) ([]*models.Book, error) {
	return s.repo.FindAll(ctx)
}

// FormatDueDate renders a due date for display, or "" when nil.
func FormatDueDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DueDateFormat)
}
