package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"openshelf/internal/lending"
	"openshelf/middleware"
	"openshelf/models"
)

type apiCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// APILogin exchanges email/password for a bearer token.
func (h *WebHandler) APILogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var creds apiCredentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid request format"})
		return
	}

	account, err := h.userService.Authenticate(r.Context(), creds.Email, creds.Password)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid email or password"})
		return
	}

	token, err := h.jwtManager.Generate(account)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", account.ID, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to generate token"})
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

// APIListBooks returns the catalog snapshot as JSON.
func (h *WebHandler) APIListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.lendingService.ListBooks(r.Context())
	if err != nil {
		slog.Error("ListBooks failed", "error", err)
		writeAPIError(w, http.StatusInternalServerError, "failed to list books")
		return
	}
	if books == nil {
		books = []*models.Book{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(books)
}

// APIBorrowBook borrows a book on behalf of the token's user.
func (h *WebHandler) APIBorrowBook(w http.ResponseWriter, r *http.Request) {
	account := h.apiUser(w, r)
	if account == nil {
		return
	}

	bookID := pathBookID(r)
	book, err := h.lendingService.Borrow(r.Context(), bookID, account)
	if err != nil {
		writeLendingError(w, bookID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(book)
}

// APIReturnBook returns a borrowed book.
func (h *WebHandler) APIReturnBook(w http.ResponseWriter, r *http.Request) {
	if h.apiUser(w, r) == nil {
		return
	}

	bookID := pathBookID(r)
	book, err := h.lendingService.Return(r.Context(), bookID)
	if err != nil {
		writeLendingError(w, bookID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(book)
}

// apiUser resolves the token identity to an account, writing a 401 when the
// account no longer exists.
func (h *WebHandler) apiUser(w http.ResponseWriter, r *http.Request) *models.User {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeAPIError(w, http.StatusUnauthorized, "authentication required")
		return nil
	}

	account, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		writeAPIError(w, http.StatusUnauthorized, "account not found")
		return nil
	}
	return account
}

func writeLendingError(w http.ResponseWriter, bookID string, err error) {
	switch {
	case errors.Is(err, lending.ErrBookNotFound):
		writeAPIError(w, http.StatusNotFound, "book not found")
	case errors.Is(err, lending.ErrBookNotAvailable):
		writeAPIError(w, http.StatusConflict, "book is not available")
	case errors.Is(err, lending.ErrBookNotBorrowed):
		writeAPIError(w, http.StatusConflict, "book is not borrowed")
	default:
		slog.Error("Lending operation failed", "book_id", bookID, "error", err)
		writeAPIError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
