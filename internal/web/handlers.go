package web

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/sessions"

	"openshelf/internal/auth"
	"openshelf/internal/config"
	"openshelf/internal/lending"
	"openshelf/internal/user"
	"openshelf/models"
)

const sessionName = "openshelf-session"

type WebHandler struct {
	userService    *user.UserService
	lendingService *lending.LendingService
	jwtManager     *auth.JWTManager
	templates      *template.Template
	sessionStore   *sessions.CookieStore
	config         *config.Config
}

type PageData struct {
	Page   string
	User   *models.User
	UserID string
	Error  string
	Email  string
	Name   string
	Surname string
	Title  string
	Author string
	Books  []*models.Book
}

func NewWebHandler(
	userService *user.UserService,
	lendingService *lending.LendingService,
	jwtManager *auth.JWTManager,
	cfg *config.Config,
) (*WebHandler, error) {
	funcMap := template.FuncMap{
		"deref": func(ptr *string) string {
			if ptr == nil {
				return ""
			}
			return *ptr
		},
		"formatDueDate": func(t *time.Time) string {
			return lending.FormatDueDate(t)
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseGlob(filepath.Join(cfg.TemplatesDir, "*.html"))
	if err != nil {
		return nil, err
	}

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30, // 30 days
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	}

	return &WebHandler{
		userService:    userService,
		lendingService: lendingService,
		jwtManager:     jwtManager,
		templates:      tmpl,
		sessionStore:   store,
		config:         cfg,
	}, nil
}

// Page Handlers

// Register handles the registration form. The confirmation field must match
// and the email must be unused; failures render inline on the form.
func (h *WebHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, "register.html", PageData{Page: "register"})
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	passwordAgain := r.FormValue("password_again")
	name := r.FormValue("name")
	surname := r.FormValue("surname")

	data := PageData{Page: "register", Email: email, Name: name, Surname: surname}

	if email == "" || password == "" || name == "" || surname == "" {
		data.Error = "All fields are required"
		h.render(w, "register.html", data)
		return
	}
	if password != passwordAgain {
		data.Error = "Passwords do not match"
		h.render(w, "register.html", data)
		return
	}

	_, err := h.userService.Register(r.Context(), email, password, name, surname)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			data.Error = "This email is already registered"
		} else {
			slog.Error("Registration failed", "email", email, "error", err)
			data.Error = "Registration failed, please try again"
		}
		h.render(w, "register.html", data)
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Login authenticates the user and establishes the session identity.
func (h *WebHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, "login.html", PageData{Page: "login"})
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	account, err := h.userService.Authenticate(r.Context(), email, password)
	if err != nil {
		h.render(w, "login.html", PageData{
			Page:  "login",
			Error: "Invalid email or password",
			Email: email,
		})
		return
	}

	h.logIn(w, r, account)
	http.Redirect(w, r, "/main_str", http.StatusSeeOther)
}

// Logout clears the session identity.
func (h *WebHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.sessionStore.Get(r, sessionName)
	session.Values = make(map[interface{}]interface{})
	session.Save(r, w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// MainStr shows the main menu with the current user id, or "0" for
// anonymous visitors.
func (h *WebHandler) MainStr(w http.ResponseWriter, r *http.Request) {
	account := h.currentUser(r)

	userID := "0"
	if account != nil {
		userID = account.ID
	}

	h.render(w, "main.html", PageData{Page: "main", User: account, UserID: userID})
}

// ListOfBooks renders the catalog snapshot.
func (h *WebHandler) ListOfBooks(w http.ResponseWriter, r *http.Request) {
	h.renderBookList(w, r, "")
}

// ToggleOn borrows a book for the logged-in user.
func (h *WebHandler) ToggleOn(w http.ResponseWriter, r *http.Request) {
	account := h.currentUser(r)
	if account == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	bookID := pathBookID(r)
	_, err := h.lendingService.Borrow(r.Context(), bookID, account)
	if err != nil {
		switch {
		case errors.Is(err, lending.ErrBookNotFound):
			http.NotFound(w, r)
		case errors.Is(err, lending.ErrBookNotAvailable):
			h.renderBookList(w, r, "This book is already borrowed")
		default:
			slog.Error("Borrow failed", "book_id", bookID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	h.renderBookList(w, r, "")
}

// ToggleOff returns a borrowed book.
func (h *WebHandler) ToggleOff(w http.ResponseWriter, r *http.Request) {
	bookID := pathBookID(r)
	_, err := h.lendingService.Return(r.Context(), bookID)
	if err != nil {
		switch {
		case errors.Is(err, lending.ErrBookNotFound):
			http.NotFound(w, r)
		case errors.Is(err, lending.ErrBookNotBorrowed):
			h.renderBookList(w, r, "This book is not borrowed")
		default:
			slog.Error("Return failed", "book_id", bookID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	h.renderBookList(w, r, "")
}

// AddBook lets the librarian add a catalog entry; everyone else is sent to
// the error page.
func (h *WebHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	account := h.currentUser(r)
	if account == nil || !account.IsLibrarian() {
		http.Redirect(w, r, "/error", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, "add_book.html", PageData{Page: "add_book", User: account})
		return
	}

	title := r.FormValue("title")
	author := r.FormValue("author")
	if title == "" || author == "" {
		h.render(w, "add_book.html", PageData{
			Page:   "add_book",
			User:   account,
			Error:  "Title and author are required",
			Title:  title,
			Author: author,
		})
		return
	}

	if _, err := h.lendingService.AddBook(r.Context(), title, author); err != nil {
		slog.Error("AddBook failed", "title", title, "error", err)
		h.render(w, "add_book.html", PageData{
			Page:  "add_book",
			User:  account,
			Error: "Could not add the book, please try again",
		})
		return
	}

	http.Redirect(w, r, "/list_of_books", http.StatusSeeOther)
}

// DeleteBook removes a book; deleting an absent id is a no-op.
func (h *WebHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	bookID := pathBookID(r)
	if err := h.lendingService.DeleteBook(r.Context(), bookID); err != nil {
		slog.Error("DeleteBook failed", "book_id", bookID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.renderBookList(w, r, "")
}

// ErrorPage renders the static error view.
func (h *WebHandler) ErrorPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "error.html", PageData{Page: "error", User: h.currentUser(r)})
}

// NotFound renders a plain 404.
func (h *WebHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	http.NotFound(w, r)
}

// Helper methods

// currentUser resolves the session identity to an account. It returns nil
// for anonymous sessions and for sessions whose account no longer exists;
// callers never have to recover from a failed lookup.
func (h *WebHandler) currentUser(r *http.Request) *models.User {
	session, _ := h.sessionStore.Get(r, sessionName)
	userID, ok := session.Values["user_id"].(string)
	if !ok || userID == "" {
		return nil
	}

	account, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		return nil
	}
	return account
}

func (h *WebHandler) logIn(w http.ResponseWriter, r *http.Request, account *models.User) {
	session, _ := h.sessionStore.Get(r, sessionName)
	session.Values["user_id"] = account.ID
	session.Values["email"] = account.Email
	session.Save(r, w)
}

func (h *WebHandler) renderBookList(w http.ResponseWriter, r *http.Request, errMsg string) {
	books, err := h.lendingService.ListBooks(r.Context())
	if err != nil {
		slog.Error("ListBooks failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.render(w, "list_of_books.html", PageData{
		Page:  "list_of_books",
		User:  h.currentUser(r),
		Error: errMsg,
		Books: books,
	})
}

func (h *WebHandler) render(w http.ResponseWriter, name string, data PageData) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("Template execution error", "template", name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
