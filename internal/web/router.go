package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"openshelf/middleware"
)

func (h *WebHandler) SetupRoutes(m *middleware.Middleware) *mux.Router {
	r := mux.NewRouter()

	// Web pages
	r.HandleFunc("/register", h.Register).Methods("GET", "POST")
	r.HandleFunc("/login", h.Login).Methods("GET", "POST")
	r.HandleFunc("/logout", h.Logout).Methods("GET")
	r.HandleFunc("/main_str", h.MainStr).Methods("GET")
	r.HandleFunc("/list_of_books", h.ListOfBooks).Methods("GET")
	r.HandleFunc("/toggle_on/{book_id}", h.ToggleOn).Methods("GET")
	r.HandleFunc("/toggle_off/{book_id}", h.ToggleOff).Methods("GET")
	r.HandleFunc("/add_book", h.AddBook).Methods("GET", "POST")
	r.HandleFunc("/delete_book/{book_id}", h.DeleteBook).Methods("GET", "POST")
	r.HandleFunc("/error", h.ErrorPage).Methods("GET")

	// The root is just the main menu
	r.HandleFunc("/", h.MainStr).Methods("GET")

	// JSON API endpoints
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/login", h.APILogin).Methods("POST")
	api.HandleFunc("/books", h.APIListBooks).Methods("GET")
	api.HandleFunc("/books/{book_id}/borrow", m.AuthMiddleware(h.APIBorrowBook)).Methods("POST")
	api.HandleFunc("/books/{book_id}/return", m.AuthMiddleware(h.APIReturnBook)).Methods("POST")

	// 404 handler
	r.NotFoundHandler = http.HandlerFunc(h.NotFound)

	return r
}

func pathBookID(r *http.Request) string {
	return mux.Vars(r)["book_id"]
}
