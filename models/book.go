package models

import (
	"time"
)

type BookStatus string

// Constants for book lending state
const (
	BookStatusAvailable BookStatus = "available"
	BookStatusBorrowed  BookStatus = "borrowed"
)

// Book represents a catalog entry. ReaderID, ReaderName and DueDate are set
// together while the book is borrowed and cleared together on return.
type Book struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	Available  bool       `json:"available"`
	ReaderID   *string    `json:"reader_id,omitempty"`
	ReaderName *string    `json:"reader_name,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Status derives the lending state from the borrower reference.
func (b *Book) Status() BookStatus {
	if b.ReaderID != nil {
		return BookStatusBorrowed
	}
	return BookStatusAvailable
}

// Consistent reports whether the availability flag agrees with the borrower
// reference and due date (flag false ⇔ reference set ⇔ due date set).
func (b *Book) Consistent() bool {
	if b.Available {
		return b.ReaderID == nil && b.ReaderName == nil && b.DueDate == nil
	}
	return b.ReaderID != nil && b.ReaderName != nil && b.DueDate != nil
}
