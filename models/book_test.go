package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBook_Creation(t *testing.T) {
	now := time.Now()

	book := Book{
		ID:        uuid.New().String(),
		Title:     "Moby Dick",
		Author:    "Melville",
		Available: true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	assert.NotEmpty(t, book.ID)
	assert.Equal(t, "Moby Dick", book.Title)
	assert.Equal(t, "Melville", book.Author)
	assert.True(t, book.Available)
	assert.Equal(t, BookStatusAvailable, book.Status())
	assert.True(t, book.Consistent())
}

func TestBookStatus_Constants(t *testing.T) {
	assert.Equal(t, BookStatus("available"), BookStatusAvailable)
	assert.Equal(t, BookStatus("borrowed"), BookStatusBorrowed)
}

func TestBook_StatusTransitions(t *testing.T) {
	readerID := uuid.New().String()
	readerName := "Ada Lovelace"
	due := time.Now().AddDate(0, 0, 14)

	book := Book{
		ID:        uuid.New().String(),
		Title:     "Frankenstein",
		Author:    "Shelley",
		Available: true,
	}

	// Borrow transition sets the borrower fields together
	book.Available = false
	book.ReaderID = &readerID
	book.ReaderName = &readerName
	book.DueDate = &due

	assert.Equal(t, BookStatusBorrowed, book.Status())
	assert.True(t, book.Consistent())

	// Return transition clears them together
	book.Available = true
	book.ReaderID = nil
	book.ReaderName = nil
	book.DueDate = nil

	assert.Equal(t, BookStatusAvailable, book.Status())
	assert.True(t, book.Consistent())
}

func TestBook_InconsistentState(t *testing.T) {
	readerID := uuid.New().String()

	book := Book{
		ID:        uuid.New().String(),
		Title:     "Dracula",
		Author:    "Stoker",
		Available: true,
		ReaderID:  &readerID,
	}

	// Available flag and borrower reference disagree
	assert.False(t, book.Consistent())
}

func TestUser_DisplayName(t *testing.T) {
	user := User{
		ID:      uuid.New().String(),
		Name:    "Ada",
		Surname: "Lovelace",
		Email:   "ada@example.com",
		Role:    RoleMember,
	}

	assert.Equal(t, "Ada Lovelace", user.DisplayName())
	assert.False(t, user.IsLibrarian())

	user.Role = RoleLibrarian
	assert.True(t, user.IsLibrarian())
}
