package testutils

import (
	"time"

	"openshelf/models"

	"github.com/google/uuid"
)

func CreateTestUser(role models.Role) *models.User {
	now := time.Now()

	return &models.User{
		ID:        uuid.New().String(),
		Name:      "Test",
		Surname:   "Reader",
		Email:     uuid.New().String() + "@example.com",
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func CreateTestBook(title, author string) *models.Book {
	now := time.Now()

	return &models.Book{
		ID:        uuid.New().String(),
		Title:     title,
		Author:    author,
		Available: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
