package models

import (
	"time"
)

type Role string

// Constants for user roles. The librarian role gates catalog management.
const (
	RoleMember    Role = "member"
	RoleLibrarian Role = "librarian"
)

// User represents a registered reader account
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the credential
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName is the "name surname" snapshot stamped onto borrowed books.
func (u *User) DisplayName() string {
	return u.Name + " " + u.Surname
}

// IsLibrarian reports whether the user may manage the catalog.
func (u *User) IsLibrarian() bool {
	return u.Role == RoleLibrarian
}
