package domain

import "time"

// User is the domain model for registered accounts. Authentication treats it
// as the identity a token asserts ownership of; everything else treats it as
// an author/profile.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Bio          string
	Image        string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
