package domain

import "time"

// Article is a published piece of content. AuthorID is the owner every
// mutating operation is gated against.
type Article struct {
	ID          int64
	Slug        string
	Title       string
	Description string
	Body        string
	AuthorID    int64
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
