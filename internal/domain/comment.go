package domain

import "time"

// Comment belongs to an article; AuthorID owns it for deletion purposes.
type Comment struct {
	ID        int64
	ArticleID int64
	AuthorID  int64
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
