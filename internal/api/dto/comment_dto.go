package dto

import "time"

// AddCommentRequest payload.
type AddCommentRequest struct {
	Body string `json:"body"`
}

// CommentResponse standard comment representation.
type CommentResponse struct {
	ID        int64           `json:"id"`
	Body      string          `json:"body"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Author    ProfileResponse `json:"author"`
}
