package dto

import "time"

// CreateArticleRequest payload.
type CreateArticleRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	Tags        []string `json:"tags"`
}

// UpdateArticleRequest payload; nil fields are left unchanged.
type UpdateArticleRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Body        *string  `json:"body"`
	Tags        []string `json:"tags"`
}

// ArticleResponse standard article representation.
type ArticleResponse struct {
	Slug           string          `json:"slug"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Body           string          `json:"body"`
	Tags           []string        `json:"tags"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Favorited      bool            `json:"favorited"`
	FavoritesCount int             `json:"favorites_count"`
	Author         ProfileResponse `json:"author"`
}
