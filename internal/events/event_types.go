package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventArticlePublished EventType = "article_published"
	EventArticleUpdated   EventType = "article_updated"
	EventArticleDeleted   EventType = "article_deleted"
	EventCommentAdded     EventType = "comment_added"
	EventUserFollowed     EventType = "user_followed"
	EventLoginFailed      EventType = "login_failed"
)

// Event represents a domain event emitted by services. ActorID is zero when
// no identity was established (failed logins).
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   int64       `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ArticlePayload describes article lifecycle events.
type ArticlePayload struct {
	Slug  string   `json:"slug"`
	Title string   `json:"title"`
	Tags  []string `json:"tags,omitempty"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	ArticleSlug string `json:"article_slug"`
	CommentID   int64  `json:"comment_id"`
	BodyPreview string `json:"body_preview"`
}

// UserFollowedPayload payload.
type UserFollowedPayload struct {
	FolloweeID int64 `json:"followee_id"`
}

// LoginFailedPayload carries the internal failure kind for telemetry. The
// kind never reaches clients.
type LoginFailedPayload struct {
	Email string `json:"email"`
	Kind  string `json:"kind"`
}
