package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/events"
	"github.com/spec-kit/content-service/internal/repository"
	apperrors "github.com/spec-kit/content-service/pkg/util/errorutil"
)

// CommentService coordinates comment workflows. Deleting a comment is gated
// on ownership of the comment, not the article.
type CommentService struct {
	comments   repository.CommentRepository
	articles   repository.ArticleRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// CommentDependencies bundles repositories for the comment service.
type CommentDependencies struct {
	CommentRepo repository.CommentRepository
	ArticleRepo repository.ArticleRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	return &CommentService{
		comments:   deps.CommentRepo,
		articles:   deps.ArticleRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CommentView is a comment joined with its author.
type CommentView struct {
	Comment domain.Comment
	Author  *domain.User
}

// List returns all comments on an article, oldest first.
func (s *CommentService) List(ctx context.Context, slug string) ([]CommentView, error) {
	article, err := s.articleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByArticle(ctx, article.ID)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]int64, 0, len(comments))
	for i := range comments {
		authorIDs = append(authorIDs, comments[i].AuthorID)
	}
	authors, err := s.users.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, CommentView{Comment: comments[i], Author: authors[comments[i].AuthorID]})
	}
	return views, nil
}

// Add creates a comment on an article for the authenticated caller.
func (s *CommentService) Add(ctx context.Context, actx auth.AuthContext, slug, body string) (*CommentView, error) {
	if err := auth.Authorize(actx, auth.RequireAuthenticated()); err != nil {
		return nil, auth.MapPolicyError(err)
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment body required", nil)
	}

	article, err := s.articleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ArticleID: article.ID,
		AuthorID:  actx.Identity().ID,
		Body:      body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:    events.EventCommentAdded,
		ActorID: actx.Identity().ID,
		Payload: events.CommentAddedPayload{
			ArticleSlug: article.Slug,
			CommentID:   comment.ID,
			BodyPreview: preview(comment.Body, 120),
		},
	})

	return &CommentView{Comment: *comment, Author: actx.Identity()}, nil
}

// Delete removes a comment; only the comment author may do so.
func (s *CommentService) Delete(ctx context.Context, actx auth.AuthContext, slug string, commentID int64) error {
	article, err := s.articleBySlug(ctx, slug)
	if err != nil {
		return err
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("comment", nil)
		}
		return err
	}
	if comment.ArticleID != article.ID {
		return apperrors.NewNotFound("comment", nil)
	}

	if err := auth.Authorize(actx, auth.OwnerOnly(comment.AuthorID)); err != nil {
		return auth.MapPolicyError(err)
	}
	return s.comments.Delete(ctx, comment.ID)
}

func (s *CommentService) articleBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("article", map[string]any{"slug": slug})
		}
		return nil, err
	}
	return article, nil
}

func preview(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
