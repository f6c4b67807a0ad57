package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/events"
	apperrors "github.com/spec-kit/content-service/pkg/util/errorutil"
)

type commentFixture struct {
	svc     *CommentService
	article *domain.Article
	author  *domain.User
	other   *domain.User
}

func newCommentFixture(t *testing.T) *commentFixture {
	t.Helper()
	users := newFakeUserRepo()
	articles := newFakeArticleRepo()
	comments := newFakeCommentRepo()
	svc := NewCommentService(CommentDependencies{
		CommentRepo: comments,
		ArticleRepo: articles,
		UserRepo:    users,
		Dispatcher:  events.NewInMemoryDispatcher(),
	})

	author := users.add(&domain.User{Username: "author", Email: "author@example.com", Active: true})
	other := users.add(&domain.User{Username: "other", Email: "other@example.com", Active: true})

	article := &domain.Article{Slug: "first-post", Title: "First Post", AuthorID: author.ID}
	if err := articles.Create(context.Background(), article); err != nil {
		t.Fatalf("seed article: %v", err)
	}
	return &commentFixture{svc: svc, article: article, author: author, other: other}
}

func TestCommentAddAndList(t *testing.T) {
	f := newCommentFixture(t)

	if _, err := f.svc.Add(context.Background(), auth.Anonymous(), f.article.Slug, "hi"); err == nil {
		t.Error("anonymous comment should be rejected")
	}
	if _, err := f.svc.Add(context.Background(), auth.Authenticated(f.other), f.article.Slug, "   "); err == nil {
		t.Error("blank comment should be rejected")
	}

	view, err := f.svc.Add(context.Background(), auth.Authenticated(f.other), f.article.Slug, "  nice write-up  ")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if view.Comment.Body != "nice write-up" {
		t.Errorf("body = %q, want trimmed", view.Comment.Body)
	}
	if view.Author.ID != f.other.ID {
		t.Errorf("author id = %d, want %d", view.Author.ID, f.other.ID)
	}

	views, err := f.svc.List(context.Background(), f.article.Slug)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d comments, want 1", len(views))
	}
}

func TestCommentDeleteOwnerOnly(t *testing.T) {
	f := newCommentFixture(t)
	view, err := f.svc.Add(context.Background(), auth.Authenticated(f.other), f.article.Slug, "mine")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	// The article author does not own the comment.
	err = f.svc.Delete(context.Background(), auth.Authenticated(f.author), f.article.Slug, view.Comment.ID)
	if de := apperrors.ToDomainError(err); de == nil || de.HTTPStatus != http.StatusForbidden {
		t.Fatalf("article author delete: got %v, want 403", err)
	}

	if err := f.svc.Delete(context.Background(), auth.Authenticated(f.other), f.article.Slug, view.Comment.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	views, err := f.svc.List(context.Background(), f.article.Slug)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 0 {
		t.Errorf("got %d comments after delete, want 0", len(views))
	}
}

func TestCommentDeleteWrongArticle(t *testing.T) {
	f := newCommentFixture(t)
	view, err := f.svc.Add(context.Background(), auth.Authenticated(f.other), f.article.Slug, "mine")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	second := &domain.Article{Slug: "second-post", Title: "Second Post", AuthorID: f.author.ID}
	if err := f.svc.articles.Create(context.Background(), second); err != nil {
		t.Fatalf("seed article: %v", err)
	}

	err = f.svc.Delete(context.Background(), auth.Authenticated(f.other), second.Slug, view.Comment.ID)
	if de := apperrors.ToDomainError(err); de == nil || de.Code != "NOT_FOUND" {
		t.Errorf("got %v, want NOT_FOUND", err)
	}
}
