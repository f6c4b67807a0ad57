package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/events"
	"github.com/spec-kit/content-service/internal/repository"
	apperrors "github.com/spec-kit/content-service/pkg/util/errorutil"
)

// ArticleService coordinates article workflows. Mutations on existing
// articles are gated on ownership: the stored author id must match the
// authenticated identity.
type ArticleService struct {
	articles   repository.ArticleRepository
	users      repository.UserRepository
	follows    repository.FollowRepository
	dispatcher events.Dispatcher
}

// ArticleDependencies bundles repositories for the article service.
type ArticleDependencies struct {
	ArticleRepo repository.ArticleRepository
	UserRepo    repository.UserRepository
	FollowRepo  repository.FollowRepository
	Dispatcher  events.Dispatcher
}

// NewArticleService constructs the service.
func NewArticleService(deps ArticleDependencies) *ArticleService {
	return &ArticleService{
		articles:   deps.ArticleRepo,
		users:      deps.UserRepo,
		follows:    deps.FollowRepo,
		dispatcher: deps.Dispatcher,
	}
}

// ArticleCreateInput describes article creation payload.
type ArticleCreateInput struct {
	Title       string
	Description string
	Body        string
	Tags        []string
}

// ArticleUpdateInput describes partial article updates. A title change
// regenerates the slug.
type ArticleUpdateInput struct {
	Title       *string
	Description *string
	Body        *string
	Tags        []string
}

// ArticleListFilter describes listing filters; Author and FavoritedBy are
// usernames.
type ArticleListFilter struct {
	Tag         string
	Author      string
	FavoritedBy string
	Limit       int
	Offset      int
}

// ArticleView is an article joined with the presentation data handlers need.
type ArticleView struct {
	Article        domain.Article
	Author         *domain.User
	AuthorFollowed bool
	Favorited      bool
	FavoritesCount int
}

// Create publishes a new article owned by the caller.
func (s *ArticleService) Create(ctx context.Context, actx auth.AuthContext, input ArticleCreateInput) (*ArticleView, error) {
	if err := auth.Authorize(actx, auth.RequireAuthenticated()); err != nil {
		return nil, auth.MapPolicyError(err)
	}
	author := actx.Identity()

	article := &domain.Article{
		Slug:        generateSlug(input.Title),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Body:        input.Body,
		AuthorID:    author.ID,
		Tags:        normalizeTags(input.Tags),
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:    events.EventArticlePublished,
		ActorID: author.ID,
		Payload: events.ArticlePayload{Slug: article.Slug, Title: article.Title, Tags: article.Tags},
	})

	return s.buildView(ctx, actx, article)
}

// Get fetches one article by slug.
func (s *ArticleService) Get(ctx context.Context, actx auth.AuthContext, slug string) (*ArticleView, error) {
	article, err := s.getBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, actx, article)
}

// List returns filtered, paginated articles.
func (s *ArticleService) List(ctx context.Context, actx auth.AuthContext, filter ArticleListFilter) ([]ArticleView, error) {
	repoFilter := repository.ArticleFilter{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	if filter.Tag != "" {
		repoFilter.Tag = &filter.Tag
	}
	if filter.Author != "" {
		author, err := s.users.GetByUsername(ctx, filter.Author)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return []ArticleView{}, nil
			}
			return nil, err
		}
		repoFilter.AuthorID = &author.ID
	}
	if filter.FavoritedBy != "" {
		user, err := s.users.GetByUsername(ctx, filter.FavoritedBy)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return []ArticleView{}, nil
			}
			return nil, err
		}
		repoFilter.FavoritedBy = &user.ID
	}

	articles, err := s.articles.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, actx, articles)
}

// Feed returns recent articles by authors the caller follows.
func (s *ArticleService) Feed(ctx context.Context, actx auth.AuthContext, limit, offset int) ([]ArticleView, error) {
	if err := auth.Authorize(actx, auth.RequireAuthenticated()); err != nil {
		return nil, auth.MapPolicyError(err)
	}

	authorIDs, err := s.follows.ListFolloweeIDs(ctx, actx.Identity().ID)
	if err != nil {
		return nil, err
	}
	if len(authorIDs) == 0 {
		return []ArticleView{}, nil
	}

	articles, err := s.articles.ListWithFilter(ctx, repository.ArticleFilter{
		AuthorIDs: authorIDs,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, actx, articles)
}

// Update mutates an article; only the owner may do so.
func (s *ArticleService) Update(ctx context.Context, actx auth.AuthContext, slug string, input ArticleUpdateInput) (*ArticleView, error) {
	article, err := s.getBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actx, auth.OwnerOnly(article.AuthorID)); err != nil {
		return nil, auth.MapPolicyError(err)
	}

	if input.Title != nil && strings.TrimSpace(*input.Title) != article.Title {
		article.Title = strings.TrimSpace(*input.Title)
		article.Slug = generateSlug(article.Title)
	}
	if input.Description != nil {
		article.Description = strings.TrimSpace(*input.Description)
	}
	if input.Body != nil {
		article.Body = *input.Body
	}
	if input.Tags != nil {
		article.Tags = normalizeTags(input.Tags)
	}

	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:    events.EventArticleUpdated,
		ActorID: actx.Identity().ID,
		Payload: events.ArticlePayload{Slug: article.Slug, Title: article.Title, Tags: article.Tags},
	})

	return s.buildView(ctx, actx, article)
}

// Delete removes an article; only the owner may do so.
func (s *ArticleService) Delete(ctx context.Context, actx auth.AuthContext, slug string) error {
	article, err := s.getBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := auth.Authorize(actx, auth.OwnerOnly(article.AuthorID)); err != nil {
		return auth.MapPolicyError(err)
	}

	if err := s.articles.Delete(ctx, article.ID); err != nil {
		return err
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:    events.EventArticleDeleted,
		ActorID: actx.Identity().ID,
		Payload: events.ArticlePayload{Slug: article.Slug, Title: article.Title},
	})
	return nil
}

// SetFavorite marks or unmarks an article as a favorite of the caller.
func (s *ArticleService) SetFavorite(ctx context.Context, actx auth.AuthContext, slug string, favorited bool) (*ArticleView, error) {
	if err := auth.Authorize(actx, auth.RequireAuthenticated()); err != nil {
		return nil, auth.MapPolicyError(err)
	}

	article, err := s.getBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if favorited {
		err = s.articles.Favorite(ctx, actx.Identity().ID, article.ID)
	} else {
		err = s.articles.Unfavorite(ctx, actx.Identity().ID, article.ID)
	}
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, actx, article)
}

func (s *ArticleService) getBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("article", map[string]any{"slug": slug})
		}
		return nil, err
	}
	return article, nil
}

func (s *ArticleService) buildView(ctx context.Context, actx auth.AuthContext, article *domain.Article) (*ArticleView, error) {
	views, err := s.buildViews(ctx, actx, []domain.Article{*article})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *ArticleService) buildViews(ctx context.Context, actx auth.AuthContext, articles []domain.Article) ([]ArticleView, error) {
	views := make([]ArticleView, 0, len(articles))
	if len(articles) == 0 {
		return views, nil
	}

	articleIDs := make([]int64, 0, len(articles))
	authorIDs := make([]int64, 0, len(articles))
	for i := range articles {
		articleIDs = append(articleIDs, articles[i].ID)
		authorIDs = append(authorIDs, articles[i].AuthorID)
	}

	authors, err := s.users.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	counts, err := s.articles.FavoriteCounts(ctx, articleIDs)
	if err != nil {
		return nil, err
	}

	favorited := map[int64]bool{}
	followed := map[int64]bool{}
	if actx.IsAuthenticated() {
		favorited, err = s.articles.FavoritedSet(ctx, actx.Identity().ID, articleIDs)
		if err != nil {
			return nil, err
		}
		followeeIDs, err := s.follows.ListFolloweeIDs(ctx, actx.Identity().ID)
		if err != nil {
			return nil, err
		}
		for _, id := range followeeIDs {
			followed[id] = true
		}
	}

	for i := range articles {
		views = append(views, ArticleView{
			Article:        articles[i],
			Author:         authors[articles[i].AuthorID],
			AuthorFollowed: followed[articles[i].AuthorID],
			Favorited:      favorited[articles[i].ID],
			FavoritesCount: counts[articles[i].ID],
		})
	}
	return views, nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// generateSlug builds a URL-safe slug from the title plus a short random
// suffix so identical titles never collide.
func generateSlug(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}
