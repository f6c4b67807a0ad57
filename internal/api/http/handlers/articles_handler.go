package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/content-service/internal/api/dto"
	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/service"
	apperrors "github.com/spec-kit/content-service/pkg/util/errorutil"
)

// ArticlesHandler exposes article endpoints.
type ArticlesHandler struct {
	articles *service.ArticleService
}

// NewArticlesHandler constructs handler.
func NewArticlesHandler(articleService *service.ArticleService) *ArticlesHandler {
	return &ArticlesHandler{articles: articleService}
}

// List handles GET /api/articles.
func (h *ArticlesHandler) List(c *fiber.Ctx) error {
	filter := service.ArticleListFilter{
		Tag:         c.Query("tag"),
		Author:      c.Query("author"),
		FavoritedBy: c.Query("favorited"),
		Limit:       c.QueryInt("limit", 20),
		Offset:      c.QueryInt("offset", 0),
	}
	views, err := h.articles.List(c.UserContext(), auth.ContextFrom(c), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponses(views)})
}

// Feed handles GET /api/articles/feed.
func (h *ArticlesHandler) Feed(c *fiber.Ctx) error {
	views, err := h.articles.Feed(c.UserContext(), auth.ContextFrom(c),
		c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponses(views)})
}

// Get handles GET /api/articles/:slug.
func (h *ArticlesHandler) Get(c *fiber.Ctx) error {
	view, err := h.articles.Get(c.UserContext(), auth.ContextFrom(c), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponse(view)})
}

// Create handles POST /api/articles.
func (h *ArticlesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" {
		return apperrors.NewValidationError("title required", nil)
	}

	view, err := h.articles.Create(c.UserContext(), auth.ContextFrom(c), service.ArticleCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		Tags:        req.Tags,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": articleResponse(view)})
}

// Update handles PUT /api/articles/:slug.
func (h *ArticlesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	view, err := h.articles.Update(c.UserContext(), auth.ContextFrom(c), c.Params("slug"), service.ArticleUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		Tags:        req.Tags,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponse(view)})
}

// Delete handles DELETE /api/articles/:slug.
func (h *ArticlesHandler) Delete(c *fiber.Ctx) error {
	if err := h.articles.Delete(c.UserContext(), auth.ContextFrom(c), c.Params("slug")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Favorite handles POST /api/articles/:slug/favorite.
func (h *ArticlesHandler) Favorite(c *fiber.Ctx) error {
	view, err := h.articles.SetFavorite(c.UserContext(), auth.ContextFrom(c), c.Params("slug"), true)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponse(view)})
}

// Unfavorite handles DELETE /api/articles/:slug/favorite.
func (h *ArticlesHandler) Unfavorite(c *fiber.Ctx) error {
	view, err := h.articles.SetFavorite(c.UserContext(), auth.ContextFrom(c), c.Params("slug"), false)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponse(view)})
}

func articleResponse(view *service.ArticleView) dto.ArticleResponse {
	resp := dto.ArticleResponse{
		Slug:           view.Article.Slug,
		Title:          view.Article.Title,
		Description:    view.Article.Description,
		Body:           view.Article.Body,
		Tags:           view.Article.Tags,
		CreatedAt:      view.Article.CreatedAt,
		UpdatedAt:      view.Article.UpdatedAt,
		Favorited:      view.Favorited,
		FavoritesCount: view.FavoritesCount,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if view.Author != nil {
		resp.Author = dto.ProfileResponse{
			Username:  view.Author.Username,
			Bio:       view.Author.Bio,
			Image:     view.Author.Image,
			Following: view.AuthorFollowed,
		}
	}
	return resp
}

func articleResponses(views []service.ArticleView) []dto.ArticleResponse {
	items := make([]dto.ArticleResponse, 0, len(views))
	for i := range views {
		items = append(items, articleResponse(&views[i]))
	}
	return items
}
