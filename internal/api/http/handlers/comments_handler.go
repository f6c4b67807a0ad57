package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/content-service/internal/api/dto"
	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/service"
	apperrors "github.com/spec-kit/content-service/pkg/util/errorutil"
)

// CommentsHandler exposes comment endpoints.
type CommentsHandler struct {
	comments *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(commentService *service.CommentService) *CommentsHandler {
	return &CommentsHandler{comments: commentService}
}

// List handles GET /api/articles/:slug/comments.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	views, err := h.comments.List(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(views))
	for i := range views {
		items = append(items, commentResponse(&views[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Add handles POST /api/articles/:slug/comments.
func (h *CommentsHandler) Add(c *fiber.Ctx) error {
	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	view, err := h.comments.Add(c.UserContext(), auth.ContextFrom(c), c.Params("slug"), req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(view)})
}

// Delete handles DELETE /api/articles/:slug/comments/:id.
func (h *CommentsHandler) Delete(c *fiber.Ctx) error {
	commentID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid comment id", nil)
	}

	if err := h.comments.Delete(c.UserContext(), auth.ContextFrom(c), c.Params("slug"), commentID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func commentResponse(view *service.CommentView) dto.CommentResponse {
	resp := dto.CommentResponse{
		ID:        view.Comment.ID,
		Body:      view.Comment.Body,
		CreatedAt: view.Comment.CreatedAt,
		UpdatedAt: view.Comment.UpdatedAt,
	}
	if view.Author != nil {
		resp.Author = dto.ProfileResponse{
			Username: view.Author.Username,
			Bio:      view.Author.Bio,
			Image:    view.Author.Image,
		}
	}
	return resp
}
