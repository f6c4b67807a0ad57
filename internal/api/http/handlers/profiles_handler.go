package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/content-service/internal/api/dto"
	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/service"
)

// ProfilesHandler exposes public profile and follow endpoints.
type ProfilesHandler struct {
	profiles *service.ProfileService
}

// NewProfilesHandler constructs handler.
func NewProfilesHandler(profileService *service.ProfileService) *ProfilesHandler {
	return &ProfilesHandler{profiles: profileService}
}

// Get handles GET /api/profiles/:username.
func (h *ProfilesHandler) Get(c *fiber.Ctx) error {
	view, err := h.profiles.Get(c.UserContext(), auth.ContextFrom(c), c.Params("username"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profileResponse(view)})
}

// Follow handles POST /api/profiles/:username/follow.
func (h *ProfilesHandler) Follow(c *fiber.Ctx) error {
	view, err := h.profiles.SetFollowing(c.UserContext(), auth.ContextFrom(c), c.Params("username"), true)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profileResponse(view)})
}

// Unfollow handles DELETE /api/profiles/:username/follow.
func (h *ProfilesHandler) Unfollow(c *fiber.Ctx) error {
	view, err := h.profiles.SetFollowing(c.UserContext(), auth.ContextFrom(c), c.Params("username"), false)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profileResponse(view)})
}

func profileResponse(view *service.ProfileView) dto.ProfileResponse {
	return dto.ProfileResponse{
		Username:  view.User.Username,
		Bio:       view.User.Bio,
		Image:     view.User.Image,
		Following: view.Following,
	}
}
