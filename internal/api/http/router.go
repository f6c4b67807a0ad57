package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/content-service/internal/api/http/handlers"
	"github.com/spec-kit/content-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Profiles       *handlers.ProfilesHandler
	Articles       *handlers.ArticlesHandler
	Comments       *handlers.CommentsHandler
	Tags           *handlers.TagsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. The authentication pipeline runs on every
// /api request; capability guards are applied per route. Ownership checks for
// article and comment mutations happen in the services, which load the
// resource and know its owner.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	api.Post("/users", cfg.Users.Register)
	api.Post("/users/login", cfg.Users.Login)
	api.Get("/user", auth.RequireAuth(), cfg.Users.Current)
	api.Put("/user", auth.RequireAuth(), cfg.Users.Update)

	api.Get("/profiles/:username", cfg.Profiles.Get)
	api.Post("/profiles/:username/follow", auth.RequireAuth(), cfg.Profiles.Follow)
	api.Delete("/profiles/:username/follow", auth.RequireAuth(), cfg.Profiles.Unfollow)

	articles := api.Group("/articles", auth.AuthOrReadOnly())
	articles.Get("/", cfg.Articles.List)
	articles.Get("/feed", auth.RequireAuth(), cfg.Articles.Feed)
	articles.Post("/", cfg.Articles.Create)
	articles.Get("/:slug", cfg.Articles.Get)
	articles.Put("/:slug", cfg.Articles.Update)
	articles.Delete("/:slug", cfg.Articles.Delete)
	articles.Post("/:slug/favorite", auth.RequireAuth(), cfg.Articles.Favorite)
	articles.Delete("/:slug/favorite", auth.RequireAuth(), cfg.Articles.Unfavorite)
	articles.Get("/:slug/comments", cfg.Comments.List)
	articles.Post("/:slug/comments", cfg.Comments.Add)
	articles.Delete("/:slug/comments/:id", cfg.Comments.Delete)

	api.Get("/tags", cfg.Tags.List)
}
