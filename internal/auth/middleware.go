package auth

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/content-service/pkg/util/errorutil"
)

const authContextKey = "auth_context"

// Middleware runs the authentication pipeline on every request and stores
// the resulting AuthContext in fiber locals.
type Middleware struct {
	pipeline *Pipeline
	logger   *zap.Logger
}

// NewMiddleware constructs middleware.
func NewMiddleware(pipeline *Pipeline, logger *zap.Logger) *Middleware {
	return &Middleware{pipeline: pipeline, logger: logger}
}

// Handle resolves the Authorization header. Presented-but-invalid
// credentials terminate the request with a generic message; the internal
// failure kind is logged.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	actx, err := m.pipeline.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		m.logger.Warn("authentication failed",
			zap.String("kind", FailureKind(err)),
			zap.String("path", c.Path()),
			zap.String("method", c.Method()))
		return apperrors.NewUnauthorized("authentication failed")
	}
	c.Locals(authContextKey, actx)
	return c.Next()
}

// ContextFrom retrieves the request's AuthContext. Requests that never went
// through the middleware read as anonymous.
func ContextFrom(c *fiber.Ctx) AuthContext {
	if actx, ok := c.Locals(authContextKey).(AuthContext); ok {
		return actx
	}
	return Anonymous()
}

// RequireAuth guards routes that need an authenticated caller.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := Authorize(ContextFrom(c), RequireAuthenticated()); err != nil {
			return MapPolicyError(err)
		}
		return c.Next()
	}
}

// AuthOrReadOnly guards routes where safe methods are public and mutations
// require authentication.
func AuthOrReadOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := Authorize(ContextFrom(c), AuthenticatedOrReadOnly(c.Method())); err != nil {
			return MapPolicyError(err)
		}
		return c.Next()
	}
}

// MapPolicyError converts policy errors into transport-level domain errors.
func MapPolicyError(err error) error {
	switch err {
	case ErrMissingCredentials:
		return apperrors.NewUnauthorized("credentials not provided")
	case ErrForbidden:
		return apperrors.NewForbidden("forbidden")
	default:
		return apperrors.MapError(err)
	}
}
