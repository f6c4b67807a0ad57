package auth

import "github.com/spec-kit/content-service/internal/domain"

// AuthContext is the per-request identity outcome: anonymous or
// authenticated. It is constructed once by the pipeline and read-only after
// that. The zero value is anonymous.
type AuthContext struct {
	identity *domain.User
}

// Anonymous returns the context for a request with no recognized credential.
func Anonymous() AuthContext {
	return AuthContext{}
}

// Authenticated returns the context for a verified identity.
func Authenticated(user *domain.User) AuthContext {
	return AuthContext{identity: user}
}

// IsAuthenticated reports whether an identity was established.
func (a AuthContext) IsAuthenticated() bool {
	return a.identity != nil
}

// Identity returns the authenticated user, or nil for anonymous contexts.
func (a AuthContext) Identity() *domain.User {
	return a.identity
}
