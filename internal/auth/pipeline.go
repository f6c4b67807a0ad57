package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/content-service/internal/domain"
)

// IdentityStore is the read-only identity lookup the pipeline needs.
// Implementations report missing rows with pgx.ErrNoRows.
type IdentityStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Pipeline resolves an inbound Authorization header into an AuthContext.
//
// A missing or unrecognizable header is not an error: it degrades to an
// anonymous context so that public and optional-auth routes are unaffected
// by stray headers. Once a credential in the expected shape was presented,
// any validation failure is a hard error. Strict mode turns the degrade
// cases for malformed-but-present headers into hard errors as well.
type Pipeline struct {
	tokens *TokenManager
	users  IdentityStore
	scheme string
	strict bool
	now    func() time.Time
}

// NewPipeline constructs the pipeline. Scheme is compared case-insensitively
// and defaults to "Token".
func NewPipeline(tokens *TokenManager, users IdentityStore, scheme string, strict bool) *Pipeline {
	if scheme == "" {
		scheme = "Token"
	}
	return &Pipeline{
		tokens: tokens,
		users:  users,
		scheme: scheme,
		strict: strict,
		now:    time.Now,
	}
}

// WithClock overrides the pipeline's clock. Intended for tests.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Authenticate resolves headerValue into an AuthContext. The returned error
// is one of the token validation sentinels (or ErrMalformedHeader in strict
// mode); infrastructure errors from the store pass through unchanged.
func (p *Pipeline) Authenticate(ctx context.Context, headerValue string) (AuthContext, error) {
	headerValue = strings.TrimSpace(headerValue)
	if headerValue == "" {
		return Anonymous(), nil
	}

	parts := strings.Fields(headerValue)
	if len(parts) != 2 {
		// A credential must not contain whitespace; a lone scheme or token
		// is ignored rather than rejected so routes that do not require
		// authentication keep working.
		if p.strict {
			return Anonymous(), ErrMalformedHeader
		}
		return Anonymous(), nil
	}

	if !strings.EqualFold(parts[0], p.scheme) {
		// Other schemes pass through unrecognized, even in strict mode.
		return Anonymous(), nil
	}

	claims, err := p.tokens.Decode(parts[1])
	if err != nil {
		return Anonymous(), err
	}

	if !claims.ExpiresAt.After(p.now()) {
		return Anonymous(), ErrTokenExpired
	}

	user, err := p.users.GetByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Anonymous(), ErrUnknownSubject
		}
		return Anonymous(), err
	}

	if !user.Active {
		return Anonymous(), ErrIdentityDeactivated
	}

	return Authenticated(user), nil
}
