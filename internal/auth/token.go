package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/content-service/internal/domain"
)

// TokenManager issues and decodes signed tokens. Decode is deliberately pure
// with respect to time: it verifies shape and signature only, and leaves the
// expiry check to the authentication pipeline so the codec can be tested
// without a clock.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager. The secret must be non-empty.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		ttl = 60 * 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}, nil
}

// Claims is the token payload: the subject's identity id and expiry.
type Claims struct {
	SubjectID int64 `json:"id"`
	jwt.RegisteredClaims
}

// Issue builds and signs a token for a persisted identity. The expiry is
// always issuedAt + configured lifetime.
func (tm *TokenManager) Issue(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	return tm.IssueAt(user, now)
}

// IssueAt signs a token with an explicit issue time.
func (tm *TokenManager) IssueAt(user *domain.User, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		SubjectID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Decode verifies shape and signature and returns the embedded claims.
// Failures are classified as ErrTokenMalformed or ErrBadSignature; expiry is
// not checked here.
func (tm *TokenManager) Decode(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrBadSignature
		}
		return nil, ErrTokenMalformed
	}
	if !parsed.Valid {
		return nil, ErrBadSignature
	}
	if claims.ExpiresAt == nil || claims.SubjectID == 0 {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
