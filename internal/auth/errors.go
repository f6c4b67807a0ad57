package auth

import "errors"

// Token validation failures. All of them are presented to clients with the
// same generic message; the distinct values exist for logging and tests.
var (
	ErrTokenMalformed      = errors.New("could not decode token")
	ErrBadSignature        = errors.New("token signature mismatch")
	ErrTokenExpired        = errors.New("token expired")
	ErrUnknownSubject      = errors.New("no matching identity")
	ErrIdentityDeactivated = errors.New("identity deactivated")
)

// ErrMalformedHeader is returned only in strict header mode, when an
// Authorization header is present but does not parse as "<scheme> <token>".
var ErrMalformedHeader = errors.New("malformed authorization header")

// Authorization failures raised by Authorize.
var (
	// ErrMissingCredentials means no credential was supplied or recognized
	// on a route that requires one. Deliberately distinct from the token
	// validation errors above.
	ErrMissingCredentials = errors.New("credentials not provided")

	// ErrForbidden means the caller is authenticated but not entitled.
	ErrForbidden = errors.New("forbidden")
)

// FailureKind names the internal variant of an authentication or
// authorization error for telemetry. Clients never see these strings.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, ErrBadSignature):
		return "bad_signature"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrUnknownSubject):
		return "unknown_subject"
	case errors.Is(err, ErrIdentityDeactivated):
		return "deactivated"
	case errors.Is(err, ErrMalformedHeader):
		return "malformed_header"
	case errors.Is(err, ErrMissingCredentials):
		return "missing_credentials"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	default:
		return "internal"
	}
}
