package auth

import "net/http"

type capabilityKind int

const (
	capPublic capabilityKind = iota
	capRequireAuthenticated
	capAuthenticatedOrReadOnly
	capOwnerOnly
)

// Capability is a route-level authorization requirement.
type Capability struct {
	kind    capabilityKind
	method  string
	ownerID int64
}

// Public allows every caller.
func Public() Capability {
	return Capability{kind: capPublic}
}

// RequireAuthenticated allows only authenticated callers.
func RequireAuthenticated() Capability {
	return Capability{kind: capRequireAuthenticated}
}

// AuthenticatedOrReadOnly allows safe methods for everyone and requires
// authentication for everything else.
func AuthenticatedOrReadOnly(method string) Capability {
	return Capability{kind: capAuthenticatedOrReadOnly, method: method}
}

// OwnerOnly allows only the authenticated identity whose id matches the
// resource owner. The owner id comes from the caller that already loaded the
// resource; the policy never reads the database.
func OwnerOnly(ownerID int64) Capability {
	return Capability{kind: capOwnerOnly, ownerID: ownerID}
}

// Authorize decides whether the context satisfies the required capability.
func Authorize(actx AuthContext, required Capability) error {
	switch required.kind {
	case capPublic:
		return nil
	case capRequireAuthenticated:
		if !actx.IsAuthenticated() {
			return ErrMissingCredentials
		}
		return nil
	case capAuthenticatedOrReadOnly:
		if isSafeMethod(required.method) {
			return nil
		}
		if !actx.IsAuthenticated() {
			return ErrMissingCredentials
		}
		return nil
	case capOwnerOnly:
		if !actx.IsAuthenticated() {
			return ErrMissingCredentials
		}
		if actx.Identity().ID != required.ownerID {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}
