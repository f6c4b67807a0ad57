package auth

import (
	"errors"
	"net/http"
	"testing"

	"github.com/spec-kit/content-service/internal/domain"
)

func TestAuthorize(t *testing.T) {
	u1 := &domain.User{ID: 1, Username: "jake", Active: true}
	u2 := &domain.User{ID: 2, Username: "anna", Active: true}

	cases := []struct {
		name     string
		ctx      AuthContext
		required Capability
		wantErr  error
	}{
		{"public anonymous", Anonymous(), Public(), nil},
		{"public authenticated", Authenticated(u1), Public(), nil},

		{"require auth anonymous", Anonymous(), RequireAuthenticated(), ErrMissingCredentials},
		{"require auth authenticated", Authenticated(u1), RequireAuthenticated(), nil},

		{"read-only GET anonymous", Anonymous(), AuthenticatedOrReadOnly(http.MethodGet), nil},
		{"read-only HEAD anonymous", Anonymous(), AuthenticatedOrReadOnly(http.MethodHead), nil},
		{"read-only OPTIONS anonymous", Anonymous(), AuthenticatedOrReadOnly(http.MethodOptions), nil},
		{"read-only POST anonymous", Anonymous(), AuthenticatedOrReadOnly(http.MethodPost), ErrMissingCredentials},
		{"read-only DELETE anonymous", Anonymous(), AuthenticatedOrReadOnly(http.MethodDelete), ErrMissingCredentials},
		{"read-only POST authenticated", Authenticated(u1), AuthenticatedOrReadOnly(http.MethodPost), nil},

		{"owner matches", Authenticated(u1), OwnerOnly(u1.ID), nil},
		{"owner mismatch", Authenticated(u1), OwnerOnly(u2.ID), ErrForbidden},
		{"owner anonymous", Anonymous(), OwnerOnly(u1.ID), ErrMissingCredentials},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.ctx, tc.required)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Authorize() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}
