package service

import (
	"context"
	"net/http"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/config"
	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/events"
	apperrors "github.com/spec-kit/content-service/pkg/util/errorutil"
)

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo, events.Dispatcher) {
	t.Helper()
	users := newFakeUserRepo()
	dispatcher := events.NewInMemoryDispatcher()
	svc, err := NewAuthService(config.AuthConfig{
		TokenSecret:  "test-secret",
		TokenTTLDays: 60,
		BcryptCost:   bcrypt.MinCost,
	}, AuthDependencies{
		UserRepo:   users,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return svc, users, dispatcher
}

func seedUser(t *testing.T, users *fakeUserRepo, username, email, password string, active bool) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return users.add(&domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Active:       active,
	})
}

func TestLoginSuccess(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, "jake", "jake@example.com", "hunter2", true)

	user, token, exp, err := svc.Login(context.Background(), "jake@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Username != "jake" {
		t.Errorf("username = %q, want jake", user.Username)
	}
	if token == "" {
		t.Error("expected non-empty token")
	}
	if exp.IsZero() {
		t.Error("expected non-zero expiry")
	}
}

func TestLoginFailuresShareOneMessage(t *testing.T) {
	svc, users, dispatcher := newTestAuthService(t)
	seedUser(t, users, "jake", "jake@example.com", "hunter2", true)
	seedUser(t, users, "ghost", "ghost@example.com", "hunter2", false)

	var kinds []string
	dispatcher.Subscribe(events.EventLoginFailed, func(_ context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.LoginFailedPayload)
		if !ok {
			t.Fatalf("payload type %T", event.Payload)
		}
		kinds = append(kinds, payload.Kind)
		return nil
	})

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", "hunter2"},
		{"wrong password", "jake@example.com", "letmein"},
		{"deactivated account", "ghost@example.com", "hunter2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, token, _, err := svc.Login(context.Background(), tt.email, tt.password)
			if err == nil {
				t.Fatal("expected error")
			}
			if token != "" {
				t.Errorf("expected empty token, got %q", token)
			}
			de := apperrors.ToDomainError(err)
			if de.Code != "UNAUTHORIZED" {
				t.Errorf("code = %q, want UNAUTHORIZED", de.Code)
			}
			if de.HTTPStatus != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", de.HTTPStatus, http.StatusUnauthorized)
			}
			if de.Message != LoginFailureMessage {
				t.Errorf("message = %q, want %q", de.Message, LoginFailureMessage)
			}
		})
	}

	// Internal kinds stay distinguishable for telemetry even though the
	// client-visible message does not.
	wantKinds := []string{"not_found", "bad_credentials", "deactivated"}
	if len(kinds) != len(wantKinds) {
		t.Fatalf("published kinds = %v, want %v", kinds, wantKinds)
	}
	for i, want := range wantKinds {
		if kinds[i] != want {
			t.Errorf("kind[%d] = %q, want %q", i, kinds[i], want)
		}
	}
}

func TestRegister(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	user, token, _, err := svc.Register(context.Background(), "jake", "jake@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected assigned user id")
	}
	if !user.Active {
		t.Error("new accounts should be active")
	}
	if user.PasswordHash == "hunter2" {
		t.Error("password stored in plaintext")
	}
	if err := auth.VerifyPassword(user.PasswordHash, "hunter2"); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
	if token == "" {
		t.Error("expected registration to issue a token")
	}

	if _, err := users.GetByEmail(context.Background(), "jake@example.com"); err != nil {
		t.Errorf("user not persisted: %v", err)
	}
}

func TestRegisterConflicts(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, "jake", "jake@example.com", "hunter2", true)

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"duplicate email", "other", "jake@example.com"},
		{"duplicate username", "jake", "other@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := svc.Register(context.Background(), tt.username, tt.email, "hunter2")
			if err == nil {
				t.Fatal("expected error")
			}
			if de := apperrors.ToDomainError(err); de.Code != "CONFLICT" {
				t.Errorf("code = %q, want CONFLICT", de.Code)
			}
		})
	}
}

func TestUpdateUser(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	user := seedUser(t, users, "jake", "jake@example.com", "hunter2", true)
	seedUser(t, users, "amy", "amy@example.com", "hunter2", true)

	bio := "write-up author"
	newEmail := "jake.new@example.com"
	updated, err := svc.UpdateUser(context.Background(), user, UserUpdateInput{Email: &newEmail, Bio: &bio})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.Email != newEmail || updated.Bio != bio {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.Username != "jake" {
		t.Errorf("untouched field changed: %q", updated.Username)
	}

	taken := "amy@example.com"
	if _, err := svc.UpdateUser(context.Background(), user, UserUpdateInput{Email: &taken}); err == nil {
		t.Error("expected conflict on taken email")
	}
}
