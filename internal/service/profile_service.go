package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/events"
	"github.com/spec-kit/content-service/internal/repository"
	apperrors "github.com/spec-kit/content-service/pkg/util/errorutil"
)

// ProfileService exposes public profiles and the follow graph.
type ProfileService struct {
	users      repository.UserRepository
	follows    repository.FollowRepository
	dispatcher events.Dispatcher
}

// NewProfileService constructs the service.
func NewProfileService(users repository.UserRepository, follows repository.FollowRepository, dispatcher events.Dispatcher) *ProfileService {
	return &ProfileService{users: users, follows: follows, dispatcher: dispatcher}
}

// ProfileView is a user as seen by another (possibly anonymous) user.
type ProfileView struct {
	User      *domain.User
	Following bool
}

// Get returns a profile by username. The following flag is only meaningful
// for authenticated callers.
func (s *ProfileService) Get(ctx context.Context, actx auth.AuthContext, username string) (*ProfileView, error) {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{User: user}
	if actx.IsAuthenticated() {
		following, err := s.follows.IsFollowing(ctx, actx.Identity().ID, user.ID)
		if err != nil {
			return nil, err
		}
		view.Following = following
	}
	return view, nil
}

// SetFollowing follows or unfollows a profile for the authenticated caller.
func (s *ProfileService) SetFollowing(ctx context.Context, actx auth.AuthContext, username string, following bool) (*ProfileView, error) {
	if err := auth.Authorize(actx, auth.RequireAuthenticated()); err != nil {
		return nil, auth.MapPolicyError(err)
	}

	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.ID == actx.Identity().ID {
		return nil, apperrors.NewValidationError("cannot follow yourself", nil)
	}

	if following {
		err = s.follows.Follow(ctx, actx.Identity().ID, user.ID)
	} else {
		err = s.follows.Unfollow(ctx, actx.Identity().ID, user.ID)
	}
	if err != nil {
		return nil, err
	}

	if following {
		publish(ctx, s.dispatcher, events.Event{
			Type:    events.EventUserFollowed,
			ActorID: actx.Identity().ID,
			Payload: events.UserFollowedPayload{FolloweeID: user.ID},
		})
	}

	return &ProfileView{User: user, Following: following}, nil
}

func (s *ProfileService) userByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("profile", map[string]any{"username": username})
		}
		return nil, err
	}
	return user, nil
}
