package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AdamBeresnev/sabo-arena/internal/store"
	users "github.com/AdamBeresnev/sabo-arena/internal/user"
	"github.com/AdamBeresnev/sabo-arena/internal/utils"
	"github.com/google/uuid"
	"github.com/markbates/goth"
)

// GuestUserID owns every tournament created without signing in.
var GuestUserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

type UserService struct {
	store *store.UserStore
}

func NewUserService(store *store.UserStore) *UserService {
	return &UserService{store: store}
}

func (s *UserService) FindOrCreateUserByProvider(ctx context.Context, gothUser goth.User) (*users.User, error) {
	username := gothUser.NickName
	if username == "" {
		username = gothUser.Name
	}

	user, err := s.store.GetUserByProvider(ctx, gothUser.Provider, gothUser.UserID)
	if err == nil {
		if utils.OrZero(user.AvatarURL) != gothUser.AvatarURL || user.Username != username {
			user.AvatarURL = utils.StringOrNil(gothUser.AvatarURL)
			user.Username = username
			if err := s.store.UpdateUserNameAndAvatar(ctx, user); err != nil {
				return nil, fmt.Errorf("failed to update organizer profile: %w", err)
			}
		}
		return user, nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		newUser := &users.User{
			ID:         uuid.New(),
			Email:      gothUser.Email,
			Username:   username,
			CreatedAt:  time.Now().UTC(),
			Provider:   utils.Ptr(gothUser.Provider),
			ProviderID: utils.Ptr(gothUser.UserID),
			AvatarURL:  utils.StringOrNil(gothUser.AvatarURL),
		}
		if err := s.store.CreateUser(ctx, newUser); err != nil {
			return nil, fmt.Errorf("failed to create organizer: %w", err)
		}
		return newUser, nil
	}

	return nil, err
}

func (s *UserService) EnsureGuestUser(ctx context.Context) (*users.User, error) {
	user, err := s.store.GetUser(ctx, GuestUserID)
	if err == nil {
		return user, nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		guestUser := &users.User{
			ID:        GuestUserID,
			Email:     "guest@sabo-arena.app",
			Username:  "Guest Organizer",
			CreatedAt: time.Now().UTC(),
		}
		if err := s.store.CreateUser(ctx, guestUser); err != nil {
			return nil, fmt.Errorf("failed to create guest organizer: %w", err)
		}
		return guestUser, nil
	}
	return nil, err
}
