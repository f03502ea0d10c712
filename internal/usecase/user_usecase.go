package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/NasaVasa/carewatch/internal/domain"
)

type UserUsecase struct {
	users domain.UserRepository
}

func NewUserUsecase(users domain.UserRepository) *UserUsecase {
	return &UserUsecase{users: users}
}

// LinkTelegram attaches a chat to a user. Linking from the chat itself is
// explicit consent; linking on the user's behalf leaves it undetermined.
func (u *UserUsecase) LinkTelegram(ctx context.Context, userID string, chatID int64, consent bool) (*domain.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserNotRegistered
	}

	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		user = &domain.User{ID: userID}
	}

	user.TelegramChatID = &chatID
	if consent {
		user.Authorization = domain.AuthorizationAuthorized
	} else {
		user.Authorization = domain.AuthorizationUndetermined
	}

	if err := u.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *UserUsecase) GetByChat(ctx context.Context, chatID int64) (*domain.User, error) {
	user, err := u.users.GetByTelegramChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotRegistered
		}
		return nil, err
	}
	return user, nil
}

func (u *UserUsecase) SetMuted(ctx context.Context, chatID int64, muted bool) (*domain.User, error) {
	user, err := u.GetByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	authorization := domain.AuthorizationAuthorized
	if muted {
		authorization = domain.AuthorizationDenied
	}
	if err := u.users.SetAuthorization(ctx, user.ID, authorization); err != nil {
		return nil, err
	}
	user.Authorization = authorization
	return user, nil
}
