package telegram

import (
	"context"
	"errors"
	"strings"

	"github.com/NasaVasa/carewatch/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeSender struct {
	sent     []tgbotapi.MessageConfig
	sendErr  error
	chatErr  error
	chatCall int
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if s.sendErr != nil {
		return tgbotapi.Message{}, s.sendErr
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.sent = append(s.sent, msg)
	}
	return tgbotapi.Message{MessageID: len(s.sent)}, nil
}

func (s *fakeSender) GetChat(config tgbotapi.ChatInfoConfig) (tgbotapi.Chat, error) {
	s.chatCall++
	if s.chatErr != nil {
		return tgbotapi.Chat{}, s.chatErr
	}
	return tgbotapi.Chat{ID: config.ChatID}, nil
}

func (s *fakeSender) lastText() string {
	if len(s.sent) == 0 {
		return ""
	}
	return s.sent[len(s.sent)-1].Text
}

type memoryUsers struct {
	users map[string]domain.User
}

func newMemoryUsers(users ...domain.User) *memoryUsers {
	repo := &memoryUsers{users: make(map[string]domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *memoryUsers) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (r *memoryUsers) GetByTelegramChatID(ctx context.Context, chatID int64) (*domain.User, error) {
	for _, user := range r.users {
		if user.TelegramChatID != nil && *user.TelegramChatID == chatID {
			found := user
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryUsers) Save(ctx context.Context, user *domain.User) error {
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUsers) SetAuthorization(ctx context.Context, userID string, authorization domain.Authorization) error {
	user, ok := r.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	user.Authorization = authorization
	r.users[userID] = user
	return nil
}

type memoryAlerts struct {
	alerts []domain.Alert
}

func (r *memoryAlerts) UpsertMany(ctx context.Context, alerts []domain.Alert) error {
	return errors.New("read only")
}

func (r *memoryAlerts) DeleteByIDs(ctx context.Context, userID string, ids []string) error {
	return errors.New("read only")
}

func (r *memoryAlerts) ListByUserAndDate(ctx context.Context, userID, date string) ([]domain.Alert, error) {
	var out []domain.Alert
	for _, alert := range r.alerts {
		if alert.UserID == userID && alert.Date == date {
			out = append(out, alert)
		}
	}
	return out, nil
}

func (r *memoryAlerts) ListByUserAndMonth(ctx context.Context, userID, month string) ([]domain.Alert, error) {
	var out []domain.Alert
	for _, alert := range r.alerts {
		if alert.UserID == userID && strings.HasPrefix(alert.Date, month+"-") {
			out = append(out, alert)
		}
	}
	return out, nil
}

func (r *memoryAlerts) ListByUserSince(ctx context.Context, userID, since string) ([]domain.Alert, error) {
	var out []domain.Alert
	for _, alert := range r.alerts {
		if alert.UserID == userID && alert.Date >= since {
			out = append(out, alert)
		}
	}
	return out, nil
}

func chatID(id int64) *int64 {
	return &id
}
