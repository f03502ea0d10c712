package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NasaVasa/carewatch/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var ErrChatNotLinked = errors.New("telegram chat not linked")

// Sender is the part of the Bot API the channel and handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetChat(config tgbotapi.ChatInfoConfig) (tgbotapi.Chat, error)
}

// Channel pushes notifications to a user's linked chat.
type Channel struct {
	sender  Sender
	users   domain.UserRepository
	breaker *gobreaker.CircuitBreaker[tgbotapi.Message]
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewChannel(sender Sender, users domain.UserRepository, perSecond float64, logger *zap.Logger) *Channel {
	breaker := gobreaker.NewCircuitBreaker[tgbotapi.Message](gobreaker.Settings{
		Name:        "telegram",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("telegram breaker state change", zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &Channel{
		sender:  sender,
		users:   users,
		breaker: breaker,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		logger:  logger,
	}
}

// Authorization reads the stored state; users without a linked chat are denied.
func (c *Channel) Authorization(ctx context.Context, userID string) (domain.Authorization, error) {
	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.AuthorizationDenied, nil
		}
		return "", err
	}
	if user.TelegramChatID == nil {
		return domain.AuthorizationDenied, nil
	}
	if user.Authorization == "" {
		return domain.AuthorizationUndetermined, nil
	}
	return user.Authorization, nil
}

// RequestAuthorization probes the chat. A reachable chat becomes authorized,
// an unreachable one denied, and the answer is persisted.
func (c *Channel) RequestAuthorization(ctx context.Context, userID string) (domain.Authorization, error) {
	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.AuthorizationDenied, nil
		}
		return "", err
	}
	if user.TelegramChatID == nil {
		return domain.AuthorizationDenied, nil
	}

	authorization := domain.AuthorizationAuthorized
	_, err = c.sender.GetChat(tgbotapi.ChatInfoConfig{ChatConfig: tgbotapi.ChatConfig{ChatID: *user.TelegramChatID}})
	if err != nil {
		c.logger.Info("telegram chat probe failed", zap.String("user_id", userID), zap.Error(err))
		authorization = domain.AuthorizationDenied
	}
	if err := c.users.SetAuthorization(ctx, userID, authorization); err != nil {
		return "", err
	}
	return authorization, nil
}

func (c *Channel) Send(ctx context.Context, notification domain.Notification) error {
	user, err := c.users.GetByID(ctx, notification.UserID)
	if err != nil {
		return err
	}
	if user.TelegramChatID == nil {
		return ErrChatNotLinked
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(*user.TelegramChatID, FormatNotification(notification))
	msg.DisableWebPagePreview = true
	_, err = c.breaker.Execute(func() (tgbotapi.Message, error) {
		return c.sender.Send(msg)
	})
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func FormatNotification(notification domain.Notification) string {
	var builder strings.Builder
	builder.WriteString(notification.Title)
	if notification.Body != "" {
		builder.WriteString("\n")
		builder.WriteString(notification.Body)
	}
	if notification.Link.URL != "" {
		builder.WriteString("\n")
		builder.WriteString(notification.Link.URL)
	}
	return builder.String()
}
