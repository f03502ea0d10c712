package usecase

import (
	"context"
	"time"

	"github.com/NasaVasa/carewatch/internal/domain"
	"go.uber.org/zap"
)

// Channel is the platform notification channel. Authorization is queried
// on every delivery and never cached by the dispatcher.
type Channel interface {
	Authorization(ctx context.Context, userID string) (domain.Authorization, error)
	RequestAuthorization(ctx context.Context, userID string) (domain.Authorization, error)
	Send(ctx context.Context, notification domain.Notification) error
}

type AdvisorySink interface {
	Push(ctx context.Context, advisory domain.Advisory) error
}

type DeliveryPath string

const (
	DeliveredByChannel  DeliveryPath = "channel"
	DeliveredByAdvisory DeliveryPath = "advisory"
	DeliveryDropped     DeliveryPath = "dropped"
)

const (
	reasonNoChannel      = "channel_unavailable"
	reasonAuthError      = "authorization_error"
	reasonDenied         = "authorization_denied"
	reasonDeliveryFailed = "delivery_failed"
)

// Dispatcher delivers best effort. Deliver never returns an error so it
// cannot fail the write that triggered it.
type Dispatcher struct {
	channel    Channel
	advisories []AdvisorySink
	now        func() time.Time
	logger     *zap.Logger
}

func NewDispatcher(channel Channel, logger *zap.Logger, advisories ...AdvisorySink) *Dispatcher {
	return &Dispatcher{channel: channel, advisories: advisories, now: time.Now, logger: logger}
}

func (d *Dispatcher) Deliver(ctx context.Context, notification domain.Notification) DeliveryPath {
	if d.channel == nil {
		return d.fallback(ctx, notification, reasonNoChannel, nil)
	}

	authorization, err := d.channel.Authorization(ctx, notification.UserID)
	if err != nil {
		return d.fallback(ctx, notification, reasonAuthError, err)
	}
	if authorization == domain.AuthorizationUndetermined {
		authorization, err = d.channel.RequestAuthorization(ctx, notification.UserID)
		if err != nil {
			return d.fallback(ctx, notification, reasonAuthError, err)
		}
	}
	if authorization != domain.AuthorizationAuthorized {
		return d.fallback(ctx, notification, reasonDenied, nil)
	}

	if err := d.channel.Send(ctx, notification); err != nil {
		return d.fallback(ctx, notification, reasonDeliveryFailed, err)
	}
	d.logger.Info("notification delivered", zap.String("user_id", notification.UserID), zap.String("title", notification.Title))
	return DeliveredByChannel
}

func (d *Dispatcher) fallback(ctx context.Context, notification domain.Notification, reason string, cause error) DeliveryPath {
	fields := []zap.Field{zap.String("user_id", notification.UserID), zap.String("reason", reason)}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	d.logger.Warn("notification channel unavailable, falling back to advisory", fields...)

	advisory := domain.Advisory{
		UserID:    notification.UserID,
		Title:     notification.Title,
		Body:      notification.Body,
		URL:       notification.Link.URL,
		Reason:    reason,
		CreatedAt: d.now(),
	}

	delivered := false
	for _, sink := range d.advisories {
		if err := sink.Push(ctx, advisory); err != nil {
			d.logger.Warn("failed to push advisory", zap.String("user_id", notification.UserID), zap.Error(err))
			continue
		}
		delivered = true
	}
	if !delivered {
		d.logger.Warn("notification dropped", zap.String("user_id", notification.UserID), zap.String("title", notification.Title))
		return DeliveryDropped
	}
	return DeliveredByAdvisory
}
