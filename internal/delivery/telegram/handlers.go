package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NasaVasa/carewatch/internal/domain"
	"github.com/NasaVasa/carewatch/internal/usecase"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const maxMessageLen = 3800

type Handlers struct {
	userUC  *usecase.UserUsecase
	alertUC *usecase.AlertUsecase
	loc     *time.Location
	now     func() time.Time
	logger  *zap.Logger
}

func NewHandlers(userUC *usecase.UserUsecase, alertUC *usecase.AlertUsecase, loc *time.Location, logger *zap.Logger) *Handlers {
	if loc == nil {
		loc = time.UTC
	}
	return &Handlers{userUC: userUC, alertUC: alertUC, loc: loc, now: time.Now, logger: logger}
}

func (h *Handlers) HandleUpdate(ctx context.Context, api Sender, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	if update.Message.From == nil || update.Message.Chat == nil {
		return
	}
	if update.Message.IsCommand() {
		h.handleCommand(ctx, api, update)
		return
	}
}

func (h *Handlers) handleCommand(ctx context.Context, api Sender, update tgbotapi.Update) {
	command := update.Message.Command()
	args := update.Message.CommandArguments()
	chatID := update.Message.Chat.ID

	h.logger.Info(
		"telegram command received",
		zap.Int64("chat_id", chatID),
		zap.Int64("telegram_user_id", update.Message.From.ID),
		zap.String("command", command),
		zap.String("args", args),
	)

	switch command {
	case "start":
		h.handleStart(ctx, api, chatID, args)
	case "help":
		h.reply(api, chatID, HelpText)
	case "mute", "unmute":
		muted := command == "mute"
		user, err := h.userUC.SetMuted(ctx, chatID, muted)
		if err != nil {
			h.logger.Warn("mute command failed", zap.Int64("chat_id", chatID), zap.Bool("muted", muted), zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.logger.Info("mute command complete", zap.String("user_id", user.ID), zap.Bool("muted", muted))
		if muted {
			h.reply(api, chatID, "Alert messages muted. Alerts still appear in the app.")
			return
		}
		h.reply(api, chatID, "Alert messages resumed.")
	case "alerts":
		since, err := ParseSince(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /alerts [YYYY-MM-DD]")
			return
		}
		user, err := h.userUC.GetByChat(ctx, chatID)
		if err != nil {
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		alerts, err := h.alertUC.ListAlerts(ctx, user.ID, usecase.ListAlertsQuery{Since: since})
		if err != nil {
			h.logger.Warn("alerts list failed", zap.String("user_id", user.ID), zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		if len(alerts) == 0 {
			h.reply(api, chatID, "No alerts.")
			return
		}
		h.logger.Info("alerts list complete", zap.String("user_id", user.ID), zap.Int("count", len(alerts)))
		h.reply(api, chatID, formatAlertList(alerts))
	case "summary":
		month, err := ParseMonth(args, h.now().In(h.loc))
		if err != nil {
			h.reply(api, chatID, "Usage: /summary [YYYY-MM]")
			return
		}
		user, err := h.userUC.GetByChat(ctx, chatID)
		if err != nil {
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		summary, err := h.alertUC.Summarize(ctx, user.ID, month)
		if err != nil {
			h.logger.Warn("summary failed", zap.String("user_id", user.ID), zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.reply(api, chatID, formatSummary(summary))
	default:
		h.logger.Warn("unknown command", zap.Int64("chat_id", chatID), zap.String("command", command))
		h.reply(api, chatID, "Unknown command.\n\n"+HelpText)
	}
}

func (h *Handlers) handleStart(ctx context.Context, api Sender, chatID int64, args string) {
	if strings.TrimSpace(args) == "" {
		user, err := h.userUC.GetByChat(ctx, chatID)
		if err != nil {
			h.reply(api, chatID, "Usage: /start <user_id>\n\n"+HelpText)
			return
		}
		h.reply(api, chatID, fmt.Sprintf("This chat is linked to %s.\n\n%s", user.ID, HelpText))
		return
	}
	userID, err := ParseUserID(args)
	if err != nil {
		h.reply(api, chatID, "Usage: /start <user_id>")
		return
	}
	user, err := h.userUC.LinkTelegram(ctx, userID, chatID, true)
	if err != nil {
		h.logger.Warn("start command failed", zap.Int64("chat_id", chatID), zap.Error(err))
		h.reply(api, chatID, h.errorMessage(err))
		return
	}
	h.logger.Info("start command complete", zap.String("user_id", user.ID), zap.Int64("chat_id", chatID))
	h.reply(api, chatID, "Welcome to Carewatch. Alerts for this profile will be sent here.\n\n"+HelpText)
}

func (h *Handlers) errorMessage(err error) string {
	switch {
	case errors.Is(err, usecase.ErrUserNotRegistered):
		return "This chat is not linked. Use /start <user_id> first."
	case errors.Is(err, usecase.ErrInvalidDate):
		return "Invalid date. Use YYYY-MM-DD."
	case errors.Is(err, usecase.ErrInvalidMonth):
		return "Invalid month. Use YYYY-MM."
	case errors.Is(err, usecase.ErrInvalidFilter):
		return "Invalid filter."
	}

	h.logger.Warn("unhandled error", zap.Error(err))
	return "Something went wrong. Please try again."
}

func formatAlertList(alerts []domain.Alert) string {
	var builder strings.Builder
	builder.WriteString("Your alerts:\n")
	for i, alert := range alerts {
		line := fmt.Sprintf("%s [%s] %s: %s\n", alert.Date, strings.ToUpper(string(alert.Level)), alert.Type, alert.Message)
		if builder.Len()+len(line) > maxMessageLen {
			builder.WriteString(fmt.Sprintf("...and %d more", len(alerts)-i))
			break
		}
		builder.WriteString(line)
	}
	return builder.String()
}

func formatSummary(summary domain.AlertSummary) string {
	return fmt.Sprintf(
		"Summary for %s\nWarning days: %d\nCritical days: %d\nFever days: %d\nHypothermia days: %d\nSeizure days: %d\nLow hydration days: %d",
		summary.Month,
		summary.WarnDays,
		summary.CriticalDays,
		summary.FeverDays,
		summary.HypothermiaDays,
		summary.SeizureDays,
		summary.HydrationLowDays,
	)
}

func (h *Handlers) reply(api Sender, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to send message", zap.Error(err))
	}
}
