package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/NasaVasa/carewatch/internal/domain"
)

type SortBy string

const (
	SortByLevel     SortBy = "level"
	SortByCreatedAt SortBy = "createdAt"
)

type ListAlertsQuery struct {
	Since  string
	Type   *domain.AlertType
	Level  *domain.Level
	SortBy SortBy
}

type AlertUsecase struct {
	alerts domain.AlertRepository
}

func NewAlertUsecase(alerts domain.AlertRepository) *AlertUsecase {
	return &AlertUsecase{alerts: alerts}
}

func (u *AlertUsecase) ListAlerts(ctx context.Context, userID string, query ListAlertsQuery) ([]domain.Alert, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserNotRegistered
	}
	if query.Since != "" {
		if _, err := time.Parse(domain.DateLayout, query.Since); err != nil {
			return nil, ErrInvalidDate
		}
	}
	switch query.SortBy {
	case "":
		query.SortBy = SortByLevel
	case SortByLevel, SortByCreatedAt:
	default:
		return nil, ErrInvalidFilter
	}

	alerts, err := u.alerts.ListByUserSince(ctx, userID, query.Since)
	if err != nil {
		return nil, err
	}
	return FilterAndSortAlerts(alerts, query), nil
}

func FilterAndSortAlerts(alerts []domain.Alert, query ListAlertsQuery) []domain.Alert {
	filtered := make([]domain.Alert, 0, len(alerts))
	for _, alert := range alerts {
		if query.Since != "" && alert.Date < query.Since {
			continue
		}
		if query.Type != nil && alert.Type != *query.Type {
			continue
		}
		if query.Level != nil && alert.Level != *query.Level {
			continue
		}
		filtered = append(filtered, alert)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if query.SortBy == SortByCreatedAt {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		} else if a.Level.Rank() != b.Level.Rank() {
			return a.Level.Rank() > b.Level.Rank()
		}
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		return a.ID < b.ID
	})
	return filtered
}

func (u *AlertUsecase) Summarize(ctx context.Context, userID, month string) (domain.AlertSummary, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.AlertSummary{}, ErrUserNotRegistered
	}
	if _, err := time.Parse(domain.MonthLayout, month); err != nil {
		return domain.AlertSummary{}, ErrInvalidMonth
	}
	alerts, err := u.alerts.ListByUserAndMonth(ctx, userID, month)
	if err != nil {
		return domain.AlertSummary{}, err
	}
	summary := SummarizeAlerts(alerts)
	summary.Month = month
	return summary, nil
}

// SummarizeAlerts counts distinct days per category, not alert rows.
func SummarizeAlerts(alerts []domain.Alert) domain.AlertSummary {
	warnDays := make(map[string]struct{})
	criticalDays := make(map[string]struct{})
	feverDays := make(map[string]struct{})
	hypothermiaDays := make(map[string]struct{})
	seizureDays := make(map[string]struct{})
	hydrationDays := make(map[string]struct{})

	for _, alert := range alerts {
		switch alert.Level {
		case domain.LevelWarn:
			warnDays[alert.Date] = struct{}{}
		case domain.LevelCritical:
			criticalDays[alert.Date] = struct{}{}
		}
		switch alert.Kind {
		case domain.KindTemperatureHigh:
			feverDays[alert.Date] = struct{}{}
		case domain.KindTemperatureLow:
			hypothermiaDays[alert.Date] = struct{}{}
		case domain.KindHydrationLow:
			hydrationDays[alert.Date] = struct{}{}
		}
		if alert.Type == domain.AlertTypeSeizure {
			seizureDays[alert.Date] = struct{}{}
		}
	}

	return domain.AlertSummary{
		WarnDays:         len(warnDays),
		CriticalDays:     len(criticalDays),
		FeverDays:        len(feverDays),
		HypothermiaDays:  len(hypothermiaDays),
		SeizureDays:      len(seizureDays),
		HydrationLowDays: len(hydrationDays),
	}
}
