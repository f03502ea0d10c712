package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/NasaVasa/carewatch/internal/domain"
	"go.uber.org/zap"
)

type Notifier interface {
	Deliver(ctx context.Context, notification domain.Notification) DeliveryPath
}

// EngineMetrics receives recompute outcomes; infra/metrics exports them.
type EngineMetrics interface {
	ObserveRecompute(result string, duration time.Duration)
	CountAlerts(outcome string, n int)
	CountDelivery(path DeliveryPath)
}

type nopMetrics struct{}

func (nopMetrics) ObserveRecompute(string, time.Duration) {}
func (nopMetrics) CountAlerts(string, int)                {}
func (nopMetrics) CountDelivery(DeliveryPath)             {}

type EngineOption func(*AlertEngine)

func WithPruneStale(prune bool) EngineOption {
	return func(e *AlertEngine) { e.pruneStale = prune }
}

func WithEngineMetrics(metrics EngineMetrics) EngineOption {
	return func(e *AlertEngine) { e.metrics = metrics }
}

func WithLinkBase(base string) EngineOption {
	return func(e *AlertEngine) { e.linkBase = strings.TrimRight(base, "/") }
}

func WithClock(now func() time.Time) EngineOption {
	return func(e *AlertEngine) { e.now = now }
}

// AlertEngine runs the Snapshot, Recompute, Persist, Diff, Dispatch cycle
// for one user and day.
type AlertEngine struct {
	aggregator *MetricAggregator
	evaluator  *RuleEvaluator
	alerts     domain.AlertRepository
	notifier   Notifier
	metrics    EngineMetrics
	pruneStale bool
	linkBase   string
	now        func() time.Time
	logger     *zap.Logger
}

func NewAlertEngine(aggregator *MetricAggregator, evaluator *RuleEvaluator, alerts domain.AlertRepository, notifier Notifier, logger *zap.Logger, opts ...EngineOption) *AlertEngine {
	engine := &AlertEngine{
		aggregator: aggregator,
		evaluator:  evaluator,
		alerts:     alerts,
		notifier:   notifier,
		metrics:    nopMetrics{},
		pruneStale: true,
		linkBase:   "carewatch://alerts",
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

type RecomputeResult struct {
	UserID     string
	Date       string
	Alerts     []domain.Alert
	New        []domain.Alert
	Escalated  []domain.Alert
	Suppressed []domain.Alert
	Retracted  []string
	Notified   int
}

// AlertDiff classifies the next alert set of a day against the previous one.
type AlertDiff struct {
	New        []domain.Alert
	Escalated  []domain.Alert
	Suppressed []domain.Alert
	Stale      []string
}

func DiffAlerts(prev, next []domain.Alert) AlertDiff {
	prevByID := make(map[string]domain.Alert, len(prev))
	for _, alert := range prev {
		prevByID[alert.ID] = alert
	}

	var diff AlertDiff
	nextIDs := make(map[string]struct{}, len(next))
	for _, alert := range next {
		nextIDs[alert.ID] = struct{}{}
		old, ok := prevByID[alert.ID]
		switch {
		case !ok:
			diff.New = append(diff.New, alert)
		case alert.Level.Above(old.Level):
			diff.Escalated = append(diff.Escalated, alert)
		default:
			diff.Suppressed = append(diff.Suppressed, alert)
		}
	}
	for _, alert := range prev {
		if _, ok := nextIDs[alert.ID]; !ok {
			diff.Stale = append(diff.Stale, alert.ID)
		}
	}
	return diff
}

// Notifiable reports whether an alert level may reach the user; info never does.
func Notifiable(level domain.Level) bool {
	return level == domain.LevelWarn || level == domain.LevelCritical
}

// RecomputeAndNotify is the single entry point called after every record
// write affecting date for userID.
func (e *AlertEngine) RecomputeAndNotify(ctx context.Context, userID, date string) (*RecomputeResult, error) {
	start := time.Now()
	result, err := e.recompute(ctx, userID, date)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	e.metrics.ObserveRecompute(outcome, time.Since(start))
	return result, err
}

func (e *AlertEngine) recompute(ctx context.Context, userID, date string) (*RecomputeResult, error) {
	day, err := time.Parse(domain.DateLayout, date)
	if err != nil || strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidDate
	}

	// Snapshot must be held in memory before Persist overwrites the rows.
	prev, err := e.alerts.ListByUserAndDate(ctx, userID, date)
	if err != nil {
		e.logger.Error("alert snapshot failed", zap.String("user_id", userID), zap.String("date", date), zap.Error(err))
		return nil, fmt.Errorf("%w: snapshot alerts: %w", ErrReadFailed, err)
	}

	aggregates, err := e.aggregator.ListDayAggregates(ctx, userID, day.Format(domain.MonthLayout))
	if err != nil {
		e.logger.Error("aggregate read failed", zap.String("user_id", userID), zap.String("date", date), zap.Error(err))
		return nil, err
	}

	var next []domain.Alert
	for _, agg := range aggregates {
		if agg.Date == date {
			next = e.evaluator.Evaluate(userID, agg)
			break
		}
	}

	writtenAt := e.now()
	for i := range next {
		next[i].CreatedAt = writtenAt
	}

	if len(next) > 0 {
		if err := e.alerts.UpsertMany(ctx, next); err != nil {
			e.logger.Error("alert upsert failed", zap.String("user_id", userID), zap.String("date", date), zap.Error(err))
			return nil, fmt.Errorf("%w: upsert alerts: %w", ErrWriteFailed, err)
		}
	}

	diff := DiffAlerts(prev, next)

	var retracted []string
	if e.pruneStale && len(diff.Stale) > 0 {
		if err := e.alerts.DeleteByIDs(ctx, userID, diff.Stale); err != nil {
			e.logger.Error("stale alert retraction failed", zap.String("user_id", userID), zap.String("date", date), zap.Error(err))
			return nil, fmt.Errorf("%w: retract alerts: %w", ErrWriteFailed, err)
		}
		retracted = diff.Stale
	}

	result := &RecomputeResult{
		UserID:     userID,
		Date:       date,
		Alerts:     next,
		New:        diff.New,
		Escalated:  diff.Escalated,
		Suppressed: diff.Suppressed,
		Retracted:  retracted,
	}

	for _, alert := range append(append([]domain.Alert{}, diff.New...), diff.Escalated...) {
		if !Notifiable(alert.Level) {
			continue
		}
		path := e.notifier.Deliver(ctx, e.notificationFor(alert))
		e.metrics.CountDelivery(path)
		result.Notified++
	}

	e.metrics.CountAlerts("new", len(diff.New))
	e.metrics.CountAlerts("escalated", len(diff.Escalated))
	e.metrics.CountAlerts("suppressed", len(diff.Suppressed))
	e.metrics.CountAlerts("retracted", len(retracted))

	e.logger.Info(
		"recompute complete",
		zap.String("user_id", userID),
		zap.String("date", date),
		zap.Int("alerts", len(next)),
		zap.Int("new", len(diff.New)),
		zap.Int("escalated", len(diff.Escalated)),
		zap.Int("suppressed", len(diff.Suppressed)),
		zap.Int("retracted", len(retracted)),
		zap.Int("notified", result.Notified),
	)
	return result, nil
}

func (e *AlertEngine) notificationFor(alert domain.Alert) domain.Notification {
	title := fmt.Sprintf("%s %s alert", levelTitle(alert.Level), alert.Type)
	query := url.Values{}
	query.Set("date", alert.Date)
	query.Set("id", alert.ID)
	return domain.Notification{
		UserID: alert.UserID,
		Title:  title,
		Body:   alert.Message,
		Link:   domain.Link{URL: e.linkBase + "?" + query.Encode()},
	}
}

func levelTitle(level domain.Level) string {
	switch level {
	case domain.LevelCritical:
		return "Critical"
	case domain.LevelWarn:
		return "Warning"
	default:
		return "Info"
	}
}
