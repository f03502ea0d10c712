package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NasaVasa/carewatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type engineFixture struct {
	alerts   *memoryAlertRepo
	records  *memoryRecordRepo
	notifier *recordingNotifier
	engine   *AlertEngine
}

func newEngineFixture(opts ...EngineOption) *engineFixture {
	alerts := newMemoryAlertRepo()
	records := newMemoryRecordRepo()
	notifier := &recordingNotifier{}
	engine := NewAlertEngine(
		NewMetricAggregator(records, time.UTC),
		NewRuleEvaluator(domain.DefaultThresholds()),
		alerts,
		notifier,
		zap.NewNop(),
		opts...,
	)
	return &engineFixture{alerts: alerts, records: records, notifier: notifier, engine: engine}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	f := newEngineFixture()
	f.records.add(domain.Record{ID: "r1", UserID: "u1", RecordedAt: at("2026-10-17", 8), Temperature: dec("38.2")})
	ctx := context.Background()

	first, err := f.engine.RecomputeAndNotify(ctx, "u1", "2026-10-17")
	require.NoError(t, err)
	require.Len(t, first.New, 1)
	assert.Equal(t, 1, f.notifier.count())

	second, err := f.engine.RecomputeAndNotify(ctx, "u1", "2026-10-17")
	require.NoError(t, err)
	assert.Empty(t, second.New)
	assert.Empty(t, second.Escalated)
	assert.Len(t, second.Suppressed, 1)
	assert.Equal(t, 1, f.notifier.count())

	require.Len(t, second.Alerts, 1)
	assert.Equal(t, first.Alerts[0].ID, second.Alerts[0].ID)
	assert.Equal(t, first.Alerts[0].Level, second.Alerts[0].Level)
}

func TestRecomputeEscalationNotifiesOnceMore(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	f.records.add(domain.Record{ID: "r1", UserID: "u1", RecordedAt: at("2026-10-17", 8), Temperature: dec("37.6")})
	first, err := f.engine.RecomputeAndNotify(ctx, "u1", "2026-10-17")
	require.NoError(t, err)
	require.Len(t, first.Alerts, 1)
	assert.Equal(t, domain.LevelWarn, first.Alerts[0].Level)
	assert.Equal(t, 1, f.notifier.count())

	f.records.add(domain.Record{ID: "r2", UserID: "u1", RecordedAt: at("2026-10-17", 14), Temperature: dec("38.1")})
	second, err := f.engine.RecomputeAndNotify(ctx, "u1", "2026-10-17")
	require.NoError(t, err)
	require.Len(t, second.Escalated, 1)
	assert.Equal(t, first.Alerts[0].ID, second.Escalated[0].ID)
	assert.Equal(t, domain.LevelCritical, second.Escalated[0].Level)
	assert.Equal(t, 2, f.notifier.count())

	stored, ok := f.alerts.get(first.Alerts[0].ID)
	require.True(t, ok)
	assert.Equal(t, domain.LevelCritical, stored.Level)
}

func TestRecomputeDowngradeNeverNotifies(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	f.records.add(domain.Record{ID: "r1", UserID: "u1", RecordedAt: at("2026-10-17", 8), Temperature: dec("38.4")})
	_, err := f.engine.RecomputeAndNotify(ctx, "u1", "2026-10-17")
	require.NoError(t, err)

	f.records.add(domain.Record{ID: "r1", UserID: "u1", RecordedAt: at("2026-10-17", 8), Temperature: dec("37.7")})
	result, err := f.engine.RecomputeAndNotify(ctx, "u1", "2026-10-17")
	require.NoError(t, err)
	assert.Len(t, result.Suppressed, 1)
	assert.Equal(t, 1, f.notifier.count())

	f.records.add(domain.Record{ID: "r1", UserID: "u1", RecordedAt: at("2026-10-17", 8), Temperature: dec("38.4")})
	result, err = f.engine.RecomputeAndNotify(ctx, "u1", "2026-10-17")
	require.NoError(t, err)
	assert.Len(t, result.Escalated, 1)
	assert.Equal(t, 2, f.notifier.count())
}

func TestRecomputeInfoNeverNotifies(t *testing.T) {
	f := newEngineFixture()
	f.records.add(domain.Record{ID: "r1", UserID: "u1", RecordedAt: at("2026-10-17", 7), SleepHours: dec("4")})

	result, err := f.engine.RecomputeAndNotify(context.Background(), "u1", "2026-10-17")
	require.NoError(t, err)
	require.Len(t, result.New, 1)
	assert.Equal(t, domain.LevelInfo, result.New[0].Level)
	assert.Equal(t, 0, result.Notified)
	assert.Equal(t, 0, f.notifier.count())
}

func TestRecomputeSnapshotPrecedesPersist(t *testing.T) {
	f := newEngineFixture()
	f.records.add(domain.Record{ID: "r1", UserID: "u1", RecordedAt: at("2026-10-17", 8), Seizure: true})

	_, err := f.engine.RecomputeAndNotify(context.Background(), "u1", "2026-10-17")
	require.NoError(t, err)
	assert.Equal(t, []string{"snapshot", "upsert"}, f.alerts.calls)
}

func TestRecomputeOnlyPersistsRequestedDay(t *testing.T) {
	f := newEngineFixture()
	f.records.add(domain.Record{ID: "r1", UserID: "u1", RecordedAt: at("2026-10-16", 8), Temperature: dec("39.0")})
	f.records.add(domain.Record{ID: "r2", UserID: "u1", RecordedAt: at("2026-10-17", 8), Temperature: dec("37.8")})

	result, err := f.engine.RecomputeAndNotify(context.Background(), "u1", "2026-10-17")
	require.NoError(t, err)
	require.Len(t, result.Alerts, 1)
	assert.Equal(t, "2026-10-17", result.Alerts[0].Date)

	_, ok := f.alerts.get(domain.AlertID("u1", "2026-10-16", domain.KindTemperatureHigh))
	assert.False(t, ok)
}

func TestRecomputeReadFailureAbortsWithoutWrites(t *testing.T) {
	f := newEngineFixture()
	f.records.listErr = errors.New("diary offline")

	_, err := f.engine.RecomputeAndNotify(context.Background(), "u1", "2026-10-17")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReadFailed)
	assert.Equal(t, []string{"snapshot"}, f.alerts.calls)
	assert.Equal(t, 0, f.notifier.count())
}

func TestRecomputeSnapshotFailureIsReadFailure(t *testing.T) {
	f := newEngineFixture()
	f.alerts.listErr = errors.New("db down")

	_, err := f.engine.RecomputeAndNotify(context.Background(), "u1", "2026-10-17")
	assert.ErrorIs(t, err, ErrReadFailed)
}

func TestRecomputeWriteFailureSendsNothing(t *testing.T) {
	f := newEngineFixture()
	f.records.add(domain.Record{ID: "r1", UserID: "u1", RecordedAt: at("2026-10-17", 8), Temperature: dec("38.5")})
	f.alerts.upsertErr = errors.New("constraint violation")

	_, err := f.engine.RecomputeAndNotify(context.Background(), "u1", "2026-10-17")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWriteFailed)
	assert.Equal(t, 0, f.notifier.count())

	f.alerts.upsertErr = nil
	result, err := f.engine.RecomputeAndNotify(context.Background(), "u1", "2026-10-17")
	require.NoError(t, err)
	assert.Len(t, result.New, 1)
	assert.Equal(t, 1, f.notifier.count())
}

func TestRecomputeRetractsStaleAlerts(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	f.records.add(domain.Record{ID: "r1", UserID: "u1", RecordedAt: at("2026-10-17", 8), Temperature: dec("38.5")})
	first, err := f.engine.RecomputeAndNotify(ctx, "u1", "2026-10-17")
	require.NoError(t, err)
	require.Len(t, first.Alerts, 1)

	f.records.add(domain.Record{ID: "r1", UserID: "u1", RecordedAt: at("2026-10-17", 8), Temperature: dec("36.9")})
	second, err := f.engine.RecomputeAndNotify(ctx, "u1", "2026-10-17")
	require.NoError(t, err)
	assert.Empty(t, second.Alerts)
	assert.Equal(t, []string{first.Alerts[0].ID}, second.Retracted)

	_, ok := f.alerts.get(first.Alerts[0].ID)
	assert.False(t, ok)
	assert.Equal(t, 1, f.notifier.count())
}

func TestRecomputeKeepsStaleAlertsWhenPruningDisabled(t *testing.T) {
	f := newEngineFixture(WithPruneStale(false))
	ctx := context.Background()
	f.records.add(domain.Record{ID: "r1", UserID: "u1", RecordedAt: at("2026-10-17", 8), Temperature: dec("38.5")})
	first, err := f.engine.RecomputeAndNotify(ctx, "u1", "2026-10-17")
	require.NoError(t, err)

	f.records.add(domain.Record{ID: "r1", UserID: "u1", RecordedAt: at("2026-10-17", 8), Temperature: dec("36.9")})
	second, err := f.engine.RecomputeAndNotify(ctx, "u1", "2026-10-17")
	require.NoError(t, err)
	assert.Empty(t, second.Retracted)

	_, ok := f.alerts.get(first.Alerts[0].ID)
	assert.True(t, ok)
}

func TestRecomputeRejectsInvalidDate(t *testing.T) {
	f := newEngineFixture()

	_, err := f.engine.RecomputeAndNotify(context.Background(), "u1", "17/10/2026")
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Empty(t, f.alerts.calls)
}

func TestRecomputeNotificationCarriesDeepLink(t *testing.T) {
	f := newEngineFixture(WithLinkBase("app://care/alerts/"))
	f.records.add(domain.Record{ID: "r1", UserID: "u1", RecordedAt: at("2026-10-17", 8), Seizure: true})

	_, err := f.engine.RecomputeAndNotify(context.Background(), "u1", "2026-10-17")
	require.NoError(t, err)
	require.Len(t, f.notifier.sent, 1)

	sent := f.notifier.sent[0]
	assert.Equal(t, "u1", sent.UserID)
	assert.Equal(t, "Warning seizure alert", sent.Title)
	assert.Equal(t, "app://care/alerts?date=2026-10-17&id=u1_2026-10-17_seizure", sent.Link.URL)
}

func TestRecomputeStampsCreatedAt(t *testing.T) {
	written := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	f := newEngineFixture(WithClock(func() time.Time { return written }))
	f.records.add(domain.Record{ID: "r1", UserID: "u1", RecordedAt: at("2026-10-17", 8), Temperature: dec("37.9")})

	result, err := f.engine.RecomputeAndNotify(context.Background(), "u1", "2026-10-17")
	require.NoError(t, err)
	require.Len(t, result.Alerts, 1)
	assert.Equal(t, written, result.Alerts[0].CreatedAt)
}

func TestDiffAlerts(t *testing.T) {
	prev := []domain.Alert{
		{ID: "a", Level: domain.LevelWarn},
		{ID: "b", Level: domain.LevelCritical},
		{ID: "c", Level: domain.LevelWarn},
	}
	next := []domain.Alert{
		{ID: "a", Level: domain.LevelCritical},
		{ID: "b", Level: domain.LevelWarn},
		{ID: "d", Level: domain.LevelWarn},
	}

	diff := DiffAlerts(prev, next)

	require.Len(t, diff.New, 1)
	assert.Equal(t, "d", diff.New[0].ID)
	require.Len(t, diff.Escalated, 1)
	assert.Equal(t, "a", diff.Escalated[0].ID)
	require.Len(t, diff.Suppressed, 1)
	assert.Equal(t, "b", diff.Suppressed[0].ID)
	assert.Equal(t, []string{"c"}, diff.Stale)
}
