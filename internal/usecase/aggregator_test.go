package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NasaVasa/carewatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDayAggregatesGroupsByDay(t *testing.T) {
	records := newMemoryRecordRepo()
	records.add(domain.Record{ID: "r1", UserID: "u1", RecordedAt: at("2026-10-03", 8), Temperature: dec("37.2")})
	records.add(domain.Record{ID: "r2", UserID: "u1", RecordedAt: at("2026-10-03", 20), Temperature: dec("38.1"), Seizure: true})
	records.add(domain.Record{ID: "r3", UserID: "u1", RecordedAt: at("2026-10-03", 21), Seizure: true})
	records.add(domain.Record{ID: "r4", UserID: "u1", RecordedAt: at("2026-10-09", 9), HeartRate: dec("88")})
	records.add(domain.Record{ID: "r5", UserID: "u1", RecordedAt: at("2026-11-01", 9), Temperature: dec("39")})
	records.add(domain.Record{ID: "r6", UserID: "u2", RecordedAt: at("2026-10-03", 9), Temperature: dec("39")})

	aggregator := NewMetricAggregator(records, time.UTC)
	aggregates, err := aggregator.ListDayAggregates(context.Background(), "u1", "2026-10")
	require.NoError(t, err)
	require.Len(t, aggregates, 2)

	first := aggregates[0]
	assert.Equal(t, "2026-10-03", first.Date)
	assert.Len(t, first.Temperatures, 2)
	assert.Equal(t, 2, first.Seizures)
	assert.Empty(t, first.HeartRates)

	second := aggregates[1]
	assert.Equal(t, "2026-10-09", second.Date)
	assert.Empty(t, second.Temperatures)
	assert.Equal(t, 0, second.Seizures)
	assert.Len(t, second.HeartRates, 1)
}

func TestListDayAggregatesUsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	records := newMemoryRecordRepo()
	records.add(domain.Record{ID: "r1", UserID: "u1", RecordedAt: time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC), Temperature: dec("37.9")})

	aggregates, err := NewMetricAggregator(records, loc).ListDayAggregates(context.Background(), "u1", "2026-10")
	require.NoError(t, err)
	require.Len(t, aggregates, 1)
	assert.Equal(t, "2026-10-17", aggregates[0].Date)
}

func TestListDayAggregatesReadFailure(t *testing.T) {
	records := newMemoryRecordRepo()
	records.listErr = errors.New("connection refused")

	_, err := NewMetricAggregator(records, time.UTC).ListDayAggregates(context.Background(), "u1", "2026-10")
	assert.ErrorIs(t, err, ErrReadFailed)
}

func TestListDayAggregatesInvalidMonth(t *testing.T) {
	_, err := NewMetricAggregator(newMemoryRecordRepo(), time.UTC).ListDayAggregates(context.Background(), "u1", "October")
	assert.ErrorIs(t, err, ErrInvalidMonth)
}
