package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NasaVasa/carewatch/internal/domain"
)

type MetricAggregator struct {
	source domain.RecordSource
	loc    *time.Location
}

func NewMetricAggregator(source domain.RecordSource, loc *time.Location) *MetricAggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &MetricAggregator{source: source, loc: loc}
}

// ListDayAggregates returns one aggregate per day of month that has at least
// one record, ordered by date.
func (a *MetricAggregator) ListDayAggregates(ctx context.Context, userID, month string) ([]domain.DailyAggregate, error) {
	start, err := time.ParseInLocation(domain.MonthLayout, month, a.loc)
	if err != nil {
		return nil, ErrInvalidMonth
	}
	end := start.AddDate(0, 1, 0)

	records, err := a.source.ListRecords(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: list records for %s: %w", ErrReadFailed, month, err)
	}

	byDate := make(map[string]*domain.DailyAggregate)
	for _, record := range records {
		date := record.RecordedAt.In(a.loc).Format(domain.DateLayout)
		if !strings.HasPrefix(date, month) {
			continue
		}
		agg, ok := byDate[date]
		if !ok {
			agg = &domain.DailyAggregate{Date: date}
			byDate[date] = agg
		}
		agg.Add(record)
	}

	aggregates := make([]domain.DailyAggregate, 0, len(byDate))
	for _, agg := range byDate {
		aggregates = append(aggregates, *agg)
	}
	sort.Slice(aggregates, func(i, j int) bool { return aggregates[i].Date < aggregates[j].Date })
	return aggregates, nil
}

func (a *MetricAggregator) DateOf(t time.Time) string {
	return t.In(a.loc).Format(domain.DateLayout)
}
