package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/NasaVasa/carewatch/internal/domain"
	"github.com/shopspring/decimal"
)

type memoryAlertRepo struct {
	mu        sync.Mutex
	rows      map[string]domain.Alert
	calls     []string
	upsertErr error
	listErr   error
	deleteErr error
}

func newMemoryAlertRepo() *memoryAlertRepo {
	return &memoryAlertRepo{rows: make(map[string]domain.Alert)}
}

func (r *memoryAlertRepo) UpsertMany(ctx context.Context, alerts []domain.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "upsert")
	if r.upsertErr != nil {
		return r.upsertErr
	}
	for _, alert := range alerts {
		r.rows[alert.ID] = alert
	}
	return nil
}

func (r *memoryAlertRepo) DeleteByIDs(ctx context.Context, userID string, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "delete")
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for _, id := range ids {
		if row, ok := r.rows[id]; ok && row.UserID == userID {
			delete(r.rows, id)
		}
	}
	return nil
}

func (r *memoryAlertRepo) ListByUserAndDate(ctx context.Context, userID, date string) ([]domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "snapshot")
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.filter(func(a domain.Alert) bool { return a.UserID == userID && a.Date == date }), nil
}

func (r *memoryAlertRepo) ListByUserAndMonth(ctx context.Context, userID, month string) ([]domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.filter(func(a domain.Alert) bool { return a.UserID == userID && strings.HasPrefix(a.Date, month+"-") }), nil
}

func (r *memoryAlertRepo) ListByUserSince(ctx context.Context, userID, since string) ([]domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.filter(func(a domain.Alert) bool { return a.UserID == userID && a.Date >= since }), nil
}

func (r *memoryAlertRepo) filter(keep func(domain.Alert) bool) []domain.Alert {
	var out []domain.Alert
	for _, alert := range r.rows {
		if keep(alert) {
			out = append(out, alert)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memoryAlertRepo) get(id string) (domain.Alert, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	alert, ok := r.rows[id]
	return alert, ok
}

type memoryRecordRepo struct {
	mu      sync.Mutex
	records map[string]domain.Record
	listErr error
}

func newMemoryRecordRepo() *memoryRecordRepo {
	return &memoryRecordRepo{records: make(map[string]domain.Record)}
}

func (r *memoryRecordRepo) ListRecords(ctx context.Context, userID string, from, to time.Time) ([]domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []domain.Record
	for _, record := range r.records {
		if record.UserID != userID || record.RecordedAt.Before(from) || !record.RecordedAt.Before(to) {
			continue
		}
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

func (r *memoryRecordRepo) Create(ctx context.Context, record *domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = *record
	return nil
}

func (r *memoryRecordRepo) Update(ctx context.Context, record *domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.ID]; !ok {
		return domain.ErrNotFound
	}
	r.records[record.ID] = *record
	return nil
}

func (r *memoryRecordRepo) GetByID(ctx context.Context, userID, recordID string) (*domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[recordID]
	if !ok || record.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

func (r *memoryRecordRepo) Delete(ctx context.Context, userID, recordID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[recordID]
	if !ok || record.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.records, recordID)
	return nil
}

func (r *memoryRecordRepo) add(record domain.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = record
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (n *recordingNotifier) Deliver(ctx context.Context, notification domain.Notification) DeliveryPath {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
	return DeliveredByChannel
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type fakeChannel struct {
	authorization domain.Authorization
	authErr       error
	requestResult domain.Authorization
	requestErr    error
	sendErr       error
	requests      int
	sent          []domain.Notification
}

func (c *fakeChannel) Authorization(ctx context.Context, userID string) (domain.Authorization, error) {
	return c.authorization, c.authErr
}

func (c *fakeChannel) RequestAuthorization(ctx context.Context, userID string) (domain.Authorization, error) {
	c.requests++
	return c.requestResult, c.requestErr
}

func (c *fakeChannel) Send(ctx context.Context, notification domain.Notification) error {
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, notification)
	return nil
}

type fakeSink struct {
	err        error
	advisories []domain.Advisory
}

func (s *fakeSink) Push(ctx context.Context, advisory domain.Advisory) error {
	if s.err != nil {
		return s.err
	}
	s.advisories = append(s.advisories, advisory)
	return nil
}

func dec(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func at(date string, hour int) time.Time {
	day, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return day.Add(time.Duration(hour) * time.Hour)
}

type recordingRecomputer struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (r *recordingRecomputer) RecomputeAndNotify(ctx context.Context, userID, date string) (*RecomputeResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, userID+"@"+date)
	if r.fail[userID] {
		return nil, errors.New("source down")
	}
	return &RecomputeResult{UserID: userID, Date: date}, nil
}
