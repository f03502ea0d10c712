package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/NasaVasa/carewatch/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Recomputer interface {
	RecomputeAndNotify(ctx context.Context, userID, date string) (*RecomputeResult, error)
}

// RecordUsecase is the record-write path. Every successful write triggers
// a recompute for each affected day.
type RecordUsecase struct {
	records domain.RecordRepository
	engine  Recomputer
	loc     *time.Location
	logger  *zap.Logger
	newID   func() string
}

func NewRecordUsecase(records domain.RecordRepository, engine Recomputer, loc *time.Location, logger *zap.Logger) *RecordUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &RecordUsecase{
		records: records,
		engine:  engine,
		loc:     loc,
		logger:  logger,
		newID:   func() string { return uuid.NewString() },
	}
}

func (u *RecordUsecase) Save(ctx context.Context, record *domain.Record) (*RecomputeResult, error) {
	if err := validateRecord(record); err != nil {
		return nil, err
	}
	if record.ID == "" {
		record.ID = u.newID()
	}
	if err := u.records.Create(ctx, record); err != nil {
		return nil, err
	}
	u.logger.Info("record saved", zap.String("user_id", record.UserID), zap.String("record_id", record.ID))
	return u.engine.RecomputeAndNotify(ctx, record.UserID, u.dateOf(record.RecordedAt))
}

// Update recomputes the new day and, when the record moved, the old day too.
func (u *RecordUsecase) Update(ctx context.Context, record *domain.Record) (*RecomputeResult, error) {
	if err := validateRecord(record); err != nil {
		return nil, err
	}
	existing, err := u.records.GetByID(ctx, record.UserID, record.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	if err := u.records.Update(ctx, record); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	u.logger.Info("record updated", zap.String("user_id", record.UserID), zap.String("record_id", record.ID))

	oldDate := u.dateOf(existing.RecordedAt)
	newDate := u.dateOf(record.RecordedAt)
	if oldDate != newDate {
		if _, err := u.engine.RecomputeAndNotify(ctx, record.UserID, oldDate); err != nil {
			return nil, err
		}
	}
	return u.engine.RecomputeAndNotify(ctx, record.UserID, newDate)
}

func (u *RecordUsecase) Delete(ctx context.Context, userID, recordID string) (*RecomputeResult, error) {
	existing, err := u.records.GetByID(ctx, userID, recordID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	if err := u.records.Delete(ctx, userID, recordID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	u.logger.Info("record deleted", zap.String("user_id", userID), zap.String("record_id", recordID))
	return u.engine.RecomputeAndNotify(ctx, userID, u.dateOf(existing.RecordedAt))
}

func (u *RecordUsecase) dateOf(t time.Time) string {
	return t.In(u.loc).Format(domain.DateLayout)
}

func validateRecord(record *domain.Record) error {
	if record == nil || strings.TrimSpace(record.UserID) == "" || record.RecordedAt.IsZero() {
		return ErrInvalidRecord
	}
	if !record.HasObservation() {
		return ErrInvalidRecord
	}
	return nil
}
