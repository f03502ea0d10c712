package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrSourceUnavailable = errors.New("record source unavailable")
)

type AlertRepository interface {
	UpsertMany(ctx context.Context, alerts []Alert) error
	DeleteByIDs(ctx context.Context, userID string, ids []string) error
	ListByUserAndDate(ctx context.Context, userID, date string) ([]Alert, error)
	ListByUserAndMonth(ctx context.Context, userID, month string) ([]Alert, error)
	// ListByUserSince returns every alert dated on or after since; an empty since lists all.
	ListByUserSince(ctx context.Context, userID, since string) ([]Alert, error)
}

// RecordSource lists raw records recorded in [from, to).
type RecordSource interface {
	ListRecords(ctx context.Context, userID string, from, to time.Time) ([]Record, error)
}

type RecordRepository interface {
	RecordSource
	Create(ctx context.Context, record *Record) error
	Update(ctx context.Context, record *Record) error
	GetByID(ctx context.Context, userID, recordID string) (*Record, error)
	Delete(ctx context.Context, userID, recordID string) error
}

type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*User, error)
	GetByTelegramChatID(ctx context.Context, chatID int64) (*User, error)
	Save(ctx context.Context, user *User) error
	SetAuthorization(ctx context.Context, userID string, authorization Authorization) error
}
