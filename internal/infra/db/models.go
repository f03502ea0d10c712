package db

import (
	"time"

	"github.com/shopspring/decimal"
)

type userModel struct {
	ID             string `gorm:"primaryKey;size:64"`
	TelegramChatID *int64 `gorm:"uniqueIndex"`
	Authorization  string `gorm:"column:auth_state;size:16;not null;default:undetermined"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (userModel) TableName() string {
	return "care_users"
}

type recordModel struct {
	ID            string              `gorm:"primaryKey;size:36"`
	UserID        string              `gorm:"size:64;index:idx_care_records_user_recorded,priority:1;not null"`
	RecordedAt    time.Time           `gorm:"index:idx_care_records_user_recorded,priority:2;not null"`
	Temperature   decimal.NullDecimal `gorm:"type:numeric(4,1)"`
	HeartRate     decimal.NullDecimal `gorm:"type:numeric(5,1)"`
	SpO2          decimal.NullDecimal `gorm:"column:sp_o2;type:numeric(4,1)"`
	FluidIntakeML decimal.NullDecimal `gorm:"column:fluid_intake_ml;type:numeric(7,1)"`
	SleepHours    decimal.NullDecimal `gorm:"type:numeric(4,2)"`
	Seizure       bool                `gorm:"not null;default:false"`
	Note          string              `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (recordModel) TableName() string {
	return "care_records"
}

type alertModel struct {
	ID        string                     `gorm:"primaryKey;size:191"`
	UserID    string                     `gorm:"size:64;index:idx_health_alerts_user_date,priority:1;not null"`
	Date      string                     `gorm:"column:alert_date;size:10;index:idx_health_alerts_user_date,priority:2;not null"`
	Type      string                     `gorm:"size:16;not null"`
	Kind      string                     `gorm:"size:32;not null"`
	Level     string                     `gorm:"size:16;not null"`
	Message   string                     `gorm:"type:text;not null"`
	Metrics   map[string]decimal.Decimal `gorm:"serializer:json"`
	CreatedAt time.Time
}

func (alertModel) TableName() string {
	return "health_alerts"
}
