package db

import (
	"context"
	"errors"
	"time"

	"github.com/NasaVasa/carewatch/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RecordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) ListRecords(ctx context.Context, userID string, from, to time.Time) ([]domain.Record, error) {
	var models []recordModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND recorded_at >= ? AND recorded_at < ?", userID, from, to).
		Order("recorded_at").
		Find(&models).Error; err != nil {
		return nil, err
	}
	records := make([]domain.Record, 0, len(models))
	for _, model := range models {
		records = append(records, mapRecordToDomain(model))
	}
	return records, nil
}

func (r *RecordRepository) Create(ctx context.Context, record *domain.Record) error {
	model := mapRecordToModel(*record)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	record.CreatedAt = model.CreatedAt
	record.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *RecordRepository) Update(ctx context.Context, record *domain.Record) error {
	model := mapRecordToModel(*record)
	result := r.db.WithContext(ctx).
		Model(&recordModel{}).
		Where("id = ? AND user_id = ?", record.ID, record.UserID).
		Select("recorded_at", "temperature", "heart_rate", "sp_o2", "fluid_intake_ml", "sleep_hours", "seizure", "note", "updated_at").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	record.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *RecordRepository) GetByID(ctx context.Context, userID, recordID string) (*domain.Record, error) {
	var model recordModel
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", recordID, userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	record := mapRecordToDomain(model)
	return &record, nil
}

func (r *RecordRepository) Delete(ctx context.Context, userID, recordID string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", recordID, userID).Delete(&recordModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapRecordToDomain(model recordModel) domain.Record {
	return domain.Record{
		ID:            model.ID,
		UserID:        model.UserID,
		RecordedAt:    model.RecordedAt,
		Temperature:   fromNullDecimal(model.Temperature),
		HeartRate:     fromNullDecimal(model.HeartRate),
		SpO2:          fromNullDecimal(model.SpO2),
		FluidIntakeML: fromNullDecimal(model.FluidIntakeML),
		SleepHours:    fromNullDecimal(model.SleepHours),
		Seizure:       model.Seizure,
		Note:          model.Note,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func mapRecordToModel(record domain.Record) recordModel {
	return recordModel{
		ID:            record.ID,
		UserID:        record.UserID,
		RecordedAt:    record.RecordedAt,
		Temperature:   toNullDecimal(record.Temperature),
		HeartRate:     toNullDecimal(record.HeartRate),
		SpO2:          toNullDecimal(record.SpO2),
		FluidIntakeML: toNullDecimal(record.FluidIntakeML),
		SleepHours:    toNullDecimal(record.SleepHours),
		Seizure:       record.Seizure,
		Note:          record.Note,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
}

func fromNullDecimal(value decimal.NullDecimal) *decimal.Decimal {
	if !value.Valid {
		return nil
	}
	d := value.Decimal
	return &d
}

func toNullDecimal(value *decimal.Decimal) decimal.NullDecimal {
	if value == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*value)
}
