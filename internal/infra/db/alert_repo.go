package db

import (
	"context"

	"github.com/NasaVasa/carewatch/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// UpsertMany replaces rows that share an id; it never inserts duplicates.
func (r *AlertRepository) UpsertMany(ctx context.Context, alerts []domain.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	models := make([]alertModel, 0, len(alerts))
	for _, alert := range alerts {
		models = append(models, mapAlertToModel(alert))
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "kind", "level", "message", "metrics", "created_at"}),
		}).
		Create(&models).Error
}

func (r *AlertRepository) DeleteByIDs(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, ids).Delete(&alertModel{}).Error
}

func (r *AlertRepository) ListByUserAndDate(ctx context.Context, userID, date string) ([]domain.Alert, error) {
	var models []alertModel
	if err := r.db.WithContext(ctx).Where("user_id = ? AND alert_date = ?", userID, date).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models), nil
}

func (r *AlertRepository) ListByUserAndMonth(ctx context.Context, userID, month string) ([]domain.Alert, error) {
	var models []alertModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND alert_date LIKE ?", userID, month+"-%").
		Order("alert_date, id").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models), nil
}

func (r *AlertRepository) ListByUserSince(ctx context.Context, userID, since string) ([]domain.Alert, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if since != "" {
		query = query.Where("alert_date >= ?", since)
	}
	var models []alertModel
	if err := query.Order("alert_date DESC, id").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models), nil
}

func mapAlertsToDomain(models []alertModel) []domain.Alert {
	alerts := make([]domain.Alert, 0, len(models))
	for _, model := range models {
		alerts = append(alerts, domain.Alert{
			ID:        model.ID,
			UserID:    model.UserID,
			Date:      model.Date,
			Type:      domain.AlertType(model.Type),
			Kind:      domain.AlertKind(model.Kind),
			Level:     domain.Level(model.Level),
			Message:   model.Message,
			Metrics:   model.Metrics,
			CreatedAt: model.CreatedAt,
		})
	}
	return alerts
}

func mapAlertToModel(alert domain.Alert) alertModel {
	return alertModel{
		ID:        alert.ID,
		UserID:    alert.UserID,
		Date:      alert.Date,
		Type:      string(alert.Type),
		Kind:      string(alert.Kind),
		Level:     string(alert.Level),
		Message:   alert.Message,
		Metrics:   alert.Metrics,
		CreatedAt: alert.CreatedAt,
	}
}
