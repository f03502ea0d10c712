package httpapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/NasaVasa/carewatch/internal/domain"
	"github.com/NasaVasa/carewatch/internal/usecase"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

type recordRequest struct {
	RecordedAt    *time.Time `json:"recordedAt" validate:"required"`
	Temperature   *float64   `json:"temperature" validate:"omitempty,gte=25,lte=45"`
	HeartRate     *float64   `json:"heartRate" validate:"omitempty,gte=0,lte=300"`
	SpO2          *float64   `json:"spo2" validate:"omitempty,gte=0,lte=100"`
	FluidIntakeML *float64   `json:"fluidIntakeMl" validate:"omitempty,gte=0,lte=20000"`
	SleepHours    *float64   `json:"sleepHours" validate:"omitempty,gte=0,lte=24"`
	Seizure       bool       `json:"seizure"`
	Note          string     `json:"note" validate:"max=2000"`
}

func (r recordRequest) toRecord(userID, recordID string) *domain.Record {
	return &domain.Record{
		ID:            recordID,
		UserID:        userID,
		RecordedAt:    *r.RecordedAt,
		Temperature:   decimalPtr(r.Temperature),
		HeartRate:     decimalPtr(r.HeartRate),
		SpO2:          decimalPtr(r.SpO2),
		FluidIntakeML: decimalPtr(r.FluidIntakeML),
		SleepHours:    decimalPtr(r.SleepHours),
		Seizure:       r.Seizure,
		Note:          strings.TrimSpace(r.Note),
	}
}

type telegramLinkRequest struct {
	ChatID int64 `json:"chatId" validate:"required,ne=0"`
}

func decimalPtr(value *float64) *decimal.Decimal {
	if value == nil {
		return nil
	}
	d := decimal.NewFromFloat(*value)
	return &d
}

func validationMessage(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		first := errs[0]
		return fmt.Sprintf("field %s failed %s", first.Field(), first.Tag())
	}
	return err.Error()
}

func parseAlertsQuery(get func(string) string) (usecase.ListAlertsQuery, *Error) {
	query := usecase.ListAlertsQuery{
		Since:  strings.TrimSpace(get("since")),
		SortBy: usecase.SortBy(strings.TrimSpace(get("sort"))),
	}
	if value := strings.TrimSpace(get("type")); value != "" {
		alertType, ok := domain.ParseAlertType(value)
		if !ok {
			return query, NewBadRequest("unknown alert type: " + value)
		}
		query.Type = &alertType
	}
	if value := strings.TrimSpace(get("level")); value != "" {
		level, ok := domain.ParseLevel(value)
		if !ok {
			return query, NewBadRequest("unknown alert level: " + value)
		}
		query.Level = &level
	}
	return query, nil
}
