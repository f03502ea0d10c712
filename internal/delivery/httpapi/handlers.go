package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/NasaVasa/carewatch/internal/domain"
	"github.com/NasaVasa/carewatch/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type recordResponse struct {
	ID            string           `json:"id"`
	UserID        string           `json:"userId"`
	RecordedAt    time.Time        `json:"recordedAt"`
	Temperature   *decimal.Decimal `json:"temperature,omitempty"`
	HeartRate     *decimal.Decimal `json:"heartRate,omitempty"`
	SpO2          *decimal.Decimal `json:"spo2,omitempty"`
	FluidIntakeML *decimal.Decimal `json:"fluidIntakeMl,omitempty"`
	SleepHours    *decimal.Decimal `json:"sleepHours,omitempty"`
	Seizure       bool             `json:"seizure"`
	Note          string           `json:"note,omitempty"`
}

type alertResponse struct {
	ID        string                     `json:"id"`
	UserID    string                     `json:"userId"`
	Date      string                     `json:"date"`
	Type      domain.AlertType           `json:"type"`
	Kind      domain.AlertKind           `json:"kind"`
	Level     domain.Level               `json:"level"`
	Message   string                     `json:"message"`
	Metrics   map[string]decimal.Decimal `json:"metrics,omitempty"`
	CreatedAt time.Time                  `json:"createdAt"`
}

type recomputeResponse struct {
	UserID     string          `json:"userId"`
	Date       string          `json:"date"`
	Alerts     []alertResponse `json:"alerts"`
	New        []string        `json:"new"`
	Escalated  []string        `json:"escalated"`
	Suppressed []string        `json:"suppressed"`
	Retracted  []string        `json:"retracted"`
	Notified   int             `json:"notified"`
}

type recordWriteResponse struct {
	Record    recordResponse     `json:"record"`
	Recompute *recomputeResponse `json:"recompute,omitempty"`
}

func (s *Server) createRecord(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	req, apiErr := decodeRecord(r)
	if apiErr != nil {
		JSONError(w, apiErr)
		return
	}
	record := req.toRecord(userID, "")
	result, err := s.deps.Records.Save(r.Context(), record)
	if err != nil {
		s.fail(w, err, "create record")
		return
	}
	Created(w, recordWriteResponse{Record: toRecordResponse(*record), Recompute: toRecomputeResponse(result)})
}

func (s *Server) updateRecord(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	req, apiErr := decodeRecord(r)
	if apiErr != nil {
		JSONError(w, apiErr)
		return
	}
	record := req.toRecord(userID, chi.URLParam(r, "recordID"))
	result, err := s.deps.Records.Update(r.Context(), record)
	if err != nil {
		s.fail(w, err, "update record")
		return
	}
	OK(w, recordWriteResponse{Record: toRecordResponse(*record), Recompute: toRecomputeResponse(result)})
}

func (s *Server) deleteRecord(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.Records.Delete(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "recordID"))
	if err != nil {
		s.fail(w, err, "delete record")
		return
	}
	OK(w, toRecomputeResponse(result))
}

func (s *Server) listAlerts(w http.ResponseWriter, r *http.Request) {
	query, apiErr := parseAlertsQuery(r.URL.Query().Get)
	if apiErr != nil {
		JSONError(w, apiErr)
		return
	}
	alerts, err := s.deps.Alerts.ListAlerts(r.Context(), chi.URLParam(r, "userID"), query)
	if err != nil {
		s.fail(w, err, "list alerts")
		return
	}
	OK(w, toAlertResponses(alerts))
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		month = s.now().In(s.deps.Location).Format(domain.MonthLayout)
	}
	summary, err := s.deps.Alerts.Summarize(r.Context(), chi.URLParam(r, "userID"), month)
	if err != nil {
		s.fail(w, err, "summarize alerts")
		return
	}
	OK(w, summary)
}

func (s *Server) recompute(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		date = s.now().In(s.deps.Location).Format(domain.DateLayout)
	}
	result, err := s.deps.Engine.RecomputeAndNotify(r.Context(), chi.URLParam(r, "userID"), date)
	if err != nil {
		s.fail(w, err, "recompute")
		return
	}
	OK(w, toRecomputeResponse(result))
}

func (s *Server) listAdvisories(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if value := r.URL.Query().Get("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			JSONError(w, NewBadRequest("limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}
	advisories, err := s.deps.Advisories.List(r.Context(), chi.URLParam(r, "userID"), limit)
	if err != nil {
		s.fail(w, err, "list advisories")
		return
	}
	OK(w, advisories)
}

func (s *Server) linkTelegram(w http.ResponseWriter, r *http.Request) {
	var req telegramLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, NewBadRequest("invalid JSON body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		JSONError(w, NewValidationError(validationMessage(err)))
		return
	}
	user, err := s.deps.Users.LinkTelegram(r.Context(), chi.URLParam(r, "userID"), req.ChatID, false)
	if err != nil {
		s.fail(w, err, "link telegram")
		return
	}
	OK(w, map[string]any{"userId": user.ID, "authorization": user.Authorization})
}

func (s *Server) fail(w http.ResponseWriter, err error, op string) {
	if apiErr := errorFor(err); apiErr != nil {
		if apiErr.Status >= http.StatusInternalServerError {
			s.deps.Logger.Error(op+" failed", zap.Error(err))
		}
		JSONError(w, apiErr)
		return
	}
	s.deps.Logger.Error(op+" failed", zap.Error(err))
	JSONError(w, ErrInternalServer)
}

func decodeRecord(r *http.Request) (recordRequest, *Error) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, NewBadRequest("invalid JSON body")
	}
	if err := validate.Struct(req); err != nil {
		return req, NewValidationError(validationMessage(err))
	}
	return req, nil
}

func toRecordResponse(record domain.Record) recordResponse {
	return recordResponse{
		ID:            record.ID,
		UserID:        record.UserID,
		RecordedAt:    record.RecordedAt,
		Temperature:   record.Temperature,
		HeartRate:     record.HeartRate,
		SpO2:          record.SpO2,
		FluidIntakeML: record.FluidIntakeML,
		SleepHours:    record.SleepHours,
		Seizure:       record.Seizure,
		Note:          record.Note,
	}
}

func toAlertResponses(alerts []domain.Alert) []alertResponse {
	out := make([]alertResponse, 0, len(alerts))
	for _, alert := range alerts {
		out = append(out, alertResponse{
			ID:        alert.ID,
			UserID:    alert.UserID,
			Date:      alert.Date,
			Type:      alert.Type,
			Kind:      alert.Kind,
			Level:     alert.Level,
			Message:   alert.Message,
			Metrics:   alert.Metrics,
			CreatedAt: alert.CreatedAt,
		})
	}
	return out
}

func alertIDs(alerts []domain.Alert) []string {
	ids := make([]string, 0, len(alerts))
	for _, alert := range alerts {
		ids = append(ids, alert.ID)
	}
	return ids
}

func toRecomputeResponse(result *usecase.RecomputeResult) *recomputeResponse {
	if result == nil {
		return nil
	}
	retracted := result.Retracted
	if retracted == nil {
		retracted = []string{}
	}
	return &recomputeResponse{
		UserID:     result.UserID,
		Date:       result.Date,
		Alerts:     toAlertResponses(result.Alerts),
		New:        alertIDs(result.New),
		Escalated:  alertIDs(result.Escalated),
		Suppressed: alertIDs(result.Suppressed),
		Retracted:  retracted,
		Notified:   result.Notified,
	}
}
