package diary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NasaVasa/carewatch/internal/domain"
	"go.uber.org/zap"
)

// Client reads raw records from the diary service over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) ListRecords(ctx context.Context, userID string, from, to time.Time) ([]domain.Record, error) {
	query := url.Values{}
	query.Set("from", from.UTC().Format(time.RFC3339))
	query.Set("to", to.UTC().Format(time.RFC3339))
	endpoint := fmt.Sprintf("%s/users/%s/records?%s", c.baseURL, url.PathEscape(userID), query.Encode())

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	request.Header.Set("Accept", "application/json")

	start := time.Now()
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Error("diary request failed", zap.String("user_id", userID), zap.String("url", endpoint), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	defer response.Body.Close()

	c.logger.Debug(
		"diary request complete",
		zap.String("user_id", userID),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode == http.StatusNotFound {
		return []domain.Record{}, nil
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: diary status %d", domain.ErrSourceUnavailable, response.StatusCode)
	}

	var payload recordsResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode records: %w", domain.ErrSourceUnavailable, err)
	}

	records := make([]domain.Record, 0, len(payload.Records))
	for _, item := range payload.Records {
		if item.RecordedAt.Before(from) || !item.RecordedAt.Before(to) {
			continue
		}
		recordUserID := item.UserID
		if recordUserID == "" {
			recordUserID = userID
		}
		records = append(records, domain.Record{
			ID:            item.ID,
			UserID:        recordUserID,
			RecordedAt:    item.RecordedAt,
			Temperature:   item.Temperature.ptr(),
			HeartRate:     item.HeartRate.ptr(),
			SpO2:          item.SpO2.ptr(),
			FluidIntakeML: item.FluidIntakeML.ptr(),
			SleepHours:    item.SleepHours.ptr(),
			Seizure:       item.Seizure,
			Note:          item.Note,
		})
	}
	return records, nil
}
