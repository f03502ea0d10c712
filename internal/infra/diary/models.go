package diary

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type recordsResponse struct {
	Records []diaryRecord `json:"records"`
}

type diaryRecord struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	RecordedAt    time.Time       `json:"recordedAt"`
	Temperature   NullableDecimal `json:"temperature"`
	HeartRate     NullableDecimal `json:"heartRate"`
	SpO2          NullableDecimal `json:"spo2"`
	FluidIntakeML NullableDecimal `json:"fluidIntakeMl"`
	SleepHours    NullableDecimal `json:"sleepHours"`
	Seizure       bool            `json:"seizure"`
	Note          string          `json:"note"`
}

// NullableDecimal accepts numbers, quoted numbers, empty strings and null.
type NullableDecimal struct {
	Decimal decimal.Decimal
	Valid   bool
}

func (n *NullableDecimal) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		n.Valid = false
		return nil
	}
	trimmed := strings.TrimSpace(string(data))
	if len(trimmed) >= 2 && trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"' {
		trimmed = strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	}
	if trimmed == "" {
		n.Valid = false
		return nil
	}
	dec, err := decimal.NewFromString(trimmed)
	if err != nil {
		n.Valid = false
		return err
	}
	n.Decimal = dec
	n.Valid = true
	return nil
}

func (n NullableDecimal) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Decimal.String())
}

func (n NullableDecimal) ptr() *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	value := n.Decimal
	return &value
}
