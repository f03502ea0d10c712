package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// Record is one raw, time-stamped care observation. Nil fields were not measured.
type Record struct {
	ID            string
	UserID        string
	RecordedAt    time.Time
	Temperature   *decimal.Decimal
	HeartRate     *decimal.Decimal
	SpO2          *decimal.Decimal
	FluidIntakeML *decimal.Decimal
	SleepHours    *decimal.Decimal
	Seizure       bool
	Note          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (r Record) HasObservation() bool {
	return r.Temperature != nil ||
		r.HeartRate != nil ||
		r.SpO2 != nil ||
		r.FluidIntakeML != nil ||
		r.SleepHours != nil ||
		r.Seizure
}

// DailyAggregate merges every record of one calendar day. An empty value
// set means the metric was not measured that day, which is distinct from
// a measured zero.
type DailyAggregate struct {
	Date          string
	Temperatures  []decimal.Decimal
	HeartRates    []decimal.Decimal
	SpO2          []decimal.Decimal
	FluidIntakeML []decimal.Decimal
	SleepHours    []decimal.Decimal
	Seizures      int
}

func (a *DailyAggregate) Add(r Record) {
	appendValue(&a.Temperatures, r.Temperature)
	appendValue(&a.HeartRates, r.HeartRate)
	appendValue(&a.SpO2, r.SpO2)
	appendValue(&a.FluidIntakeML, r.FluidIntakeML)
	appendValue(&a.SleepHours, r.SleepHours)
	if r.Seizure {
		a.Seizures++
	}
}

func appendValue(values *[]decimal.Decimal, value *decimal.Decimal) {
	if value == nil {
		return
	}
	*values = append(*values, *value)
}

func MaxOf(values []decimal.Decimal) (decimal.Decimal, bool) {
	if len(values) == 0 {
		return decimal.Decimal{}, false
	}
	return decimal.Max(values[0], values[1:]...), true
}

func MinOf(values []decimal.Decimal) (decimal.Decimal, bool) {
	if len(values) == 0 {
		return decimal.Decimal{}, false
	}
	return decimal.Min(values[0], values[1:]...), true
}

func SumOf(values []decimal.Decimal) (decimal.Decimal, bool) {
	if len(values) == 0 {
		return decimal.Decimal{}, false
	}
	return decimal.Sum(values[0], values[1:]...), true
}
