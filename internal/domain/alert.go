package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AlertType string

const (
	AlertTypeVital     AlertType = "vital"
	AlertTypeSeizure   AlertType = "seizure"
	AlertTypeHydration AlertType = "hydration"
	AlertTypeSleep     AlertType = "sleep"
	AlertTypeOther     AlertType = "other"
)

func ParseAlertType(value string) (AlertType, bool) {
	switch AlertType(value) {
	case AlertTypeVital, AlertTypeSeizure, AlertTypeHydration, AlertTypeSleep, AlertTypeOther:
		return AlertType(value), true
	}
	return "", false
}

// Level is totally ordered: info < warn < critical.
type Level string

const (
	LevelInfo     Level = "info"
	LevelWarn     Level = "warn"
	LevelCritical Level = "critical"
)

func ParseLevel(value string) (Level, bool) {
	switch Level(value) {
	case LevelInfo, LevelWarn, LevelCritical:
		return Level(value), true
	}
	return "", false
}

// Rank returns 0 for unknown levels so they sort below info.
func (l Level) Rank() int {
	switch l {
	case LevelInfo:
		return 1
	case LevelWarn:
		return 2
	case LevelCritical:
		return 3
	default:
		return 0
	}
}

func (l Level) Above(other Level) bool {
	return l.Rank() > other.Rank()
}

// AlertKind is the rule variant that produced an alert. Each kind owns a
// fixed (type, suffix) pair, so ids never collide within a user and day.
type AlertKind string

const (
	KindTemperatureHigh AlertKind = "temperature_high"
	KindTemperatureLow  AlertKind = "temperature_low"
	KindOxygenLow       AlertKind = "oxygen_low"
	KindHeartRateHigh   AlertKind = "heart_rate_high"
	KindHeartRateLow    AlertKind = "heart_rate_low"
	KindSeizure         AlertKind = "seizure"
	KindHydrationLow    AlertKind = "hydration_low"
	KindSleepShort      AlertKind = "sleep_short"
)

var AllAlertKinds = []AlertKind{
	KindTemperatureHigh,
	KindTemperatureLow,
	KindOxygenLow,
	KindHeartRateHigh,
	KindHeartRateLow,
	KindSeizure,
	KindHydrationLow,
	KindSleepShort,
}

func (k AlertKind) Type() AlertType {
	switch k {
	case KindTemperatureHigh, KindTemperatureLow, KindOxygenLow, KindHeartRateHigh, KindHeartRateLow:
		return AlertTypeVital
	case KindSeizure:
		return AlertTypeSeizure
	case KindHydrationLow:
		return AlertTypeHydration
	case KindSleepShort:
		return AlertTypeSleep
	default:
		return AlertTypeOther
	}
}

func (k AlertKind) suffix() string {
	switch k {
	case KindTemperatureLow:
		return "-low"
	case KindOxygenLow:
		return "-spo2"
	case KindHeartRateHigh:
		return "-hr"
	case KindHeartRateLow:
		return "-hr-low"
	case KindTemperatureHigh, KindSeizure, KindHydrationLow, KindSleepShort:
		return ""
	default:
		return "-" + string(k)
	}
}

// AlertID derives the stable identity of an alert from its owner, day and kind.
func AlertID(userID, date string, kind AlertKind) string {
	return userID + "_" + date + "_" + string(kind.Type()) + kind.suffix()
}

type Alert struct {
	ID        string
	UserID    string
	Date      string
	Type      AlertType
	Kind      AlertKind
	Level     Level
	Message   string
	Metrics   map[string]decimal.Decimal
	CreatedAt time.Time
}

type AlertSummary struct {
	Month            string `json:"month"`
	WarnDays         int    `json:"warnDays"`
	CriticalDays     int    `json:"criticalDays"`
	FeverDays        int    `json:"feverDays"`
	HypothermiaDays  int    `json:"hypothermiaDays"`
	SeizureDays      int    `json:"seizureDays"`
	HydrationLowDays int    `json:"hydrationLowDays"`
}
