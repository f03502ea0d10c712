package domain

import "github.com/shopspring/decimal"

// Thresholds are inclusive: a value exactly at a boundary reaches it.
type Thresholds struct {
	TempWarnHigh     decimal.Decimal
	TempCriticalHigh decimal.Decimal
	TempWarnLow      decimal.Decimal
	TempCriticalLow  decimal.Decimal

	SeizureWarn     int
	SeizureCritical int

	HydrationTargetML      decimal.Decimal
	HydrationWarnRatio     decimal.Decimal
	HydrationCriticalRatio decimal.Decimal

	SpO2Warn     decimal.Decimal
	SpO2Critical decimal.Decimal

	HeartRateHigh decimal.Decimal
	HeartRateLow  decimal.Decimal

	SleepShortHours decimal.Decimal
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		TempWarnHigh:           decimal.RequireFromString("37.5"),
		TempCriticalHigh:       decimal.RequireFromString("38.0"),
		TempWarnLow:            decimal.RequireFromString("36.0"),
		TempCriticalLow:        decimal.RequireFromString("35.0"),
		SeizureWarn:            1,
		SeizureCritical:        3,
		HydrationTargetML:      decimal.NewFromInt(1500),
		HydrationWarnRatio:     decimal.RequireFromString("0.7"),
		HydrationCriticalRatio: decimal.RequireFromString("0.4"),
		SpO2Warn:               decimal.NewFromInt(94),
		SpO2Critical:           decimal.NewFromInt(90),
		HeartRateHigh:          decimal.NewFromInt(120),
		HeartRateLow:           decimal.NewFromInt(45),
		SleepShortHours:        decimal.NewFromInt(5),
	}
}
