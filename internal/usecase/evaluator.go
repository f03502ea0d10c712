package usecase

import (
	"fmt"

	"github.com/NasaVasa/carewatch/internal/domain"
	"github.com/shopspring/decimal"
)

type RuleEvaluator struct {
	thresholds domain.Thresholds
}

func NewRuleEvaluator(thresholds domain.Thresholds) *RuleEvaluator {
	return &RuleEvaluator{thresholds: thresholds}
}

func (e *RuleEvaluator) Thresholds() domain.Thresholds {
	return e.thresholds
}

// Evaluate classifies one day's aggregate. CreatedAt is left zero; the
// caller stamps it when the alerts are written.
func (e *RuleEvaluator) Evaluate(userID string, agg domain.DailyAggregate) []domain.Alert {
	var alerts []domain.Alert
	emit := func(kind domain.AlertKind, level domain.Level, message string, metrics map[string]decimal.Decimal) {
		alerts = append(alerts, domain.Alert{
			ID:      domain.AlertID(userID, agg.Date, kind),
			UserID:  userID,
			Date:    agg.Date,
			Type:    kind.Type(),
			Kind:    kind,
			Level:   level,
			Message: message,
			Metrics: metrics,
		})
	}

	t := e.thresholds

	if maxTemp, ok := domain.MaxOf(agg.Temperatures); ok {
		metrics := map[string]decimal.Decimal{"tempMax": maxTemp}
		switch {
		case maxTemp.GreaterThanOrEqual(t.TempCriticalHigh):
			emit(domain.KindTemperatureHigh, domain.LevelCritical,
				fmt.Sprintf("High fever: max temperature %s°C (critical at %s°C)", maxTemp, t.TempCriticalHigh), metrics)
		case maxTemp.GreaterThanOrEqual(t.TempWarnHigh):
			emit(domain.KindTemperatureHigh, domain.LevelWarn,
				fmt.Sprintf("Elevated temperature: max %s°C (warn at %s°C)", maxTemp, t.TempWarnHigh), metrics)
		}
	}

	if minTemp, ok := domain.MinOf(agg.Temperatures); ok {
		metrics := map[string]decimal.Decimal{"tempMin": minTemp}
		switch {
		case minTemp.LessThanOrEqual(t.TempCriticalLow):
			emit(domain.KindTemperatureLow, domain.LevelCritical,
				fmt.Sprintf("Hypothermia: min temperature %s°C (critical at %s°C)", minTemp, t.TempCriticalLow), metrics)
		case minTemp.LessThanOrEqual(t.TempWarnLow):
			emit(domain.KindTemperatureLow, domain.LevelWarn,
				fmt.Sprintf("Low temperature: min %s°C (warn at %s°C)", minTemp, t.TempWarnLow), metrics)
		}
	}

	if minSpO2, ok := domain.MinOf(agg.SpO2); ok {
		metrics := map[string]decimal.Decimal{"spO2Min": minSpO2}
		switch {
		case minSpO2.LessThanOrEqual(t.SpO2Critical):
			emit(domain.KindOxygenLow, domain.LevelCritical,
				fmt.Sprintf("Oxygen saturation %s%% (critical at %s%%)", minSpO2, t.SpO2Critical), metrics)
		case minSpO2.LessThanOrEqual(t.SpO2Warn):
			emit(domain.KindOxygenLow, domain.LevelWarn,
				fmt.Sprintf("Oxygen saturation %s%% (warn at %s%%)", minSpO2, t.SpO2Warn), metrics)
		}
	}

	if maxHR, ok := domain.MaxOf(agg.HeartRates); ok && maxHR.GreaterThanOrEqual(t.HeartRateHigh) {
		emit(domain.KindHeartRateHigh, domain.LevelWarn,
			fmt.Sprintf("Heart rate up to %s bpm (warn at %s bpm)", maxHR, t.HeartRateHigh),
			map[string]decimal.Decimal{"hrMax": maxHR})
	}
	if minHR, ok := domain.MinOf(agg.HeartRates); ok && minHR.LessThanOrEqual(t.HeartRateLow) {
		emit(domain.KindHeartRateLow, domain.LevelWarn,
			fmt.Sprintf("Heart rate down to %s bpm (warn at %s bpm)", minHR, t.HeartRateLow),
			map[string]decimal.Decimal{"hrMin": minHR})
	}

	// Highest threshold first; only the most severe seizure alert is emitted.
	if agg.Seizures > 0 {
		metrics := map[string]decimal.Decimal{"seizures": decimal.NewFromInt(int64(agg.Seizures))}
		switch {
		case t.SeizureCritical > 0 && agg.Seizures >= t.SeizureCritical:
			emit(domain.KindSeizure, domain.LevelCritical,
				fmt.Sprintf("%d seizures recorded (critical at %d)", agg.Seizures, t.SeizureCritical), metrics)
		case t.SeizureWarn > 0 && agg.Seizures >= t.SeizureWarn:
			emit(domain.KindSeizure, domain.LevelWarn,
				fmt.Sprintf("%d seizure(s) recorded (warn at %d)", agg.Seizures, t.SeizureWarn), metrics)
		}
	}

	if total, ok := domain.SumOf(agg.FluidIntakeML); ok && t.HydrationTargetML.IsPositive() {
		// ratio is rounded for display only; levels compare raw intake.
		ratio := total.DivRound(t.HydrationTargetML, 2)
		metrics := map[string]decimal.Decimal{"fluidML": total, "ratio": ratio}
		switch {
		case total.LessThanOrEqual(t.HydrationTargetML.Mul(t.HydrationCriticalRatio)):
			emit(domain.KindHydrationLow, domain.LevelCritical,
				fmt.Sprintf("Fluid intake %sml is %s of target %sml (critical at %s)", total, ratio, t.HydrationTargetML, t.HydrationCriticalRatio), metrics)
		case total.LessThanOrEqual(t.HydrationTargetML.Mul(t.HydrationWarnRatio)):
			emit(domain.KindHydrationLow, domain.LevelWarn,
				fmt.Sprintf("Fluid intake %sml is %s of target %sml (warn at %s)", total, ratio, t.HydrationTargetML, t.HydrationWarnRatio), metrics)
		}
	}

	if slept, ok := domain.SumOf(agg.SleepHours); ok && slept.LessThanOrEqual(t.SleepShortHours) {
		emit(domain.KindSleepShort, domain.LevelInfo,
			fmt.Sprintf("Short sleep: %sh (at or under %sh)", slept, t.SleepShortHours),
			map[string]decimal.Decimal{"sleepHours": slept})
	}

	return alerts
}
