package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelTotalOrder(t *testing.T) {
	assert.True(t, LevelWarn.Above(LevelInfo))
	assert.True(t, LevelCritical.Above(LevelWarn))
	assert.True(t, LevelCritical.Above(LevelInfo))
	assert.False(t, LevelWarn.Above(LevelWarn))
	assert.False(t, LevelInfo.Above(LevelCritical))
	assert.True(t, LevelInfo.Above(Level("")))
}

func TestAlertIDIsDeterministic(t *testing.T) {
	first := AlertID("u1", "2026-10-17", KindTemperatureHigh)
	second := AlertID("u1", "2026-10-17", KindTemperatureHigh)

	assert.Equal(t, first, second)
	assert.Equal(t, "u1_2026-10-17_vital", first)
	assert.Equal(t, "u1_2026-10-17_vital-low", AlertID("u1", "2026-10-17", KindTemperatureLow))
}

func TestAlertIDDistinctPerKind(t *testing.T) {
	seen := make(map[string]AlertKind)
	for _, kind := range AllAlertKinds {
		id := AlertID("u1", "2026-10-17", kind)
		other, dup := seen[id]
		require.False(t, dup, "kind %s collides with %s on id %s", kind, other, id)
		seen[id] = kind
	}
	assert.Len(t, seen, len(AllAlertKinds))
}

func TestHighAndLowShareDayPrefix(t *testing.T) {
	high := AlertID("u1", "2026-10-17", KindTemperatureHigh)
	low := AlertID("u1", "2026-10-17", KindTemperatureLow)

	assert.NotEqual(t, high, low)
	assert.Contains(t, low, high)
}

func TestKindType(t *testing.T) {
	assert.Equal(t, AlertTypeVital, KindTemperatureLow.Type())
	assert.Equal(t, AlertTypeSeizure, KindSeizure.Type())
	assert.Equal(t, AlertTypeHydration, KindHydrationLow.Type())
	assert.Equal(t, AlertTypeSleep, KindSleepShort.Type())
	assert.Equal(t, AlertTypeOther, AlertKind("mystery").Type())
}

func TestParseLevelAndType(t *testing.T) {
	level, ok := ParseLevel("critical")
	assert.True(t, ok)
	assert.Equal(t, LevelCritical, level)

	_, ok = ParseLevel("panic")
	assert.False(t, ok)

	alertType, ok := ParseAlertType("hydration")
	assert.True(t, ok)
	assert.Equal(t, AlertTypeHydration, alertType)

	_, ok = ParseAlertType("mood")
	assert.False(t, ok)
}

func TestDailyAggregateKeepsMissingAsEmpty(t *testing.T) {
	temp := decimal.RequireFromString("37.1")
	var agg DailyAggregate
	agg.Add(Record{Temperature: &temp})
	agg.Add(Record{Seizure: true})

	_, ok := MaxOf(agg.HeartRates)
	assert.False(t, ok)

	maxTemp, ok := MaxOf(agg.Temperatures)
	require.True(t, ok)
	assert.True(t, maxTemp.Equal(temp))
	assert.Equal(t, 1, agg.Seizures)
}

func TestMinMaxSum(t *testing.T) {
	values := []decimal.Decimal{
		decimal.RequireFromString("36.4"),
		decimal.RequireFromString("38.2"),
		decimal.RequireFromString("35.0"),
	}

	maxValue, _ := MaxOf(values)
	minValue, _ := MinOf(values)
	sum, _ := SumOf(values)

	assert.Equal(t, "38.2", maxValue.String())
	assert.Equal(t, "35", minValue.String())
	assert.Equal(t, "109.6", sum.String())
}
