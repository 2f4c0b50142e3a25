package numerics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestYearFraction(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.InDelta(t, 365.0/365.0, YearFraction(start, end, DayCountACT365), 1e-12)
	assert.InDelta(t, 365.0/360.0, YearFraction(start, end, DayCountACT360), 1e-12)
	assert.InDelta(t, 1.0, YearFraction(start, end, DayCountThirty360), 1e-12)
}

func TestYearFractionNegative(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Less(t, YearFraction(start, end, DayCountACT365), 0.0)
}

func TestThirty360EndOfMonth(t *testing.T) {
	// 31 日按 30 日处理
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)

	assert.InDelta(t, 0.5, YearFraction(start, end, DayCountThirty360), 1e-12)
}

func TestYearsBetweenMatchesACT365(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(91 * 24 * time.Hour)

	assert.InDelta(t, 91.0/365.0, YearsBetween(start, end), 1e-12)
}
