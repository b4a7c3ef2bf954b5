package employee_test

import (
	"testing"
	"time"

	"go-payroll/internal/employee"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	mins, err := employee.ParseClock("09:30")
	assert.NoError(t, err)
	assert.Equal(t, 9*60+30, mins)

	_, err = employee.ParseClock("25:00")
	assert.Error(t, err)

	_, err = employee.ParseClock("whenever")
	assert.Error(t, err)
}

func TestScheduleSpanHours(t *testing.T) {
	assert.Equal(t, 8.0, employee.ScheduleSpanHours("09:00", "17:00"))
	assert.Equal(t, 8.5, employee.ScheduleSpanHours("08:30", "17:00"))

	// Overnight shift crosses midnight.
	assert.Equal(t, 8.0, employee.ScheduleSpanHours("22:00", "06:00"))

	// Broken input falls through to zero, never panics.
	assert.Equal(t, 0.0, employee.ScheduleSpanHours("", "17:00"))
}

func TestWeekendWorkingConfigDay(t *testing.T) {
	cfg := employee.WeekendWorkingConfig{
		Saturday: &employee.WeekendDayConfig{Working: true, InTime: "10:00", OutTime: "14:00"},
	}

	sat := cfg.Day(time.Saturday)
	if assert.NotNil(t, sat) {
		assert.True(t, sat.Working)
		assert.Equal(t, 4.0, employee.ScheduleSpanHours(sat.InTime, sat.OutTime))
	}

	assert.Nil(t, cfg.Day(time.Sunday))
	assert.Nil(t, cfg.Day(time.Wednesday))
}

func TestScheduledAt(t *testing.T) {
	date := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	at, err := employee.ScheduledAt(date, "09:15")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 23, 9, 15, 0, 0, time.UTC), at)
}
