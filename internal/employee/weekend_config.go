package employee

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WeekendDayConfig describes whether a given weekend day is a working day
// for one employee, and the shift times that apply on it.
type WeekendDayConfig struct {
	Working bool   `json:"working"`
	InTime  string `json:"in_time,omitempty"`
	OutTime string `json:"out_time,omitempty"`
}

// WeekendWorkingConfig is the typed form of the employees.weekend_working_config
// jsonb column. A nil day means "no override, use the company default".
type WeekendWorkingConfig struct {
	Saturday *WeekendDayConfig `json:"saturday,omitempty"`
	Sunday   *WeekendDayConfig `json:"sunday,omitempty"`
}

// Day returns the override for the given weekday, or nil for weekdays and
// unconfigured weekend days.
func (c WeekendWorkingConfig) Day(wd time.Weekday) *WeekendDayConfig {
	switch wd {
	case time.Saturday:
		return c.Saturday
	case time.Sunday:
		return c.Sunday
	default:
		return nil
	}
}

// ParseClock parses a "15:04" clock string into minutes since midnight.
func ParseClock(v string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(v), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", v)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock time %q", v)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q", v)
	}
	return h*60 + m, nil
}

// ScheduleSpanHours returns the shift length between two clock times.
// An out time earlier than the in time is treated as crossing midnight.
// Unparseable input yields 0 so callers can fall through their defaults.
func ScheduleSpanHours(in, out string) float64 {
	start, err := ParseClock(in)
	if err != nil {
		return 0
	}
	end, err := ParseClock(out)
	if err != nil {
		return 0
	}
	if end <= start {
		end += 24 * 60
	}
	return float64(end-start) / 60.0
}

// ScheduledAt anchors a "15:04" clock time onto a calendar date.
func ScheduledAt(date time.Time, clock string) (time.Time, error) {
	mins, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), mins/60, mins%60, 0, 0, date.Location()), nil
}
