package payrollrun

import (
	"time"

	"go-payroll/internal/attendance"
	"go-payroll/internal/employee"
	"go-payroll/internal/settings"
	"go-payroll/internal/workcalendar"
)

const (
	minDailyHours = 1.0
	maxDailyHours = 16.0
)

// RateInput carries everything the pre-computation reads. Attendance rows
// are the in-period rows with scheduled times, newest first.
type RateInput struct {
	Employee      employee.Employee
	Settings      settings.PayrollSettings
	Counts        workcalendar.DayCounts
	ScheduledRows []attendance.Attendance
}

// PrecomputeRates derives the record's immutable rate block: the per-day-type
// working-day counts and daily hours, one daily salary and three hourly
// rates. It runs exactly once, at draft creation; calculation never touches
// these numbers again, which keeps repeated live previews consistent with
// the final run.
func PrecomputeRates(in RateInput) Rates {
	rates := Rates{
		WeekdayDailyHours:  resolveDailyHours(in, workcalendar.DayTypeWeekday),
		SaturdayDailyHours: resolveDailyHours(in, workcalendar.DayTypeSaturday),
		SundayDailyHours:   resolveDailyHours(in, workcalendar.DayTypeSunday),
	}

	totalDays := in.Counts.Total()
	if totalDays > 0 {
		rates.DailySalary = in.Employee.BaseSalary / float64(totalDays)
	}

	rates.WeekdayHourlyRate = hourlyRate(rates.DailySalary, rates.WeekdayDailyHours)
	rates.SaturdayHourlyRate = hourlyRate(rates.DailySalary, rates.SaturdayDailyHours)
	rates.SundayHourlyRate = hourlyRate(rates.DailySalary, rates.SundayDailyHours)

	return rates
}

func hourlyRate(dailySalary, dailyHours float64) float64 {
	if dailyHours <= 0 {
		return 0
	}
	return dailySalary / dailyHours
}

// resolveDailyHours walks the scheduled-hours fallback chain for one day
// type: latest in-period attendance row carrying scheduled times, then the
// employee's default shift (weekday) or weekend config (weekend, only when
// the day is configured working), else 0. Non-zero results clamp to [1,16]h.
func resolveDailyHours(in RateInput, dt workcalendar.DayType) float64 {
	if h := LatestScheduledHours(in.ScheduledRows, dt); h > 0 {
		return clampDailyHours(h)
	}

	switch dt {
	case workcalendar.DayTypeWeekday:
		if in.Employee.InTime != nil && in.Employee.OutTime != nil {
			if h := employee.ScheduleSpanHours(*in.Employee.InTime, *in.Employee.OutTime); h > 0 {
				return clampDailyHours(h)
			}
		}
		return clampDailyHours(in.Settings.DailyHours())

	case workcalendar.DayTypeSaturday:
		return weekendHours(in, time.Saturday, in.Settings.SaturdayWorking)
	case workcalendar.DayTypeSunday:
		return weekendHours(in, time.Sunday, in.Settings.SundayWorking)
	}
	return 0
}

func weekendHours(in RateInput, wd time.Weekday, companyWorking bool) float64 {
	cfg := in.Employee.WeekendWorkingConfig.Data().Day(wd)
	if cfg != nil {
		if !cfg.Working {
			return 0
		}
		if cfg.InTime != "" && cfg.OutTime != "" {
			if h := employee.ScheduleSpanHours(cfg.InTime, cfg.OutTime); h > 0 {
				return clampDailyHours(h)
			}
		}
		return clampDailyHours(in.Settings.DailyHours())
	}
	if !companyWorking {
		return 0
	}
	return clampDailyHours(in.Settings.DailyHours())
}

// LatestScheduledHours picks the most recent row of the given day type with
// both scheduled times set and returns its shift length. Rows are expected
// newest first.
func LatestScheduledHours(rows []attendance.Attendance, dt workcalendar.DayType) float64 {
	for _, row := range rows {
		if row.ScheduledInTime == nil || row.ScheduledOutTime == nil {
			continue
		}
		if workcalendar.DayTypeFromCode(row.IsWeekend) != dt {
			continue
		}
		span := row.ScheduledOutTime.Sub(*row.ScheduledInTime).Hours()
		if span <= 0 {
			span += 24
		}
		if span > 0 {
			return span
		}
	}
	return 0
}

func clampDailyHours(h float64) float64 {
	if h < minDailyHours {
		return minDailyHours
	}
	if h > maxDailyHours {
		return maxDailyHours
	}
	return h
}
