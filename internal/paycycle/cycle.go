// Package paycycle maps a calendar payroll period onto an employee's
// effective period when the employee is on a custom pay cycle.
package paycycle

import (
	"time"

	"go-payroll/internal/employee"
)

// Resolution is the employee-effective window for one payroll period.
type Resolution struct {
	StartDate       time.Time
	EndDate         time.Time
	UsesCustomCycle bool
}

// ResolvePeriod returns the employee's effective period for a run period.
//
// Employees on the default cycle, without a cycle day, or whose custom cycle
// is not yet effective keep the run period unchanged. Otherwise the window
// runs from the cycle day of the period-start month to the day before the
// cycle day of the following month. Cycle days past the end of a month clamp
// to that month's last day, which keeps consecutive periods gapless and
// non-overlapping.
func ResolvePeriod(emp employee.Employee, periodStart, periodEnd time.Time) Resolution {
	def := Resolution{StartDate: dateOnly(periodStart), EndDate: dateOnly(periodEnd)}

	if emp.PayrollCycleOverride == "" || emp.PayrollCycleOverride == employee.CycleOverrideDefault {
		return def
	}
	if emp.PayrollCycleDay == nil || *emp.PayrollCycleDay < 1 || *emp.PayrollCycleDay > 31 {
		return def
	}
	if emp.PayrollCycleEffectiveFrom != nil && dateOnly(*emp.PayrollCycleEffectiveFrom).After(dateOnly(periodEnd)) {
		return def
	}

	cycleDay := *emp.PayrollCycleDay
	year, month := periodStart.Year(), periodStart.Month()

	start := clampedDate(year, month, cycleDay)
	nextStart := clampedDate(year, month+1, cycleDay)

	return Resolution{
		StartDate:       start,
		EndDate:         nextStart.AddDate(0, 0, -1),
		UsesCustomCycle: true,
	}
}

// clampedDate builds a date, clamping the day to the month's length instead
// of letting time.Date roll it over into the next month.
func clampedDate(year int, month time.Month, day int) time.Time {
	// Day 0 of the following month is the last day of this one.
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
