package payrollrun

import (
	"time"

	"go-payroll/internal/attendance"
	"go-payroll/internal/leave"
	"go-payroll/internal/workcalendar"
)

// EarnedSalaryInput is everything the engine reads. It is a pure function
// of these values: no repository access, no hidden clock. Callers resolve
// the period calendar and fetch attendance/leave rows up front.
type EarnedSalaryInput struct {
	Rates    Rates
	Calendar workcalendar.PeriodCalendar

	// Completed attendance rows (check-out set) inside the period.
	Attendance []attendance.Attendance
	// Approved leave rows overlapping the period, paid and unpaid.
	Leaves []leave.Leave

	// LiveSession is today's open row (check-in, no check-out). Only read
	// when IncludeLiveSession is set.
	LiveSession        *attendance.Attendance
	IncludeLiveSession bool

	// Now is the evaluation instant. With IncludeLiveSession two calls at
	// different instants legitimately differ; callers surface the result as
	// a live preview, not a settled figure.
	Now time.Time
}

// DayTypeBreakdown is the per-day-type slice of the result.
type DayTypeBreakdown struct {
	ExpectedHours  float64 `json:"expected_hours"`
	ActualHours    float64 `json:"actual_hours"`
	ExpectedSalary float64 `json:"expected_salary"`
	EarnedSalary   float64 `json:"earned_salary"`
}

// EarningsBySource splits earned hours by where they came from. Informational
// only; the deduction math never reads it.
type EarningsBySource struct {
	AttendanceHours  float64 `json:"attendance_hours"`
	AttendanceAmount float64 `json:"attendance_amount"`
	PaidLeaveHours   float64 `json:"paid_leave_hours"`
	PaidLeaveAmount  float64 `json:"paid_leave_amount"`
	LiveHours        float64 `json:"live_hours"`
	LiveAmount       float64 `json:"live_amount"`
}

// ShortfallBreakdown decomposes the deduction by cause. The three buckets
// always sum to Total exactly.
type ShortfallBreakdown struct {
	UnpaidLeave  float64 `json:"unpaid_leave"`
	TimeVariance float64 `json:"time_variance"`
	AbsentDays   float64 `json:"absent_days"`
	Total        float64 `json:"total"`
}

// EarnedSalaryResult is the engine output.
type EarnedSalaryResult struct {
	ExpectedSalary float64 `json:"expected_salary"`
	EarnedSalary   float64 `json:"earned_salary"`

	// Deduction is the shortfall against expected-to-date, never against the
	// full-period base. max(0, expected - earned).
	Deduction float64 `json:"deduction"`

	Breakdown map[workcalendar.DayType]DayTypeBreakdown `json:"breakdown_by_day_type"`
	Sources   EarningsBySource                          `json:"earnings_by_source"`
	Shortfall ShortfallBreakdown                        `json:"shortfall_by_cause"`

	CutoffDate      time.Time `json:"cutoff_date"`
	LiveSessionUsed bool      `json:"live_session_used"`
}

// CalculateEarnedSalary reconciles expected against actually earned salary
// up to a cutoff instant.
//
// Cutoff is min(today, period end). Final calculations sum completed
// attendance up to and including the cutoff date. A live preview inside the
// period additionally credits today's open session: (now - check_in) actual
// hours against (now - scheduled_in) expected hours, with expected full days
// then only counted up to yesterday.
func CalculateEarnedSalary(in EarnedSalaryInput) EarnedSalaryResult {
	today := workcalendar.DateOnly(in.Now)

	cutoff := today
	if cutoff.After(in.Calendar.End) {
		cutoff = in.Calendar.End
	}

	res := EarnedSalaryResult{
		Breakdown:  make(map[workcalendar.DayType]DayTypeBreakdown, len(workcalendar.DayTypes)),
		CutoffDate: cutoff,
	}
	if cutoff.Before(in.Calendar.Start) {
		// Period has not started yet; nothing expected, nothing earned.
		return res
	}

	liveActive := in.IncludeLiveSession &&
		in.LiveSession != nil &&
		in.LiveSession.CheckInTime != nil &&
		in.LiveSession.CheckOutTime == nil &&
		!today.Before(in.Calendar.Start) && !today.After(in.Calendar.End)

	// Expected full days stop at yesterday when the live segment covers today.
	expectedEnd := cutoff
	if liveActive {
		expectedEnd = cutoff.AddDate(0, 0, -1)
	}
	expectedCounts := in.Calendar.CountWorkingDays(in.Calendar.Start, expectedEnd)

	actualHours := map[workcalendar.DayType]float64{}
	expectedHours := map[workcalendar.DayType]float64{}
	for _, dt := range workcalendar.DayTypes {
		expectedHours[dt] = float64(expectedCounts.Of(dt)) * in.Rates.DailyHours(dt)
	}

	// Completed attendance.
	timeVarianceDeduction := 0.0
	for _, row := range in.Attendance {
		date := workcalendar.DateOnly(row.AttendanceDate)
		if date.After(cutoff) || !row.Completed() {
			continue
		}
		day, ok := in.Calendar.DayOn(date)
		if !ok {
			continue
		}
		dt := day.Type
		hours := row.PayableHours()
		actualHours[dt] += hours
		res.Sources.AttendanceHours += hours
		res.Sources.AttendanceAmount += hours * in.Rates.HourlyRate(dt)

		// Time variance accrues only on working days the employee showed up
		// short; extra hours on one day never offset another.
		if day.Working {
			if gap := in.Rates.DailyHours(dt) - hours; gap > 0 {
				timeVarianceDeduction += gap * in.Rates.HourlyRate(dt)
			}
		}
	}

	// Approved paid leave credits scheduled hours per covered working day;
	// unpaid leave accrues the first shortfall bucket. Holidays and
	// non-working days carry no leave credit.
	unpaidLeaveDeduction := 0.0
	for _, lv := range in.Leaves {
		from := workcalendar.DateOnly(lv.StartDate)
		to := workcalendar.DateOnly(lv.EndDate)
		if to.After(expectedEnd) {
			to = expectedEnd
		}
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			day, ok := in.Calendar.DayOn(d)
			if !ok || !day.Working || day.Holiday {
				continue
			}
			dt := day.Type
			hours := leaveHours(lv, in.Rates.DailyHours(dt))
			if hours <= 0 {
				continue
			}
			if lv.IsPaid {
				actualHours[dt] += hours
				res.Sources.PaidLeaveHours += hours
				res.Sources.PaidLeaveAmount += hours * in.Rates.HourlyRate(dt)
			} else {
				unpaidLeaveDeduction += hours * in.Rates.HourlyRate(dt)
			}
		}
	}

	// Live segment.
	if liveActive {
		day, ok := in.Calendar.DayOn(today)
		if ok {
			dt := day.Type
			actual := in.Now.Sub(*in.LiveSession.CheckInTime).Hours()
			if actual < 0 {
				actual = 0
			}
			expected := actual
			if in.LiveSession.ScheduledInTime != nil {
				expected = in.Now.Sub(*in.LiveSession.ScheduledInTime).Hours()
				if expected < 0 {
					expected = 0
				}
			}
			actualHours[dt] += actual
			expectedHours[dt] += expected
			res.Sources.LiveHours = actual
			res.Sources.LiveAmount = actual * in.Rates.HourlyRate(dt)
			res.LiveSessionUsed = true
		}
	}

	for _, dt := range workcalendar.DayTypes {
		rate := in.Rates.HourlyRate(dt)
		b := DayTypeBreakdown{
			ExpectedHours:  expectedHours[dt],
			ActualHours:    actualHours[dt],
			ExpectedSalary: expectedHours[dt] * rate,
			EarnedSalary:   actualHours[dt] * rate,
		}
		res.Breakdown[dt] = b
		res.ExpectedSalary += b.ExpectedSalary
		res.EarnedSalary += b.EarnedSalary
	}

	if d := res.ExpectedSalary - res.EarnedSalary; d > 0 {
		res.Deduction = d
	}

	res.Shortfall = decomposeShortfall(res.Deduction, unpaidLeaveDeduction, timeVarianceDeduction)
	return res
}

// decomposeShortfall attributes the total deduction to causes. Buckets are
// clamped in order so they always sum to the total exactly: unpaid leave
// first, then time variance, with absence as the remainder.
func decomposeShortfall(total, unpaidLeave, timeVariance float64) ShortfallBreakdown {
	s := ShortfallBreakdown{Total: total}
	if total <= 0 {
		return s
	}

	s.UnpaidLeave = unpaidLeave
	if s.UnpaidLeave > total {
		s.UnpaidLeave = total
	}
	s.TimeVariance = timeVariance
	if rest := total - s.UnpaidLeave; s.TimeVariance > rest {
		s.TimeVariance = rest
	}
	s.AbsentDays = total - s.UnpaidLeave - s.TimeVariance
	return s
}

// leaveHours converts one covered leave day to credited (or lost) hours.
func leaveHours(lv leave.Leave, dailyHours float64) float64 {
	switch lv.LeaveDuration {
	case leave.DurationHalfDay:
		return dailyHours / 2
	case leave.DurationShortLeave:
		span := lv.ClockSpanHours()
		if span > dailyHours {
			span = dailyHours
		}
		return span
	default:
		return dailyHours
	}
}
