package workcalendar

import "time"

// CalendarDay is one resolved day of a payroll period.
type CalendarDay struct {
	Date    time.Time
	Type    DayType
	Working bool
	Holiday bool
}

// PeriodCalendar is the fully resolved day-by-day view of a period. It is
// built once per record and handed to the earned-salary engine, so partial
// period day counts never hit the database again.
type PeriodCalendar struct {
	Start time.Time
	End   time.Time
	Days  []CalendarDay
}

// DayCounts holds working-day counts split by day type.
type DayCounts struct {
	Weekday  int
	Saturday int
	Sunday   int
}

// Of returns the count for a day type.
func (c DayCounts) Of(t DayType) int {
	switch t {
	case DayTypeSaturday:
		return c.Saturday
	case DayTypeSunday:
		return c.Sunday
	default:
		return c.Weekday
	}
}

// Total is the sum over all day types.
func (c DayCounts) Total() int {
	return c.Weekday + c.Saturday + c.Sunday
}

// DayOn looks up a resolved day; ok is false outside the period.
func (p PeriodCalendar) DayOn(date time.Time) (CalendarDay, bool) {
	d := DateOnly(date)
	if d.Before(p.Start) || d.After(p.End) {
		return CalendarDay{}, false
	}
	idx := int(d.Sub(p.Start).Hours() / 24)
	if idx < 0 || idx >= len(p.Days) {
		return CalendarDay{}, false
	}
	return p.Days[idx], true
}

// IsHoliday reports whether the date resolved as a holiday.
func (p PeriodCalendar) IsHoliday(date time.Time) bool {
	d, ok := p.DayOn(date)
	return ok && d.Holiday
}

// CountWorkingDays counts working days per day type over [from, to],
// clamped to the calendar bounds. An inverted range yields zero counts.
func (p PeriodCalendar) CountWorkingDays(from, to time.Time) DayCounts {
	var counts DayCounts

	from = DateOnly(from)
	to = DateOnly(to)
	if from.Before(p.Start) {
		from = p.Start
	}
	if to.After(p.End) {
		to = p.End
	}

	for _, day := range p.Days {
		if day.Date.Before(from) || day.Date.After(to) {
			continue
		}
		if !day.Working {
			continue
		}
		switch day.Type {
		case DayTypeSaturday:
			counts.Saturday++
		case DayTypeSunday:
			counts.Sunday++
		default:
			counts.Weekday++
		}
	}
	return counts
}

// DateOnly truncates a timestamp to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
