package workcalendar

import (
	"context"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/settings"
)

// WorkingDaysInput describes one resolution request. Employee is optional;
// when present its weekend_working_config overrides the company default.
type WorkingDaysInput struct {
	StartDate               time.Time
	EndDate                 time.Time
	DepartmentID            *string
	IncludeOptionalHolidays bool
	Employee                *employee.Employee
}

// WorkingDaysResult mirrors the day counts the rate pre-computation and the
// run summaries need.
type WorkingDaysResult struct {
	TotalDays          int       `json:"total_days"`
	WorkingDays        int       `json:"working_days"`
	WeekendDays        int       `json:"weekend_days"`
	WeekendWorkingDays int       `json:"weekend_working_days"`
	WorkingSaturdays   int       `json:"working_saturdays"`
	WorkingSundays     int       `json:"working_sundays"`
	HolidayCount       int       `json:"holiday_count"`
	Holidays           []Holiday `json:"holidays"`
}

//go:generate mockgen -source=calendar_service.go -destination=mock/calendar_service_mock.go -package=mock
type Service interface {
	CalculateWorkingDays(ctx context.Context, companyID string, in WorkingDaysInput) (WorkingDaysResult, error)
	ResolvePeriodCalendar(ctx context.Context, companyID string, in WorkingDaysInput) (PeriodCalendar, error)
	IsHoliday(ctx context.Context, companyID string, date time.Time, departmentID *string) (*Holiday, error)
}

type service struct {
	repo     Repository
	settings settings.Repository
}

func NewService(repo Repository, settingsRepo settings.Repository) Service {
	return &service{repo: repo, settings: settingsRepo}
}

func (s *service) CalculateWorkingDays(ctx context.Context, companyID string, in WorkingDaysInput) (WorkingDaysResult, error) {
	cal, err := s.ResolvePeriodCalendar(ctx, companyID, in)
	if err != nil {
		return WorkingDaysResult{}, err
	}

	holidays, err := s.applicableHolidays(ctx, companyID, in)
	if err != nil {
		return WorkingDaysResult{}, err
	}

	res := WorkingDaysResult{Holidays: holidays}
	for _, day := range cal.Days {
		res.TotalDays++
		if day.Holiday {
			res.HolidayCount++
			continue
		}
		weekend := day.Type != DayTypeWeekday
		if weekend {
			res.WeekendDays++
		}
		if !day.Working {
			continue
		}
		res.WorkingDays++
		switch day.Type {
		case DayTypeSaturday:
			res.WeekendWorkingDays++
			res.WorkingSaturdays++
		case DayTypeSunday:
			res.WeekendWorkingDays++
			res.WorkingSundays++
		}
	}
	return res, nil
}

func (s *service) ResolvePeriodCalendar(ctx context.Context, companyID string, in WorkingDaysInput) (PeriodCalendar, error) {
	start := DateOnly(in.StartDate)
	end := DateOnly(in.EndDate)

	cal := PeriodCalendar{Start: start, End: end}
	if end.Before(start) {
		return cal, nil
	}

	holidays, err := s.applicableHolidays(ctx, companyID, in)
	if err != nil {
		return PeriodCalendar{}, err
	}
	holidayDates := make(map[time.Time]struct{}, len(holidays))
	for _, h := range holidays {
		holidayDates[DateOnly(h.HolidayDate)] = struct{}{}
	}

	cfg, err := s.settings.FindByCompany(ctx, companyID)
	if err != nil {
		return PeriodCalendar{}, err
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := CalendarDay{Date: d, Type: DayTypeOf(d)}

		// Holiday wins over weekend-working status.
		if _, ok := holidayDates[d]; ok {
			day.Holiday = true
			cal.Days = append(cal.Days, day)
			continue
		}

		switch day.Type {
		case DayTypeWeekday:
			day.Working = true
		case DayTypeSaturday:
			day.Working = s.weekendWorking(in.Employee, time.Saturday, cfg.SaturdayWorking)
		case DayTypeSunday:
			day.Working = s.weekendWorking(in.Employee, time.Sunday, cfg.SundayWorking)
		}
		cal.Days = append(cal.Days, day)
	}
	return cal, nil
}

func (s *service) IsHoliday(ctx context.Context, companyID string, date time.Time, departmentID *string) (*Holiday, error) {
	rows, err := s.repo.FindByDate(ctx, companyID, DateOnly(date))
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].AppliesTo(departmentID) {
			return &rows[i], nil
		}
	}
	return nil, nil
}

func (s *service) applicableHolidays(ctx context.Context, companyID string, in WorkingDaysInput) ([]Holiday, error) {
	rows, err := s.repo.FindInRange(ctx, companyID, DateOnly(in.StartDate), DateOnly(in.EndDate))
	if err != nil {
		return nil, err
	}

	applicable := make([]Holiday, 0, len(rows))
	for _, h := range rows {
		if h.IsOptional && !in.IncludeOptionalHolidays {
			continue
		}
		if !h.AppliesTo(in.DepartmentID) {
			continue
		}
		applicable = append(applicable, h)
	}
	return applicable, nil
}

// weekendWorking resolves one weekend day: an employee-specific override
// beats the company-wide setting.
func (s *service) weekendWorking(emp *employee.Employee, wd time.Weekday, companyDefault bool) bool {
	if emp != nil {
		if cfg := emp.WeekendWorkingConfig.Data().Day(wd); cfg != nil {
			return cfg.Working
		}
	}
	return companyDefault
}
