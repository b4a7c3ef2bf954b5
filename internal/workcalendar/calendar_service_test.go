package workcalendar_test

import (
	"context"
	"testing"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/settings"
	"go-payroll/internal/workcalendar"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

type fakeHolidayRepository struct {
	findInRangeFn func(ctx context.Context, companyID string, from, to time.Time) ([]workcalendar.Holiday, error)
	findByDateFn  func(ctx context.Context, companyID string, date time.Time) ([]workcalendar.Holiday, error)
}

func (f *fakeHolidayRepository) FindInRange(ctx context.Context, companyID string, from, to time.Time) ([]workcalendar.Holiday, error) {
	if f.findInRangeFn != nil {
		return f.findInRangeFn(ctx, companyID, from, to)
	}
	return nil, nil
}

func (f *fakeHolidayRepository) FindByDate(ctx context.Context, companyID string, date time.Time) ([]workcalendar.Holiday, error) {
	if f.findByDateFn != nil {
		return f.findByDateFn(ctx, companyID, date)
	}
	return nil, nil
}

type fakeSettingsRepository struct {
	settings settings.PayrollSettings
}

func (f *fakeSettingsRepository) FindByCompany(ctx context.Context, companyID string) (settings.PayrollSettings, error) {
	return f.settings, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateWorkingDays_PlainWeek(t *testing.T) {
	svc := workcalendar.NewService(&fakeHolidayRepository{}, &fakeSettingsRepository{})

	// Mon 2026-02-02 .. Sun 2026-02-08
	res, err := svc.CalculateWorkingDays(context.Background(), uuid.NewString(), workcalendar.WorkingDaysInput{
		StartDate: date(2026, 2, 2),
		EndDate:   date(2026, 2, 8),
	})

	assert.NoError(t, err)
	assert.Equal(t, 7, res.TotalDays)
	assert.Equal(t, 5, res.WorkingDays)
	assert.Equal(t, 2, res.WeekendDays)
	assert.Equal(t, 0, res.WeekendWorkingDays)
	assert.Equal(t, 0, res.HolidayCount)
}

func TestCalculateWorkingDays_HolidayBeatsWeekendWorking(t *testing.T) {
	companyID := uuid.NewString()
	// Saturday 2026-02-07 is both a holiday and a company working Saturday.
	repo := &fakeHolidayRepository{
		findInRangeFn: func(ctx context.Context, cid string, from, to time.Time) ([]workcalendar.Holiday, error) {
			return []workcalendar.Holiday{
				{Name: "Founders Day", HolidayDate: date(2026, 2, 7), AppliesToAll: true},
			}, nil
		},
	}
	svc := workcalendar.NewService(repo, &fakeSettingsRepository{
		settings: settings.PayrollSettings{SaturdayWorking: true},
	})

	res, err := svc.CalculateWorkingDays(context.Background(), companyID, workcalendar.WorkingDaysInput{
		StartDate: date(2026, 2, 2),
		EndDate:   date(2026, 2, 8),
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.HolidayCount)
	assert.Equal(t, 5, res.WorkingDays)
	assert.Equal(t, 0, res.WorkingSaturdays)
}

func TestCalculateWorkingDays_EmployeeOverrideBeatsCompanyDefault(t *testing.T) {
	svc := workcalendar.NewService(&fakeHolidayRepository{}, &fakeSettingsRepository{
		settings: settings.PayrollSettings{SaturdayWorking: false, SundayWorking: true},
	})

	emp := &employee.Employee{
		WeekendWorkingConfig: datatypes.NewJSONType(employee.WeekendWorkingConfig{
			Saturday: &employee.WeekendDayConfig{Working: true, InTime: "10:00", OutTime: "14:00"},
			Sunday:   &employee.WeekendDayConfig{Working: false},
		}),
	}

	res, err := svc.CalculateWorkingDays(context.Background(), uuid.NewString(), workcalendar.WorkingDaysInput{
		StartDate: date(2026, 2, 2),
		EndDate:   date(2026, 2, 8),
		Employee:  emp,
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.WorkingSaturdays)
	assert.Equal(t, 0, res.WorkingSundays)
	assert.Equal(t, 6, res.WorkingDays)
}

func TestCalculateWorkingDays_OptionalAndScopedHolidays(t *testing.T) {
	engineering := uuid.NewString()
	sales := uuid.NewString()

	repo := &fakeHolidayRepository{
		findInRangeFn: func(ctx context.Context, cid string, from, to time.Time) ([]workcalendar.Holiday, error) {
			return []workcalendar.Holiday{
				{Name: "Optional Day", HolidayDate: date(2026, 2, 3), AppliesToAll: true, IsOptional: true},
				{Name: "Sales Offsite", HolidayDate: date(2026, 2, 4), AppliesToAll: false, DepartmentIDs: datatypes.JSONSlice[string]{sales}},
			}, nil
		},
	}
	svc := workcalendar.NewService(repo, &fakeSettingsRepository{})

	in := workcalendar.WorkingDaysInput{
		StartDate:    date(2026, 2, 2),
		EndDate:      date(2026, 2, 6),
		DepartmentID: &engineering,
	}

	res, err := svc.CalculateWorkingDays(context.Background(), uuid.NewString(), in)
	assert.NoError(t, err)
	// Optional holiday skipped, sales-only holiday not applicable.
	assert.Equal(t, 0, res.HolidayCount)
	assert.Equal(t, 5, res.WorkingDays)

	in.IncludeOptionalHolidays = true
	in.DepartmentID = &sales
	res, err = svc.CalculateWorkingDays(context.Background(), uuid.NewString(), in)
	assert.NoError(t, err)
	assert.Equal(t, 2, res.HolidayCount)
	assert.Equal(t, 3, res.WorkingDays)
}

func TestIsHolidayDepartmentScoping(t *testing.T) {
	sales := uuid.NewString()
	other := uuid.NewString()

	repo := &fakeHolidayRepository{
		findByDateFn: func(ctx context.Context, cid string, d time.Time) ([]workcalendar.Holiday, error) {
			return []workcalendar.Holiday{
				{Name: "Sales Offsite", HolidayDate: d, AppliesToAll: false, DepartmentIDs: datatypes.JSONSlice[string]{sales}},
			}, nil
		},
	}
	svc := workcalendar.NewService(repo, &fakeSettingsRepository{})

	h, err := svc.IsHoliday(context.Background(), uuid.NewString(), date(2026, 2, 4), &sales)
	assert.NoError(t, err)
	assert.NotNil(t, h)

	h, err = svc.IsHoliday(context.Background(), uuid.NewString(), date(2026, 2, 4), &other)
	assert.NoError(t, err)
	assert.Nil(t, h)

	h, err = svc.IsHoliday(context.Background(), uuid.NewString(), date(2026, 2, 4), nil)
	assert.NoError(t, err)
	assert.Nil(t, h)
}

func TestPeriodCalendarCounts(t *testing.T) {
	svc := workcalendar.NewService(&fakeHolidayRepository{}, &fakeSettingsRepository{})

	cal, err := svc.ResolvePeriodCalendar(context.Background(), uuid.NewString(), workcalendar.WorkingDaysInput{
		StartDate: date(2026, 2, 1),
		EndDate:   date(2026, 2, 28),
	})
	assert.NoError(t, err)
	assert.Len(t, cal.Days, 28)

	// February 2026: 20 weekdays, 4 Saturdays, 4 Sundays.
	counts := cal.CountWorkingDays(date(2026, 2, 1), date(2026, 2, 28))
	assert.Equal(t, 20, counts.Weekday)
	assert.Equal(t, 0, counts.Saturday)
	assert.Equal(t, 0, counts.Sunday)

	// Sub-range count: first full week only.
	counts = cal.CountWorkingDays(date(2026, 2, 2), date(2026, 2, 8))
	assert.Equal(t, 5, counts.Weekday)

	// Inverted range yields zeroes.
	counts = cal.CountWorkingDays(date(2026, 2, 10), date(2026, 2, 9))
	assert.Equal(t, 0, counts.Total())
}
