package attendance

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"go-payroll/internal/employee"
	"go-payroll/internal/shared/apperror"
)

const (
	testCompanyID  = "4d1c22b0-9d93-4a9c-8b11-0f6c21c53a10"
	testEmployeeID = "8a7f3c5e-2a41-4f6b-9d24-6cdd8f0b3e91"
)

type fakeAttendanceStore struct {
	Repository

	existing *Attendance
	created  *Attendance
	updated  *Attendance

	all             []Attendance
	byEmployee      []Attendance
	employeeQueried string
}

func (f *fakeAttendanceStore) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeAttendanceStore) Create(ctx context.Context, row *Attendance) error {
	f.created = row
	return nil
}

func (f *fakeAttendanceStore) Update(ctx context.Context, row *Attendance) error {
	f.updated = row
	return nil
}

func (f *fakeAttendanceStore) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*Attendance, error) {
	if f.existing == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.existing, nil
}

func (f *fakeAttendanceStore) FindAllByCompany(ctx context.Context, companyID string) ([]Attendance, error) {
	return f.all, nil
}

func (f *fakeAttendanceStore) FindAllByCompanyAndEmployee(ctx context.Context, companyID, employeeID string) ([]Attendance, error) {
	f.employeeQueried = employeeID
	return f.byEmployee, nil
}

type fakeEmployeeLookup struct {
	emp *employee.Employee
}

func (f *fakeEmployeeLookup) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	if f.emp == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.emp, nil
}

func (f *fakeEmployeeLookup) FindActiveForPayroll(ctx context.Context, companyID string, filter employee.PayrollFilter) ([]employee.Employee, error) {
	return nil, nil
}

func strPtr(v string) *string { return &v }

func weekdayEmployee() *employee.Employee {
	return &employee.Employee{
		FullName: "Dina Rahma",
		InTime:   strPtr("09:00"),
		OutTime:  strPtr("17:00"),
	}
}

type attendanceFixture struct {
	svc  *service
	repo *fakeAttendanceStore
	mock sqlmock.Sqlmock
}

func newAttendanceFixture(t *testing.T, now time.Time, emp *employee.Employee) *attendanceFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := &fakeAttendanceStore{}
	svc := &service{
		db:        db,
		repo:      repo,
		employees: &fakeEmployeeLookup{emp: emp},
		now:       func() time.Time { return now },
	}
	return &attendanceFixture{svc: svc, repo: repo, mock: mock}
}

func TestClockIn_OnTimeIsPresent(t *testing.T) {
	now := time.Date(2026, 1, 7, 8, 55, 0, 0, time.UTC) // Wednesday
	f := newAttendanceFixture(t, now, weekdayEmployee())
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.svc.ClockIn(context.Background(), testCompanyID, testEmployeeID, ClockInRequest{})
	require.NoError(t, err)

	assert.Equal(t, statusPresent, resp.Status)
	assert.Equal(t, "MANUAL", resp.Source)
	assert.Equal(t, "2026-01-07", resp.AttendanceDate)

	require.NotNil(t, f.repo.created)
	require.NotNil(t, f.repo.created.ScheduledInTime)
	require.NotNil(t, f.repo.created.ScheduledOutTime)
	assert.Equal(t, time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC), *f.repo.created.ScheduledInTime)
	assert.Equal(t, time.Date(2026, 1, 7, 17, 0, 0, 0, time.UTC), *f.repo.created.ScheduledOutTime)
	assert.Equal(t, 4, f.repo.created.IsWeekend)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestClockIn_LateAfterGrace(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want string
	}{
		{"inside grace", time.Date(2026, 1, 7, 9, 15, 0, 0, time.UTC), statusPresent},
		{"past grace", time.Date(2026, 1, 7, 9, 16, 0, 0, time.UTC), statusLate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newAttendanceFixture(t, tc.now, weekdayEmployee())
			f.mock.ExpectBegin()
			f.mock.ExpectCommit()

			resp, err := f.svc.ClockIn(context.Background(), testCompanyID, testEmployeeID, ClockInRequest{})
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.Status)
		})
	}
}

func TestClockIn_MalformedIDsRejectedBeforeAnyWork(t *testing.T) {
	now := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		name                  string
		companyID, employeeID string
	}{
		{"bad company id", "not-a-uuid", testEmployeeID},
		{"bad employee id", testCompanyID, "not-a-uuid"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newAttendanceFixture(t, now, weekdayEmployee())

			// No transaction expectations: validation fails before BeginTx.
			_, err := f.svc.ClockIn(context.Background(), tc.companyID, tc.employeeID, ClockInRequest{})
			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, 400, appErr.HTTPStatus)
			assert.Nil(t, f.repo.created)
			assert.NoError(t, f.mock.ExpectationsWereMet())
		})
	}
}

func TestClockIn_TwiceIsConflict(t *testing.T) {
	now := time.Date(2026, 1, 7, 13, 0, 0, 0, time.UTC)
	f := newAttendanceFixture(t, now, weekdayEmployee())
	f.repo.existing = &Attendance{CheckInTime: &now}
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.ClockIn(context.Background(), testCompanyID, testEmployeeID, ClockInRequest{})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.HTTPStatus)
	assert.Nil(t, f.repo.created)
}

func TestClockIn_WeekendOverrideNotWorking(t *testing.T) {
	emp := weekdayEmployee()
	emp.WeekendWorkingConfig = datatypes.NewJSONType(employee.WeekendWorkingConfig{
		Saturday: &employee.WeekendDayConfig{Working: false},
	})

	now := time.Date(2026, 1, 10, 11, 0, 0, 0, time.UTC) // Saturday
	f := newAttendanceFixture(t, now, emp)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.svc.ClockIn(context.Background(), testCompanyID, testEmployeeID, ClockInRequest{})
	require.NoError(t, err)

	// No schedule applies, so arriving at any time cannot be late.
	assert.Equal(t, statusPresent, resp.Status)
	assert.Nil(t, f.repo.created.ScheduledInTime)
	assert.Nil(t, f.repo.created.ScheduledOutTime)
}

func TestClockOut_PayableClampsToSchedule(t *testing.T) {
	now := time.Date(2026, 1, 7, 17, 30, 0, 0, time.UTC)
	f := newAttendanceFixture(t, now, weekdayEmployee())

	checkIn := time.Date(2026, 1, 7, 8, 30, 0, 0, time.UTC)
	schedIn := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)
	schedOut := time.Date(2026, 1, 7, 17, 0, 0, 0, time.UTC)
	f.repo.existing = &Attendance{
		CheckInTime:      &checkIn,
		ScheduledInTime:  &schedIn,
		ScheduledOutTime: &schedOut,
	}
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.svc.ClockOut(context.Background(), testCompanyID, testEmployeeID, ClockOutRequest{Notes: strPtr("left late")})
	require.NoError(t, err)

	// Early arrival and late departure both clamp to the 8h shift window.
	assert.Equal(t, int64(8*3600), resp.PayableSeconds)
	require.NotNil(t, f.repo.updated)
	assert.Equal(t, "left late", *f.repo.updated.Notes)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestClockOut_WithoutClockIn(t *testing.T) {
	now := time.Date(2026, 1, 7, 17, 0, 0, 0, time.UTC)
	f := newAttendanceFixture(t, now, weekdayEmployee())
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.ClockOut(context.Background(), testCompanyID, testEmployeeID, ClockOutRequest{})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.HTTPStatus)
}

func TestClockOut_TwiceIsConflict(t *testing.T) {
	now := time.Date(2026, 1, 7, 18, 0, 0, 0, time.UTC)
	f := newAttendanceFixture(t, now, weekdayEmployee())

	checkIn := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 1, 7, 17, 0, 0, 0, time.UTC)
	f.repo.existing = &Attendance{CheckInTime: &checkIn, CheckOutTime: &checkOut}
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.ClockOut(context.Background(), testCompanyID, testEmployeeID, ClockOutRequest{})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.HTTPStatus)
	assert.Nil(t, f.repo.updated)
}

func TestGetAll_ScopesToActorWithoutReadAll(t *testing.T) {
	now := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)
	f := newAttendanceFixture(t, now, weekdayEmployee())

	_, err := f.svc.GetAll(context.Background(), testCompanyID, testEmployeeID, false)
	require.NoError(t, err)
	assert.Equal(t, testEmployeeID, f.repo.employeeQueried)

	_, err = f.svc.GetAll(context.Background(), testCompanyID, "not-a-uuid", false)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.HTTPStatus)
}

func TestPayableSeconds(t *testing.T) {
	at := func(h, m int) *time.Time {
		v := time.Date(2026, 1, 7, h, m, 0, 0, time.UTC)
		return &v
	}

	cases := []struct {
		name               string
		in, out            *time.Time
		schedIn, schedOut  *time.Time
		want               int64
	}{
		{"no schedule pays full interval", at(10, 0), at(14, 30), nil, nil, int64(4.5 * 3600)},
		{"overlap only", at(8, 0), at(18, 0), at(9, 0), at(17, 0), 8 * 3600},
		{"entirely outside schedule", at(18, 0), at(20, 0), at(9, 0), at(17, 0), 0},
		{"open session", at(9, 0), nil, at(9, 0), at(17, 0), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, payableSeconds(tc.in, tc.out, tc.schedIn, tc.schedOut))
		})
	}
}

func TestScheduledTimes_OvernightShift(t *testing.T) {
	emp := &employee.Employee{
		InTime:  strPtr("22:00"),
		OutTime: strPtr("06:00"),
	}
	date := time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)

	in, out := scheduledTimes(emp, date)
	require.NotNil(t, in)
	require.NotNil(t, out)
	assert.Equal(t, time.Date(2026, 1, 7, 22, 0, 0, 0, time.UTC), *in)
	assert.Equal(t, time.Date(2026, 1, 8, 6, 0, 0, 0, time.UTC), *out)
}

func TestScheduledTimes_WeekendOverrideWins(t *testing.T) {
	emp := weekdayEmployee()
	emp.WeekendWorkingConfig = datatypes.NewJSONType(employee.WeekendWorkingConfig{
		Saturday: &employee.WeekendDayConfig{Working: true, InTime: "10:00", OutTime: "14:00"},
	})

	saturday := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	in, out := scheduledTimes(emp, saturday)
	require.NotNil(t, in)
	require.NotNil(t, out)
	assert.Equal(t, 10, in.Hour())
	assert.Equal(t, 14, out.Hour())

	// Sunday has no override and weekday times do not apply.
	sunday := time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC)
	in, out = scheduledTimes(emp, sunday)
	assert.Nil(t, in)
	assert.Nil(t, out)
}

func TestScheduledTimes_ErrorsNeverPropagate(t *testing.T) {
	emp := &employee.Employee{
		InTime:  strPtr("bogus"),
		OutTime: strPtr("17:00"),
	}
	in, out := scheduledTimes(emp, time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC))
	assert.Nil(t, in)
	assert.Nil(t, out)
}
