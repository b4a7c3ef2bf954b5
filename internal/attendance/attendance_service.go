package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	statusPresent = "PRESENT"
	statusLate    = "LATE"

	lateGraceMinutes = 15
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context, companyID, employeeID string, req ClockOutRequest) (AttendanceResponse, error)
	GetAll(ctx context.Context, companyID, actorID string, canReadAll bool) ([]AttendanceResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	now       func() time.Time
}

func NewService(db *sql.DB, repo Repository, employees employee.Repository) Service {
	return &service{db: db, repo: repo, employees: employees, now: time.Now}
}

func (s *service) ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (AttendanceResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return AttendanceResponse{}, apperror.New(apperror.CodeInvalidInput, "invalid company id", 400)
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return AttendanceResponse{}, apperror.New(apperror.CodeInvalidInput, "invalid employee id", 400)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now().UTC()
	today := now.Truncate(24 * time.Hour)

	existing, err := qtx.FindByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}
	if err == nil && existing != nil {
		return AttendanceResponse{}, apperror.New(apperror.CodeConflict, "already clocked in for today", 409)
	}

	emp, err := s.employees.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		return AttendanceResponse{}, err
	}

	schedIn, schedOut := scheduledTimes(emp, today)

	status := statusPresent
	if schedIn != nil && now.After(schedIn.Add(lateGraceMinutes*time.Minute)) {
		status = statusLate
	}

	source := req.Source
	if source == "" {
		source = "MANUAL"
	}

	row := &Attendance{
		ID:               uuid.New(),
		CompanyID:        companyUUID,
		EmployeeID:       employeeUUID,
		AttendanceDate:   today,
		CheckInTime:      &now,
		ScheduledInTime:  schedIn,
		ScheduledOutTime: schedOut,
		IsWeekend:        DayCode(today),
		Status:           status,
		Source:           source,
		Notes:            req.Notes,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) ClockOut(ctx context.Context, companyID, employeeID string, req ClockOutRequest) (AttendanceResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now().UTC()
	today := now.Truncate(24 * time.Hour)

	row, err := qtx.FindByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, apperror.New(apperror.CodeNotFound, "clock in not found for today", 404)
		}
		return AttendanceResponse{}, err
	}
	if row.CheckOutTime != nil {
		return AttendanceResponse{}, apperror.New(apperror.CodeConflict, "already clocked out for today", 409)
	}

	row.CheckOutTime = &now
	row.PayableDuration = payableSeconds(row.CheckInTime, row.CheckOutTime, row.ScheduledInTime, row.ScheduledOutTime)
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	if err := qtx.Update(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, companyID, actorID string, canReadAll bool) ([]AttendanceResponse, error) {
	var (
		rows []Attendance
		err  error
	)
	if canReadAll {
		rows, err = s.repo.FindAllByCompany(ctx, companyID)
	} else {
		if _, parseErr := uuid.Parse(actorID); parseErr != nil {
			return nil, apperror.New(apperror.CodeInvalidInput, "invalid actor id", 400)
		}
		rows, err = s.repo.FindAllByCompanyAndEmployee(ctx, companyID, actorID)
	}
	if err != nil {
		return nil, err
	}
	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

// scheduledTimes resolves the shift window that applies on a given date:
// the employee's weekend override on Saturday/Sunday, otherwise the default
// weekday in/out times. Returns nils when nothing is configured.
func scheduledTimes(emp *employee.Employee, date time.Time) (*time.Time, *time.Time) {
	var inClock, outClock string

	if cfg := emp.WeekendWorkingConfig.Data().Day(date.Weekday()); cfg != nil {
		if !cfg.Working {
			return nil, nil
		}
		inClock, outClock = cfg.InTime, cfg.OutTime
	} else if date.Weekday() != time.Saturday && date.Weekday() != time.Sunday {
		if emp.InTime != nil && emp.OutTime != nil {
			inClock, outClock = *emp.InTime, *emp.OutTime
		}
	}

	if inClock == "" || outClock == "" {
		return nil, nil
	}

	in, err := employee.ScheduledAt(date, inClock)
	if err != nil {
		return nil, nil
	}
	out, err := employee.ScheduledAt(date, outClock)
	if err != nil {
		return nil, nil
	}
	if !out.After(in) {
		out = out.Add(24 * time.Hour)
	}
	return &in, &out
}

// payableSeconds is the overlap between the scheduled shift and the worked
// interval. Without a schedule the whole worked interval is payable.
func payableSeconds(in, out, schedIn, schedOut *time.Time) int64 {
	if in == nil || out == nil {
		return 0
	}

	start, end := *in, *out
	if schedIn != nil && schedOut != nil {
		if schedIn.After(start) {
			start = *schedIn
		}
		if schedOut.Before(end) {
			end = *schedOut
		}
	}

	if !end.After(start) {
		return 0
	}
	return int64(end.Sub(start).Seconds())
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             a.ID.String(),
		CompanyID:      a.CompanyID.String(),
		EmployeeID:     a.EmployeeID.String(),
		AttendanceDate: a.AttendanceDate.Format("2006-01-02"),
		PayableSeconds: a.PayableDuration,
		DayOfWeekCode:  a.IsWeekend,
		OvertimeHours:  a.OvertimeHours,
		Status:         a.Status,
		Source:         a.Source,
		Notes:          a.Notes,
	}
	if a.CheckInTime != nil {
		v := a.CheckInTime.Format(time.RFC3339)
		resp.CheckInTime = &v
	}
	if a.CheckOutTime != nil {
		v := a.CheckOutTime.Format(time.RFC3339)
		resp.CheckOutTime = &v
	}
	if a.ScheduledInTime != nil {
		v := a.ScheduledInTime.Format(time.RFC3339)
		resp.ScheduledInTime = &v
	}
	if a.ScheduledOutTime != nil {
		v := a.ScheduledOutTime.Format(time.RFC3339)
		resp.ScheduledOutTime = &v
	}
	return resp
}
