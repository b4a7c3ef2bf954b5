package payrollrun

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-payroll/internal/attendance"
	"go-payroll/internal/bootstrap"
	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/finance"
	"go-payroll/internal/leave"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/paycycle"
	payrollrunerrors "go-payroll/internal/payrollrun/errors"
	"go-payroll/internal/salarycomponent"
	"go-payroll/internal/settings"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/workcalendar"
)

const runNumberCounterType = "payroll_run"

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	CreateRun(ctx context.Context, companyID, actorID string, req CreateRunRequest) (RunResponse, error)
	CalculateRun(ctx context.Context, companyID, runID string) (RunResponse, error)
	ProcessRun(ctx context.Context, companyID, runID string, req ProcessRunRequest) (RunResponse, error)
	CancelRun(ctx context.Context, companyID, actorID, runID string) error

	GetAll(ctx context.Context, companyID string) ([]RunResponse, error)
	GetByID(ctx context.Context, companyID, runID string) (RunResponse, error)
	GetRecords(ctx context.Context, companyID, runID string) ([]RecordResponse, error)

	// GetLiveRecord recomputes one record's earned salary against current
	// attendance, including today's open session. Read-only; consecutive
	// calls legitimately differ while a session is open.
	GetLiveRecord(ctx context.Context, companyID, runID, employeeID string) (LiveRecordResponse, error)
}

// Collaborators groups the read/write contracts of the other modules.
type Collaborators struct {
	Employees  employee.Repository
	Attendance attendance.Repository
	Leaves     leave.Repository
	Settings   settings.Repository
	Components salarycomponent.Repository
	Finance    finance.Repository
	Calendar   workcalendar.Service
	Counter    counter.Repository
}

type service struct {
	db     *sql.DB
	repo   Repository
	deps   Collaborators
	outbox kafka.OutboxRepository
	audit  bootstrap.AuditLogger
	now    func() time.Time
}

func NewService(db *sql.DB, repo Repository, deps Collaborators, outbox kafka.OutboxRepository, audit bootstrap.AuditLogger) Service {
	return &service{db: db, repo: repo, deps: deps, outbox: outbox, audit: audit, now: time.Now}
}

// NewServiceWithClock pins the evaluation clock; calculation and preview
// results become deterministic for a fixed instant.
func NewServiceWithClock(db *sql.DB, repo Repository, deps Collaborators, outbox kafka.OutboxRepository, audit bootstrap.AuditLogger, clock func() time.Time) Service {
	return &service{db: db, repo: repo, deps: deps, outbox: outbox, audit: audit, now: clock}
}

func (s *service) CreateRun(ctx context.Context, companyID, actorID string, req CreateRunRequest) (RunResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return RunResponse{}, payrollrunerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return RunResponse{}, payrollrunerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	period, err := qtx.FindPeriodByIDAndCompany(ctx, companyID, req.PeriodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RunResponse{}, payrollrunerrors.ErrPeriodNotFound
		}
		return RunResponse{}, err
	}

	exists, err := qtx.HasRunForPeriod(ctx, companyID, req.PeriodID)
	if err != nil {
		return RunResponse{}, err
	}
	if exists {
		return RunResponse{}, payrollrunerrors.ErrRunAlreadyExists
	}

	employees, err := s.deps.Employees.FindActiveForPayroll(ctx, companyID, employee.PayrollFilter{
		DepartmentID:   req.DepartmentID,
		EmploymentType: req.EmploymentType,
		EmployeeIDs:    req.EmployeeIDs,
	})
	if err != nil {
		return RunResponse{}, err
	}
	if len(employees) == 0 {
		return RunResponse{}, payrollrunerrors.ErrNoEligibleEmployees
	}

	cfg, err := s.deps.Settings.FindByCompany(ctx, companyID)
	if err != nil {
		return RunResponse{}, err
	}

	seq, err := s.deps.Counter.GetNextValue(ctx, companyID, runNumberCounterType)
	if err != nil {
		return RunResponse{}, err
	}

	method := req.CalculationMethod
	if method == "" {
		method = CalculationMethodAttendance
	}

	run := PayrollRun{
		ID:                uuid.New(),
		CompanyID:         companyUUID,
		PeriodID:          period.ID,
		RunNumber:         fmt.Sprintf("PR-%d-%04d", period.PeriodYear, seq),
		RunStatus:         RunStatusDraft,
		CalculationMethod: method,
		TotalEmployees:    len(employees),
		CreatedBy:         actorUUID,
	}
	if err := qtx.CreateRun(ctx, &run); err != nil {
		return RunResponse{}, err
	}

	records := make([]PayrollRecord, 0, len(employees))
	for _, emp := range employees {
		rec, err := s.buildDraftRecord(ctx, run, emp, *period, cfg)
		if err != nil {
			return RunResponse{}, err
		}
		records = append(records, rec)
	}
	if err := qtx.CreateRecords(ctx, records); err != nil {
		return RunResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "PAYROLL_RUN_CREATED",
		Message: "payroll run created in draft",
		Meta: map[string]any{
			"run_id":     run.ID.String(),
			"company_id": companyID,
			"employees":  len(employees),
		},
	})

	return mapRunToResponse(run), nil
}

// buildDraftRecord resolves the employee's effective period, the period
// calendar and the immutable rate block for one draft record.
func (s *service) buildDraftRecord(
	ctx context.Context,
	run PayrollRun,
	emp employee.Employee,
	period PayrollPeriod,
	cfg settings.PayrollSettings,
) (PayrollRecord, error) {
	companyID := run.CompanyID.String()

	cycle := paycycle.ResolvePeriod(emp, period.PeriodStartDate, period.PeriodEndDate)

	var departmentID *string
	if emp.DepartmentID != nil {
		v := emp.DepartmentID.String()
		departmentID = &v
	}

	cal, err := s.deps.Calendar.ResolvePeriodCalendar(ctx, companyID, workcalendar.WorkingDaysInput{
		StartDate:    cycle.StartDate,
		EndDate:      cycle.EndDate,
		DepartmentID: departmentID,
		Employee:     &emp,
	})
	if err != nil {
		return PayrollRecord{}, err
	}
	counts := cal.CountWorkingDays(cal.Start, cal.End)

	scheduled, err := s.deps.Attendance.FindScheduledInRange(ctx, companyID, emp.ID.String(), cycle.StartDate, cycle.EndDate)
	if err != nil {
		return PayrollRecord{}, err
	}

	rates := PrecomputeRates(RateInput{
		Employee:      emp,
		Settings:      cfg,
		Counts:        counts,
		ScheduledRows: scheduled,
	})

	rec := PayrollRecord{
		ID:                      uuid.New(),
		CompanyID:               run.CompanyID,
		PayrollRunID:            run.ID,
		EmployeeID:              emp.ID,
		EmployeeCode:            emp.EmployeeCode,
		EmployeeName:            emp.FullName,
		DepartmentName:          emp.DepartmentName,
		DesignationName:         emp.DesignationName,
		BaseSalary:              emp.BaseSalary,
		AttendanceAffectsSalary: emp.AttendanceAffectsSalary,
		PeriodStartDate:         cycle.StartDate,
		PeriodEndDate:           cycle.EndDate,
		UsesCustomCycle:         cycle.UsesCustomCycle,
		WeekdayDailyHours:       rates.WeekdayDailyHours,
		SaturdayDailyHours:      rates.SaturdayDailyHours,
		SundayDailyHours:        rates.SundayDailyHours,
		DailySalary:             rates.DailySalary,
		WeekdayHourlyRate:       rates.WeekdayHourlyRate,
		SaturdayHourlyRate:      rates.SaturdayHourlyRate,
		SundayHourlyRate:        rates.SundayHourlyRate,
		CalculationStatus:       CalculationStatusPending,
		PaymentStatus:           PaymentStatusUnpaid,
	}
	applyCounts(&rec, counts)
	return rec, nil
}

func (s *service) CalculateRun(ctx context.Context, companyID, runID string) (RunResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := qtx.FindRunByIDAndCompany(ctx, companyID, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RunResponse{}, payrollrunerrors.ErrRunNotFound
		}
		return RunResponse{}, err
	}
	if run.RunStatus != RunStatusDraft && run.RunStatus != RunStatusCalculating {
		return RunResponse{}, payrollrunerrors.ErrCalculateOnlyDraft
	}

	run.RunStatus = RunStatusCalculating
	if err := qtx.UpdateRun(ctx, run); err != nil {
		return RunResponse{}, err
	}

	records, err := qtx.FindRecordsByRun(ctx, companyID, runID)
	if err != nil {
		return RunResponse{}, err
	}

	cfg, err := s.deps.Settings.FindByCompany(ctx, companyID)
	if err != nil {
		return RunResponse{}, err
	}

	log := contextutil.GetLogger(ctx, zap.L()).Named("payrollrun")
	run.ProcessedEmployees = 0
	run.ErrorEmployees = 0
	run.TotalGrossAmount = 0
	run.TotalDeductionsAmount = 0
	run.TotalNetAmount = 0

	// Sequential per-record loop; one employee's failure is recorded on the
	// record and never aborts the run.
	for i := range records {
		rec := &records[i]
		firstCalculation := rec.CalculationStatus == CalculationStatusPending

		result, err := s.calculateRecord(ctx, tx, run, rec, cfg, firstCalculation)
		if err != nil {
			msg := err.Error()
			rec.CalculationStatus = CalculationStatusError
			rec.CalculationError = &msg
			run.ErrorEmployees++
			log.Warn("record_calculation_failed",
				zap.String("run_id", runID),
				zap.String("employee_id", rec.EmployeeID.String()),
				zap.Error(err),
			)
			if err := qtx.UpdateRecord(ctx, rec); err != nil {
				return RunResponse{}, err
			}
			continue
		}

		run.ProcessedEmployees++
		run.TotalGrossAmount += result.GrossSalary
		run.TotalDeductionsAmount += result.TotalDeductions
		run.TotalNetAmount += result.NetSalary

		log.Info("record_calculated",
			zap.String("run_id", runID),
			zap.String("employee_id", rec.EmployeeID.String()),
			zap.Float64("earned", result.EarnedBase),
			zap.Float64("deduction", result.TotalDeductions),
		)
	}

	run.RunStatus = RunStatusCalculated
	if err := qtx.UpdateRun(ctx, run); err != nil {
		return RunResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}
	return mapRunToResponse(*run), nil
}

// calculateRecord runs the earned-salary engine and the composition pipeline
// for one record, persists the outcome and applies the side effects.
// Installment decrements and bonus assignment only happen on the record's
// first calculation so a recalculation never double-applies them.
func (s *service) calculateRecord(
	ctx context.Context,
	tx *sql.Tx,
	run *PayrollRun,
	rec *PayrollRecord,
	cfg settings.PayrollSettings,
	firstCalculation bool,
) (CompositionResult, error) {
	companyID := rec.CompanyID.String()
	employeeID := rec.EmployeeID.String()
	qtx := s.repo.WithTx(tx)

	emp, err := s.deps.Employees.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompositionResult{}, fmt.Errorf("employee %s not found", employeeID)
		}
		return CompositionResult{}, err
	}

	var departmentID *string
	if emp.DepartmentID != nil {
		v := emp.DepartmentID.String()
		departmentID = &v
	}

	cal, err := s.deps.Calendar.ResolvePeriodCalendar(ctx, companyID, workcalendar.WorkingDaysInput{
		StartDate:    rec.PeriodStartDate,
		EndDate:      rec.PeriodEndDate,
		DepartmentID: departmentID,
		Employee:     emp,
	})
	if err != nil {
		return CompositionResult{}, err
	}

	attendanceRows, err := s.deps.Attendance.FindCompletedInRange(ctx, companyID, employeeID, rec.PeriodStartDate, rec.PeriodEndDate)
	if err != nil {
		return CompositionResult{}, err
	}
	leaveRows, err := s.deps.Leaves.FindApprovedOverlapping(ctx, companyID, employeeID, rec.PeriodStartDate, rec.PeriodEndDate)
	if err != nil {
		return CompositionResult{}, err
	}

	earned := CalculateEarnedSalary(EarnedSalaryInput{
		Rates:      rec.Rates(),
		Calendar:   cal,
		Attendance: attendanceRows,
		Leaves:     leaveRows,
		Now:        s.now().UTC(),
	})

	comp, err := s.composeRecord(ctx, *run, rec, cal, attendanceRows, earned, cfg)
	if err != nil {
		return CompositionResult{}, err
	}

	rec.TotalEarnings = comp.TotalEarnings
	rec.TotalDeductions = comp.TotalDeductions
	rec.TotalTaxes = comp.TotalTaxes
	rec.GrossSalary = comp.GrossSalary
	rec.NetSalary = comp.NetSalary
	rec.CalculationStatus = CalculationStatusCalculated
	rec.CalculationError = nil
	calculatedAt := s.now().UTC()
	rec.CalculatedAt = &calculatedAt

	if err := qtx.UpdateRecord(ctx, rec); err != nil {
		return CompositionResult{}, err
	}
	if err := qtx.ReplaceComponents(ctx, rec.ID.String(), comp.Components); err != nil {
		return CompositionResult{}, err
	}

	if firstCalculation {
		componentsTx := s.deps.Components.WithTx(tx)
		for _, id := range comp.DecrementInstallments {
			if err := componentsTx.DecrementInstallment(ctx, companyID, id.String()); err != nil {
				return CompositionResult{}, err
			}
		}
		financeTx := s.deps.Finance.WithTx(tx)
		for _, id := range comp.PaidBonusIDs {
			if err := financeTx.MarkBonusPaid(ctx, companyID, id.String(), run.ID.String()); err != nil {
				return CompositionResult{}, err
			}
		}
	}

	return comp, nil
}

// composeRecord gathers the employee's payroll configuration and runs the
// composition pipeline.
func (s *service) composeRecord(
	ctx context.Context,
	run PayrollRun,
	rec *PayrollRecord,
	cal workcalendar.PeriodCalendar,
	attendanceRows []attendance.Attendance,
	earned EarnedSalaryResult,
	cfg settings.PayrollSettings,
) (CompositionResult, error) {
	companyID := rec.CompanyID.String()
	employeeID := rec.EmployeeID.String()

	emp, err := s.deps.Employees.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		return CompositionResult{}, err
	}

	components, err := s.deps.Components.FindActiveComponents(ctx, companyID)
	if err != nil {
		return CompositionResult{}, err
	}
	employeeComponents, err := s.deps.Components.FindActiveEmployeeComponents(ctx, companyID, employeeID)
	if err != nil {
		return CompositionResult{}, err
	}
	legacyAllowances, err := s.deps.Components.FindLegacyAllowances(ctx, companyID, employeeID)
	if err != nil {
		return CompositionResult{}, err
	}
	legacyDeductions, err := s.deps.Components.FindLegacyDeductions(ctx, companyID, employeeID)
	if err != nil {
		return CompositionResult{}, err
	}
	financialRecords, err := s.deps.Finance.FindActiveDueInPeriod(ctx, companyID, employeeID, rec.PeriodEndDate)
	if err != nil {
		return CompositionResult{}, err
	}
	bonuses, err := s.deps.Finance.FindApprovedBonuses(ctx, companyID, employeeID, run.ID.String(), rec.PeriodStartDate, rec.PeriodEndDate)
	if err != nil {
		return CompositionResult{}, err
	}

	var overtimeHours, holidayOvertimeHours float64
	if cfg.EnableOvertimeCalculation {
		for _, row := range attendanceRows {
			if row.OvertimeHours <= 0 {
				continue
			}
			overtimeHours += row.OvertimeHours
			if cal.IsHoliday(row.AttendanceDate) {
				holidayOvertimeHours += row.OvertimeHours
			}
		}
	}

	return Compose(CompositionInput{
		Record:   *rec,
		Earned:   earned,
		Settings: cfg,
		Components: components,
		Target: salarycomponent.TargetEmployee{
			ID:            emp.ID,
			DepartmentID:  emp.DepartmentID,
			DesignationID: emp.DesignationID,
		},
		EmployeeComponents:   employeeComponents,
		LegacyAllowances:     legacyAllowances,
		LegacyDeductions:     legacyDeductions,
		FinancialRecords:     financialRecords,
		Bonuses:              bonuses,
		OvertimeHours:        overtimeHours,
		HolidayOvertimeHours: holidayOvertimeHours,
	})
}

func (s *service) ProcessRun(ctx context.Context, companyID, runID string, req ProcessRunRequest) (RunResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := qtx.FindRunByIDAndCompany(ctx, companyID, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RunResponse{}, payrollrunerrors.ErrRunNotFound
		}
		return RunResponse{}, err
	}
	if run.RunStatus != RunStatusCalculated {
		return RunResponse{}, payrollrunerrors.ErrProcessOnlyCalculated
	}

	run.RunStatus = RunStatusProcessing
	if err := qtx.UpdateRun(ctx, run); err != nil {
		return RunResponse{}, err
	}

	paymentDate := workcalendar.DateOnly(s.now().UTC())
	if err := qtx.MarkRecordsPaid(ctx, companyID, runID, req.PaymentMethod, paymentDate, req.PaymentReference); err != nil {
		return RunResponse{}, err
	}

	run.RunStatus = RunStatusCompleted
	if err := qtx.UpdateRun(ctx, run); err != nil {
		return RunResponse{}, err
	}

	payload, err := json.Marshal(events.PayrollRunCompletedEvent{
		EventType:      "payroll_run_completed",
		RunID:          run.ID.String(),
		CompanyID:      companyID,
		PeriodID:       run.PeriodID.String(),
		TotalEmployees: run.TotalEmployees,
		TotalNetAmount: run.TotalNetAmount,
		OccurredAt:     s.now().UTC(),
	})
	if err != nil {
		return RunResponse{}, err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		AggregateType: "payroll_run",
		AggregateID:   run.ID.String(),
		EventType:     "payroll_run_completed",
		Topic:         events.PayrollRunCompletedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		return RunResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "PAYROLL_RUN_PROCESSED",
		Message: "payroll run processed and records marked paid",
		Meta: map[string]any{
			"run_id":         runID,
			"company_id":     companyID,
			"payment_method": req.PaymentMethod,
		},
	})

	return mapRunToResponse(*run), nil
}

func (s *service) CancelRun(ctx context.Context, companyID, actorID, runID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := qtx.FindRunByIDAndCompany(ctx, companyID, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return payrollrunerrors.ErrRunNotFound
		}
		return err
	}
	if run.RunStatus != RunStatusDraft && run.RunStatus != RunStatusCalculated {
		return payrollrunerrors.ErrCannotCancelRun
	}

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "PAYROLL_RUN_CANCELLED",
		Message: "payroll run hard-deleted with its records and components",
		Meta: map[string]any{
			"run_id":     runID,
			"company_id": companyID,
			"actor_id":   actorID,
			"status":     run.RunStatus,
		},
	})

	if err := qtx.DeleteRunCascade(ctx, companyID, runID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]RunResponse, error) {
	runs, err := s.repo.FindAllRunsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapRunsToResponse(runs), nil
}

func (s *service) GetByID(ctx context.Context, companyID, runID string) (RunResponse, error) {
	run, err := s.repo.FindRunByIDAndCompany(ctx, companyID, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RunResponse{}, payrollrunerrors.ErrRunNotFound
		}
		return RunResponse{}, err
	}
	return mapRunToResponse(*run), nil
}

func (s *service) GetRecords(ctx context.Context, companyID, runID string) ([]RecordResponse, error) {
	records, err := s.repo.FindRecordsByRun(ctx, companyID, runID)
	if err != nil {
		return nil, err
	}

	components, err := s.repo.FindComponentsByRun(ctx, companyID, runID)
	if err != nil {
		return nil, err
	}
	byRecord := make(map[uuid.UUID][]PayrollRecordComponent, len(records))
	for _, comp := range components {
		byRecord[comp.PayrollRecordID] = append(byRecord[comp.PayrollRecordID], comp)
	}

	out := make([]RecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, mapRecordToResponse(rec, byRecord[rec.ID]))
	}
	return out, nil
}

func (s *service) GetLiveRecord(ctx context.Context, companyID, runID, employeeID string) (LiveRecordResponse, error) {
	rec, err := s.repo.FindRecordByRunAndEmployee(ctx, companyID, runID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LiveRecordResponse{}, payrollrunerrors.ErrRecordNotFound
		}
		return LiveRecordResponse{}, err
	}

	emp, err := s.deps.Employees.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		return LiveRecordResponse{}, err
	}

	var departmentID *string
	if emp.DepartmentID != nil {
		v := emp.DepartmentID.String()
		departmentID = &v
	}

	cal, err := s.deps.Calendar.ResolvePeriodCalendar(ctx, companyID, workcalendar.WorkingDaysInput{
		StartDate:    rec.PeriodStartDate,
		EndDate:      rec.PeriodEndDate,
		DepartmentID: departmentID,
		Employee:     emp,
	})
	if err != nil {
		return LiveRecordResponse{}, err
	}

	attendanceRows, err := s.deps.Attendance.FindCompletedInRange(ctx, companyID, employeeID, rec.PeriodStartDate, rec.PeriodEndDate)
	if err != nil {
		return LiveRecordResponse{}, err
	}
	leaveRows, err := s.deps.Leaves.FindApprovedOverlapping(ctx, companyID, employeeID, rec.PeriodStartDate, rec.PeriodEndDate)
	if err != nil {
		return LiveRecordResponse{}, err
	}

	now := s.now().UTC()
	var liveSession *attendance.Attendance
	today := workcalendar.DateOnly(now)
	if !today.Before(cal.Start) && !today.After(cal.End) {
		open, err := s.deps.Attendance.FindOpenSession(ctx, companyID, employeeID, today)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return LiveRecordResponse{}, err
		}
		liveSession = open
	}

	earned := CalculateEarnedSalary(EarnedSalaryInput{
		Rates:              rec.Rates(),
		Calendar:           cal,
		Attendance:         attendanceRows,
		Leaves:             leaveRows,
		LiveSession:        liveSession,
		IncludeLiveSession: true,
		Now:                now,
	})

	return LiveRecordResponse{
		RecordID:    rec.ID.String(),
		EmployeeID:  employeeID,
		AsOf:        now,
		LivePreview: true,
		Earned:      earned,
	}, nil
}
