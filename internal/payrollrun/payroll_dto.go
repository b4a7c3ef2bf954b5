package payrollrun

import (
	"time"

	"go-payroll/internal/workcalendar"
)

type CreateRunRequest struct {
	PeriodID          string   `json:"period_id" binding:"required,uuid"`
	CalculationMethod string   `json:"calculation_method" binding:"omitempty,oneof=attendance_based fixed_salary"`
	DepartmentID      *string  `json:"department_id" binding:"omitempty,uuid"`
	EmploymentType    *string  `json:"employment_type"`
	EmployeeIDs       []string `json:"employee_ids" binding:"omitempty,dive,uuid"`
}

type ProcessRunRequest struct {
	PaymentMethod    string `json:"payment_method" binding:"required"`
	PaymentReference string `json:"payment_reference"`
}

type RunResponse struct {
	ID                string  `json:"id"`
	CompanyID         string  `json:"company_id"`
	PeriodID          string  `json:"period_id"`
	RunNumber         string  `json:"run_number"`
	RunStatus         string  `json:"run_status"`
	CalculationMethod string  `json:"calculation_method"`
	TotalEmployees    int     `json:"total_employees"`
	ProcessedCount    int     `json:"processed_employees"`
	ErrorCount        int     `json:"error_employees"`
	TotalGross        float64 `json:"total_gross_amount"`
	TotalDeductions   float64 `json:"total_deductions_amount"`
	TotalNet          float64 `json:"total_net_amount"`
	CreatedAt         string  `json:"created_at"`
}

type RecordResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeCode    string  `json:"employee_code"`
	EmployeeName    string  `json:"employee_name"`
	DepartmentName  *string `json:"department_name,omitempty"`
	DesignationName *string `json:"designation_name,omitempty"`

	BaseSalary              float64 `json:"base_salary"`
	AttendanceAffectsSalary bool    `json:"attendance_affects_salary"`

	PeriodStartDate string `json:"period_start_date"`
	PeriodEndDate   string `json:"period_end_date"`
	UsesCustomCycle bool   `json:"uses_custom_cycle"`

	WeekdayWorkingDays int     `json:"weekday_working_days"`
	WorkingSaturdays   int     `json:"working_saturdays"`
	WorkingSundays     int     `json:"working_sundays"`
	DailySalary        float64 `json:"daily_salary"`
	WeekdayHourlyRate  float64 `json:"weekday_hourly_rate"`
	SaturdayHourlyRate float64 `json:"saturday_hourly_rate"`
	SundayHourlyRate   float64 `json:"sunday_hourly_rate"`

	TotalEarnings   float64 `json:"total_earnings"`
	TotalDeductions float64 `json:"total_deductions"`
	TotalTaxes      float64 `json:"total_taxes"`
	GrossSalary     float64 `json:"gross_salary"`
	NetSalary       float64 `json:"net_salary"`

	CalculationStatus string  `json:"calculation_status"`
	CalculationError  *string `json:"calculation_error,omitempty"`
	PaymentStatus     string  `json:"payment_status"`

	Components []ComponentResponse `json:"components,omitempty"`
}

type ComponentResponse struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Detail   *string `json:"detail,omitempty"`
}

// LiveRecordResponse labels the preview explicitly: the numbers move with
// wall-clock time while a session is open and are not a settled figure.
type LiveRecordResponse struct {
	RecordID    string             `json:"record_id"`
	EmployeeID  string             `json:"employee_id"`
	AsOf        time.Time          `json:"as_of"`
	LivePreview bool               `json:"live_preview"`
	Earned      EarnedSalaryResult `json:"earned"`
}

func mapRunToResponse(run PayrollRun) RunResponse {
	return RunResponse{
		ID:                run.ID.String(),
		CompanyID:         run.CompanyID.String(),
		PeriodID:          run.PeriodID.String(),
		RunNumber:         run.RunNumber,
		RunStatus:         run.RunStatus,
		CalculationMethod: run.CalculationMethod,
		TotalEmployees:    run.TotalEmployees,
		ProcessedCount:    run.ProcessedEmployees,
		ErrorCount:        run.ErrorEmployees,
		TotalGross:        run.TotalGrossAmount,
		TotalDeductions:   run.TotalDeductionsAmount,
		TotalNet:          run.TotalNetAmount,
		CreatedAt:         run.CreatedAt.Format(time.RFC3339),
	}
}

func mapRunsToResponse(runs []PayrollRun) []RunResponse {
	out := make([]RunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, mapRunToResponse(r))
	}
	return out
}

func mapRecordToResponse(rec PayrollRecord, components []PayrollRecordComponent) RecordResponse {
	resp := RecordResponse{
		ID:                      rec.ID.String(),
		EmployeeID:              rec.EmployeeID.String(),
		EmployeeCode:            rec.EmployeeCode,
		EmployeeName:            rec.EmployeeName,
		DepartmentName:          rec.DepartmentName,
		DesignationName:         rec.DesignationName,
		BaseSalary:              rec.BaseSalary,
		AttendanceAffectsSalary: rec.AttendanceAffectsSalary,
		PeriodStartDate:         rec.PeriodStartDate.Format("2006-01-02"),
		PeriodEndDate:           rec.PeriodEndDate.Format("2006-01-02"),
		UsesCustomCycle:         rec.UsesCustomCycle,
		WeekdayWorkingDays:      rec.WeekdayWorkingDays,
		WorkingSaturdays:        rec.WorkingSaturdays,
		WorkingSundays:          rec.WorkingSundays,
		DailySalary:             rec.DailySalary,
		WeekdayHourlyRate:       rec.WeekdayHourlyRate,
		SaturdayHourlyRate:      rec.SaturdayHourlyRate,
		SundayHourlyRate:        rec.SundayHourlyRate,
		TotalEarnings:           rec.TotalEarnings,
		TotalDeductions:         rec.TotalDeductions,
		TotalTaxes:              rec.TotalTaxes,
		GrossSalary:             rec.GrossSalary,
		NetSalary:               rec.NetSalary,
		CalculationStatus:       rec.CalculationStatus,
		CalculationError:        rec.CalculationError,
		PaymentStatus:           rec.PaymentStatus,
	}
	for _, c := range components {
		resp.Components = append(resp.Components, ComponentResponse{
			Code:     c.ComponentCode,
			Name:     c.ComponentName,
			Type:     c.ComponentType,
			Category: c.ComponentCategory,
			Amount:   c.CalculatedAmount,
			Detail:   c.Detail,
		})
	}
	return resp
}

// applyCounts snapshots per-day-type working-day counts onto a draft record.
func applyCounts(rec *PayrollRecord, counts workcalendar.DayCounts) {
	rec.WeekdayWorkingDays = counts.Weekday
	rec.WorkingSaturdays = counts.Saturday
	rec.WorkingSundays = counts.Sunday
}
