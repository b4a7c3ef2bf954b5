package payrollrun

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"go-payroll/internal/finance"
	"go-payroll/internal/salarycomponent"
	"go-payroll/internal/settings"
)

const (
	componentCodeBaseSalary          = "BASE_SALARY"
	componentCodeAttendanceShortfall = "ATTENDANCE_SHORTFALL"
	componentCodeOvertime            = "OVERTIME"
	componentCodeIncomeTax           = "INCOME_TAX"
	componentCodeBonus               = "BONUS"
	componentCodeLoan                = "LOAN_INSTALLMENT"
	componentCodeAdvance             = "ADVANCE_INSTALLMENT"
)

// CompositionInput carries the record's earned-salary result plus the
// employee's pre-fetched payroll configuration.
type CompositionInput struct {
	Record PayrollRecord
	Earned EarnedSalaryResult

	Settings settings.PayrollSettings

	Components         []salarycomponent.SalaryComponent
	Target             salarycomponent.TargetEmployee
	EmployeeComponents []salarycomponent.EmployeeComponent
	LegacyAllowances   []salarycomponent.LegacyAllowance
	LegacyDeductions   []salarycomponent.LegacyDeduction

	FinancialRecords []finance.FinancialRecord
	Bonuses          []finance.Bonus

	// Overtime hours per period split by holiday status, summed from
	// attendance rows by the caller.
	OvertimeHours        float64
	HolidayOvertimeHours float64
}

// CompositionResult is the assembled gross/net math plus the component
// ledger rows and the side effects the service applies after persisting.
type CompositionResult struct {
	EarnedBase      float64
	TotalEarnings   float64
	TotalDeductions float64
	TotalTaxes      float64
	GrossSalary     float64
	NetSalary       float64

	Components []PayrollRecordComponent

	// DecrementInstallments lists recurring employee components whose
	// remaining installment count must drop by one.
	DecrementInstallments []uuid.UUID
	// PaidBonusIDs lists bonuses consumed by this run.
	PaidBonusIDs []uuid.UUID
}

// Compose assembles one record's gross, deduction and net figures.
//
// The earned base is the engine's earned salary when attendance affects pay,
// otherwise the untouched base snapshot. Configured deductions compute on
// the earned base only, never on allowances. The attendance shortfall is
// persisted as an informational component but excluded from the deduction
// total: it already reduced the earned base, subtracting it again would
// double-count.
func Compose(in CompositionInput) (CompositionResult, error) {
	var res CompositionResult

	earnedBase := in.Earned.EarnedSalary
	shortfall := in.Earned.Deduction
	if !in.Record.AttendanceAffectsSalary {
		earnedBase = in.Record.BaseSalary
		shortfall = 0
	}
	res.EarnedBase = round2(earnedBase)

	res.Components = append(res.Components, PayrollRecordComponent{
		ID:                uuid.New(),
		PayrollRecordID:   in.Record.ID,
		ComponentCode:     componentCodeBaseSalary,
		ComponentName:     "Base Salary (Earned)",
		ComponentType:     salarycomponent.TypeEarning,
		ComponentCategory: salarycomponent.CategoryStatutory,
		CalculatedAmount:  res.EarnedBase,
	})

	if shortfall > 0 {
		detail := fmt.Sprintf(
			"unpaid_leave=%.2f time_variance=%.2f absent=%.2f",
			in.Earned.Shortfall.UnpaidLeave,
			in.Earned.Shortfall.TimeVariance,
			in.Earned.Shortfall.AbsentDays,
		)
		res.Components = append(res.Components, PayrollRecordComponent{
			ID:                uuid.New(),
			PayrollRecordID:   in.Record.ID,
			ComponentCode:     componentCodeAttendanceShortfall,
			ComponentName:     "Attendance Shortfall",
			ComponentType:     salarycomponent.TypeDeduction,
			ComponentCategory: salarycomponent.CategoryStatutory,
			CalculatedAmount:  round2(shortfall),
			Detail:            &detail,
		})
	}

	allowanceTotal := 0.0
	deductionTotal := 0.0

	// Configured company components, scoped by applies_to.
	formulaVars := map[string]float64{
		"BASE_SALARY":   in.Record.BaseSalary,
		"EARNED_SALARY": earnedBase,
		"DAILY_SALARY":  in.Record.DailySalary,
	}
	for _, c := range in.Components {
		if !c.IsActive {
			continue
		}
		applies, err := c.AppliesToEmployee(in.Target)
		if err != nil {
			return CompositionResult{}, err
		}
		if !applies {
			continue
		}

		amount := configuredAmount(c, earnedBase, formulaVars)
		if amount <= 0 {
			continue
		}
		res.Components = append(res.Components, PayrollRecordComponent{
			ID:                uuid.New(),
			PayrollRecordID:   in.Record.ID,
			ComponentCode:     c.Code,
			ComponentName:     c.Name,
			ComponentType:     c.ComponentType,
			ComponentCategory: c.Category,
			CalculatedAmount:  round2(amount),
		})
		if c.ComponentType == salarycomponent.TypeEarning {
			allowanceTotal += amount
		} else {
			deductionTotal += amount
		}
	}

	// Employee-specific components: percentage amounts resolve against the
	// earned base, fixed amounts apply as-is (not prorated).
	for _, ec := range in.EmployeeComponents {
		if !ec.IsActive {
			continue
		}
		amount := ec.Amount
		if ec.AmountType == salarycomponent.AmountTypePercentage {
			amount = earnedBase * ec.Amount / 100
		}
		if amount <= 0 {
			continue
		}
		res.Components = append(res.Components, PayrollRecordComponent{
			ID:                uuid.New(),
			PayrollRecordID:   in.Record.ID,
			ComponentCode:     "EMP_" + ec.ComponentType,
			ComponentName:     ec.Name,
			ComponentType:     ec.ComponentType,
			ComponentCategory: salarycomponent.CategoryCustom,
			CalculatedAmount:  round2(amount),
		})
		if ec.ComponentType == salarycomponent.TypeEarning {
			allowanceTotal += amount
		} else {
			deductionTotal += amount
		}
		if ec.ComponentType == salarycomponent.TypeDeduction && ec.IsRecurring &&
			ec.RemainingInstallments != nil && *ec.RemainingInstallments > 0 {
			res.DecrementInstallments = append(res.DecrementInstallments, ec.ID)
		}
	}

	// Legacy rows, full amount.
	for _, a := range in.LegacyAllowances {
		if a.Amount <= 0 {
			continue
		}
		res.Components = append(res.Components, PayrollRecordComponent{
			ID:                uuid.New(),
			PayrollRecordID:   in.Record.ID,
			ComponentCode:     "LEGACY_ALLOWANCE",
			ComponentName:     a.Name,
			ComponentType:     salarycomponent.TypeEarning,
			ComponentCategory: salarycomponent.CategoryCustom,
			CalculatedAmount:  round2(a.Amount),
		})
		allowanceTotal += a.Amount
	}
	for _, d := range in.LegacyDeductions {
		if d.Amount <= 0 {
			continue
		}
		res.Components = append(res.Components, PayrollRecordComponent{
			ID:                uuid.New(),
			PayrollRecordID:   in.Record.ID,
			ComponentCode:     "LEGACY_DEDUCTION",
			ComponentName:     d.Name,
			ComponentType:     salarycomponent.TypeDeduction,
			ComponentCategory: salarycomponent.CategoryCustom,
			CalculatedAmount:  round2(d.Amount),
		})
		deductionTotal += d.Amount
	}

	// Loan and advance installments, capped at the remaining balance. The
	// source id lets the settlement consumer decrement the right record.
	for _, fr := range in.FinancialRecords {
		amount := fr.PeriodDeduction()
		if amount <= 0 {
			continue
		}
		code := componentCodeLoan
		name := "Loan Installment"
		if fr.RecordType == finance.RecordTypeAdvance {
			code = componentCodeAdvance
			name = "Advance Installment"
		}
		sourceID := fr.ID.String()
		res.Components = append(res.Components, PayrollRecordComponent{
			ID:                uuid.New(),
			PayrollRecordID:   in.Record.ID,
			ComponentCode:     code,
			ComponentName:     name,
			ComponentType:     salarycomponent.TypeDeduction,
			ComponentCategory: salarycomponent.CategoryCustom,
			CalculatedAmount:  round2(amount),
			SourceID:          &sourceID,
		})
		deductionTotal += amount
	}

	bonusTotal := 0.0
	for _, b := range in.Bonuses {
		if b.Amount <= 0 {
			continue
		}
		res.Components = append(res.Components, PayrollRecordComponent{
			ID:                uuid.New(),
			PayrollRecordID:   in.Record.ID,
			ComponentCode:     componentCodeBonus,
			ComponentName:     b.Name,
			ComponentType:     salarycomponent.TypeEarning,
			ComponentCategory: salarycomponent.CategoryCustom,
			CalculatedAmount:  round2(b.Amount),
		})
		bonusTotal += b.Amount
		res.PaidBonusIDs = append(res.PaidBonusIDs, b.ID)
	}

	overtimeTotal := overtimePay(in)
	if overtimeTotal > 0 {
		res.Components = append(res.Components, PayrollRecordComponent{
			ID:                uuid.New(),
			PayrollRecordID:   in.Record.ID,
			ComponentCode:     componentCodeOvertime,
			ComponentName:     "Overtime",
			ComponentType:     salarycomponent.TypeEarning,
			ComponentCategory: salarycomponent.CategoryCustom,
			CalculatedAmount:  round2(overtimeTotal),
		})
		allowanceTotal += overtimeTotal
	}

	gross := earnedBase + allowanceTotal + bonusTotal

	// Progressive withholding on the earned base, when brackets are set.
	tax := in.Settings.ProgressiveTax(earnedBase)
	if tax > 0 {
		res.Components = append(res.Components, PayrollRecordComponent{
			ID:                uuid.New(),
			PayrollRecordID:   in.Record.ID,
			ComponentCode:     componentCodeIncomeTax,
			ComponentName:     "Income Tax",
			ComponentType:     salarycomponent.TypeDeduction,
			ComponentCategory: salarycomponent.CategoryStatutory,
			CalculatedAmount:  round2(tax),
		})
		deductionTotal += tax
	}

	res.TotalEarnings = round2(allowanceTotal + bonusTotal + earnedBase)
	res.TotalDeductions = round2(deductionTotal)
	res.TotalTaxes = round2(tax)
	res.GrossSalary = round2(gross)
	res.NetSalary = round2(gross - deductionTotal)
	return res, nil
}

// configuredAmount resolves a configured component through its calculation
// type. Formula failures resolve to 0 and never fail the employee.
func configuredAmount(c salarycomponent.SalaryComponent, earnedBase float64, vars map[string]float64) float64 {
	switch c.CalculationType {
	case salarycomponent.CalculationPercentage:
		return earnedBase * c.Value / 100
	case salarycomponent.CalculationFormula:
		if c.Formula == nil {
			return 0
		}
		return EvaluateFormula(*c.Formula, vars)
	default:
		return c.Value
	}
}

// overtimePay prices overtime hours off the weekday schedule, holiday hours
// at the higher holiday multiplier. Both multipliers come from settings.
func overtimePay(in CompositionInput) float64 {
	if !in.Settings.EnableOvertimeCalculation {
		return 0
	}
	plain := in.OvertimeHours - in.HolidayOvertimeHours
	if plain < 0 {
		plain = 0
	}
	rate := in.Record.WeekdayHourlyRate
	return plain*rate*in.Settings.OvertimeMultiplier() +
		in.HolidayOvertimeHours*rate*in.Settings.HolidayOvertimeMultiplier()
}

// round2 rounds to cents; all persisted money fields pass through it.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
