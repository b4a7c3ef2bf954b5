package payrollrun_test

import (
	"testing"

	"go-payroll/internal/finance"
	"go-payroll/internal/payrollrun"
	"go-payroll/internal/salarycomponent"
	"go-payroll/internal/settings"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func baseComposition() payrollrun.CompositionInput {
	return payrollrun.CompositionInput{
		Record: payrollrun.PayrollRecord{
			ID:                      uuid.New(),
			BaseSalary:              3000,
			AttendanceAffectsSalary: true,
			DailySalary:             100,
			WeekdayHourlyRate:       12.5,
		},
		Earned: payrollrun.EarnedSalaryResult{
			ExpectedSalary: 3000,
			EarnedSalary:   2700,
			Deduction:      300,
			Shortfall: payrollrun.ShortfallBreakdown{
				UnpaidLeave: 100,
				AbsentDays:  200,
				Total:       300,
			},
		},
	}
}

func findComponent(t *testing.T, comps []payrollrun.PayrollRecordComponent, code string) payrollrun.PayrollRecordComponent {
	t.Helper()
	for _, c := range comps {
		if c.ComponentCode == code {
			return c
		}
	}
	t.Fatalf("component %s not found", code)
	return payrollrun.PayrollRecordComponent{}
}

func hasComponent(comps []payrollrun.PayrollRecordComponent, code string) bool {
	for _, c := range comps {
		if c.ComponentCode == code {
			return true
		}
	}
	return false
}

func TestCompose_ShortfallIsInformationalOnly(t *testing.T) {
	res, err := payrollrun.Compose(baseComposition())
	require.NoError(t, err)

	assert.InDelta(t, 2700, res.EarnedBase, 0.001)

	sf := findComponent(t, res.Components, "ATTENDANCE_SHORTFALL")
	assert.InDelta(t, 300, sf.CalculatedAmount, 0.001)
	assert.Equal(t, salarycomponent.TypeDeduction, sf.ComponentType)
	require.NotNil(t, sf.Detail)
	assert.Contains(t, *sf.Detail, "unpaid_leave=100.00")

	// The shortfall already reduced the earned base; the deduction total
	// must not count it again.
	assert.InDelta(t, 0, res.TotalDeductions, 0.001)
	assert.InDelta(t, 2700, res.GrossSalary, 0.001)
	assert.InDelta(t, 2700, res.NetSalary, 0.001)
}

func TestCompose_FixedSalaryIgnoresAttendance(t *testing.T) {
	in := baseComposition()
	in.Record.AttendanceAffectsSalary = false

	res, err := payrollrun.Compose(in)
	require.NoError(t, err)

	assert.InDelta(t, 3000, res.EarnedBase, 0.001)
	assert.False(t, hasComponent(res.Components, "ATTENDANCE_SHORTFALL"))
	assert.InDelta(t, 3000, res.NetSalary, 0.001)
}

func TestCompose_PercentageDeductionUsesEarnedBase(t *testing.T) {
	in := baseComposition()
	in.Components = []salarycomponent.SalaryComponent{{
		Code:            "PF",
		Name:            "Provident Fund",
		ComponentType:   salarycomponent.TypeDeduction,
		Category:        salarycomponent.CategoryStatutory,
		CalculationType: salarycomponent.CalculationPercentage,
		Value:           10,
		AppliesTo:       salarycomponent.AppliesToAll,
		IsActive:        true,
	}}

	res, err := payrollrun.Compose(in)
	require.NoError(t, err)

	// 10% of the earned 2700, not of the 3000 base.
	pf := findComponent(t, res.Components, "PF")
	assert.InDelta(t, 270, pf.CalculatedAmount, 0.001)
	assert.InDelta(t, 270, res.TotalDeductions, 0.001)
	assert.InDelta(t, 2430, res.NetSalary, 0.001)
}

func TestCompose_InactiveAndOutOfScopeComponentsSkipped(t *testing.T) {
	dept := uuid.New()
	in := baseComposition()
	in.Target = salarycomponent.TargetEmployee{ID: uuid.New()}
	in.Components = []salarycomponent.SalaryComponent{
		{
			Code: "OLD", Name: "Retired", ComponentType: salarycomponent.TypeEarning,
			CalculationType: salarycomponent.CalculationFixed, Value: 100,
			AppliesTo: salarycomponent.AppliesToAll, IsActive: false,
		},
		{
			Code: "DEPT", Name: "Dept Allowance", ComponentType: salarycomponent.TypeEarning,
			CalculationType: salarycomponent.CalculationFixed, Value: 150,
			AppliesTo:     salarycomponent.AppliesToDepartment,
			DepartmentIDs: datatypes.JSONSlice[string]{dept.String()},
			IsActive:      true,
		},
	}

	res, err := payrollrun.Compose(in)
	require.NoError(t, err)

	assert.False(t, hasComponent(res.Components, "OLD"))
	assert.False(t, hasComponent(res.Components, "DEPT"))
}

func TestCompose_UnknownScopeFailsTheRecord(t *testing.T) {
	in := baseComposition()
	in.Components = []salarycomponent.SalaryComponent{{
		Code: "X", Name: "Broken", ComponentType: salarycomponent.TypeEarning,
		CalculationType: salarycomponent.CalculationFixed, Value: 10,
		AppliesTo: "everyone", IsActive: true,
	}}

	_, err := payrollrun.Compose(in)
	assert.Error(t, err)
}

func TestCompose_FormulaComponent(t *testing.T) {
	formula := "EARNED_SALARY * 0.05 + 10"
	in := baseComposition()
	in.Components = []salarycomponent.SalaryComponent{{
		Code: "HRA", Name: "Housing", ComponentType: salarycomponent.TypeEarning,
		CalculationType: salarycomponent.CalculationFormula, Formula: &formula,
		AppliesTo: salarycomponent.AppliesToAll, IsActive: true,
	}}

	res, err := payrollrun.Compose(in)
	require.NoError(t, err)

	hra := findComponent(t, res.Components, "HRA")
	assert.InDelta(t, 145, hra.CalculatedAmount, 0.001)
	assert.InDelta(t, 2845, res.GrossSalary, 0.001)
}

func TestCompose_RecurringInstallmentFlagged(t *testing.T) {
	remaining := 3
	ecID := uuid.New()
	in := baseComposition()
	in.EmployeeComponents = []salarycomponent.EmployeeComponent{
		{
			ID: ecID, Name: "Equipment Repayment",
			ComponentType: salarycomponent.TypeDeduction,
			AmountType:    salarycomponent.AmountTypeFixed, Amount: 50,
			IsRecurring: true, RemainingInstallments: &remaining, IsActive: true,
		},
		{
			ID: uuid.New(), Name: "Transport",
			ComponentType: salarycomponent.TypeEarning,
			AmountType:    salarycomponent.AmountTypePercentage, Amount: 10,
			IsActive: true,
		},
	}

	res, err := payrollrun.Compose(in)
	require.NoError(t, err)

	require.Len(t, res.DecrementInstallments, 1)
	assert.Equal(t, ecID, res.DecrementInstallments[0])

	// Percentage employee earning resolves against the earned base.
	tr := findComponent(t, res.Components, "EMP_earning")
	assert.InDelta(t, 270, tr.CalculatedAmount, 0.001)
	assert.InDelta(t, 50, res.TotalDeductions, 0.001)
}

func TestCompose_LoanCappedAndTagged(t *testing.T) {
	loanID := uuid.New()
	in := baseComposition()
	in.FinancialRecords = []finance.FinancialRecord{{
		ID:              loanID,
		RecordType:      finance.RecordTypeLoan,
		DeductionAmount: 200,
		RemainingAmount: 120,
	}}

	res, err := payrollrun.Compose(in)
	require.NoError(t, err)

	loan := findComponent(t, res.Components, "LOAN_INSTALLMENT")
	assert.InDelta(t, 120, loan.CalculatedAmount, 0.001)
	require.NotNil(t, loan.SourceID)
	assert.Equal(t, loanID.String(), *loan.SourceID)
	assert.InDelta(t, 2580, res.NetSalary, 0.001)
}

func TestCompose_BonusMarkedPaid(t *testing.T) {
	bonusID := uuid.New()
	in := baseComposition()
	in.Bonuses = []finance.Bonus{{ID: bonusID, Name: "Quarterly Bonus", Amount: 400}}

	res, err := payrollrun.Compose(in)
	require.NoError(t, err)

	b := findComponent(t, res.Components, "BONUS")
	assert.InDelta(t, 400, b.CalculatedAmount, 0.001)
	assert.Equal(t, []uuid.UUID{bonusID}, res.PaidBonusIDs)
	assert.InDelta(t, 3100, res.GrossSalary, 0.001)
}

func TestCompose_OvertimeHolidayMultiplier(t *testing.T) {
	in := baseComposition()
	in.Settings = settings.PayrollSettings{EnableOvertimeCalculation: true}
	in.OvertimeHours = 10
	in.HolidayOvertimeHours = 4

	res, err := payrollrun.Compose(in)
	require.NoError(t, err)

	// 6 plain hours at 1.5x, 4 holiday hours at 2x, both off 12.5/h.
	ot := findComponent(t, res.Components, "OVERTIME")
	assert.InDelta(t, 6*12.5*1.5+4*12.5*2, ot.CalculatedAmount, 0.001)
}

func TestCompose_OvertimeDisabled(t *testing.T) {
	in := baseComposition()
	in.OvertimeHours = 10

	res, err := payrollrun.Compose(in)
	require.NoError(t, err)
	assert.False(t, hasComponent(res.Components, "OVERTIME"))
}

func TestCompose_ProgressiveTaxOnEarnedBase(t *testing.T) {
	in := baseComposition()
	in.Settings = settings.PayrollSettings{
		WorkingHoursConfig: datatypes.NewJSONType(settings.WorkingHoursConfig{
			TaxBrackets: []settings.TaxBracket{
				{UpTo: 1000, Rate: 0},
				{UpTo: 2000, Rate: 0.1},
				{UpTo: 0, Rate: 0.2},
			},
		}),
	}

	res, err := payrollrun.Compose(in)
	require.NoError(t, err)

	// 2700 earned: 0 on the first 1000, 100 on the next 1000, 140 above.
	tax := findComponent(t, res.Components, "INCOME_TAX")
	assert.InDelta(t, 240, tax.CalculatedAmount, 0.001)
	assert.InDelta(t, 240, res.TotalTaxes, 0.001)
	assert.InDelta(t, 2460, res.NetSalary, 0.001)
}

func TestCompose_LegacyRowsFullAmount(t *testing.T) {
	in := baseComposition()
	in.LegacyAllowances = []salarycomponent.LegacyAllowance{{Name: "Meal", Amount: 80}}
	in.LegacyDeductions = []salarycomponent.LegacyDeduction{{Name: "Union Dues", Amount: 30}}

	res, err := payrollrun.Compose(in)
	require.NoError(t, err)

	assert.InDelta(t, 2780, res.GrossSalary, 0.001)
	assert.InDelta(t, 30, res.TotalDeductions, 0.001)
	assert.InDelta(t, 2750, res.NetSalary, 0.001)
}
