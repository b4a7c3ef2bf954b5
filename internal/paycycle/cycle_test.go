package paycycle_test

import (
	"testing"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/paycycle"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func customEmployee(day int) employee.Employee {
	return employee.Employee{
		PayrollCycleOverride: employee.CycleOverrideCustom,
		PayrollCycleDay:      &day,
	}
}

func TestResolvePeriod_DefaultCycle(t *testing.T) {
	start, end := date(2026, 2, 1), date(2026, 2, 28)

	res := paycycle.ResolvePeriod(employee.Employee{}, start, end)
	assert.False(t, res.UsesCustomCycle)
	assert.Equal(t, start, res.StartDate)
	assert.Equal(t, end, res.EndDate)

	day := 23
	res = paycycle.ResolvePeriod(employee.Employee{
		PayrollCycleOverride: employee.CycleOverrideDefault,
		PayrollCycleDay:      &day,
	}, start, end)
	assert.False(t, res.UsesCustomCycle)
}

func TestResolvePeriod_CustomCycleDay23(t *testing.T) {
	res := paycycle.ResolvePeriod(customEmployee(23), date(2026, 2, 1), date(2026, 2, 28))

	assert.True(t, res.UsesCustomCycle)
	assert.Equal(t, date(2026, 2, 23), res.StartDate)
	assert.Equal(t, date(2026, 3, 22), res.EndDate)
}

func TestResolvePeriod_NotYetEffective(t *testing.T) {
	emp := customEmployee(23)
	effective := date(2026, 3, 1)
	emp.PayrollCycleEffectiveFrom = &effective

	res := paycycle.ResolvePeriod(emp, date(2026, 2, 1), date(2026, 2, 28))
	assert.False(t, res.UsesCustomCycle)
	assert.Equal(t, date(2026, 2, 1), res.StartDate)

	// Effective inside the period boundary counts as active.
	effective = date(2026, 2, 15)
	res = paycycle.ResolvePeriod(emp, date(2026, 2, 1), date(2026, 2, 28))
	assert.True(t, res.UsesCustomCycle)
}

func TestResolvePeriod_ClampsShortMonths(t *testing.T) {
	// Cycle day 31 against February clamps to the 28th.
	res := paycycle.ResolvePeriod(customEmployee(31), date(2026, 2, 1), date(2026, 2, 28))
	assert.Equal(t, date(2026, 2, 28), res.StartDate)
	assert.Equal(t, date(2026, 3, 30), res.EndDate)
}

func TestResolvePeriod_ConsecutiveMonthsNeverOverlapOrGap(t *testing.T) {
	for _, cycleDay := range []int{1, 15, 23, 29, 30, 31} {
		emp := customEmployee(cycleDay)

		for month := time.January; month <= time.November; month++ {
			curStart := date(2026, month, 1)
			curEnd := curStart.AddDate(0, 1, -1)
			nextStart := date(2026, month+1, 1)
			nextEnd := nextStart.AddDate(0, 1, -1)

			cur := paycycle.ResolvePeriod(emp, curStart, curEnd)
			next := paycycle.ResolvePeriod(emp, nextStart, nextEnd)

			assert.Equalf(t, cur.EndDate.AddDate(0, 0, 1), next.StartDate,
				"cycle day %d, month %s: period end %s must be one day before next start %s",
				cycleDay, month, cur.EndDate, next.StartDate)
		}
	}
}
