package salarycomponent_test

import (
	"testing"

	"go-payroll/internal/salarycomponent"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestAppliesToEmployee(t *testing.T) {
	empID := uuid.New()
	deptID := uuid.New()
	desgID := uuid.New()
	emp := salarycomponent.TargetEmployee{ID: empID, DepartmentID: &deptID, DesignationID: &desgID}

	cases := []struct {
		name      string
		component salarycomponent.SalaryComponent
		want      bool
	}{
		{
			name:      "all scope matches everyone",
			component: salarycomponent.SalaryComponent{AppliesTo: salarycomponent.AppliesToAll},
			want:      true,
		},
		{
			name:      "empty scope behaves as all",
			component: salarycomponent.SalaryComponent{},
			want:      true,
		},
		{
			name: "department scope matches listed department",
			component: salarycomponent.SalaryComponent{
				AppliesTo:     salarycomponent.AppliesToDepartment,
				DepartmentIDs: datatypes.JSONSlice[string]{deptID.String()},
			},
			want: true,
		},
		{
			name: "department scope skips unlisted department",
			component: salarycomponent.SalaryComponent{
				AppliesTo:     salarycomponent.AppliesToDepartment,
				DepartmentIDs: datatypes.JSONSlice[string]{uuid.NewString()},
			},
			want: false,
		},
		{
			name: "designation scope matches listed designation",
			component: salarycomponent.SalaryComponent{
				AppliesTo:      salarycomponent.AppliesToDesignation,
				DesignationIDs: datatypes.JSONSlice[string]{desgID.String()},
			},
			want: true,
		},
		{
			name: "individual scope matches listed employee",
			component: salarycomponent.SalaryComponent{
				AppliesTo:   salarycomponent.AppliesToIndividual,
				EmployeeIDs: datatypes.JSONSlice[string]{empID.String()},
			},
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.component.AppliesToEmployee(emp)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAppliesToEmployee_UnknownScopeFails(t *testing.T) {
	c := salarycomponent.SalaryComponent{AppliesTo: "region"}

	ok, err := c.AppliesToEmployee(salarycomponent.TargetEmployee{ID: uuid.New()})
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestAppliesToEmployee_NilDepartment(t *testing.T) {
	c := salarycomponent.SalaryComponent{
		AppliesTo:     salarycomponent.AppliesToDepartment,
		DepartmentIDs: datatypes.JSONSlice[string]{uuid.NewString()},
	}

	ok, err := c.AppliesToEmployee(salarycomponent.TargetEmployee{ID: uuid.New()})
	assert.NoError(t, err)
	assert.False(t, ok)
}
