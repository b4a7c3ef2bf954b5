package payrollrunerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrPeriodNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll period not found",
		http.StatusNotFound,
	)
	ErrRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll run not found",
		http.StatusNotFound,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll record not found for this employee and run",
		http.StatusNotFound,
	)
	ErrRunAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"a payroll run already exists for this period",
		http.StatusConflict,
	)
	ErrNoEligibleEmployees = apperror.New(
		apperror.CodeInvalidInput,
		"no active employees match the given filters",
		http.StatusBadRequest,
	)
	ErrCalculateOnlyDraft = apperror.New(
		apperror.CodeInvalidState,
		"payroll run can only be calculated from draft or calculating status",
		http.StatusBadRequest,
	)
	ErrProcessOnlyCalculated = apperror.New(
		apperror.CodeInvalidState,
		"payroll run can only be processed from calculated status",
		http.StatusBadRequest,
	)
	ErrCannotCancelRun = apperror.New(
		apperror.CodeInvalidState,
		"payroll run can only be cancelled while in draft or calculated status",
		http.StatusBadRequest,
	)
	ErrLivePreviewOutsidePeriod = apperror.New(
		apperror.CodeInvalidState,
		"live preview is only available while the period is in progress",
		http.StatusBadRequest,
	)
)
