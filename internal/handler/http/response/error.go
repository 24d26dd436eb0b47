package response

import (
	"errors"
	"net/http"

	"github.com/opsuite/attendance-backend-go/internal/domain/attendance"
	"github.com/opsuite/attendance-backend-go/internal/domain/calendar"
	"github.com/opsuite/attendance-backend-go/internal/domain/employee"
	"github.com/opsuite/attendance-backend-go/internal/domain/policy"
	"github.com/opsuite/attendance-backend-go/internal/domain/shift"
	"github.com/opsuite/attendance-backend-go/internal/domain/timesheet"
	"github.com/opsuite/attendance-backend-go/internal/domain/user"
	"github.com/opsuite/attendance-backend-go/internal/engine"
	"github.com/opsuite/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Access control errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, user.ErrReviewerAccessRequired):
		Forbidden(w, "Reviewer access required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "You already have an open attendance entry")
	case errors.Is(err, attendance.ErrShiftRequired):
		BadRequest(w, "A shift assignment is required to clock in", nil)
	case errors.Is(err, attendance.ErrNotClockedIn):
		BadRequest(w, "You have not clocked in yet", nil)
	case errors.Is(err, attendance.ErrClockOutNotAllowed):
		BadRequest(w, "Clock-out without a prior clock-in is not allowed", nil)
	case errors.Is(err, attendance.ErrEntryNotFound):
		NotFound(w, "Attendance entry not found")
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, "Unauthorized to access this attendance entry")
	case errors.Is(err, attendance.ErrCorrectionNotFound):
		NotFound(w, "Correction request not found")
	case errors.Is(err, attendance.ErrCorrectionAlreadyProcessed):
		Conflict(w, "Correction request has already been reviewed")
	case errors.Is(err, attendance.ErrCorrectionNotOwned):
		Forbidden(w, "Only the entry owner can request a correction")

	// Policy domain errors
	case errors.Is(err, policy.ErrPolicyNotFound):
		NotFound(w, "Attendance policy not found for this company")
	case errors.Is(err, policy.ErrNoActiveRule):
		BadRequest(w, "Overtime policy has no active rule", nil)
	case errors.Is(err, policy.ErrOvertimeDisabled):
		BadRequest(w, "Overtime policy is disabled", nil)
	case errors.Is(err, policy.ErrRuleNotFound):
		NotFound(w, "Overtime rule not found")

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrShiftNameExists):
		Conflict(w, "A shift with this name already exists")
	case errors.Is(err, shift.ErrShiftInactive):
		BadRequest(w, "Shift is disabled", nil)

	// Calendar domain errors
	case errors.Is(err, calendar.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, calendar.ErrHolidayExists):
		Conflict(w, "A holiday already exists on this date")

	// Timesheet domain errors
	case errors.Is(err, timesheet.ErrRecordNotFound):
		NotFound(w, "Timesheet record not found")
	case errors.Is(err, timesheet.ErrInvalidTransition):
		Conflict(w, "Timesheet status transition not allowed")
	case errors.Is(err, timesheet.ErrPeriodOverlap):
		Conflict(w, "A timesheet already exists for this period")
	case errors.Is(err, timesheet.ErrNoEntriesInPeriod):
		BadRequest(w, "No closed attendance entries in the requested period", nil)
	case errors.Is(err, timesheet.ErrAlreadyProcessed):
		Conflict(w, "Timesheet has already been approved or rejected")
	case errors.Is(err, timesheet.ErrNotRecordOwner):
		Forbidden(w, "Only the timesheet owner can submit it")
	case errors.Is(err, timesheet.ErrReviewerIsSubmitter):
		Forbidden(w, "A timesheet cannot be reviewed by its own submitter")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Engine errors surface when stored data cannot be evaluated under the
	// requested policy
	case errors.Is(err, engine.ErrClockOutBeforeClockIn),
		errors.Is(err, engine.ErrNegativeMinutes),
		errors.Is(err, engine.ErrInvalidRoundingInterval),
		errors.Is(err, engine.ErrTierOrder),
		errors.Is(err, engine.ErrInvalidMultiplier),
		errors.Is(err, engine.ErrEntryOpen):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
