package shift

import (
	"time"

	"github.com/opsuite/attendance-backend-go/internal/pkg/validator"
)

type CreateShiftRequest struct {
	Name                 string `json:"name"`
	StartTime            string `json:"start_time"` // HH:MM
	EndTime              string `json:"end_time"`   // HH:MM
	BreakMinutes         int    `json:"break_minutes"`
	GraceOverrideMinutes *int   `json:"grace_override_minutes,omitempty"`
	AllowCrossMidnight   bool   `json:"allow_cross_midnight"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	start, startOK := validator.IsValidClockTime(r.StartTime)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time must be in HH:MM format",
		})
	}

	end, endOK := validator.IsValidClockTime(r.EndTime)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be in HH:MM format",
		})
	}

	// A same-day shift must end after it starts; an inverted window is only
	// meaningful with the cross-midnight flag.
	if startOK && endOK && !r.AllowCrossMidnight && !end.After(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be after start_time unless allow_cross_midnight is set",
		})
	}

	if r.BreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "break_minutes",
			Message: "break_minutes must not be negative",
		})
	}

	if r.GraceOverrideMinutes != nil && *r.GraceOverrideMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "grace_override_minutes",
			Message: "grace_override_minutes must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ShiftResponse struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	StartTime            string `json:"start_time"`
	EndTime              string `json:"end_time"`
	BreakMinutes         int    `json:"break_minutes"`
	GraceOverrideMinutes *int   `json:"grace_override_minutes,omitempty"`
	AllowCrossMidnight   bool   `json:"allow_cross_midnight"`
	ExpectedWorkMinutes  int    `json:"expected_work_minutes"`
	IsActive             bool   `json:"is_active"`
	CreatedAt            string `json:"created_at"`
}

func ToResponse(s Shift) ShiftResponse {
	return ShiftResponse{
		ID:                   s.ID,
		Name:                 s.Name,
		StartTime:            s.StartTime,
		EndTime:              s.EndTime,
		BreakMinutes:         s.BreakMinutes,
		GraceOverrideMinutes: s.GraceOverrideMinutes,
		AllowCrossMidnight:   s.AllowCrossMidnight,
		ExpectedWorkMinutes:  s.ExpectedWorkMinutes(),
		IsActive:             s.IsActive,
		CreatedAt:            s.CreatedAt.Format(time.RFC3339),
	}
}
