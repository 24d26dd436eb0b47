package attendance

import (
	"strings"
	"time"

	"github.com/opsuite/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// CLOCK DTOs
// ========================================

type ClockInRequest struct {
	// Optional shift override; when empty the employee's assigned shift is used.
	ShiftID *string `json:"shift_id,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ShiftID != nil && validator.IsEmpty(*r.ShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_id",
			Message: "shift_id must not be empty when provided",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EntryResponse struct {
	ID                   string   `json:"id"`
	EmployeeID           string   `json:"employee_id"`
	EmployeeName         string   `json:"employee_name,omitempty"`
	ShiftID              *string  `json:"shift_id,omitempty"`
	Date                 string   `json:"date"`
	ClockInTime          string   `json:"clock_in_time"`
	ClockOutTime         *string  `json:"clock_out_time,omitempty"`
	WorkedMinutes        *int     `json:"worked_minutes,omitempty"`
	OvertimeTier1Minutes *int     `json:"overtime_tier1_minutes,omitempty"`
	OvertimeTier2Minutes *int     `json:"overtime_tier2_minutes,omitempty"`
	RateTier1            *float64 `json:"rate_tier1,omitempty"`
	RateTier2            *float64 `json:"rate_tier2,omitempty"`
	OvertimeCapped       bool     `json:"overtime_capped"`
	Flag                 string   `json:"flag"`
	Status               string   `json:"status"`
	DayType              string   `json:"day_type"`
	CreatedAt            string   `json:"created_at"`
	UpdatedAt            string   `json:"updated_at"`
}

// ========================================
// LIST DTOs
// ========================================

type EntryFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Flag       *string `json:"flag,omitempty"`
	Status     *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // date, clock_in_time, flag, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *EntryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Flag != nil {
		validFlags := []string{
			string(FlagOnTime), string(FlagLate), string(FlagEarlyLeave),
			string(FlagLateAndEarly), string(FlagAbsent),
		}
		if !validator.IsInSlice(*f.Flag, validFlags) {
			errs = append(errs, validator.ValidationError{
				Field:   "flag",
				Message: "flag must be one of: on_time, late, early_leave, late_and_early, absent",
			})
		}
	}

	if f.Status != nil {
		validStatuses := []string{string(StatusNormal), string(StatusAdjusted), string(StatusAutoClosed)}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: normal, adjusted, auto_closed",
			})
		}
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.SortBy != "" {
		validSortFields := []string{"date", "clock_in_time", "flag", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, clock_in_time, flag, status",
			})
		}
	} else {
		f.SortBy = "date" // Default sort
	}

	if f.SortOrder != "" {
		validSortOrders := []string{"asc", "desc"}
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), validSortOrders) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc" // Default descending (newest first)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListEntriesResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Showing    string          `json:"showing"`
	Entries    []EntryResponse `json:"entries"`
}

// ========================================
// CORRECTION DTOs
// ========================================

type CreateCorrectionRequest struct {
	EntryID           string  `json:"-"`
	CorrectedClockIn  string  `json:"corrected_clock_in"`            // RFC3339
	CorrectedClockOut *string `json:"corrected_clock_out,omitempty"` // RFC3339
	Reason            string  `json:"reason"`
}

func (r *CreateCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	clockIn, validIn := validator.IsValidDateTime(r.CorrectedClockIn)
	if !validIn {
		errs = append(errs, validator.ValidationError{
			Field:   "corrected_clock_in",
			Message: "corrected_clock_in must be a valid RFC3339 timestamp",
		})
	}

	var clockOut time.Time
	if r.CorrectedClockOut != nil {
		var validOut bool
		clockOut, validOut = validator.IsValidDateTime(*r.CorrectedClockOut)
		if !validOut {
			errs = append(errs, validator.ValidationError{
				Field:   "corrected_clock_out",
				Message: "corrected_clock_out must be a valid RFC3339 timestamp",
			})
		} else if validIn && !clockOut.After(clockIn) {
			errs = append(errs, validator.ValidationError{
				Field:   "corrected_clock_out",
				Message: "corrected_clock_out must be after corrected_clock_in",
			})
		}
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "correction reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReviewCorrectionRequest struct {
	ID   string  `json:"-"`
	Note *string `json:"note,omitempty"`
}

type RejectCorrectionRequest struct {
	ID   string `json:"-"`
	Note string `json:"note"`
}

func (r *RejectCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Note) {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "rejection note is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CorrectionResponse struct {
	ID                string  `json:"id"`
	EntryID           string  `json:"entry_id"`
	RequestedBy       string  `json:"requested_by"`
	CorrectedClockIn  string  `json:"corrected_clock_in"`
	CorrectedClockOut *string `json:"corrected_clock_out,omitempty"`
	Reason            string  `json:"reason"`
	Status            string  `json:"status"`
	ReviewerNote      *string `json:"reviewer_note,omitempty"`
	ReviewedBy        *string `json:"reviewed_by,omitempty"`
	ReviewedAt        *string `json:"reviewed_at,omitempty"`
	CreatedAt         string  `json:"created_at"`
}
