package preview

import (
	"errors"

	"github.com/opsuite/attendance-backend-go/internal/domain/policy"
	"github.com/opsuite/attendance-backend-go/internal/pkg/validator"
)

// PreviewRequest carries a full candidate policy plus the replay window. The
// policy does not have to be saved; the run is a dry evaluation.
type PreviewRequest struct {
	Policy      policy.UpsertPolicyRequest `json:"policy"`
	EmployeeIDs []string                   `json:"employee_ids,omitempty"`
	StartDate   string                     `json:"start_date"` // YYYY-MM-DD
	EndDate     string                     `json:"end_date"`   // YYYY-MM-DD
}

func (r *PreviewRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	for _, employeeID := range r.EmployeeIDs {
		if validator.IsEmpty(employeeID) {
			errs = append(errs, validator.ValidationError{
				Field:   "employee_ids",
				Message: "employee_ids must not contain empty values",
			})
			break
		}
	}

	if err := r.Policy.Validate(); err != nil {
		var policyErrs validator.ValidationErrors
		if errors.As(err, &policyErrs) {
			for _, e := range policyErrs {
				errs = append(errs, validator.ValidationError{
					Field:   "policy." + e.Field,
					Message: e.Message,
				})
			}
		} else {
			errs = append(errs, validator.ValidationError{
				Field:   "policy",
				Message: err.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DayResult struct {
	Date           string  `json:"date"` // YYYY-MM-DD
	DayType        string  `json:"day_type"`
	RegularMinutes int     `json:"regular_minutes"`
	Tier1Minutes   int     `json:"tier1_minutes"`
	Tier2Minutes   int     `json:"tier2_minutes"`
	RateTier1      float64 `json:"rate_tier1"`
	RateTier2      float64 `json:"rate_tier2"`
	Capped         bool    `json:"capped"`
}

type WeekResult struct {
	ISOYear          int  `json:"iso_year"`
	ISOWeek          int  `json:"iso_week"`
	RegularMinutes   int  `json:"regular_minutes"`
	Tier1Minutes     int  `json:"tier1_minutes"`
	Tier2Minutes     int  `json:"tier2_minutes"`
	WeeklyCapApplied bool `json:"weekly_cap_applied"`
}

type EmployeeResult struct {
	EmployeeID       string       `json:"employee_id"`
	Days             []DayResult  `json:"days"`
	Weeks            []WeekResult `json:"weeks"`
	RegularMinutes   int          `json:"regular_minutes"`
	Tier1Minutes     int          `json:"tier1_minutes"`
	Tier2Minutes     int          `json:"tier2_minutes"`
	WeeklyCapApplied bool         `json:"weekly_cap_applied"`
}

type FailureResult struct {
	EntryID    string `json:"entry_id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Reason     string `json:"reason"`
}

type PreviewResponse struct {
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	Employees []EmployeeResult `json:"employees"`
	Failures  []FailureResult  `json:"failures,omitempty"`
}
