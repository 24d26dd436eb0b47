package timesheet

import "time"

type PeriodType string

const (
	PeriodWeekly   PeriodType = "weekly"
	PeriodBiweekly PeriodType = "biweekly"
	PeriodMonthly  PeriodType = "monthly"
)

// Status transitions are one-directional except rejection, which returns the
// record to draft for re-submission.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Record is a generated per-employee period summary. Generation sums all
// closed entries in range through the aggregator, including the weekly
// overtime cap.
type Record struct {
	ID                   string
	EmployeeID           string
	CompanyID            string
	PeriodStart          time.Time
	PeriodEnd            time.Time
	PeriodType           PeriodType
	TotalDays            int
	TotalWorkMinutes     int
	TotalOvertimeMinutes int
	OvertimeTier1Minutes int
	OvertimeTier2Minutes int
	WeeklyCapApplied     bool
	Status               Status
	RejectionReason      *string
	ReviewedBy           *string
	ReviewedAt           *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// DTO
	EmployeeName *string
}

// CanTransition reports whether the status change is allowed.
func (r *Record) CanTransition(to Status) bool {
	switch r.Status {
	case StatusDraft:
		return to == StatusSubmitted
	case StatusSubmitted:
		return to == StatusApproved || to == StatusRejected
	case StatusRejected:
		return to == StatusDraft || to == StatusSubmitted
	default:
		return false
	}
}
