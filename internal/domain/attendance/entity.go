package attendance

import "time"

// Flag classifies how an entry relates to its expected schedule.
type Flag string

const (
	FlagOnTime       Flag = "on_time"
	FlagLate         Flag = "late"
	FlagEarlyLeave   Flag = "early_leave"
	FlagLateAndEarly Flag = "late_and_early"
	FlagAbsent       Flag = "absent"
)

// Status tracks whether an entry still holds its original timestamps.
type Status string

const (
	StatusNormal     Status = "normal"
	StatusAdjusted   Status = "adjusted"
	StatusAutoClosed Status = "auto_closed"
)

// Entry is one clock session. Entries are never hard-deleted; approved
// corrections rewrite the timestamps and mark the entry adjusted, with the
// correction record preserving the audit trail. The repository enforces that
// at most one entry per employee is open (ClockOut == nil) at a time.
type Entry struct {
	ID                   string
	EmployeeID           string
	CompanyID            string
	ShiftID              *string
	Date                 time.Time // working day in company-local time
	ClockIn              time.Time
	ClockOut             *time.Time
	WorkedMinutes        *int
	OvertimeTier1Minutes *int
	OvertimeTier2Minutes *int
	RateTier1            *float64
	RateTier2            *float64
	OvertimeCapped       bool
	Flag                 Flag
	Status               Status
	DayType              string
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// DTO
	EmployeeName *string
}

// CorrectionStatus is the review state of a correction request.
type CorrectionStatus string

const (
	CorrectionPending  CorrectionStatus = "pending"
	CorrectionApproved CorrectionStatus = "approved"
	CorrectionRejected CorrectionStatus = "rejected"
)

// CorrectionRequest asks for an entry's timestamps to be rewritten. Approval
// mutates the target entry and recomputes its derived fields.
type CorrectionRequest struct {
	ID                string
	EntryID           string
	CompanyID         string
	RequestedBy       string // employee ID
	RequestedClockIn  time.Time
	RequestedClockOut *time.Time
	Reason            string
	Status            CorrectionStatus
	ReviewerNote      *string
	ReviewedBy        *string
	ReviewedAt        *time.Time
	CreatedAt         time.Time
}
