package employee

import "time"

// Employee is the minimal directory record this service needs: identity,
// position (for overtime eligibility) and employment state (for cron jobs).
// The full profile lives in the host platform.
type Employee struct {
	ID               string
	CompanyID        string
	FullName         string
	PositionID       *string
	ShiftID          *string
	EmploymentStatus string // active, inactive
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
