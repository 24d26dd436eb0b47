package shift

import "context"

// ShiftRepository defines data access for shifts, company-scoped.
type ShiftRepository interface {
	Create(ctx context.Context, s Shift) (Shift, error)

	GetByID(ctx context.Context, id string, companyID string) (Shift, error)

	List(ctx context.Context, companyID string, activeOnly bool) ([]Shift, error)

	// SetActive soft-enables or soft-disables a shift
	SetActive(ctx context.Context, id string, companyID string, active bool) error

	// GetAssignedShift resolves the shift currently assigned to an employee,
	// or nil when the employee has no assignment.
	GetAssignedShift(ctx context.Context, employeeID string, companyID string) (*Shift, error)
}
