package policy

import "context"

// PolicyRepository defines data access for attendance policies.
// All methods are company-scoped to prevent cross-company data access.
type PolicyRepository interface {
	// GetByCompanyID retrieves the active policy for a company
	GetByCompanyID(ctx context.Context, companyID string) (AttendancePolicy, error)

	// Replace swaps the active policy wholesale. The previous revision is
	// archived before the new one is written.
	Replace(ctx context.Context, p AttendancePolicy) (AttendancePolicy, error)
}
