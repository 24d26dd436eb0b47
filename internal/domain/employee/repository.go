package employee

import "context"

// EmployeeRepository is the read-only directory collaborator.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)

	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)

	// ListCompanyIDs retrieves distinct company IDs with active employees,
	// used by background jobs to fan out per tenant.
	ListCompanyIDs(ctx context.Context) ([]string, error)
}
