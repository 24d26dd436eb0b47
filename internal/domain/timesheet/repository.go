package timesheet

import (
	"context"
	"time"
)

// RecordRepository defines data access for timesheet records, company-scoped.
type RecordRepository interface {
	Create(ctx context.Context, record Record) (Record, error)

	GetByID(ctx context.Context, id string, companyID string) (Record, error)

	Update(ctx context.Context, record Record) error

	ListByEmployee(ctx context.Context, employeeID string, companyID string) ([]Record, error)

	// HasOverlap reports whether the employee already has a record whose
	// period intersects [start, end]
	HasOverlap(ctx context.Context, employeeID string, start, end time.Time, companyID string) (bool, error)
}
