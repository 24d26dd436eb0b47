package attendance

import (
	"context"
	"time"
)

// EntryRepository defines data access for attendance entries.
// All methods include companyID to prevent cross-company data access.
type EntryRepository interface {
	// Create creates a new entry. The underlying store carries a partial
	// unique index on (employee_id) WHERE clock_out IS NULL, so a second
	// concurrent open entry fails at the database rather than racing here.
	Create(ctx context.Context, entry Entry) (Entry, error)

	GetByID(ctx context.Context, id string, companyID string) (Entry, error)

	Update(ctx context.Context, entry Entry) error

	// GetOpenEntry retrieves the employee's open session, if any
	GetOpenEntry(ctx context.Context, employeeID string, companyID string) (Entry, error)

	// HasEntryOnDate reports whether the employee already has an entry for
	// the given working day
	HasEntryOnDate(ctx context.Context, employeeID string, dateLocal string, companyID string) (bool, error)

	List(ctx context.Context, filter EntryFilter, companyID string) ([]Entry, int64, error)

	// ListRange retrieves closed entries with date in [start, end] for one
	// employee, oldest first. Used by timesheet generation and preview.
	ListRange(ctx context.Context, employeeID string, start, end time.Time, companyID string) ([]Entry, error)

	// GetStaleOpenEntries retrieves the company's open entries whose clock-in
	// is older than the cutoff
	GetStaleOpenEntries(ctx context.Context, companyID string, olderThan time.Time) ([]Entry, error)

	// BulkCreateAbsences inserts absence records in one round trip
	BulkCreateAbsences(ctx context.Context, entries []Entry) error
}

// CorrectionRepository defines data access for correction requests.
type CorrectionRepository interface {
	Create(ctx context.Context, req CorrectionRequest) (CorrectionRequest, error)

	GetByID(ctx context.Context, id string, companyID string) (CorrectionRequest, error)

	Update(ctx context.Context, req CorrectionRequest) error

	ListPending(ctx context.Context, companyID string) ([]CorrectionRequest, error)
}
