package calendar

import (
	"context"
	"time"
)

// HolidayRepository is the calendar provider consumed by the day classifier.
// Lookups are per (company, date) and deterministic, so callers may cache the
// result of ListRange for bulk computation.
type HolidayRepository interface {
	Create(ctx context.Context, holiday Holiday) (Holiday, error)

	// ListRange retrieves holidays with date in [start, end] inclusive
	ListRange(ctx context.Context, companyID string, start, end time.Time) ([]Holiday, error)

	Delete(ctx context.Context, id string, companyID string) error
}
