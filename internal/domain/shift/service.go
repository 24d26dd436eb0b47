package shift

import "context"

// ShiftService defines business logic for shift management
type ShiftService interface {
	// Create registers a new shift for the authenticated company
	Create(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)

	Get(ctx context.Context, id string) (ShiftResponse, error)

	List(ctx context.Context, activeOnly bool) ([]ShiftResponse, error)

	// SetActive soft-enables or soft-disables a shift. Existing entries keep
	// their shift reference either way.
	SetActive(ctx context.Context, id string, active bool) (ShiftResponse, error)
}
