package timesheet

import "context"

// RecordService defines business logic for timesheet records
type RecordService interface {
	// Generate sums all closed entries in range into a draft record
	Generate(ctx context.Context, req GenerateRequest) (RecordResponse, error)

	// Submit moves a draft record to submitted
	Submit(ctx context.Context, id string) (RecordResponse, error)

	// Approve approves a submitted record
	Approve(ctx context.Context, id string) (RecordResponse, error)

	// Reject returns a submitted record to draft with a reason
	Reject(ctx context.Context, req RejectRequest) (RecordResponse, error)

	Get(ctx context.Context, id string) (RecordResponse, error)

	// ListMine retrieves the authenticated employee's records
	ListMine(ctx context.Context) ([]RecordResponse, error)
}
