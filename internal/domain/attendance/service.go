package attendance

import "context"

// EntryService defines business logic for attendance operations
type EntryService interface {
	// ClockIn opens a new entry for the authenticated employee
	ClockIn(ctx context.Context, req ClockInRequest) (EntryResponse, error)

	// ClockOut closes the open entry and computes worked/overtime minutes
	ClockOut(ctx context.Context) (EntryResponse, error)

	// GetMyEntries retrieves entries for the authenticated employee
	GetMyEntries(ctx context.Context, filter EntryFilter) (ListEntriesResponse, error)

	// ListEntries retrieves entries with filters (manager)
	ListEntries(ctx context.Context, filter EntryFilter) (ListEntriesResponse, error)

	GetEntry(ctx context.Context, id string) (EntryResponse, error)

	// RequestCorrection files a correction request against an entry
	RequestCorrection(ctx context.Context, req CreateCorrectionRequest) (CorrectionResponse, error)

	// ApproveCorrection applies the requested timestamps to the entry,
	// recomputes derived fields, and marks the entry adjusted
	ApproveCorrection(ctx context.Context, req ReviewCorrectionRequest) (CorrectionResponse, error)

	// RejectCorrection rejects a pending correction with a note
	RejectCorrection(ctx context.Context, req RejectCorrectionRequest) (CorrectionResponse, error)

	// ListPendingCorrections retrieves unreviewed corrections (manager)
	ListPendingCorrections(ctx context.Context) ([]CorrectionResponse, error)
}
