package preview

import "context"

// PreviewService evaluates a candidate policy against stored entries without
// persisting anything.
type PreviewService interface {
	// Run replays closed entries in the window through the rule engine under
	// the candidate policy. An empty employee list means all active employees.
	Run(ctx context.Context, req PreviewRequest) (PreviewResponse, error)
}
