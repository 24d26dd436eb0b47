package policy

import "context"

// PolicyService defines business logic for policy management
type PolicyService interface {
	// GetMyPolicy retrieves the active policy for the authenticated company
	GetMyPolicy(ctx context.Context) (PolicyResponse, error)

	// ReplacePolicy replaces the company policy wholesale after validation
	ReplacePolicy(ctx context.Context, req UpsertPolicyRequest) (PolicyResponse, error)
}
