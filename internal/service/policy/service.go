package policy

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"

	"github.com/opsuite/attendance-backend-go/internal/domain/policy"
)

type PolicyServiceImpl struct {
	policy.PolicyRepository
}

func NewPolicyService(policyRepo policy.PolicyRepository) policy.PolicyService {
	return &PolicyServiceImpl{PolicyRepository: policyRepo}
}

func companyIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

// GetMyPolicy implements policy.PolicyService.
func (s *PolicyServiceImpl) GetMyPolicy(ctx context.Context) (policy.PolicyResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return policy.PolicyResponse{}, err
	}

	p, err := s.PolicyRepository.GetByCompanyID(ctx, companyID)
	if err != nil {
		return policy.PolicyResponse{}, err
	}

	return p.ToResponse(), nil
}

// ReplacePolicy implements policy.PolicyService.
func (s *PolicyServiceImpl) ReplacePolicy(ctx context.Context, req policy.UpsertPolicyRequest) (policy.PolicyResponse, error) {
	if err := req.Validate(); err != nil {
		return policy.PolicyResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return policy.PolicyResponse{}, err
	}

	p := req.ToEntity(companyID)
	for i := range p.Overtime.Rules {
		if p.Overtime.Rules[i].ID == "" {
			p.Overtime.Rules[i].ID = uuid.Must(uuid.NewV7()).String()
		}
	}

	saved, err := s.PolicyRepository.Replace(ctx, p)
	if err != nil {
		return policy.PolicyResponse{}, err
	}

	return saved.ToResponse(), nil
}
