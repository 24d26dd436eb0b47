package http

import (
	"encoding/json"
	"net/http"

	"github.com/opsuite/attendance-backend-go/internal/domain/policy"
	"github.com/opsuite/attendance-backend-go/internal/handler/http/response"
)

type PolicyHandler interface {
	GetMy(w http.ResponseWriter, r *http.Request)
	Replace(w http.ResponseWriter, r *http.Request)
}

type policyHandlerImpl struct {
	policyService policy.PolicyService
}

func NewPolicyHandler(policyService policy.PolicyService) PolicyHandler {
	return &policyHandlerImpl{
		policyService: policyService,
	}
}

// GetMy implements PolicyHandler.
func (h *policyHandlerImpl) GetMy(w http.ResponseWriter, r *http.Request) {
	result, err := h.policyService.GetMyPolicy(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Replace implements PolicyHandler.
func (h *policyHandlerImpl) Replace(w http.ResponseWriter, r *http.Request) {
	var req policy.UpsertPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.policyService.ReplacePolicy(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Policy replaced", result)
}
