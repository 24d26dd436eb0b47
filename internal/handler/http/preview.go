package http

import (
	"encoding/json"
	"net/http"

	"github.com/opsuite/attendance-backend-go/internal/domain/preview"
	"github.com/opsuite/attendance-backend-go/internal/handler/http/response"
)

type PreviewHandler interface {
	Run(w http.ResponseWriter, r *http.Request)
}

type previewHandlerImpl struct {
	previewService preview.PreviewService
}

func NewPreviewHandler(previewService preview.PreviewService) PreviewHandler {
	return &previewHandlerImpl{
		previewService: previewService,
	}
}

// Run implements PreviewHandler.
func (h *previewHandlerImpl) Run(w http.ResponseWriter, r *http.Request) {
	var req preview.PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.previewService.Run(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
