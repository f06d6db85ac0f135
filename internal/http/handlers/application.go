package handlers

import (
	"net/http"
	"time"

	"recruitflow/internal/app"
	"recruitflow/internal/common"
	"recruitflow/internal/domain/application"
	"recruitflow/internal/http/middleware"
	"recruitflow/internal/http/response"
)

type ApplicationHandler struct {
	workflow  *app.WorkflowService
	limiter   middleware.Limiter
	rateLimit int
}

func NewApplicationHandler(workflow *app.WorkflowService, limiter middleware.Limiter, rateLimit int) *ApplicationHandler {
	return &ApplicationHandler{workflow: workflow, limiter: limiter, rateLimit: rateLimit}
}

type updateStatusRequest struct {
	Status      string `json:"status"`
	RecruiterID int64  `json:"recruiter_id"`
	Reason      string `json:"reason,omitempty"`
}

func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.Status == "" {
		response.Error(w, common.NewValidationError("status is required", map[string]string{"status": "value is required"}))
		return
	}
	if h.limiter != nil {
		if !h.limiter.Allow("workflow:"+id.String(), h.rateLimit, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "workflow rate limit exceeded", nil))
			return
		}
	}
	updated, err := h.workflow.Transition(r.Context(), id, application.Status(req.Status), req.RecruiterID, req.Reason)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.workflow.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *ApplicationHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.workflow.History(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	if items == nil {
		items = []application.Transition{}
	}
	response.JSON(w, http.StatusOK, items)
}
