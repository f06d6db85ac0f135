package handlers

import (
	"net/http"

	"recruitflow/internal/app"
	"recruitflow/internal/common"
	"recruitflow/internal/http/response"
)

type RecruiterHandler struct {
	router *app.RouterService
}

func NewRecruiterHandler(router *app.RouterService) *RecruiterHandler {
	return &RecruiterHandler{router: router}
}

type upsertRecruiterRequest struct {
	RecruiterTgID     int64  `json:"recruiter_tg_id"`
	RecruiterUsername string `json:"recruiter_username"`
	IsActive          bool   `json:"is_active"`
}

func (h *RecruiterHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	direction := segmentFromPath(r, 1)
	if direction == "" {
		response.Error(w, common.NewValidationError("direction is required", map[string]string{"direction": "value is required"}))
		return
	}
	var req upsertRecruiterRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	mapping, err := h.router.Upsert(r.Context(), direction, req.RecruiterTgID, req.RecruiterUsername, req.IsActive)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, mapping)
}

func (h *RecruiterHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	direction := segmentFromPath(r, 1)
	if direction == "" {
		response.Error(w, common.NewValidationError("direction is required", map[string]string{"direction": "value is required"}))
		return
	}
	mapping := h.router.Resolve(r.Context(), direction)
	response.JSON(w, http.StatusOK, mapping)
}
