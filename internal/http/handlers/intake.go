package handlers

import (
	"net/http"
	"strconv"
	"time"

	"recruitflow/internal/app"
	"recruitflow/internal/common"
	"recruitflow/internal/domain/intake"
	"recruitflow/internal/http/middleware"
	"recruitflow/internal/http/response"
	"recruitflow/internal/metrics"
)

type IntakeHandler struct {
	intake    *app.IntakeService
	limiter   middleware.Limiter
	collector *metrics.Collector
	rateLimit int
}

func NewIntakeHandler(intakeService *app.IntakeService, limiter middleware.Limiter, collector *metrics.Collector, rateLimit int) *IntakeHandler {
	return &IntakeHandler{intake: intakeService, limiter: limiter, collector: collector, rateLimit: rateLimit}
}

type startIntakeRequest struct {
	CandidateTgID int64  `json:"candidate_tg_id"`
	VacancyID     string `json:"vacancy_id"`
}

type startIntakeResponse struct {
	ApplicationID common.UUID `json:"application_id"`
	NextStep      intake.Step `json:"next_step"`
}

func (h *IntakeHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startIntakeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		key := "intake:start:" + strconv.FormatInt(req.CandidateTgID, 10)
		if !h.limiter.Allow(key, h.rateLimit, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "intake rate limit exceeded", nil))
			return
		}
	}
	created, err := h.intake.StartIntake(r.Context(), req.CandidateTgID, req.VacancyID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, startIntakeResponse{
		ApplicationID: created.ID,
		NextStep:      intake.NextStep(created.Draft),
	})
}

type submitStepRequest struct {
	Step     intake.Step           `json:"step"`
	Text     string                `json:"text,omitempty"`
	Contact  *intake.SharedContact `json:"contact,omitempty"`
	Document *intake.DocumentRef   `json:"document,omitempty"`
	Skip     bool                  `json:"skip,omitempty"`
}

func (h *IntakeHandler) SubmitStep(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req submitStepRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		if !h.limiter.Allow("intake:step:"+id.String(), h.rateLimit, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "intake rate limit exceeded", nil))
			return
		}
	}
	result, err := h.intake.SubmitStep(r.Context(), id, req.Step, intake.Input{
		Text:     req.Text,
		Contact:  req.Contact,
		Document: req.Document,
		Skip:     req.Skip,
	})
	h.countStep(req.Step, err)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

type finalizeRequest struct {
	Retry bool `json:"retry,omitempty"`
}

func (h *IntakeHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	req := finalizeRequest{}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			response.Error(w, err)
			return
		}
	}
	result, err := h.intake.Finalize(r.Context(), id, req.Retry)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *IntakeHandler) countStep(step intake.Step, err error) {
	if h.collector == nil {
		return
	}
	result := "accepted"
	if err != nil {
		result = string(common.CodeOf(err))
	}
	h.collector.IntakeSteps.WithLabelValues(string(step), result).Inc()
}
