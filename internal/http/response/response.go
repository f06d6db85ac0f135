package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"recruitflow/internal/common"
)

type errorBody struct {
	Error   common.Code       `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func Error(w http.ResponseWriter, err error) {
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		appErr = common.NewError(common.CodeInternal, "internal error", err)
	}
	body := errorBody{Error: appErr.Code, Message: appErr.Message, Fields: appErr.Fields}
	if appErr.Code == common.CodeInternal {
		body.Message = "internal error"
	}
	JSON(w, statusFor(appErr.Code), body)
}

func statusFor(code common.Code) int {
	switch code {
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict, common.CodeInvalidTransition:
		return http.StatusConflict
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	case common.CodeSync:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
