package handlers

import (
	"net/http"

	"flightdesk/internal/domain"
	"flightdesk/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads. Message and TimeoutMS are what
// the page shows in its banner.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message,omitempty"`
	TimeoutMS int64  `json:"timeout_ms,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code string, msg domain.Message, err error) {
	if code == "" {
		code = http.StatusText(status)
	}
	resp := ErrorResponse{
		Error:     msg.Text,
		Code:      code,
		Message:   msg.Text,
		TimeoutMS: msg.TimeoutMS(),
		RequestID: middleware.GetRequestID(c),
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(status, resp)
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	msg := domain.MessageFor(err)
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", domain.Message{Text: err.Error()}, err)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", msg, err)
	case domain.IsLoad(err):
		respondError(c, http.StatusBadGateway, "load_failed", msg, err)
	case domain.IsScannerUnavailable(err):
		respondError(c, http.StatusServiceUnavailable, "scanner_unavailable", msg, err)
	default:
		if kind, ok := domain.CameraKind(err); ok {
			respondError(c, http.StatusConflict, "camera_"+string(kind), msg, err)
			return
		}
		respondError(c, http.StatusInternalServerError, "internal_error", domain.MsgGenericFailure, nil)
	}
}
