package handlers

import (
	"net/http"
	"strings"
	"time"

	"flightdesk/internal/domain"
	"flightdesk/internal/kiosk"
	"flightdesk/internal/scanner"
	"flightdesk/internal/services"

	"github.com/gin-gonic/gin"
)

// Handler carries the services behind the API routes.
type Handler struct {
	Lookup          services.FlightLookupService
	QR              services.QRService
	Kiosk           *kiosk.Kiosk
	Bridge          *scanner.PushBridge
	ScanOpenTimeout time.Duration
	StartTime       time.Time
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondDomainError(c, domain.ValidationError{Msg: "empty body"})
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondDomainError(c, domain.ValidationError{Msg: "invalid payload", Err: err})
		return false
	}
	return true
}

// flightQuery reads and checks the flight/date pair every lookup route takes.
func flightQuery(c *gin.Context) (string, string, bool) {
	flight := strings.TrimSpace(c.Query("flight"))
	date := strings.TrimSpace(c.Query("date"))
	if flight == "" || date == "" {
		respondError(c, http.StatusBadRequest, "validation_error", domain.Message{Text: domain.PromptMissingInput}, nil)
		return "", "", false
	}
	return flight, date, true
}
