package handlers

import (
	"net/http"
	"strconv"

	"flightdesk/internal/http/middleware"
	"flightdesk/internal/services"

	"github.com/gin-gonic/gin"
)

const defaultQRSize = 256

// GET /api/flights/lookup?flight=&date=
func (h *Handler) LookupFlight(c *gin.Context) {
	flight, date, ok := flightQuery(c)
	if !ok {
		return
	}

	svc := h.Lookup
	svc.RequestID = middleware.GetRequestID(c)
	rec, err := svc.Lookup(c.Request.Context(), flight, date)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GET /api/flights/slip?flight=&date= returns the flight slip (inline PDF).
func (h *Handler) FlightSlip(c *gin.Context) {
	flight, date, ok := flightQuery(c)
	if !ok {
		return
	}

	svc := services.DocsService{
		Lookup:    h.Lookup,
		QR:        h.QR,
		RequestID: middleware.GetRequestID(c),
		Now:       h.Lookup.Now,
	}
	pdfBytes, filename, err := svc.GenerateSlip(c.Request.Context(), flight, date)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// GET /api/flights/qr?code=&size= returns a PNG QR code for a flight code.
func (h *Handler) FlightQR(c *gin.Context) {
	size := defaultQRSize
	if v := c.Query("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			size = n
		}
	}

	png, err := h.QR.FlightQR(c.Query("code"), size)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}
