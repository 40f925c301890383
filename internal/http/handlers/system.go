package handlers

import (
	"net/http"
	"time"

	"flightdesk/internal/utils"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Health(c *gin.Context) {
	source := "none"
	if h.Lookup.Source != nil {
		source = h.Lookup.Source.Name()
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"source": source,
		"uptime": time.Since(h.StartTime).Round(time.Second).String(),
	})
}

// Time serves the clock readout shown next to the search form.
func (h *Handler) Time(c *gin.Context) {
	now := h.Kiosk.Now()
	c.JSON(http.StatusOK, gin.H{
		"time":  h.Kiosk.Clock(),
		"iso":   now.Format(time.RFC3339),
		"today": utils.FormatDate(now),
	})
}
