package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"flightdesk/internal/domain"
	"flightdesk/internal/http/middleware"
	"flightdesk/internal/scanner"
	"flightdesk/internal/utils"

	"github.com/gin-gonic/gin"
)

const defaultScanOpenTimeout = 20 * time.Second

type inputRequest struct {
	Flight string `json:"flight"`
	Date   string `json:"date"`
}

type scanFailedRequest struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type scanDecodedRequest struct {
	Text string `json:"text"`
}

// GET /api/kiosk
func (h *Handler) KioskState(c *gin.Context) {
	c.JSON(http.StatusOK, h.Kiosk.Snapshot())
}

// PUT /api/kiosk/input
func (h *Handler) KioskInput(c *gin.Context) {
	var req inputRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	h.Kiosk.SetInputs(req.Flight, req.Date)
	c.JSON(http.StatusOK, h.Kiosk.Snapshot())
}

// POST /api/kiosk/search runs the lookup with the current inputs.
func (h *Handler) KioskSearch(c *gin.Context) {
	if _, err := h.Kiosk.Search(c.Request.Context(), middleware.GetRequestID(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Kiosk.Snapshot())
}

// POST /api/kiosk/prompt/dismiss
func (h *Handler) KioskDismissPrompt(c *gin.Context) {
	h.Kiosk.DismissPrompt()
	c.JSON(http.StatusOK, h.Kiosk.Snapshot())
}

// POST /api/kiosk/scan/start. The camera open is reported by the page later,
// so the start runs in the background and the page polls the kiosk state.
// A missing decoder or camera is rejected before anything is started.
func (h *Handler) ScanStart(c *gin.Context) {
	requestID := middleware.GetRequestID(c)
	if err := h.Kiosk.ScanAvailable(); err != nil {
		utils.LogError(requestID, "scanner", "start", err)
		RespondDomainError(c, err)
		return
	}
	timeout := h.ScanOpenTimeout
	if timeout <= 0 {
		timeout = defaultScanOpenTimeout
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := h.Kiosk.StartScan(ctx); err != nil {
			utils.LogError(requestID, "scanner", "start", err)
		}
	}()
	c.JSON(http.StatusAccepted, h.Kiosk.Snapshot())
}

// POST /api/kiosk/scan/stop
func (h *Handler) ScanStop(c *gin.Context) {
	h.Kiosk.StopScan(c.Request.Context())
	c.JSON(http.StatusOK, h.Kiosk.Snapshot())
}

// GET /api/kiosk/scan/config returns camera settings for the pending or open session.
func (h *Handler) ScanConfig(c *gin.Context) {
	if !h.bridgeReady(c) {
		return
	}
	facing, cfg, ok := h.Bridge.Config()
	if !ok {
		respondError(c, http.StatusConflict, "no_session", domain.Message{Text: "no scan session"}, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"facing": facing, "config": cfg})
}

// POST /api/kiosk/scan/opened
func (h *Handler) ScanOpened(c *gin.Context) {
	if !h.bridgeReady(c) {
		return
	}
	if err := h.Bridge.Opened(); err != nil {
		respondBridgeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/kiosk/scan/failed
func (h *Handler) ScanFailed(c *gin.Context) {
	if !h.bridgeReady(c) {
		return
	}
	var req scanFailedRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.Bridge.OpenFailed(req.Name, req.Message); err != nil {
		respondBridgeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/kiosk/scan/decoded
func (h *Handler) ScanDecoded(c *gin.Context) {
	if !h.bridgeReady(c) {
		return
	}
	var req scanDecodedRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.Bridge.Decoded(req.Text); err != nil {
		respondBridgeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Kiosk.Snapshot())
}

func respondBridgeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scanner.ErrNoPendingOpen), errors.Is(err, scanner.ErrNotRunning):
		respondError(c, http.StatusConflict, "no_session", domain.Message{Text: err.Error()}, err)
	default:
		RespondDomainError(c, err)
	}
}

func (h *Handler) bridgeReady(c *gin.Context) bool {
	if h.Bridge == nil {
		RespondDomainError(c, domain.ScannerUnavailableError{Capability: domain.CapabilityDecoder})
		return false
	}
	return true
}
