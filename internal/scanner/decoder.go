package scanner

import (
	"context"
	"math"

	"flightdesk/internal/domain"
)

// Facing selects the camera the decoder opens.
type Facing string

const FacingEnvironment Facing = "environment"

const (
	DefaultFPS       = 10
	maxRegionSide    = 320
	regionWidthRatio = 0.8
)

// Region is the square of the camera feed searched for a QR code, in pixels.
type Region struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Config struct {
	FPS    int    `json:"fps"`
	Region Region `json:"qrbox"`
}

// DetectionRegion sizes the square as min(320, floor(0.8*viewportWidth)).
func DetectionRegion(viewportWidth int) Region {
	side := int(math.Floor(float64(viewportWidth) * regionWidthRatio))
	if side > maxRegionSide {
		side = maxRegionSide
	}
	if side < 0 {
		side = 0
	}
	return Region{Width: side, Height: side}
}

// Decoder is the QR decoding capability. Start returns once the camera is open
// or failed to open; onDecoded may be called from any goroutine after that.
type Decoder interface {
	Start(ctx context.Context, facing Facing, cfg Config, onDecoded func(text string)) error
	Stop(ctx context.Context) error
	Clear()
}

// OpenCanceler is implemented by decoders whose pending camera open can be
// abandoned. CancelOpen makes a blocked Start return an error promptly.
type OpenCanceler interface {
	CancelOpen()
}

// DecoderFactory creates a fresh decoder for each session.
type DecoderFactory func() Decoder

// Host is the UI surface the controller drives.
type Host interface {
	MediaAvailable() bool
	ViewportWidth() int
	SetOverlayVisible(visible bool)
	SetFlightInput(text string)
	ShowMessage(msg domain.Message)
}
