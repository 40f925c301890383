package scanner

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"flightdesk/internal/domain"
	"flightdesk/internal/utils"

	"github.com/google/uuid"
)

type State string

const (
	StateIdle     State = "IDLE"
	StateStarting State = "STARTING"
	StateScanning State = "SCANNING"
	StateStopping State = "STOPPING"
)

// Session is one camera scanning attempt. It exists only while a decoder is open.
type Session struct {
	ID      string
	decoder Decoder
}

// Controller runs at most one scanning session at a time.
//
// The lock is never held across decoder calls, so a decode callback that
// triggers Stop can run on the decoder's own goroutine.
type Controller struct {
	newDecoder DecoderFactory
	host       Host

	mu      sync.Mutex
	state   State
	active  *Session // non-nil iff state is SCANNING or STOPPING
	pending *Session // the session being opened while STARTING
	// stopRequested records a Stop issued while the open is still in flight.
	stopRequested bool
}

// NewController returns an idle controller. A nil factory means the decoding
// capability is unavailable and every Start is refused.
func NewController(newDecoder DecoderFactory, host Host) *Controller {
	return &Controller{newDecoder: newDecoder, host: host, state: StateIdle}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Active reports whether a decoder session is open.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}

// SessionID returns the open session id, or "" when idle.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return ""
	}
	return c.active.ID
}

// Available reports the missing capability, if any, that makes Start refuse.
// It has no side effects.
func (c *Controller) Available() error {
	if c.newDecoder == nil {
		return domain.ScannerUnavailableError{Capability: domain.CapabilityDecoder}
	}
	if !c.host.MediaAvailable() {
		return domain.ScannerUnavailableError{Capability: domain.CapabilityCamera}
	}
	return nil
}

// Start opens a scanning session. It blocks until the decoder reports the
// camera open or failed. Calling Start while a session is starting, open or
// stopping is a no-op returning nil.
func (c *Controller) Start(ctx context.Context) error {
	if err := c.Available(); err != nil {
		c.host.ShowMessage(domain.MessageFor(err))
		return err
	}

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil
	}
	session := &Session{ID: uuid.NewString(), decoder: c.newDecoder()}
	c.state = StateStarting
	c.pending = session
	c.stopRequested = false
	c.mu.Unlock()

	c.host.SetOverlayVisible(true)
	cfg := Config{FPS: DefaultFPS, Region: DetectionRegion(c.host.ViewportWidth())}
	utils.LogEvent(session.ID, "scanner", "start", fmt.Sprintf("fps=%d qrbox=%dx%d", cfg.FPS, cfg.Region.Width, cfg.Region.Height))

	err := session.decoder.Start(ctx, FacingEnvironment, cfg, func(text string) {
		c.handleDecoded(session, text)
	})

	c.mu.Lock()
	c.pending = nil
	if err != nil {
		cancelled := c.stopRequested
		c.active = nil
		c.state = StateIdle
		c.stopRequested = false
		c.mu.Unlock()

		if cancelled {
			utils.LogEvent(session.ID, "scanner", "start_cancelled", err.Error())
			c.host.SetOverlayVisible(false)
			return nil
		}
		camErr := domain.CameraError{Kind: Classify(err), Err: err}
		utils.LogError(session.ID, "scanner", "start_failed", camErr)
		c.host.ShowMessage(domain.MessageFor(camErr))
		c.host.SetOverlayVisible(false)
		return camErr
	}
	c.active = session
	c.state = StateScanning
	stopNow := c.stopRequested
	c.stopRequested = false
	c.mu.Unlock()

	if stopNow {
		c.Stop(ctx)
	}
	return nil
}

// Stop ends the open session. A decoder stop failure is logged and the
// controller still returns to IDLE with the overlay hidden. Stop while idle
// only hides the overlay.
func (c *Controller) Stop(ctx context.Context) {
	c.mu.Lock()
	switch c.state {
	case StateScanning:
		session := c.active
		c.state = StateStopping
		c.mu.Unlock()

		if err := session.decoder.Stop(ctx); err != nil {
			utils.LogError(session.ID, "scanner", "stop_failed", domain.StopError{SessionID: session.ID, Err: err})
		} else {
			session.decoder.Clear()
			utils.LogEvent(session.ID, "scanner", "stop", "session closed")
		}

		c.mu.Lock()
		c.active = nil
		c.state = StateIdle
		c.mu.Unlock()
		c.host.SetOverlayVisible(false)
	case StateStarting:
		// Start finishes the teardown once the open resolves.
		c.stopRequested = true
		pending := c.pending
		c.mu.Unlock()
		c.host.SetOverlayVisible(false)
		if oc, ok := pending.decoder.(OpenCanceler); ok {
			oc.CancelOpen()
		}
	case StateStopping:
		c.mu.Unlock()
	default:
		c.mu.Unlock()
		c.host.SetOverlayVisible(false)
	}
}

func (c *Controller) handleDecoded(session *Session, text string) {
	c.mu.Lock()
	current := (c.state == StateScanning && c.active == session) || c.pending == session
	c.mu.Unlock()
	if !current {
		utils.LogEvent(session.ID, "scanner", "decoded_stale", "ignored")
		return
	}

	text = strings.TrimSpace(text)
	utils.LogEvent(session.ID, "scanner", "decoded", fmt.Sprintf("len=%d", len(text)))
	c.host.SetFlightInput(text)
	c.host.ShowMessage(domain.ScanSuccessMessage(text))
	c.Stop(context.Background())
}
