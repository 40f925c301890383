package kiosk

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"flightdesk/internal/domain"
	"flightdesk/internal/domain/models"
	"flightdesk/internal/scanner"
	"flightdesk/internal/services"
	"flightdesk/internal/utils"
)

// Options configures a kiosk.
type Options struct {
	Lookup        services.FlightLookupService
	NewDecoder    scanner.DecoderFactory
	CameraEnabled bool
	ViewportWidth int
	Now           func() time.Time
}

// Kiosk owns the page state: inputs, banner, overlay, loading flag, result
// panels and clock. It is the single coordinating unit between the lookup and
// the scanner; a successful scan writes into the flight input.
type Kiosk struct {
	lookup        services.FlightLookupService
	scanner       *scanner.Controller
	cameraEnabled bool
	viewportWidth int
	now           func() time.Time

	banner banner

	mu          sync.Mutex
	flightInput string
	dateInput   string
	loading     bool
	overlay     bool
	result      *models.DisplayRecord
	prompt      string
	clock       string
}

func New(opts Options) *Kiosk {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if opts.Lookup.Now == nil {
		opts.Lookup.Now = now
	}
	k := &Kiosk{
		lookup:        opts.Lookup,
		cameraEnabled: opts.CameraEnabled,
		viewportWidth: opts.ViewportWidth,
		now:           now,
	}
	k.dateInput = utils.FormatDate(now())
	k.clock = utils.FormatClock(now())
	k.scanner = scanner.NewController(opts.NewDecoder, k)
	return k
}

// Snapshot is the page state as rendered by the front end.
type Snapshot struct {
	FlightInput    string                `json:"flight_input"`
	DateInput      string                `json:"date_input"`
	Loading        bool                  `json:"loading"`
	Result         *models.DisplayRecord `json:"result"`
	Message        string                `json:"message"`
	MessageVisible bool                  `json:"message_visible"`
	Prompt         string                `json:"prompt,omitempty"`
	OverlayVisible bool                  `json:"overlay_visible"`
	ScannerState   scanner.State         `json:"scanner_state"`
	ScanSessionID  string                `json:"scan_session_id,omitempty"`
	Clock          string                `json:"clock"`
}

func (k *Kiosk) Snapshot() Snapshot {
	text, visible := k.banner.snapshot()
	state, sessionID := k.scanner.State(), k.scanner.SessionID()
	k.mu.Lock()
	defer k.mu.Unlock()
	return Snapshot{
		FlightInput:    k.flightInput,
		DateInput:      k.dateInput,
		Loading:        k.loading,
		Result:         k.result,
		Message:        text,
		MessageVisible: visible,
		Prompt:         k.prompt,
		OverlayVisible: k.overlay,
		ScannerState:   state,
		ScanSessionID:  sessionID,
		Clock:          k.clock,
	}
}

// SetInputs replaces both form fields.
func (k *Kiosk) SetInputs(flight, date string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.flightInput = flight
	k.dateInput = strings.TrimSpace(date)
}

// Search runs one lookup with the current inputs. Empty inputs raise the
// prompt and no lookup happens. Concurrent searches are independent; the last
// one to finish decides what is rendered.
func (k *Kiosk) Search(ctx context.Context, requestID string) (models.DisplayRecord, error) {
	k.mu.Lock()
	flight := strings.TrimSpace(k.flightInput)
	date := k.dateInput
	if flight == "" || date == "" {
		k.prompt = domain.PromptMissingInput
		k.mu.Unlock()
		return models.DisplayRecord{}, domain.ValidationError{Msg: domain.PromptMissingInput}
	}
	k.prompt = ""
	k.loading = true
	k.result = nil
	k.mu.Unlock()

	lookup := k.lookup
	lookup.RequestID = requestID
	rec, err := lookup.Lookup(ctx, flight, date)

	k.mu.Lock()
	k.loading = false
	if err == nil {
		k.result = &rec
	}
	k.mu.Unlock()

	if err != nil {
		k.ShowMessage(domain.MessageFor(err))
		return models.DisplayRecord{}, err
	}
	return rec, nil
}

// DismissPrompt clears the blocking prompt after the user acknowledged it.
func (k *Kiosk) DismissPrompt() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.prompt = ""
}

// ScanAvailable reports a missing decoder or camera without touching the
// scanner state. The matching banner is shown on failure.
func (k *Kiosk) ScanAvailable() error {
	err := k.scanner.Available()
	if err != nil {
		k.ShowMessage(domain.MessageFor(err))
	}
	return err
}

func (k *Kiosk) StartScan(ctx context.Context) error {
	return k.scanner.Start(ctx)
}

func (k *Kiosk) StopScan(ctx context.Context) {
	k.scanner.Stop(ctx)
}

// RunClock refreshes the clock readout every second until ctx is done.
func (k *Kiosk) RunClock(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			k.tickClock()
		}
	}
}

func (k *Kiosk) tickClock() {
	readout := utils.FormatClock(k.now())
	k.mu.Lock()
	k.clock = readout
	k.mu.Unlock()
}

// Now is the kiosk's wall clock.
func (k *Kiosk) Now() time.Time { return k.now() }

// Clock returns the current readout.
func (k *Kiosk) Clock() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.clock
}

// scanner.Host

func (k *Kiosk) MediaAvailable() bool { return k.cameraEnabled }

func (k *Kiosk) ViewportWidth() int { return k.viewportWidth }

func (k *Kiosk) SetOverlayVisible(visible bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.overlay = visible
}

func (k *Kiosk) SetFlightInput(text string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.flightInput = text
}

func (k *Kiosk) ShowMessage(msg domain.Message) {
	if msg.Text == "" {
		return
	}
	utils.LogEvent("", "kiosk", "message", fmt.Sprintf("timeout_ms=%d", msg.TimeoutMS()))
	k.banner.show(msg)
}
