package scanner

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNoPendingOpen = errors.New("scanner: no camera open is pending")
	ErrNotRunning    = errors.New("scanner: decoder is not running")
	ErrOpenCancelled = errors.New("scanner: camera open cancelled")
)

// PushBridge is a DecoderFactory for kiosks where the page owns the camera and
// the QR library. The page reports camera events back, and the bridge forwards
// them to the decoder of the current session.
type PushBridge struct {
	mu      sync.Mutex
	current *PushDecoder
}

func NewPushBridge() *PushBridge {
	return &PushBridge{}
}

// NewDecoder is the bridge's DecoderFactory.
func (b *PushBridge) NewDecoder() Decoder {
	d := &PushDecoder{opened: make(chan error, 1)}
	b.mu.Lock()
	b.current = d
	b.mu.Unlock()
	return d
}

func (b *PushBridge) decoder() (*PushDecoder, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return nil, ErrNotRunning
	}
	return b.current, nil
}

// Opened reports that the page opened the camera.
func (b *PushBridge) Opened() error {
	d, err := b.decoder()
	if err != nil {
		return ErrNoPendingOpen
	}
	return d.ack(nil)
}

// OpenFailed reports a camera open failure with its media error name.
func (b *PushBridge) OpenFailed(name, message string) error {
	d, err := b.decoder()
	if err != nil {
		return ErrNoPendingOpen
	}
	var cause error
	if message != "" {
		cause = errors.New(message)
	}
	return d.ack(&OpenError{Name: name, Err: cause})
}

// Decoded delivers a decoded QR payload.
func (b *PushBridge) Decoded(text string) error {
	d, err := b.decoder()
	if err != nil {
		return err
	}
	return d.deliver(text)
}

// Config returns the camera settings of the current session, for the page to apply.
func (b *PushBridge) Config() (Facing, Config, bool) {
	d, err := b.decoder()
	if err != nil {
		return "", Config{}, false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.waiting && !d.running {
		return "", Config{}, false
	}
	return d.facing, d.cfg, true
}

// PushDecoder waits for the page's open acknowledgement in Start.
type PushDecoder struct {
	mu        sync.Mutex
	opened    chan error
	waiting   bool
	running   bool
	cancelled bool
	facing    Facing
	cfg       Config
	onDecoded func(string)
}

func (d *PushDecoder) Start(ctx context.Context, facing Facing, cfg Config, onDecoded func(string)) error {
	d.mu.Lock()
	if d.running || d.waiting {
		d.mu.Unlock()
		return &OpenError{Name: "InvalidStateError", Err: errors.New("decoder already started")}
	}
	if d.cancelled {
		d.mu.Unlock()
		return &OpenError{Name: "AbortError", Err: ErrOpenCancelled}
	}
	d.waiting = true
	d.facing = facing
	d.cfg = cfg
	d.onDecoded = onDecoded
	d.mu.Unlock()

	select {
	case err := <-d.opened:
		d.mu.Lock()
		d.waiting = false
		d.running = err == nil
		d.mu.Unlock()
		return err
	case <-ctx.Done():
		d.mu.Lock()
		d.waiting = false
		d.mu.Unlock()
		return &OpenError{Name: "TimeoutError", Err: ctx.Err()}
	}
}

func (d *PushDecoder) ack(err error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.waiting {
		return ErrNoPendingOpen
	}
	select {
	case d.opened <- err:
		return nil
	default:
		return ErrNoPendingOpen
	}
}

// CancelOpen releases a Start still waiting for the page. A cancel issued
// before Start begins waiting makes that Start fail immediately.
func (d *PushDecoder) CancelOpen() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return
	}
	d.cancelled = true
	if d.waiting {
		select {
		case d.opened <- &OpenError{Name: "AbortError", Err: ErrOpenCancelled}:
		default:
		}
	}
}

func (d *PushDecoder) deliver(text string) error {
	d.mu.Lock()
	running, cb := d.running, d.onDecoded
	d.mu.Unlock()
	if !running || cb == nil {
		return ErrNotRunning
	}
	cb(text)
	return nil
}

func (d *PushDecoder) Stop(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return ErrNotRunning
	}
	d.running = false
	return nil
}

func (d *PushDecoder) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onDecoded = nil
	d.cfg = Config{}
	d.facing = ""
}
