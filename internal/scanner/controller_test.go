package scanner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"flightdesk/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	mu       sync.Mutex
	media    bool
	width    int
	overlay  bool
	input    string
	messages []domain.Message
}

func newFakeHost() *fakeHost { return &fakeHost{media: true, width: 1000} }

func (h *fakeHost) MediaAvailable() bool { return h.media }
func (h *fakeHost) ViewportWidth() int   { return h.width }

func (h *fakeHost) SetOverlayVisible(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.overlay = v
}

func (h *fakeHost) SetFlightInput(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.input = text
}

func (h *fakeHost) ShowMessage(msg domain.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msg)
}

func (h *fakeHost) lastMessage() domain.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.messages) == 0 {
		return domain.Message{}
	}
	return h.messages[len(h.messages)-1]
}

func (h *fakeHost) overlayVisible() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.overlay
}

type fakeDecoder struct {
	startErr  error
	stopErr   error
	gate      chan struct{} // when set, Start waits on it
	started   int
	stopped   int
	cleared   int
	facing    Facing
	cfg       Config
	onDecoded func(string)
}

func (d *fakeDecoder) Start(ctx context.Context, facing Facing, cfg Config, onDecoded func(string)) error {
	d.started++
	d.facing, d.cfg, d.onDecoded = facing, cfg, onDecoded
	if d.gate != nil {
		<-d.gate
	}
	return d.startErr
}

func (d *fakeDecoder) Stop(context.Context) error {
	d.stopped++
	return d.stopErr
}

func (d *fakeDecoder) Clear() { d.cleared++ }

func factoryOf(decoders ...*fakeDecoder) (DecoderFactory, *int) {
	n := 0
	return func() Decoder {
		d := decoders[n]
		n++
		return d
	}, &n
}

func TestStartOpensRearCameraWithBoundedRegion(t *testing.T) {
	host := newFakeHost()
	dec := &fakeDecoder{}
	factory, _ := factoryOf(dec)
	c := NewController(factory, host)

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, StateScanning, c.State())
	assert.True(t, c.Active())
	assert.NotEmpty(t, c.SessionID())
	assert.True(t, host.overlayVisible())
	assert.Equal(t, FacingEnvironment, dec.facing)
	assert.Equal(t, Config{FPS: 10, Region: Region{Width: 320, Height: 320}}, dec.cfg)
}

func TestDetectionRegion(t *testing.T) {
	assert.Equal(t, Region{Width: 320, Height: 320}, DetectionRegion(1920))
	assert.Equal(t, Region{Width: 300, Height: 300}, DetectionRegion(375))
	assert.Equal(t, Region{Width: 320, Height: 320}, DetectionRegion(400))
	assert.Equal(t, Region{Width: 0, Height: 0}, DetectionRegion(0))
}

func TestStartTwiceKeepsOneSession(t *testing.T) {
	host := newFakeHost()
	first, second := &fakeDecoder{}, &fakeDecoder{}
	factory, created := factoryOf(first, second)
	c := NewController(factory, host)

	require.NoError(t, c.Start(context.Background()))
	id := c.SessionID()
	require.NoError(t, c.Start(context.Background()))

	assert.Equal(t, 1, *created)
	assert.Equal(t, 1, first.started)
	assert.Equal(t, 0, second.started)
	assert.Equal(t, id, c.SessionID())
}

func TestStartWhileStartingIsNoop(t *testing.T) {
	host := newFakeHost()
	dec := &fakeDecoder{gate: make(chan struct{})}
	factory, created := factoryOf(dec, &fakeDecoder{})
	c := NewController(factory, host)

	done := make(chan error, 1)
	go func() { done <- c.Start(context.Background()) }()
	require.Eventually(t, func() bool { return c.State() == StateStarting }, time.Second, time.Millisecond)

	require.NoError(t, c.Start(context.Background()))
	close(dec.gate)
	require.NoError(t, <-done)

	assert.Equal(t, 1, *created)
	assert.Equal(t, StateScanning, c.State())
}

func TestStartWithoutDecoderCapability(t *testing.T) {
	host := newFakeHost()
	c := NewController(nil, host)

	err := c.Start(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsScannerUnavailable(err))
	assert.Equal(t, domain.MsgDecoderMissing, host.lastMessage())
	assert.Equal(t, StateIdle, c.State())
	assert.False(t, host.overlayVisible())
}

func TestStartWithoutCamera(t *testing.T) {
	host := newFakeHost()
	host.media = false
	factory, created := factoryOf(&fakeDecoder{})
	c := NewController(factory, host)

	err := c.Start(context.Background())
	assert.True(t, domain.IsScannerUnavailable(err))
	assert.Equal(t, domain.MsgCameraUnsupported, host.lastMessage())
	assert.Equal(t, 0, *created)
	assert.Equal(t, StateIdle, c.State())
	assert.False(t, c.Active())
}

func TestStartPermissionDeniedResetsSession(t *testing.T) {
	host := newFakeHost()
	denied := &fakeDecoder{startErr: &OpenError{Name: "NotAllowedError"}}
	ok := &fakeDecoder{}
	factory, _ := factoryOf(denied, ok)
	c := NewController(factory, host)

	err := c.Start(context.Background())
	require.Error(t, err)
	kind, isCam := domain.CameraKind(err)
	require.True(t, isCam)
	assert.Equal(t, domain.CameraPermission, kind)
	assert.Equal(t, domain.MsgCameraPermission, host.lastMessage())
	assert.Equal(t, StateIdle, c.State())
	assert.False(t, c.Active())
	assert.False(t, host.overlayVisible())

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, StateScanning, c.State())
	assert.Equal(t, 1, ok.started)
}

func TestClassify(t *testing.T) {
	cases := map[string]domain.CameraErrorKind{
		"NotAllowedError":       domain.CameraPermission,
		"PermissionDeniedError": domain.CameraPermission,
		"NotFoundError":         domain.CameraNotFound,
		"DevicesNotFoundError":  domain.CameraNotFound,
		"NotReadableError":      domain.CameraBusy,
		"TrackStartError":       domain.CameraBusy,
		"AbortError":            domain.CameraGeneric,
	}
	for name, want := range cases {
		assert.Equal(t, want, Classify(&OpenError{Name: name}), name)
	}
	assert.Equal(t, domain.CameraGeneric, Classify(errors.New("boom")))
}

func TestFailureMessagesAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, kind := range []domain.CameraErrorKind{domain.CameraPermission, domain.CameraNotFound, domain.CameraBusy, domain.CameraGeneric} {
		msg := domain.MessageFor(domain.CameraError{Kind: kind})
		assert.Equal(t, 5*time.Second, msg.Timeout)
		assert.False(t, seen[msg.Text], kind)
		seen[msg.Text] = true
	}
}

func TestDecodedWritesInputAndStops(t *testing.T) {
	host := newFakeHost()
	dec := &fakeDecoder{}
	factory, _ := factoryOf(dec)
	c := NewController(factory, host)
	require.NoError(t, c.Start(context.Background()))

	dec.onDecoded("  CA981 \n")

	assert.Equal(t, "CA981", host.input)
	assert.Equal(t, domain.ScanSuccessMessage("CA981"), host.lastMessage())
	assert.Equal(t, StateIdle, c.State())
	assert.False(t, c.Active())
	assert.False(t, host.overlayVisible())
	assert.Equal(t, 1, dec.stopped)
	assert.Equal(t, 1, dec.cleared)
}

func TestStaleDecodeIgnored(t *testing.T) {
	host := newFakeHost()
	dec := &fakeDecoder{}
	factory, _ := factoryOf(dec)
	c := NewController(factory, host)
	require.NoError(t, c.Start(context.Background()))
	c.Stop(context.Background())

	dec.onDecoded("CA981")
	assert.Empty(t, host.input)
	assert.Equal(t, 1, dec.stopped)
}

func TestStopErrorIsSwallowed(t *testing.T) {
	host := newFakeHost()
	dec := &fakeDecoder{stopErr: errors.New("camera stuck")}
	factory, _ := factoryOf(dec, &fakeDecoder{})
	c := NewController(factory, host)
	require.NoError(t, c.Start(context.Background()))

	c.Stop(context.Background())
	assert.Equal(t, StateIdle, c.State())
	assert.False(t, c.Active())
	assert.False(t, host.overlayVisible())
	assert.Equal(t, 0, dec.cleared)

	require.NoError(t, c.Start(context.Background()))
	assert.True(t, c.Active())
}

func TestStopWhenIdleHidesOverlay(t *testing.T) {
	host := newFakeHost()
	host.overlay = true
	c := NewController(nil, host)

	assert.NotPanics(t, func() { c.Stop(context.Background()) })
	assert.False(t, host.overlayVisible())
	assert.Equal(t, StateIdle, c.State())
}

func TestStopWhileStartingClosesOnceOpen(t *testing.T) {
	host := newFakeHost()
	dec := &fakeDecoder{gate: make(chan struct{})}
	factory, _ := factoryOf(dec)
	c := NewController(factory, host)

	done := make(chan error, 1)
	go func() { done <- c.Start(context.Background()) }()
	require.Eventually(t, func() bool { return c.State() == StateStarting }, time.Second, time.Millisecond)

	c.Stop(context.Background())
	close(dec.gate)
	require.NoError(t, <-done)

	assert.False(t, host.overlayVisible())
	assert.Equal(t, StateIdle, c.State())
	assert.False(t, c.Active())
	assert.Equal(t, 1, dec.stopped)
}

func TestStopWhileStartingThenOpenFailsStaysQuiet(t *testing.T) {
	host := newFakeHost()
	dec := &fakeDecoder{gate: make(chan struct{}), startErr: &OpenError{Name: "NotReadableError"}}
	factory, _ := factoryOf(dec, &fakeDecoder{})
	c := NewController(factory, host)

	done := make(chan error, 1)
	go func() { done <- c.Start(context.Background()) }()
	require.Eventually(t, func() bool { return c.State() == StateStarting }, time.Second, time.Millisecond)

	c.Stop(context.Background())
	close(dec.gate)
	require.NoError(t, <-done)

	assert.Equal(t, domain.Message{}, host.lastMessage())
	assert.Equal(t, StateIdle, c.State())
	assert.False(t, host.overlayVisible())

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, StateScanning, c.State())
}

func TestAvailableHasNoSideEffects(t *testing.T) {
	host := newFakeHost()
	host.media = false
	factory, created := factoryOf(&fakeDecoder{})
	c := NewController(factory, host)

	err := c.Available()
	assert.True(t, domain.IsScannerUnavailable(err))
	assert.Equal(t, 0, *created)
	assert.Equal(t, domain.Message{}, host.lastMessage())

	assert.True(t, domain.IsScannerUnavailable(NewController(nil, newFakeHost()).Available()))
	assert.NoError(t, NewController(factory, newFakeHost()).Available())
}
