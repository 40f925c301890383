package scanner

import (
	"context"
	"testing"
	"time"

	"flightdesk/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startAsync(c *Controller) chan error {
	done := make(chan error, 1)
	go func() { done <- c.Start(context.Background()) }()
	return done
}

func TestPushBridgeFullScan(t *testing.T) {
	host := newFakeHost()
	bridge := NewPushBridge()
	c := NewController(bridge.NewDecoder, host)

	done := startAsync(c)
	require.Eventually(t, func() bool {
		_, _, ok := bridge.Config()
		return ok
	}, time.Second, time.Millisecond)

	facing, cfg, _ := bridge.Config()
	assert.Equal(t, FacingEnvironment, facing)
	assert.Equal(t, DefaultFPS, cfg.FPS)

	require.NoError(t, bridge.Opened())
	require.NoError(t, <-done)
	assert.Equal(t, StateScanning, c.State())

	require.NoError(t, bridge.Decoded(" 981 "))
	assert.Equal(t, "981", host.input)
	assert.Equal(t, StateIdle, c.State())

	assert.ErrorIs(t, bridge.Decoded("981"), ErrNotRunning)
}

func TestPushBridgeOpenFailed(t *testing.T) {
	host := newFakeHost()
	bridge := NewPushBridge()
	c := NewController(bridge.NewDecoder, host)

	done := startAsync(c)
	require.Eventually(t, func() bool { return bridge.OpenFailed("NotReadableError", "device in use") == nil }, time.Second, time.Millisecond)

	err := <-done
	kind, ok := domain.CameraKind(err)
	require.True(t, ok)
	assert.Equal(t, domain.CameraBusy, kind)
	assert.Equal(t, domain.MsgCameraBusy, host.lastMessage())
	assert.Equal(t, StateIdle, c.State())
}

func TestPushBridgeOpenTimeout(t *testing.T) {
	host := newFakeHost()
	bridge := NewPushBridge()
	c := NewController(bridge.NewDecoder, host)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Start(ctx)
	kind, ok := domain.CameraKind(err)
	require.True(t, ok)
	assert.Equal(t, domain.CameraGeneric, kind)
	assert.Equal(t, StateIdle, c.State())
	assert.ErrorIs(t, bridge.Opened(), ErrNoPendingOpen)
}

func TestPushBridgeWithoutSession(t *testing.T) {
	bridge := NewPushBridge()
	assert.ErrorIs(t, bridge.Opened(), ErrNoPendingOpen)
	assert.ErrorIs(t, bridge.Decoded("x"), ErrNotRunning)
	_, _, ok := bridge.Config()
	assert.False(t, ok)
}

func TestPushBridgeStopWhileOpeningReleasesSession(t *testing.T) {
	host := newFakeHost()
	bridge := NewPushBridge()
	c := NewController(bridge.NewDecoder, host)

	done := startAsync(c)
	require.Eventually(t, func() bool {
		_, _, ok := bridge.Config()
		return ok
	}, time.Second, time.Millisecond)
	require.Equal(t, StateStarting, c.State())

	c.Stop(context.Background())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Start still waiting for the page after Stop")
	}
	assert.Equal(t, StateIdle, c.State())
	assert.False(t, host.overlayVisible())
	assert.Equal(t, domain.Message{}, host.lastMessage())
	assert.ErrorIs(t, bridge.Opened(), ErrNoPendingOpen)

	done = startAsync(c)
	require.Eventually(t, func() bool { return bridge.Opened() == nil }, time.Second, time.Millisecond)
	require.NoError(t, <-done)
	assert.Equal(t, StateScanning, c.State())
	assert.True(t, host.overlayVisible())
}

func TestPushDecoderCancelBeforeStart(t *testing.T) {
	d := NewPushBridge().NewDecoder().(*PushDecoder)
	d.CancelOpen()

	err := d.Start(context.Background(), FacingEnvironment, Config{FPS: DefaultFPS}, func(string) {})
	assert.ErrorIs(t, err, ErrOpenCancelled)
	assert.Equal(t, domain.CameraGeneric, Classify(err))
}
