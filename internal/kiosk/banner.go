package kiosk

import (
	"sync"
	"time"

	"flightdesk/internal/domain"
)

// banner is the transient message line. Each Show bumps a generation so an
// older auto-dismiss timer cannot hide a newer message.
type banner struct {
	mu      sync.Mutex
	text    string
	visible bool
	gen     uint64
	timer   *time.Timer
}

func (b *banner) show(msg domain.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.gen++
	b.text = msg.Text
	b.visible = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	if msg.Timeout > 0 {
		gen := b.gen
		b.timer = time.AfterFunc(msg.Timeout, func() { b.hide(gen) })
	}
}

func (b *banner) hide(gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gen == gen {
		b.visible = false
	}
}

func (b *banner) snapshot() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text, b.visible
}
