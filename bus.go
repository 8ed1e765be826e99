package baklog

import (
	"sync"
	"time"
)

// Bus buffer sizes. The backlog is what a late subscriber replays; the
// channel buffer absorbs bursts so Emit never blocks a producer.
const (
	maxBacklog = 300
	busBuffer  = 256
)

// Bus is an in-memory record broker implementing Source. Producers Emit
// records; each subscriber receives a snapshot of recent records once,
// then every later record. A subscriber that falls more than busBuffer
// records behind loses the overflow rather than blocking producers.
type Bus struct {
	mu      sync.Mutex
	backlog []Msg
	subs    []chan Msg
	closed  bool
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Emit records one message and fans it out to subscribers.
func (b *Bus) Emit(level Severity, text string) {
	msg := Msg{Level: level, Stamp: time.Now().Unix(), Text: text}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.backlog = append(b.backlog, msg)
	if len(b.backlog) > maxBacklog {
		b.backlog = b.backlog[len(b.backlog)-maxBacklog:]
	}

	for _, sub := range b.subs {
		select {
		case sub <- msg:
		default:
		}
	}
}

// Subscribe returns a copy of the buffered backlog and a channel carrying
// every record emitted after this call. The channel is closed by Close.
func (b *Bus) Subscribe() ([]Msg, <-chan Msg) {
	b.mu.Lock()
	defer b.mu.Unlock()

	live := make(chan Msg, busBuffer)
	b.subs = append(b.subs, live)

	backlog := make([]Msg, len(b.backlog))
	copy(backlog, b.backlog)

	return backlog, live
}

// Close closes every subscriber channel. Emit becomes a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true

	for _, sub := range b.subs {
		close(sub)
	}

	b.subs = nil
}

// Our broker must satisfy the Source interface.
var _ Source = (*Bus)(nil)
