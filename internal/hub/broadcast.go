package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/soar/inputmapper/internal/control"
)

const (
	fullSyncInterval = 5 * time.Second
	deltaCountSync   = 100
)

// Broadcaster turns control reports into full and delta messages for the
// hub.
type Broadcaster struct {
	hub     *Hub
	reports <-chan control.Report
	logger  *slog.Logger

	mu         sync.Mutex
	last       FrameState
	seq        int64
	deltaCount int
}

func NewBroadcaster(h *Hub, reports <-chan control.Report, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:     h,
		reports: reports,
		logger:  logger.With("component", "broadcaster"),
	}
}

// Run consumes reports until ctx ends or the report channel closes.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(fullSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case r, ok := <-b.reports:
			if !ok {
				return
			}
			if msg := b.next(FromReport(r)); msg != nil {
				b.send(msg)
			}

		case <-ticker.C:
			b.mu.Lock()
			var msg *WSMessage
			if b.last.Live {
				b.seq++
				state := b.last
				msg = NewFullMessage(b.seq, &state)
			}
			b.mu.Unlock()
			if msg != nil {
				b.send(msg)
			}
		}
	}
}

// next records state and returns the message to broadcast, or nil when
// nothing changed.
func (b *Broadcaster) next(state FrameState) *WSMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	delta := ComputeDelta(b.last, state)
	prevLive := b.last.Live
	b.last = state
	if delta.IsEmpty() {
		return nil
	}
	b.seq++

	if state.Live != prevLive {
		event := "disconnected"
		if state.Live {
			event = "connected"
		}
		b.deltaCount = 0
		return NewEventMessage(b.seq, event, &state)
	}

	b.deltaCount++
	if b.deltaCount >= deltaCountSync {
		b.deltaCount = 0
		return NewFullMessage(b.seq, &state)
	}
	return NewDeltaMessage(b.seq, delta)
}

// SendInitialState sends the current full state to a newly connected client.
func (b *Broadcaster) SendInitialState(c *Client) {
	b.mu.Lock()
	b.seq++
	state := b.last
	msg := NewFullMessage(b.seq, &state)
	b.mu.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error("Marshal initial state", "error", err)
		return
	}
	b.hub.SendTo(c, data)
}

func (b *Broadcaster) send(msg *WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error("Marshal message", "type", msg.Type, "error", err)
		return
	}
	b.hub.Broadcast(data)
}
