package hub

import (
	"time"
)

// WSMessage represents a WebSocket message sent from server to client.
type WSMessage struct {
	Type      string      `json:"type"`              // "full", "delta", "event" or "ack"
	Seq       int64       `json:"seq"`               // Sequence number for ordering
	Timestamp int64       `json:"timestamp"`         // Unix timestamp in milliseconds
	Event     string      `json:"event,omitempty"`   // Event name for type "event", command for "ack"
	Data      *FrameState `json:"data,omitempty"`    // Full frame state for "full" or "event"
	Changes   *FrameDelta `json:"changes,omitempty"` // Changed fields for "delta"
}

func NewFullMessage(seq int64, state *FrameState) *WSMessage {
	return &WSMessage{
		Type:      "full",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Data:      state,
	}
}

func NewDeltaMessage(seq int64, changes *FrameDelta) *WSMessage {
	return &WSMessage{
		Type:      "delta",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Changes:   changes,
	}
}

// NewEventMessage reports a device connect or disconnect.
func NewEventMessage(seq int64, event string, state *FrameState) *WSMessage {
	return &WSMessage{
		Type:      "event",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Event:     event,
		Data:      state,
	}
}

// NewAckMessage confirms a client command was queued.
func NewAckMessage(command string) *WSMessage {
	return &WSMessage{
		Type:      "ack",
		Timestamp: time.Now().UnixMilli(),
		Event:     command,
	}
}

// CommandKind names a runtime request from a client or the tray.
type CommandKind string

const (
	CommandRescan CommandKind = "rescan"
	CommandReload CommandKind = "reload"
	CommandSave   CommandKind = "save"
	CommandFlycam CommandKind = "flycam"
	CommandSelect CommandKind = "select"
)

func (k CommandKind) Valid() bool {
	switch k {
	case CommandRescan, CommandReload, CommandSave, CommandFlycam, CommandSelect:
		return true
	}
	return false
}

// ClientMessage represents a message sent from the client to the server.
type ClientMessage struct {
	Type   CommandKind `json:"type"`
	Active bool        `json:"active,omitempty"` // for "select"
}

// Command is a validated client message handed to the control loop.
type Command struct {
	Kind   CommandKind
	Active bool
}
