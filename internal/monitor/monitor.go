// Package monitor is a terminal client for a running mapper's telemetry
// stream. It prints one line per message received from /ws.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/lxzan/gws"
	"github.com/pkg/errors"

	"github.com/soar/inputmapper/internal/channel"
	"github.com/soar/inputmapper/internal/hub"
)

type handler struct {
	gws.BuiltinEventHandler
	out    io.Writer
	logger *slog.Logger
	state  hub.FrameState
	send   []hub.CommandKind
}

// Run connects to url (ws://host/ws) and prints frames to out until ctx
// ends or the server closes the connection. Commands in send are issued
// once the connection is open.
func Run(ctx context.Context, url string, out io.Writer, logger *slog.Logger, send ...hub.CommandKind) error {
	h := &handler{out: out, logger: logger.With("component", "monitor"), send: send}
	conn, _, err := gws.NewClient(h, &gws.ClientOption{Addr: url})
	if err != nil {
		return errors.Wrapf(err, "dial %s", url)
	}

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteClose(1000, nil)
	})
	defer stop()

	conn.ReadLoop()
	return nil
}

func (h *handler) OnOpen(socket *gws.Conn) {
	h.logger.Info("Connected to telemetry stream")
	for _, kind := range h.send {
		data, err := json.Marshal(hub.ClientMessage{Type: kind})
		if err != nil {
			continue
		}
		if err := socket.WriteMessage(gws.OpcodeText, data); err != nil {
			h.logger.Warn("Send command", "type", kind, "error", err)
		}
	}
}

func (h *handler) OnClose(_ *gws.Conn, err error) {
	h.logger.Info("Telemetry stream closed", "reason", err)
}

func (h *handler) OnMessage(_ *gws.Conn, message *gws.Message) {
	defer message.Close()

	var msg hub.WSMessage
	if err := json.Unmarshal(message.Bytes(), &msg); err != nil {
		h.logger.Warn("Bad telemetry message", "error", err)
		return
	}
	if line, ok := h.apply(&msg); ok {
		fmt.Fprintln(h.out, line)
	}
}

// apply folds msg into the tracked state and returns the line to print.
func (h *handler) apply(msg *hub.WSMessage) (string, bool) {
	switch msg.Type {
	case "full", "event":
		if msg.Data == nil {
			return "", false
		}
		h.state = *msg.Data
	case "delta":
		h.state.Apply(msg.Changes)
	case "ack":
		return fmt.Sprintf("ack %s", msg.Event), true
	default:
		return "", false
	}
	line := Format(msg.Seq, h.state)
	if msg.Type == "event" {
		line = msg.Event + " " + line
	}
	return line, true
}

// Format renders a frame state as a single line.
func Format(seq int64, s hub.FrameState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d ", seq)
	if !s.Live {
		b.WriteString("idle")
		return b.String()
	}
	b.WriteString(s.Context)
	for _, a := range channel.Axes() {
		fmt.Fprintf(&b, " %s=%+.3f", a, s.Axes[a.String()])
	}

	var held []string
	for name, down := range s.Buttons {
		if down {
			held = append(held, name)
		}
	}
	sort.Strings(held)
	if len(held) > 0 {
		b.WriteString(" [")
		b.WriteString(strings.Join(held, " "))
		b.WriteString("]")
	}

	t := s.Toggles
	for _, f := range []struct {
		on   bool
		name string
	}{{t.Running, "run"}, {t.Flying, "fly"}, {t.Mouselook, "mouselook"}} {
		if f.on {
			b.WriteString(" +")
			b.WriteString(f.name)
		}
	}
	if p := s.Flycam; p != nil {
		fmt.Fprintf(&b, " cam=(%.2f,%.2f,%.2f) fov=%.2f", p.Origin[0], p.Origin[1], p.Origin[2], p.FieldOfView)
	}
	return b.String()
}
