package hub

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/inputmapper/internal/channel"
	"github.com/soar/inputmapper/internal/control"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func testClient(h *Hub, buffer int) *Client {
	return &Client{hub: h, send: make(chan []byte, buffer), logger: h.logger}
}

func liveReport() control.Report {
	r := control.Report{Live: true, Context: channel.Avatar}
	r.Axes[channel.TranslateZ] = 0.5
	return r
}

func TestFromReport(t *testing.T) {
	r := liveReport()
	r.Buttons[channel.Jump] = true
	r.Flycam = &control.Pose{Origin: mgl64.Vec3{1, 2, 3}, Orientation: mgl64.QuatIdent(), FieldOfView: 1}

	s := FromReport(r)
	assert.Equal(t, "avatar", s.Context)
	assert.Equal(t, 0.5, s.Axes["translate_z"])
	assert.Len(t, s.Axes, channel.NumAxes)
	assert.True(t, s.Buttons["jump"])
	require.NotNil(t, s.Flycam)
	assert.Equal(t, [3]float64{1, 2, 3}, s.Flycam.Origin)
	assert.Equal(t, [4]float64{1, 0, 0, 0}, s.Flycam.Orientation)
}

func TestComputeDelta(t *testing.T) {
	base := FromReport(liveReport())

	assert.True(t, ComputeDelta(base, base).IsEmpty())

	jitter := liveReport()
	jitter.Axes[channel.TranslateZ] += analogThreshold / 2
	assert.True(t, ComputeDelta(base, FromReport(jitter)).IsEmpty(), "below threshold")

	moved := liveReport()
	moved.Axes[channel.RotateY] = 0.2
	moved.Buttons[channel.Crouch] = true
	moved.Running = true
	d := ComputeDelta(base, FromReport(moved))
	assert.Equal(t, map[string]float64{"rotate_y": 0.2}, d.Axes)
	assert.Equal(t, map[string]bool{"crouch": true}, d.Buttons)
	require.NotNil(t, d.Toggles)
	assert.True(t, d.Toggles.Running)
	assert.Nil(t, d.Context)
	assert.Nil(t, d.Flycam)
}

func TestBroadcasterMessages(t *testing.T) {
	b := NewBroadcaster(NewHub(quiet()), nil, quiet())

	msg := b.next(FromReport(liveReport()))
	require.NotNil(t, msg)
	assert.Equal(t, "event", msg.Type)
	assert.Equal(t, "connected", msg.Event)

	assert.Nil(t, b.next(FromReport(liveReport())), "unchanged")

	var last *WSMessage
	for i := 1; i <= deltaCountSync; i++ {
		r := liveReport()
		r.Axes[channel.RotateY] = float64(i%2) * 0.5
		last = b.next(FromReport(r))
		require.NotNil(t, last)
		if i < deltaCountSync {
			assert.Equal(t, "delta", last.Type)
		}
	}
	require.NotNil(t, last)
	assert.Equal(t, "full", last.Type)

	msg = b.next(FromReport(control.Report{}))
	require.NotNil(t, msg)
	assert.Equal(t, "disconnected", msg.Event)
	assert.Greater(t, msg.Seq, int64(deltaCountSync))
}

func TestHubBroadcast(t *testing.T) {
	h := NewHub(quiet())
	fast, slow := testClient(h, 4), testClient(h, 1)
	require.True(t, h.Register(fast))
	require.True(t, h.Register(slow))

	h.Broadcast([]byte("a"))
	h.Broadcast([]byte("b"))
	assert.Equal(t, 1, h.Count(), "slow client dropped")
	assert.Equal(t, "a", string(<-fast.send))
	assert.Equal(t, "b", string(<-fast.send))

	_, open := <-slow.send
	_, open = <-slow.send
	assert.False(t, open)

	h.Unregister(slow)
	h.SendTo(slow, []byte("ignored"))
}

func TestBroadcasterRun(t *testing.T) {
	h := NewHub(quiet())
	c := testClient(h, 8)
	h.Register(c)

	reports := make(chan control.Report, 2)
	b := NewBroadcaster(h, reports, quiet())
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	go b.Run(ctx)

	reports <- liveReport()
	var msg WSMessage
	require.NoError(t, json.Unmarshal(<-c.send, &msg))
	assert.Equal(t, "event", msg.Type)
	require.NotNil(t, msg.Data)
	assert.True(t, msg.Data.Live)

	b.SendInitialState(c)
	require.NoError(t, json.Unmarshal(<-c.send, &msg))
	assert.Equal(t, "full", msg.Type)
}

func TestHubRunClosesClients(t *testing.T) {
	h := NewHub(quiet())
	c := testClient(h, 1)
	h.Register(c)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	_, open := <-c.send
	assert.False(t, open)
	assert.False(t, h.Register(testClient(h, 1)))
}

func TestCommandKind(t *testing.T) {
	for _, k := range []CommandKind{CommandRescan, CommandReload, CommandSave, CommandFlycam, CommandSelect} {
		assert.True(t, k.Valid(), k)
	}
	assert.False(t, CommandKind("reboot").Valid())
}

func TestApplyDelta(t *testing.T) {
	old := FromReport(liveReport())
	r := liveReport()
	r.Axes[channel.Zoom] = -1
	r.Buttons[channel.ZoomOut] = true
	r.Flying = true
	r.Context = channel.Flycam
	r.Flycam = &control.Pose{Orientation: mgl64.QuatIdent(), FieldOfView: 0.5}
	next := FromReport(r)

	got := FromReport(liveReport())
	got.Apply(ComputeDelta(old, next))
	assert.Equal(t, next, got)

	var empty FrameState
	empty.Apply(ComputeDelta(FrameState{}, next))
	assert.Equal(t, next, empty)
	empty.Apply(nil)
}
