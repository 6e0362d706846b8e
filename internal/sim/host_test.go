package sim_test

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/inputmapper/internal/channel"
	"github.com/soar/inputmapper/internal/config"
	"github.com/soar/inputmapper/internal/control"
	"github.com/soar/inputmapper/internal/device"
	"github.com/soar/inputmapper/internal/sim"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestWalkAndFollow(t *testing.T) {
	h := sim.NewHost(quiet())
	peers := h.Collaborators()

	peers.Avatar.MoveForward(1)
	h.Step(1)
	st := h.State()
	assert.InDelta(t, 3.2, st.Avatar.Position[0], 1e-9)
	assert.InDelta(t, 3.2-4, st.Camera.Origin[0], 1e-9)
	assert.True(t, st.Camera.Following)

	h.Step(1)
	assert.InDelta(t, 3.2, h.State().Avatar.Position[0], 1e-9, "intents last one step")

	peers.Avatar.Turn(math.Pi / 2)
	peers.Avatar.SetRunning(true)
	peers.Avatar.MoveForward(1)
	h.Step(1)
	st = h.State()
	assert.InDelta(t, 5.1, st.Avatar.Position[1], 1e-9)
	assert.True(t, st.Avatar.Running)
}

func TestFlyingLeavesGround(t *testing.T) {
	h := sim.NewHost(quiet())
	av := h.Collaborators().Avatar

	av.MoveUp(1)
	h.Step(1)
	assert.Zero(t, h.State().Avatar.Position[2])

	av.SetFlying(true)
	av.MoveUp(1)
	h.Step(1)
	assert.InDelta(t, 16, h.State().Avatar.Position[2], 1e-9)
}

func TestCameraDetachAndResync(t *testing.T) {
	h := sim.NewHost(quiet())
	peers := h.Collaborators()

	peers.Camera.SetOrigin(mgl64.Vec3{100, 0, 0})
	h.Step(0.1)
	st := h.State()
	assert.False(t, st.Camera.Following)
	assert.Equal(t, 100.0, st.Camera.Origin[0])

	peers.Avatar.ResyncCamera()
	st = h.State()
	assert.True(t, st.Camera.Following)
	assert.InDelta(t, -4, st.Camera.Origin[0], 1e-9)

	peers.Camera.SetFieldOfView(10)
	lo, hi := peers.Camera.FieldOfViewRange()
	assert.Equal(t, hi, peers.Camera.FieldOfView())
	assert.Less(t, lo, hi)
}

func TestSelection(t *testing.T) {
	h := sim.NewHost(quiet())
	obj := h.Collaborators().Object
	assert.False(t, obj.Active())

	h.Select(true)
	require.True(t, obj.Active())
	obj.ApplyDelta(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 0.5})
	obj.ApplyDelta(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{})
	obj.Commit()

	st := h.State().Selection
	assert.Equal(t, [3]float64{2, 0, 0}, st.Position)
	assert.Equal(t, [3]float64{0, 0, 0.5}, st.Rotation)
	assert.Equal(t, 1, st.Commits)
}

type source struct{ snap device.Snapshot }

func (s *source) Poll() device.Snapshot { return s.snap }

func TestDrivenByDispatcher(t *testing.T) {
	tbl := config.New()
	tbl.SetBool(config.KeyEnabled, true)
	tbl.SetInt(config.AxisKey(channel.TranslateZ), 1)
	tbl.SetFloat(config.ScaleKey(channel.Avatar, channel.TranslateZ), 1)
	tbl.SetFloat(config.DeadzoneKey(channel.Avatar, channel.TranslateZ), 0)

	h := sim.NewHost(quiet())
	src := &source{snap: device.Snapshot{Valid: true}}
	src.snap.Axes[1] = 1
	d := control.NewDispatcher(src, tbl, h.Collaborators(), quiet())

	for range 30 {
		d.Tick(0.033)
		h.Step(0.033)
	}
	st := h.State()
	assert.Greater(t, st.Avatar.Position[0], 0.0)
	assert.True(t, st.Avatar.Running, "full forward deflection runs")

	d.ToggleFlycam()
	d.Tick(0.033)
	h.Step(0.033)
	assert.Equal(t, channel.Flycam, d.Context())
	assert.False(t, h.State().Camera.Following)

	d.ToggleFlycam()
	d.Tick(0.033)
	h.Step(0.033)
	assert.True(t, h.State().Camera.Following)
}
