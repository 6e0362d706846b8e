// Package sim is a minimal stand-in for the host application: an avatar,
// a selection and a render camera that record what the control loop asks
// of them, so the mapper can be run and observed without a viewer.
package sim

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/soar/inputmapper/internal/control"
	pkglog "github.com/soar/inputmapper/internal/log"
)

const (
	walkSpeed  = 3.2
	runSpeed   = 5.1
	flySpeed   = 16
	defaultFOV = math.Pi / 3
	minFOV     = 0.1
	maxFOV     = 2.97

	followDistance = 4
	followHeight   = 1.5
)

// State is a point-in-time copy of the simulated world.
type State struct {
	Avatar    AvatarState    `json:"avatar"`
	Selection SelectionState `json:"selection"`
	Camera    CameraState    `json:"camera"`
}

type AvatarState struct {
	Position [3]float64 `json:"position"`
	Heading  float64    `json:"heading"`
	Pitch    float64    `json:"pitch"`
	Running  bool       `json:"running"`
	Flying   bool       `json:"flying"`
}

type SelectionState struct {
	Active   bool       `json:"active"`
	Position [3]float64 `json:"position"`
	Rotation [3]float64 `json:"rotation"`
	Commits  int        `json:"commits"`
}

type CameraState struct {
	Origin      [3]float64 `json:"origin"`
	Orientation [4]float64 `json:"orientation"`
	FieldOfView float64    `json:"fov"`
	Following   bool       `json:"following"`
}

// Host owns all simulated objects behind one lock; the control loop
// mutates them while the web server reads State.
type Host struct {
	mu     sync.Mutex
	logger *slog.Logger

	pos            mgl64.Vec3
	heading, pitch float64
	running        bool
	flying         bool
	fwd, left, up  float64

	selActive bool
	selPos    mgl64.Vec3
	selRot    mgl64.Vec3
	commits   int

	camOrigin mgl64.Vec3
	camOrient mgl64.Quat
	fov       float64
	following bool
}

func NewHost(logger *slog.Logger) *Host {
	h := &Host{
		logger:    logger.With("component", "sim"),
		camOrient: mgl64.QuatIdent(),
		fov:       defaultFOV,
		following: true,
	}
	h.follow()
	return h
}

// Collaborators returns the host objects in the shape the dispatcher takes.
func (h *Host) Collaborators() control.Collaborators {
	return control.Collaborators{
		Avatar: (*avatar)(h),
		Object: (*selection)(h),
		Camera: (*camera)(h),
	}
}

// Select activates or drops the simulated build selection.
func (h *Host) Select(active bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.selActive == active {
		return
	}
	h.selActive = active
	h.logger.Info("Selection changed", "active", active)
}

// Step integrates the movement intents received since the last step.
func (h *Host) Step(dt float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	speed := walkSpeed
	switch {
	case h.flying:
		speed = flySpeed
	case h.running:
		speed = runSpeed
	}
	forward := mgl64.Vec3{math.Cos(h.heading), math.Sin(h.heading), 0}
	left := mgl64.Vec3{-math.Sin(h.heading), math.Cos(h.heading), 0}
	move := forward.Mul(h.fwd).Add(left.Mul(h.left))
	if h.flying {
		move = move.Add(mgl64.Vec3{0, 0, h.up})
	}
	h.pos = h.pos.Add(move.Mul(speed * dt))
	if !h.flying && h.pos.Z() < 0 {
		h.pos[2] = 0
	}
	h.fwd, h.left, h.up = 0, 0, 0

	if h.following {
		h.follow()
	}
}

// follow places the camera behind the avatar. Caller holds mu.
func (h *Host) follow() {
	back := mgl64.Vec3{math.Cos(h.heading), math.Sin(h.heading), 0}.Mul(-followDistance)
	h.camOrigin = h.pos.Add(back).Add(mgl64.Vec3{0, 0, followHeight})
	h.camOrient = mgl64.QuatRotate(h.heading, mgl64.Vec3{0, 0, 1}).
		Mul(mgl64.QuatRotate(-h.pitch, mgl64.Vec3{0, 1, 0}))
}

func (h *Host) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return State{
		Avatar: AvatarState{
			Position: h.pos,
			Heading:  h.heading,
			Pitch:    h.pitch,
			Running:  h.running,
			Flying:   h.flying,
		},
		Selection: SelectionState{
			Active:   h.selActive,
			Position: h.selPos,
			Rotation: h.selRot,
			Commits:  h.commits,
		},
		Camera: CameraState{
			Origin:      h.camOrigin,
			Orientation: [4]float64{h.camOrient.W, h.camOrient.X(), h.camOrient.Y(), h.camOrient.Z()},
			FieldOfView: h.fov,
			Following:   h.following,
		},
	}
}

func (h *Host) trace(msg string, args ...any) {
	h.logger.Log(context.Background(), pkglog.LevelTrace, msg, args...)
}
