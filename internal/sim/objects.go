package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type avatar Host

func (a *avatar) host() *Host { return (*Host)(a) }

func (a *avatar) MoveForward(amount float64) {
	h := a.host()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fwd = amount
	h.trace("Avatar forward", "amount", amount)
}

func (a *avatar) MoveLeft(amount float64) {
	h := a.host()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.left = amount
	h.trace("Avatar left", "amount", amount)
}

func (a *avatar) MoveUp(amount float64) {
	h := a.host()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.up = amount
	h.trace("Avatar up", "amount", amount)
}

func (a *avatar) Turn(yaw float64) {
	h := a.host()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.heading = math.Remainder(h.heading+yaw, 2*math.Pi)
	h.trace("Avatar turn", "yaw", yaw, "heading", h.heading)
}

func (a *avatar) Pitch(pitch float64) {
	h := a.host()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pitch = mgl64.Clamp(h.pitch+pitch, -math.Pi/2, math.Pi/2)
	h.trace("Avatar pitch", "pitch", h.pitch)
}

func (a *avatar) SetRunning(running bool) {
	h := a.host()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.running = running
	h.logger.Debug("Avatar run state", "running", running)
}

func (a *avatar) SetFlying(flying bool) {
	h := a.host()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.flying = flying
	h.logger.Debug("Avatar fly state", "flying", flying)
}

func (a *avatar) ResyncCamera() {
	h := a.host()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.following = true
	h.follow()
	h.logger.Debug("Camera re-attached to avatar")
}

type selection Host

func (s *selection) host() *Host { return (*Host)(s) }

func (s *selection) Active() bool {
	h := s.host()
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.selActive
}

func (s *selection) ApplyDelta(translation, rotation mgl64.Vec3) {
	h := s.host()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.selPos = h.selPos.Add(translation)
	h.selRot = h.selRot.Add(rotation)
	h.trace("Selection delta", "translation", translation, "rotation", rotation)
}

func (s *selection) Commit() {
	h := s.host()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commits++
	h.logger.Info("Selection committed", "position", h.selPos, "rotation", h.selRot, "commits", h.commits)
}

type camera Host

func (c *camera) host() *Host { return (*Host)(c) }

func (c *camera) Origin() mgl64.Vec3 {
	h := c.host()
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.camOrigin
}

// SetOrigin detaches the camera from the avatar until ResyncCamera.
func (c *camera) SetOrigin(origin mgl64.Vec3) {
	h := c.host()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.camOrigin = origin
	h.following = false
	h.trace("Camera origin", "origin", origin)
}

func (c *camera) Orientation() mgl64.Quat {
	h := c.host()
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.camOrient
}

func (c *camera) SetOrientation(q mgl64.Quat) {
	h := c.host()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.camOrient = q
	h.following = false
}

func (c *camera) FieldOfView() float64 {
	h := c.host()
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fov
}

func (c *camera) SetFieldOfView(fov float64) {
	h := c.host()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fov = mgl64.Clamp(fov, minFOV, maxFOV)
}

func (c *camera) FieldOfViewRange() (lo, hi float64) { return minFOV, maxFOV }
