package control

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/soar/inputmapper/internal/device"
)

// Source delivers one device snapshot per tick. *device.Session is the
// production source.
type Source interface {
	Poll() device.Snapshot
}

// AvatarMover receives per-frame locomotion intents. Amounts are in [-1,1];
// Turn and Pitch take the angle to rotate this frame, in radians.
type AvatarMover interface {
	MoveForward(amount float64)
	MoveLeft(amount float64)
	MoveUp(amount float64)
	Turn(yaw float64)
	Pitch(pitch float64)
	SetRunning(running bool)
	SetFlying(flying bool)
	// ResyncCamera asks the host to re-attach its follow camera after the
	// flycam released it.
	ResyncCamera()
}

// ObjectTransformer moves the current selection.
type ObjectTransformer interface {
	// Active reports whether a build/edit tool with a selection is active.
	Active() bool
	ApplyDelta(translation, rotation mgl64.Vec3)
	// Commit flushes the selection's final transform once motion stops.
	Commit()
}

// Camera is the host's render camera. The local frame is X at, Y left,
// Z up; world up is +Z.
type Camera interface {
	Origin() mgl64.Vec3
	SetOrigin(mgl64.Vec3)
	Orientation() mgl64.Quat
	SetOrientation(mgl64.Quat)
	FieldOfView() float64
	SetFieldOfView(float64)
	FieldOfViewRange() (min, max float64)
}

// Collaborators are the host objects the dispatcher drives. A nil member
// disables the matching context.
type Collaborators struct {
	Avatar AvatarMover
	Object ObjectTransformer
	Camera Camera
}
