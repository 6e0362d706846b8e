package control

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/soar/inputmapper/internal/channel"
)

var (
	localAt = mgl64.Vec3{1, 0, 0}
	worldUp = mgl64.Vec3{0, 0, 1}
)

// Pose is the free camera state integrated while the flycam is active.
type Pose struct {
	Origin      mgl64.Vec3
	Orientation mgl64.Quat
	FieldOfView float64

	entryFOV float64
}

func snapshotPose(cam Camera) Pose {
	fov := cam.FieldOfView()
	return Pose{
		Origin:      cam.Origin(),
		Orientation: cam.Orientation().Normalize(),
		FieldOfView: fov,
		entryFOV:    fov,
	}
}

// smallRotation composes per-frame roll, pitch and yaw angles about the
// camera's at, left and up axes.
func smallRotation(roll, pitch, yaw float64) mgl64.Quat {
	m := mgl64.Rotate3DX(roll).Mul3(mgl64.Rotate3DY(pitch)).Mul3(mgl64.Rotate3DZ(yaw))
	return mgl64.Mat4ToQuat(m.Mat4()).Normalize()
}

// levelOrientation returns q with its roll removed: the same look direction
// with left kept horizontal. ok is false when q looks straight up or down.
func levelOrientation(q mgl64.Quat) (mgl64.Quat, bool) {
	at := q.Rotate(localAt)
	left := worldUp.Cross(at)
	if left.Len() < 1e-6 {
		return q, false
	}
	left = left.Normalize()
	up := at.Cross(left)
	m := mgl64.Mat3FromCols(at, left, up)
	return mgl64.Mat4ToQuat(m.Mat4()).Normalize(), true
}

// autoLevel moves q toward its level orientation by amount in [0,1].
func autoLevel(q mgl64.Quat, amount float64) mgl64.Quat {
	level, ok := levelOrientation(q)
	if !ok {
		return q
	}
	if q.Dot(level) < 0 {
		level = level.Scale(-1)
	}
	return mgl64.QuatSlerp(q, level, amount).Normalize()
}

func (d *Dispatcher) moveFlycam(f *frame) {
	p := &d.pose
	ax := f.axes

	local := mgl64.Vec3{ax[channel.TranslateZ], ax[channel.TranslateX], ax[channel.TranslateY]}.Mul(f.dt)
	p.Origin = p.Origin.Add(p.Orientation.Rotate(local))

	roll := ax[channel.RotateZ]
	if f.buttons[channel.RollLeft] {
		roll -= d.params.RollRate
	}
	if f.buttons[channel.RollRight] {
		roll += d.params.RollRate
	}
	delta := smallRotation(roll*f.dt, ax[channel.RotateX]*f.dt, ax[channel.RotateY]*f.dt)
	p.Orientation = p.Orientation.Mul(delta).Normalize()

	switch {
	case f.buttons[channel.RollReset]:
		if level, ok := levelOrientation(p.Orientation); ok {
			p.Orientation = level
		}
	case d.params.AutoLevel:
		amount := mgl64.Clamp(d.params.FeatheringFor(channel.Flycam)*f.dt, 0, 1)
		p.Orientation = autoLevel(p.Orientation, amount)
	}

	p.FieldOfView = d.zoom(f, p.FieldOfView)

	cam := d.peers.Camera
	cam.SetOrigin(p.Origin)
	cam.SetOrientation(p.Orientation)
	cam.SetFieldOfView(p.FieldOfView)
}

// zoom returns the next field of view. Positive zoom input narrows it.
func (d *Dispatcher) zoom(f *frame, fov float64) float64 {
	lo, hi := d.peers.Camera.FieldOfViewRange()
	rate := d.params.ZoomRate
	z := f.axes[channel.Zoom]

	if d.params.DirectZoom && d.params.Axes[channel.Zoom].Mapped() {
		fov = hi - (clampUnit(z)+1)/2*(hi-lo)
	} else {
		fov -= z * rate * f.dt
	}
	if f.buttons[channel.ZoomIn] {
		fov -= rate * f.dt
	}
	if f.buttons[channel.ZoomOut] {
		fov += rate * f.dt
	}
	if f.buttons[channel.ZoomReset] {
		fov = d.pose.entryFOV
	}
	return mgl64.Clamp(fov, lo, hi)
}
