package control

import (
	"math"

	"github.com/soar/inputmapper/internal/channel"
)

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

func moving(v float64) bool { return math.Abs(v) > motionEpsilon }

// moveAvatar drives locomotion. Yaw always turns the avatar; pitch is only
// forwarded in mouselook, where the view follows the avatar's head.
func (d *Dispatcher) moveAvatar(f *frame) {
	av := d.peers.Avatar
	if d.resync {
		av.ResyncCamera()
		d.resync = false
	}

	if running := d.Running(); running != d.sentRunning {
		av.SetRunning(running)
		d.sentRunning = running
	}
	if d.flying != d.sentFlying {
		av.SetFlying(d.flying)
		d.sentFlying = d.flying
	}

	if v := clampUnit(f.axes[channel.TranslateZ]); moving(v) {
		av.MoveForward(v)
	}
	if v := clampUnit(f.axes[channel.TranslateX]); moving(v) {
		av.MoveLeft(v)
	}

	up := f.axes[channel.TranslateY]
	switch {
	case f.buttons[channel.Jump]:
		up = 1
	case f.buttons[channel.Crouch]:
		up = -1
	}
	if v := clampUnit(up); moving(v) {
		av.MoveUp(v)
	}

	if yaw := f.axes[channel.RotateY] * f.dt; moving(yaw) {
		av.Turn(yaw)
	}
	if d.mouselook {
		if pitch := f.axes[channel.RotateX] * f.dt; moving(pitch) {
			av.Pitch(pitch)
		}
	}
}
