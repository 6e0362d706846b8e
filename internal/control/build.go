package control

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/soar/inputmapper/internal/channel"
	"github.com/soar/inputmapper/internal/filter"
)

// moveObject applies smoothed translation and rotation deltas to the
// selection while the input moves, and commits once on the first frame the
// input is at rest. Rest is judged on the unsmoothed input so the smoothing
// tail never delays the commit.
func (d *Dispatcher) moveObject(f *frame) {
	input := f.raw
	input[channel.Zoom] = 0
	if _, mag, ok := filter.Dominant(input, d.params.Axes); !ok || mag <= motionEpsilon {
		d.flushBuild()
		return
	}

	motion := f.axes

	t := mgl64.Vec3{
		motion[channel.TranslateX],
		motion[channel.TranslateY],
		motion[channel.TranslateZ],
	}.Mul(f.dt)
	r := mgl64.Vec3{
		motion[channel.RotateX],
		motion[channel.RotateY],
		motion[channel.RotateZ],
	}.Mul(f.dt)
	d.peers.Object.ApplyDelta(t, r)
	d.buildDirty = true
}

// flushBuild commits the selection if deltas were applied since the last
// commit.
func (d *Dispatcher) flushBuild() {
	if !d.buildDirty {
		return
	}
	if d.peers.Object != nil {
		d.peers.Object.Commit()
	}
	d.buildDirty = false
}
