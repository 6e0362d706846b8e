package control

import (
	"github.com/soar/inputmapper/internal/channel"
	"github.com/soar/inputmapper/internal/filter"
)

// Report is the per-frame telemetry record. Live is false for the single
// report published when the device goes away.
type Report struct {
	Live      bool
	Context   channel.Context
	Axes      filter.Frame
	Buttons   [channel.NumButtons]bool
	Running   bool
	Flying    bool
	Mouselook bool
	Flycam    *Pose
}

func (d *Dispatcher) report(ctx channel.Context, f *frame) Report {
	r := Report{
		Live:      true,
		Context:   ctx,
		Axes:      f.axes,
		Buttons:   f.buttons,
		Running:   d.Running(),
		Flying:    d.flying,
		Mouselook: d.mouselook,
	}
	if d.flycamOn {
		pose := d.pose
		r.Flycam = &pose
	}
	return r
}
