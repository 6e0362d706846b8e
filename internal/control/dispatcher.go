// Package control turns device snapshots into avatar, build and flycam
// commands, one context per frame.
package control

import (
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/soar/inputmapper/internal/channel"
	"github.com/soar/inputmapper/internal/config"
	"github.com/soar/inputmapper/internal/device"
	"github.com/soar/inputmapper/internal/filter"
)

// motionEpsilon is the smallest smoothed magnitude treated as motion.
const motionEpsilon = 1e-4

const reportBuffer = 64

type frame struct {
	dt      float64
	raw     filter.Frame // conditioned, before smoothing
	axes    filter.Frame
	buttons [channel.NumButtons]bool
}

// Dispatcher owns all per-frame control state. Tick, Reload and the
// accessors must be called from the goroutine that drives the frame loop;
// ToggleFlycam is safe from any goroutine.
type Dispatcher struct {
	source Source
	table  *config.Table
	params config.Params
	peers  Collaborators
	logger *slog.Logger

	cond    *filter.Conditioner
	smooth  *filter.Smoother
	live    bool
	context channel.Context

	flycamOn      bool
	flycamRequest atomic.Bool
	pose          Pose
	resync        bool

	flycamKey    edge
	flyKey       edge
	mouselookKey edge
	runKey       edge
	runBounce    debounce
	speed        debounce

	alwaysRun   bool
	flying      bool
	mouselook   bool
	sentRunning bool
	sentFlying  bool

	buildDirty bool

	reports chan Report
}

// NewDispatcher reads the table once; call Reload after editing it.
func NewDispatcher(source Source, table *config.Table, peers Collaborators, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		source:  source,
		table:   table,
		peers:   peers,
		logger:  logger,
		smooth:  filter.NewSmoother(),
		reports: make(chan Report, reportBuffer),
	}
	d.params = table.Params()
	d.cond = filter.NewConditioner(d.params.Relative)
	return d
}

// Reload re-reads parameters from the table and drops filter history.
func (d *Dispatcher) Reload() {
	d.params = d.table.Params()
	d.cond.SetRelative(d.params.Relative)
	d.cond.Forget()
	d.smooth.Reset()
	d.runBounce.Reset()
	d.speed.Reset()
	if !d.params.FlycamEnabled && d.flycamOn {
		d.exitFlycam()
	}
}

// ToggleFlycam requests a flycam transition at the next tick, as if the
// flycam button had been pressed.
func (d *Dispatcher) ToggleFlycam() { d.flycamRequest.Store(true) }

// Reports delivers one report per processed tick. Reports are dropped when
// nobody drains the channel.
func (d *Dispatcher) Reports() <-chan Report { return d.reports }

// Context returns the context that handled the last tick.
func (d *Dispatcher) Context() channel.Context { return d.context }

// Flycam returns the flycam pose while the flycam is active.
func (d *Dispatcher) Flycam() (Pose, bool) { return d.pose, d.flycamOn }

// Tick runs one frame. dt is the time since the previous tick in seconds.
func (d *Dispatcher) Tick(dt float64) {
	snap := d.source.Poll()
	if !snap.Valid {
		// Requests made without a device are dropped, not deferred.
		d.flycamRequest.Store(false)
		if d.live {
			d.live = false
			d.logger.Info("Input device lost, control idle")
			d.flushBuild()
			d.publish(Report{Context: d.context})
		}
		return
	}
	if !d.live {
		d.live = true
		d.Reload()
	}
	if !d.params.Enabled {
		d.flycamRequest.Store(false)
		return
	}

	f := frame{dt: dt}
	for _, b := range channel.Buttons() {
		f.buttons[b] = snap.Button(d.params.Buttons[b])
	}

	d.updateFlycam(f.buttons[channel.FlycamToggle])
	ctx := d.selectContext()
	if ctx != d.context {
		d.switchContext(ctx)
	}

	for _, a := range channel.Axes() {
		f.raw[a] = d.cond.Condition(a, snap.Axis(d.params.Axes[a]),
			d.params.DeadzoneFor(ctx, a), d.params.ScaleFor(ctx, a))
	}
	f.axes = d.smooth.Update(f.raw, dt, d.params.FeatheringFor(ctx))

	d.updateToggles(ctx, &f)
	if h := d.handler(ctx); h != nil {
		h(&f)
	}
	d.publish(d.report(ctx, &f))
}

func (d *Dispatcher) handler(ctx channel.Context) func(*frame) {
	switch ctx {
	case channel.Avatar:
		return d.moveAvatar
	case channel.ObjectBuild:
		return d.moveObject
	case channel.Flycam:
		return d.moveFlycam
	}
	return nil
}

func (d *Dispatcher) selectContext() channel.Context {
	switch {
	case d.flycamOn:
		return channel.Flycam
	case d.params.BuildEnabled && d.peers.Object != nil && d.peers.Object.Active():
		return channel.ObjectBuild
	case d.params.AvatarEnabled && d.peers.Avatar != nil:
		return channel.Avatar
	}
	return channel.None
}

func (d *Dispatcher) switchContext(next channel.Context) {
	d.flushBuild()
	d.logger.Debug("Control context changed", "from", d.context, "to", next)
	d.context = next
	d.smooth.Reset()
}

func (d *Dispatcher) updateFlycam(down bool) {
	pressed := d.flycamKey.Pressed(down)
	if d.flycamRequest.Swap(false) {
		pressed = true
	}
	if !pressed {
		return
	}
	if d.flycamOn {
		d.exitFlycam()
		return
	}
	if !d.params.FlycamEnabled || d.peers.Camera == nil {
		return
	}
	d.flycamOn = true
	d.pose = snapshotPose(d.peers.Camera)
	d.smooth.Reset()
	d.logger.Info("Flycam on", "origin", d.pose.Origin, "fov", d.pose.FieldOfView)
}

func (d *Dispatcher) exitFlycam() {
	d.flycamOn = false
	d.resync = true
	d.smooth.Reset()
	d.logger.Info("Flycam off")
}

func (d *Dispatcher) updateToggles(ctx channel.Context, f *frame) {
	if d.flyKey.Pressed(f.buttons[channel.FlyToggle]) {
		d.flying = !d.flying
	}
	if d.mouselookKey.Pressed(f.buttons[channel.MouselookToggle]) {
		d.mouselook = !d.mouselook
	}
	if d.runKey.Pressed(d.runBounce.Update(f.buttons[channel.RunToggle])) {
		d.alwaysRun = !d.alwaysRun
	}
	fast := ctx == channel.Avatar && math.Abs(f.axes[channel.TranslateZ]) > d.params.RunThreshold
	d.speed.Update(fast)
}

// Running reports the run state sent to the avatar: the latched run
// toggle, or forward speed held above the run threshold.
func (d *Dispatcher) Running() bool { return d.alwaysRun || d.speed.state }

// Flying reports the latched fly toggle.
func (d *Dispatcher) Flying() bool { return d.flying }

// Mouselook reports the latched mouselook toggle.
func (d *Dispatcher) Mouselook() bool { return d.mouselook }

func (d *Dispatcher) publish(r Report) {
	select {
	case d.reports <- r:
	default:
	}
}

var _ Source = (*device.Session)(nil)
