//go:build !nosdl

// Package sdljoy is the SDL3 device driver. Importing it loads libSDL3 at
// program start; build with the nosdl tag on machines without it.
package sdljoy

import (
	"log/slog"

	"github.com/jupiterrider/purego-sdl3/sdl"
	"github.com/pkg/errors"

	"github.com/soar/inputmapper/internal/device"
)

// Driver reads devices through the SDL3 joystick API. SDL must be driven
// from one OS thread: the caller locks the polling goroutine to its thread.
type Driver struct {
	logger *slog.Logger
	up     bool
	open   *joystick
}

var (
	_ device.Driver = (*Driver)(nil)
	_ device.Pumper = (*Driver)(nil)
)

// New returns an SDL3 joystick driver.
func New(logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{logger: logger}
}

func (d *Driver) Name() string { return "sdl" }

func (d *Driver) Init() error {
	if d.up {
		return nil
	}
	if !sdl.Init(sdl.InitJoystick) {
		return errors.Errorf("SDL init failed: %s", sdl.GetError())
	}
	d.up = true
	d.logger.Info("SDL3 Joystick subsystem initialized")
	return nil
}

func (d *Driver) Enumerate() ([]device.Candidate, error) {
	if !d.up {
		return nil, errors.New("SDL joystick subsystem not initialized")
	}
	var out []device.Candidate
	for _, id := range sdl.GetJoysticks() {
		js := sdl.OpenJoystick(id)
		if js == nil {
			d.logger.Debug("Failed to open joystick", "id", id, "error", sdl.GetError())
			continue
		}
		c := device.Candidate{
			ID:        int(id),
			Name:      sdl.GetJoystickName(js),
			VendorID:  sdl.GetJoystickVendor(js),
			ProductID: sdl.GetJoystickProduct(js),
		}
		c.Identity = device.Identity(c.VendorID, c.ProductID, c.Name)
		out = append(out, c)
		// SDL reference counts opens; the selected device is reopened by Open.
		sdl.CloseJoystick(js)
	}
	return out, nil
}

func (d *Driver) Open(c device.Candidate) (device.Device, error) {
	id := sdl.JoystickID(c.ID)
	js := sdl.OpenJoystick(id)
	if js == nil {
		return nil, errors.Errorf("open joystick %d: %s", c.ID, sdl.GetError())
	}
	dev := &joystick{
		driver:  d,
		js:      js,
		id:      id,
		axes:    sdl.GetNumJoystickAxes(js),
		buttons: sdl.GetNumJoystickButtons(js),
		hats:    sdl.GetNumJoystickHats(js),
	}
	d.open = dev
	d.logger.Debug("Joystick opened", "name", c.Name,
		"axes", dev.axes, "buttons", dev.buttons, "hats", dev.hats)
	return dev, nil
}

// Pump drains the SDL event queue, forwarding hot-plug events. Draining
// also refreshes the joystick state read by Read.
func (d *Driver) Pump(h device.Hotplug) {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventJoystickAdded:
			h.NotifyAdded()
		case sdl.EventJoystickRemoved:
			if d.open != nil && event.JDevice().Which == d.open.id {
				h.NotifyRemoved()
			}
		}
	}
}

func (d *Driver) Close() error {
	if !d.up {
		return nil
	}
	if d.open != nil {
		_ = d.open.Close()
	}
	sdl.Quit()
	d.up = false
	return nil
}

type joystick struct {
	driver  *Driver
	js      *sdl.Joystick
	id      sdl.JoystickID
	axes    int32
	buttons int32
	hats    int32
}

// Read fills axes and buttons. Hats follow the physical buttons, four
// slots each.
func (j *joystick) Read(snap *device.Snapshot) error {
	if j.js == nil || !sdl.JoystickConnected(j.js) {
		return device.ErrDisconnected
	}
	for i := int32(0); i < j.axes && i < device.MaxAxes; i++ {
		snap.Axes[i] = device.NormalizeAxis(sdl.GetJoystickAxis(j.js, i))
	}
	for i := int32(0); i < j.buttons && i < device.MaxButtons; i++ {
		snap.Buttons[i] = sdl.GetJoystickButton(j.js, i)
	}
	for h := int32(0); h < j.hats; h++ {
		first := int(j.buttons) + int(h)*device.HatButtons
		if first >= device.MaxButtons {
			break
		}
		device.SetHat(snap, first, sdl.GetJoystickHat(j.js, h))
	}
	return nil
}

func (j *joystick) Close() error {
	if j.js == nil {
		return nil
	}
	sdl.CloseJoystick(j.js)
	j.js = nil
	if j.driver.open == j {
		j.driver.open = nil
	}
	return nil
}
