package device

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/0xcafed00d/joystick"
	"github.com/pkg/errors"
)

const defaultMaxJoysticks = 8

// JoystickDriver reads devices through the portable joystick package. It
// reports no vendor/product IDs, so devices are recognized by name.
type JoystickDriver struct {
	logger     *slog.Logger
	maxDevices int
	openID     atomic.Int32
}

// NewJoystickDriver returns a driver probing joystick ids 0..7.
func NewJoystickDriver(logger *slog.Logger) *JoystickDriver {
	if logger == nil {
		logger = slog.Default()
	}
	d := &JoystickDriver{logger: logger, maxDevices: defaultMaxJoysticks}
	d.openID.Store(-1)
	return d
}

func (d *JoystickDriver) Name() string { return "joystick" }

func (d *JoystickDriver) Init() error { return nil }

func (d *JoystickDriver) Enumerate() ([]Candidate, error) {
	var out []Candidate
	for i := 0; i < d.maxDevices; i++ {
		js, err := joystick.Open(i)
		if err != nil {
			continue
		}
		c := Candidate{ID: i, Name: js.Name()}
		c.Identity = Identity(0, 0, c.Name)
		out = append(out, c)
		js.Close()
	}
	return out, nil
}

func (d *JoystickDriver) Open(c Candidate) (Device, error) {
	js, err := joystick.Open(c.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "open joystick %d", c.ID)
	}
	d.openID.Store(int32(c.ID))
	d.logger.Debug("Joystick opened", "name", js.Name(), "axes", js.AxisCount(), "buttons", js.ButtonCount())
	return &joystickDevice{driver: d, js: js}, nil
}

func (d *JoystickDriver) Close() error { return nil }

// Watch forwards /dev/input hot-plug events to h until ctx is done. Removal
// is only reported for the node of the open device.
func (d *JoystickDriver) Watch(ctx context.Context, h Hotplug) error {
	return watchInputDir(ctx, d.logger, func(name string, created bool) {
		if !strings.HasPrefix(name, "js") {
			return
		}
		if created {
			h.NotifyAdded()
			return
		}
		if id := d.openID.Load(); id >= 0 && name == fmt.Sprintf("js%d", id) {
			h.NotifyRemoved()
		}
	})
}

type joystickDevice struct {
	driver *JoystickDriver
	js     joystick.Joystick
}

func (j *joystickDevice) Read(snap *Snapshot) error {
	if j.js == nil {
		return ErrDisconnected
	}
	st, err := j.js.Read()
	if err != nil {
		return errors.Wrap(err, "read joystick")
	}
	for i, v := range st.AxisData {
		if i >= MaxAxes {
			break
		}
		snap.Axes[i] = normalizeInt(v)
	}
	n := j.js.ButtonCount()
	for i := 0; i < n && i < MaxButtons; i++ {
		snap.Buttons[i] = st.Buttons&(1<<uint(i)) != 0
	}
	return nil
}

func (j *joystickDevice) Close() error {
	if j.js == nil {
		return nil
	}
	j.js.Close()
	j.js = nil
	j.driver.openID.Store(-1)
	return nil
}
