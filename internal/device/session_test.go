package device_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/inputmapper/internal/channel"
	"github.com/soar/inputmapper/internal/config"
	"github.com/soar/inputmapper/internal/device"
)

type fakeDevice struct {
	snap    device.Snapshot
	readErr error
	closed  int
}

func (f *fakeDevice) Read(s *device.Snapshot) error {
	if f.readErr != nil {
		return f.readErr
	}
	s.Axes = f.snap.Axes
	s.Buttons = f.snap.Buttons
	return nil
}

func (f *fakeDevice) Close() error {
	f.closed++
	return nil
}

type fakeDriver struct {
	initErr  error
	cands    []device.Candidate
	devices  map[int]*fakeDevice
	opened   []int
	closed   int
	pumpHook func(h device.Hotplug)
}

func newFakeDriver(cands ...device.Candidate) *fakeDriver {
	d := &fakeDriver{cands: cands, devices: map[int]*fakeDevice{}}
	for _, c := range cands {
		d.devices[c.ID] = &fakeDevice{}
	}
	return d
}

func (d *fakeDriver) Name() string { return "fake" }
func (d *fakeDriver) Init() error  { return d.initErr }
func (d *fakeDriver) Close() error { d.closed++; return nil }

func (d *fakeDriver) Enumerate() ([]device.Candidate, error) {
	return d.cands, nil
}

func (d *fakeDriver) Open(c device.Candidate) (device.Device, error) {
	dev, ok := d.devices[c.ID]
	if !ok {
		return nil, errors.New("gone")
	}
	d.opened = append(d.opened, c.ID)
	return dev, nil
}

type pumpingDriver struct{ *fakeDriver }

func (p pumpingDriver) Pump(h device.Hotplug) {
	if p.pumpHook != nil {
		p.pumpHook(h)
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	spaceNavigator = device.Candidate{ID: 3, Name: "3Dconnexion SpaceNavigator", VendorID: 0x046D, ProductID: 0xC626, Identity: []byte("spacenav")}
	unknownPad     = device.Candidate{ID: 1, Name: "Acme Stick", VendorID: 0x1234, ProductID: 0x0001, Identity: []byte("acme")}
	xboxPad        = device.Candidate{ID: 2, Name: "Controller", VendorID: 0x045E, ProductID: 0x028E, Identity: []byte("xbox")}
)

func TestUninitializedPollIsZero(t *testing.T) {
	tbl := config.New()
	s := device.NewSession(newFakeDriver(), tbl, quietLogger())
	assert.Equal(t, device.Uninitialized, s.State())
	assert.Equal(t, device.Snapshot{}, s.Poll())

	s.Initialize(true)
	assert.Equal(t, device.Uninitialized, s.State())
	assert.Equal(t, device.Snapshot{}, s.Poll())
	assert.False(t, tbl.GetBool(config.KeyEnabled))
}

func TestDriverInitFailureIsNotFatal(t *testing.T) {
	drv := newFakeDriver(xboxPad)
	drv.initErr = errors.New("no sdl")
	s := device.NewSession(drv, config.New(), quietLogger())

	s.Initialize(true)
	assert.Equal(t, device.Uninitialized, s.State())
	assert.Empty(t, drv.opened)
	assert.False(t, s.Poll().Valid)
}

func TestSelection(t *testing.T) {
	cases := []struct {
		name      string
		cands     []device.Candidate
		persisted []byte
		want      int
		class     config.DeviceClass
	}{
		{
			name:  "known device preferred over first",
			cands: []device.Candidate{unknownPad, spaceNavigator},
			want:  spaceNavigator.ID,
			class: config.ClassNDOF,
		},
		{
			name:      "persisted identity wins",
			cands:     []device.Candidate{spaceNavigator, unknownPad},
			persisted: unknownPad.Identity,
			want:      unknownPad.ID,
			class:     config.ClassGeneric,
		},
		{
			name:      "stale identity falls back to heuristic",
			cands:     []device.Candidate{unknownPad, xboxPad},
			persisted: []byte("unplugged"),
			want:      xboxPad.ID,
			class:     config.ClassXbox,
		},
		{
			name:  "unrecognized falls back to first",
			cands: []device.Candidate{unknownPad},
			want:  unknownPad.ID,
			class: config.ClassGeneric,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tbl := config.New()
			if tc.persisted != nil {
				tbl.SetBytes(config.KeyDeviceIdentity, tc.persisted)
			}
			drv := newFakeDriver(tc.cands...)
			s := device.NewSession(drv, tbl, quietLogger())
			s.Initialize(false)

			require.Equal(t, device.Initialized, s.State())
			assert.Equal(t, []int{tc.want}, drv.opened)
			cur, class, ok := s.Current()
			require.True(t, ok)
			assert.Equal(t, tc.want, cur.ID)
			assert.Equal(t, tc.class, class)
			assert.Equal(t, cur.Identity, tbl.GetBytes(config.KeyDeviceIdentity))
			assert.True(t, tbl.ProfileApplied(tc.class))
		})
	}
}

func TestProfileAppliedOncePerClass(t *testing.T) {
	tbl := config.New()
	drv := newFakeDriver(spaceNavigator)
	s := device.NewSession(drv, tbl, quietLogger())

	s.Initialize(true)
	require.Equal(t, device.Initialized, s.State())
	assert.True(t, tbl.GetBool(config.KeyEnabled))
	assert.Equal(t, 5, tbl.GetInt(config.AxisKey(channel.RotateY)))

	tbl.SetInt(config.AxisKey(channel.RotateY), 4)
	s.Initialize(true)
	assert.Equal(t, 4, tbl.GetInt(config.AxisKey(channel.RotateY)), "user edits survive re-init")
}

func TestPollReturnsSamples(t *testing.T) {
	drv := newFakeDriver(xboxPad)
	dev := drv.devices[xboxPad.ID]
	dev.snap.Axes[1] = -0.5
	dev.snap.Buttons[3] = true

	s := device.NewSession(drv, config.New(), quietLogger())
	s.Initialize(false)

	snap := s.Poll()
	assert.True(t, snap.Valid)
	assert.Equal(t, -0.5, snap.Axis(channel.Bind(1)))
	assert.Equal(t, 0.0, snap.Axis(channel.Unmapped()))
	assert.Equal(t, 0.0, snap.Axis(channel.Bind(device.MaxAxes+3)))
	assert.True(t, snap.Button(channel.Bind(3)))
	assert.False(t, snap.Button(channel.Unmapped()))
}

func TestReadFailureUninitializes(t *testing.T) {
	drv := newFakeDriver(xboxPad)
	s := device.NewSession(drv, config.New(), quietLogger())
	s.Initialize(false)
	require.True(t, s.Poll().Valid)

	drv.devices[xboxPad.ID].readErr = device.ErrDisconnected
	assert.Equal(t, device.Snapshot{}, s.Poll())
	assert.Equal(t, device.Uninitialized, s.State())
	assert.Equal(t, 1, drv.devices[xboxPad.ID].closed)
}

func TestHotplugRemovalAppliesAtNextPoll(t *testing.T) {
	drv := newFakeDriver(xboxPad)
	drv.devices[xboxPad.ID].snap.Axes[0] = 1
	s := device.NewSession(drv, config.New(), quietLogger())
	s.Initialize(false)

	s.NotifyRemoved()
	assert.Equal(t, device.Initialized, s.State(), "flag only, no mutation")

	assert.Equal(t, device.Snapshot{}, s.Poll())
	assert.Equal(t, device.Uninitialized, s.State())
	assert.Equal(t, 1, drv.devices[xboxPad.ID].closed)
}

func TestHotplugAddRescans(t *testing.T) {
	drv := newFakeDriver()
	s := device.NewSession(drv, config.New(), quietLogger())
	s.Initialize(true)
	require.Equal(t, device.Uninitialized, s.State())

	drv.cands = []device.Candidate{spaceNavigator}
	drv.devices[spaceNavigator.ID] = &fakeDevice{}
	s.NotifyAdded()

	assert.True(t, s.Poll().Valid)
	assert.Equal(t, device.Initialized, s.State())
}

func TestPumpedHotplug(t *testing.T) {
	drv := newFakeDriver(xboxPad)
	pd := pumpingDriver{drv}
	s := device.NewSession(pd, config.New(), quietLogger())
	s.Initialize(false)
	require.True(t, s.Poll().Valid)

	drv.pumpHook = func(h device.Hotplug) { h.NotifyRemoved() }
	assert.False(t, s.Poll().Valid)
	assert.Equal(t, device.Uninitialized, s.State())

	drv.pumpHook = func(h device.Hotplug) { h.NotifyAdded() }
	assert.True(t, s.Poll().Valid)
}

func TestTerminateIdempotent(t *testing.T) {
	drv := newFakeDriver(xboxPad)
	s := device.NewSession(drv, config.New(), quietLogger())
	s.Initialize(false)

	s.Terminate()
	s.Terminate()
	assert.Equal(t, device.Uninitialized, s.State())
	assert.Equal(t, 1, drv.closed)
	assert.Equal(t, 1, drv.devices[xboxPad.ID].closed)
	assert.False(t, s.Poll().Valid)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		cand  device.Candidate
		class config.DeviceClass
		known bool
	}{
		{name: "vendor/product", cand: device.Candidate{VendorID: 0x054C, ProductID: 0x0CE6}, class: config.ClassPlayStation, known: true},
		{name: "name fragment", cand: device.Candidate{Name: "SpaceMouse Compact"}, class: config.ClassNDOF, known: true},
		{name: "case insensitive", cand: device.Candidate{Name: "Microsoft X-Box 360 pad"}, class: config.ClassXbox, known: true},
		{name: "unknown", cand: device.Candidate{Name: "Thrustmaster T.16000M"}, class: config.ClassGeneric, known: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			class, known := device.Classify(tc.cand)
			assert.Equal(t, tc.class, class)
			assert.Equal(t, tc.known, known)
		})
	}
}

func TestNormalizeAxis(t *testing.T) {
	assert.Equal(t, 1.0, device.NormalizeAxis(32767))
	assert.Equal(t, -1.0, device.NormalizeAxis(-32768))
	assert.Equal(t, 0.0, device.NormalizeAxis(0))
}

func TestSetHat(t *testing.T) {
	var snap device.Snapshot
	device.SetHat(&snap, 4, device.HatRight|device.HatUp)
	assert.Equal(t, []bool{false, false, false, false, true, true, false, false}, snap.Buttons[:8])

	device.SetHat(&snap, 4, device.HatLeft)
	assert.Equal(t, []bool{false, false, false, true}, snap.Buttons[4:8], "released directions clear")

	device.SetHat(&snap, device.MaxButtons-2, device.HatDown|device.HatLeft)
	assert.False(t, snap.Buttons[device.MaxButtons-2])
	assert.False(t, snap.Buttons[device.MaxButtons-1], "down and left fall past the last slot")
}
