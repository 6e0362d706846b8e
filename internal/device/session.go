package device

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/soar/inputmapper/internal/config"
)

// Session owns the lifecycle of one physical device. Initialize, Poll and
// Terminate must be called from a single goroutine; NotifyAdded and
// NotifyRemoved may be called from any goroutine.
type Session struct {
	driver Driver
	table  *config.Table
	logger *slog.Logger

	state   atomic.Int32
	added   atomic.Bool
	removed atomic.Bool

	driverUp   bool
	autoenable bool
	dev        Device
	current    Candidate
	class      config.DeviceClass
}

// NewSession returns an uninitialized session over driver.
func NewSession(driver Driver, table *config.Table, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		driver: driver,
		table:  table,
		logger: logger.With("driver", driver.Name()),
	}
}

// State returns the lifecycle state.
func (s *Session) State() State { return State(s.state.Load()) }

// Current returns the opened device and its class.
func (s *Session) Current() (Candidate, config.DeviceClass, bool) {
	if s.State() != Initialized {
		return Candidate{}, "", false
	}
	return s.current, s.class, true
}

// NotifyAdded flags that a device appeared. The next Poll rescans if no
// device is open.
func (s *Session) NotifyAdded() { s.added.Store(true) }

// NotifyRemoved flags that the open device went away. The next Poll
// releases it.
func (s *Session) NotifyRemoved() { s.removed.Store(true) }

// Initialize discovers and opens a device. A missing device is a normal
// outcome and leaves the session uninitialized. With autoenable, a
// successful open also turns the feature on.
func (s *Session) Initialize(autoenable bool) {
	s.autoenable = autoenable
	s.closeDevice()
	s.removed.Store(false)
	s.added.Store(false)
	s.setState(Initializing)

	if !s.driverUp {
		if err := s.driver.Init(); err != nil {
			s.logger.Warn("Device driver unavailable", "error", err)
			s.setState(Uninitialized)
			return
		}
		s.driverUp = true
	}

	cands, err := s.driver.Enumerate()
	if err != nil {
		s.logger.Warn("Device enumeration failed", "error", err)
		s.setState(Uninitialized)
		return
	}

	c, ok := choose(cands, s.table.GetBytes(config.KeyDeviceIdentity))
	if !ok {
		s.logger.Info("No input device found")
		s.setState(Uninitialized)
		return
	}

	dev, err := s.driver.Open(c)
	if err != nil {
		s.logger.Warn("Failed to open input device", "name", c.Name, "error", err)
		s.setState(Uninitialized)
		return
	}

	class, known := Classify(c)
	s.dev = dev
	s.current = c
	s.class = class
	s.table.SetBytes(config.KeyDeviceIdentity, c.Identity)

	if !s.table.ProfileApplied(class) {
		s.table.ApplyProfile(config.ProfileFor(class))
		s.logger.Info("Applied default profile", "class", class)
	}
	if autoenable {
		s.table.SetBool(config.KeyEnabled, true)
	}

	s.logger.Info("Input device initialized",
		"name", c.Name,
		"vendor", hex16(c.VendorID),
		"product", hex16(c.ProductID),
		"class", class,
		"known", known)
	s.setState(Initialized)
}

// Poll returns the latest samples, or the zero snapshot when no device is
// open. Pending hot-plug notifications are applied first.
func (s *Session) Poll() Snapshot {
	if s.driverUp {
		if p, ok := s.driver.(Pumper); ok {
			p.Pump(s)
		}
	}

	if s.removed.Swap(false) && s.State() == Initialized {
		s.logger.Info("Input device removed", "name", s.current.Name)
		s.closeDevice()
		s.setState(Uninitialized)
		return Snapshot{}
	}

	if s.added.Swap(false) && s.State() == Uninitialized {
		s.logger.Debug("Input device added, rescanning")
		s.Initialize(s.autoenable)
	}

	if s.State() != Initialized {
		return Snapshot{}
	}

	var snap Snapshot
	if err := s.dev.Read(&snap); err != nil {
		s.logger.Warn("Input device read failed", "name", s.current.Name, "error", err)
		s.closeDevice()
		s.setState(Uninitialized)
		return Snapshot{}
	}
	snap.Valid = true
	return snap
}

// Terminate releases the device and the driver. It is idempotent.
func (s *Session) Terminate() {
	s.closeDevice()
	if s.driverUp {
		if err := s.driver.Close(); err != nil {
			s.logger.Warn("Device driver shutdown failed", "error", err)
		}
		s.driverUp = false
	}
	s.setState(Uninitialized)
}

func (s *Session) closeDevice() {
	if s.dev == nil {
		return
	}
	if err := s.dev.Close(); err != nil {
		s.logger.Debug("Closing input device", "error", err)
	}
	s.dev = nil
	s.current = Candidate{}
	s.class = ""
}

func (s *Session) setState(st State) {
	if old := State(s.state.Swap(int32(st))); old != st {
		s.logger.Debug("Device session state", "from", old, "to", st)
	}
}

// choose prefers the persisted identity, then a known device, then the
// first candidate.
func choose(cands []Candidate, persisted []byte) (Candidate, bool) {
	if len(persisted) > 0 {
		for _, c := range cands {
			if bytes.Equal(c.Identity, persisted) {
				return c, true
			}
		}
	}
	for _, c := range cands {
		if _, known := Classify(c); known {
			return c, true
		}
	}
	if len(cands) > 0 {
		return cands[0], true
	}
	return Candidate{}, false
}

func hex16(v uint16) string {
	return fmt.Sprintf("%04X", v)
}
