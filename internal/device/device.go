// Package device owns the physical input device: discovery through a
// platform driver, selection by persisted identity or known-device
// heuristic, per-tick polling, and hot-plug handling.
package device

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/soar/inputmapper/internal/channel"
)

// Snapshot sizes. Raw indices outside these bounds read as zero.
const (
	MaxAxes    = 8
	MaxButtons = 32
)

var (
	ErrNoDevice     = errors.New("no input device found")
	ErrDisconnected = errors.New("input device disconnected")
)

// State is the session lifecycle state.
type State int32

const (
	Uninitialized State = iota
	Initializing
	Initialized
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Initialized:
		return "initialized"
	default:
		return "uninitialized"
	}
}

// Snapshot is one tick of raw device state. Axes are normalized to [-1,1].
// The zero value is the "no device" snapshot.
type Snapshot struct {
	Valid   bool
	Axes    [MaxAxes]float64
	Buttons [MaxButtons]bool
}

// Axis returns the raw sample read through b, or 0 when unmapped.
func (s *Snapshot) Axis(b channel.Binding) float64 {
	idx, ok := b.Index()
	if !ok || idx >= MaxAxes {
		return 0
	}
	return s.Axes[idx]
}

// Button returns the raw button read through b, or false when unmapped.
func (s *Snapshot) Button(b channel.Binding) bool {
	idx, ok := b.Index()
	if !ok || idx >= MaxButtons {
		return false
	}
	return s.Buttons[idx]
}

// Candidate describes an enumerated device before it is opened.
type Candidate struct {
	ID        int
	Name      string
	VendorID  uint16
	ProductID uint16
	Identity  []byte
}

// Identity packs vendor, product and name into the opaque blob persisted
// between sessions.
func Identity(vendorID, productID uint16, name string) []byte {
	b := make([]byte, 4, 4+len(name))
	binary.LittleEndian.PutUint16(b[0:], vendorID)
	binary.LittleEndian.PutUint16(b[2:], productID)
	return append(b, name...)
}

// Driver is a platform device backend.
type Driver interface {
	Name() string
	// Init starts the platform subsystem. It is called before every
	// enumeration and must be idempotent.
	Init() error
	Enumerate() ([]Candidate, error)
	Open(c Candidate) (Device, error)
	// Close stops the platform subsystem.
	Close() error
}

// Device is an opened physical device.
type Device interface {
	// Read fills s with the current axes and buttons.
	Read(s *Snapshot) error
	Close() error
}

// Hotplug receives attach/detach notifications. Implementations must be
// safe to call from any goroutine.
type Hotplug interface {
	NotifyAdded()
	NotifyRemoved()
}

// Pumper is implemented by drivers whose hot-plug events are drained on the
// polling goroutine.
type Pumper interface {
	Pump(h Hotplug)
}
