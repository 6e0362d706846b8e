// Package filter turns raw device samples into smoothed control values:
// deadzone clipping and rescaling, per-context scaling, relative-mode
// history, and exponential feathering.
package filter

import (
	"math"

	"github.com/soar/inputmapper/internal/channel"
)

// MaxDeadzone bounds configured deadzones so the rescale denominator stays
// positive.
const MaxDeadzone = 0.99

// ClampDeadzone maps any configured deadzone into [0, MaxDeadzone].
func ClampDeadzone(d float64) float64 {
	if math.IsNaN(d) || d < 0 {
		return 0
	}
	if d > MaxDeadzone {
		return MaxDeadzone
	}
	return d
}

// ApplyDeadzone zeroes |v| <= d and rescales the remaining range so the
// output is continuous at the boundary and reaches ±1 at ±1.
func ApplyDeadzone(v, d float64) float64 {
	d = ClampDeadzone(d)
	mag := math.Abs(v)
	if mag <= d {
		return 0
	}
	return math.Copysign((mag-d)/(1-d), v)
}

// Conditioner converts raw axis samples into scaled deltas. It keeps the
// previous raw sample per axis for relative devices.
type Conditioner struct {
	relative bool
	prev     [channel.NumAxes]float64
	primed   [channel.NumAxes]bool
}

// NewConditioner returns a conditioner; relative selects history
// subtraction.
func NewConditioner(relative bool) *Conditioner {
	return &Conditioner{relative: relative}
}

// SetRelative switches delta mode and drops history.
func (c *Conditioner) SetRelative(relative bool) {
	if c.relative != relative {
		c.relative = relative
		c.Forget()
	}
}

// Relative reports the delta mode.
func (c *Conditioner) Relative() bool { return c.relative }

// Forget drops the stored history; the next relative delta is zero.
func (c *Conditioner) Forget() {
	c.prev = [channel.NumAxes]float64{}
	c.primed = [channel.NumAxes]bool{}
}

// Delta returns the raw delta of axis a and records raw as its history.
// The first relative sample after Forget yields zero.
func (c *Conditioner) Delta(a channel.Axis, raw float64) float64 {
	if !c.relative {
		c.prev[a] = raw
		return raw
	}
	var d float64
	if c.primed[a] {
		d = raw - c.prev[a]
	}
	c.prev[a] = raw
	c.primed[a] = true
	return d
}

// Condition runs delta, deadzone and scale for one axis sample.
func (c *Conditioner) Condition(a channel.Axis, raw, deadzone, scale float64) float64 {
	return ApplyDeadzone(c.Delta(a, raw), deadzone) * scale
}

// Frame holds one value per axis.
type Frame [channel.NumAxes]float64

// Dominant returns the mapped axis with the largest magnitude in f.
// ok is false when no mapped axis is nonzero.
func Dominant(f Frame, axes [channel.NumAxes]channel.Binding) (channel.Axis, float64, bool) {
	best := channel.Axis(0)
	mag := 0.0
	found := false
	for i, v := range f {
		if !axes[i].Mapped() {
			continue
		}
		if m := math.Abs(v); m > mag {
			best, mag, found = channel.Axis(i), m, true
		}
	}
	return best, mag, found
}
