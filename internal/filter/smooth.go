package filter

// Frame time band applied before feathering. Rates are tuned for 30-60 fps;
// outside that band the blend factor would stall or overshoot.
const (
	MinFrameTime = 0.016
	MaxFrameTime = 0.033
)

// ClampFrameTime maps dt into [MinFrameTime, MaxFrameTime].
func ClampFrameTime(dt float64) float64 {
	switch {
	case dt < MinFrameTime:
		return MinFrameTime
	case dt > MaxFrameTime:
		return MaxFrameTime
	default:
		return dt
	}
}

// BlendFactor is the per-frame feathering weight, in [0,1].
func BlendFactor(dt, rate float64) float64 {
	k := ClampFrameTime(dt) * rate
	switch {
	case k < 0:
		return 0
	case k > 1:
		return 1
	default:
		return k
	}
}

// Smoother is an exponential low-pass per axis.
type Smoother struct {
	value Frame
	reset bool
}

// NewSmoother returns a smoother whose first update tracks the input exactly.
func NewSmoother() *Smoother {
	return &Smoother{reset: true}
}

// Reset makes the next Update copy its input instead of blending.
func (s *Smoother) Reset() { s.reset = true }

// Pending reports whether a reset is armed for the next Update.
func (s *Smoother) Pending() bool { return s.reset }

// Update blends in conditioned and returns the smoothed frame.
func (s *Smoother) Update(conditioned Frame, dt, rate float64) Frame {
	if s.reset {
		s.reset = false
		s.value = conditioned
		return s.value
	}
	k := BlendFactor(dt, rate)
	for i := range s.value {
		s.value[i] += (conditioned[i] - s.value[i]) * k
	}
	return s.value
}

// Value returns the current smoothed frame.
func (s *Smoother) Value() Frame { return s.value }
