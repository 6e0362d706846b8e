package hub

import (
	"math"

	"github.com/soar/inputmapper/internal/channel"
	"github.com/soar/inputmapper/internal/control"
)

type Pose struct {
	Origin      [3]float64 `json:"origin"`
	Orientation [4]float64 `json:"orientation"`
	FieldOfView float64    `json:"fov"`
}

type Toggles struct {
	Running   bool `json:"running"`
	Flying    bool `json:"flying"`
	Mouselook bool `json:"mouselook"`
}

// FrameState is the JSON form of a control report, keyed by channel name.
type FrameState struct {
	Live    bool               `json:"live"`
	Context string             `json:"context"`
	Axes    map[string]float64 `json:"axes"`
	Buttons map[string]bool    `json:"buttons"`
	Toggles Toggles            `json:"toggles"`
	Flycam  *Pose              `json:"flycam,omitempty"`
}

// FrameDelta carries only the fields that changed since the last message.
type FrameDelta struct {
	Live    *bool              `json:"live,omitempty"`
	Context *string            `json:"context,omitempty"`
	Axes    map[string]float64 `json:"axes,omitempty"`
	Buttons map[string]bool    `json:"buttons,omitempty"`
	Toggles *Toggles           `json:"toggles,omitempty"`
	Flycam  *Pose              `json:"flycam,omitempty"`
}

func (d *FrameDelta) IsEmpty() bool {
	return d.Live == nil &&
		d.Context == nil &&
		len(d.Axes) == 0 &&
		len(d.Buttons) == 0 &&
		d.Toggles == nil &&
		d.Flycam == nil
}

const analogThreshold = 0.001

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < analogThreshold
}

func FromReport(r control.Report) FrameState {
	s := FrameState{
		Live:    r.Live,
		Context: r.Context.String(),
		Axes:    make(map[string]float64, channel.NumAxes),
		Buttons: make(map[string]bool, channel.NumButtons),
		Toggles: Toggles{Running: r.Running, Flying: r.Flying, Mouselook: r.Mouselook},
	}
	for _, a := range channel.Axes() {
		s.Axes[a.String()] = r.Axes[a]
	}
	for _, b := range channel.Buttons() {
		s.Buttons[b.String()] = r.Buttons[b]
	}
	if p := r.Flycam; p != nil {
		s.Flycam = &Pose{
			Origin:      p.Origin,
			Orientation: [4]float64{p.Orientation.W, p.Orientation.X(), p.Orientation.Y(), p.Orientation.Z()},
			FieldOfView: p.FieldOfView,
		}
	}
	return s
}

func ComputeDelta(old, new_ FrameState) *FrameDelta {
	d := &FrameDelta{}

	if old.Live != new_.Live {
		d.Live = &new_.Live
	}
	if old.Context != new_.Context {
		d.Context = &new_.Context
	}
	for k, v := range new_.Axes {
		if prev, ok := old.Axes[k]; !ok || !floatEqual(prev, v) {
			if d.Axes == nil {
				d.Axes = make(map[string]float64)
			}
			d.Axes[k] = v
		}
	}
	for k, v := range new_.Buttons {
		if prev, ok := old.Buttons[k]; !ok || prev != v {
			if d.Buttons == nil {
				d.Buttons = make(map[string]bool)
			}
			d.Buttons[k] = v
		}
	}
	if old.Toggles != new_.Toggles {
		d.Toggles = &new_.Toggles
	}
	if new_.Flycam != nil && (old.Flycam == nil || !poseEqual(*old.Flycam, *new_.Flycam)) {
		d.Flycam = new_.Flycam
	}
	return d
}

func poseEqual(a, b Pose) bool {
	for i := range a.Origin {
		if !floatEqual(a.Origin[i], b.Origin[i]) {
			return false
		}
	}
	for i := range a.Orientation {
		if !floatEqual(a.Orientation[i], b.Orientation[i]) {
			return false
		}
	}
	return floatEqual(a.FieldOfView, b.FieldOfView)
}

// Apply merges a delta into s, the inverse of ComputeDelta.
func (s *FrameState) Apply(d *FrameDelta) {
	if d == nil {
		return
	}
	if d.Live != nil {
		s.Live = *d.Live
	}
	if d.Context != nil {
		s.Context = *d.Context
	}
	if len(d.Axes) > 0 && s.Axes == nil {
		s.Axes = make(map[string]float64, len(d.Axes))
	}
	for k, v := range d.Axes {
		s.Axes[k] = v
	}
	if len(d.Buttons) > 0 && s.Buttons == nil {
		s.Buttons = make(map[string]bool, len(d.Buttons))
	}
	for k, v := range d.Buttons {
		s.Buttons[k] = v
	}
	if d.Toggles != nil {
		s.Toggles = *d.Toggles
	}
	if d.Flycam != nil {
		s.Flycam = d.Flycam
	}
	if s.Context != channel.Flycam.String() {
		s.Flycam = nil
	}
}
