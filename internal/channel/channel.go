// Package channel defines the logical control channels a physical device is
// mapped onto, and the control contexts that consume them.
package channel

// Axis is one logical analog channel, independent of physical device layout.
type Axis int

const (
	TranslateX Axis = iota
	TranslateY
	TranslateZ
	RotateX
	RotateY
	RotateZ
	Zoom

	NumAxes = int(Zoom) + 1
)

var axisNames = [NumAxes]string{
	"translate_x", "translate_y", "translate_z",
	"rotate_x", "rotate_y", "rotate_z",
	"zoom",
}

func (a Axis) String() string {
	if a < 0 || int(a) >= NumAxes {
		return "unknown"
	}
	return axisNames[a]
}

// Axes returns every axis in declaration order.
func Axes() []Axis {
	out := make([]Axis, NumAxes)
	for i := range out {
		out[i] = Axis(i)
	}
	return out
}

// Button is one logical button channel.
type Button int

const (
	RollLeft Button = iota
	RollRight
	RollReset
	ZoomIn
	ZoomOut
	ZoomReset
	Jump
	Crouch
	FlyToggle
	MouselookToggle
	FlycamToggle
	RunToggle

	NumButtons = int(RunToggle) + 1
)

var buttonNames = [NumButtons]string{
	"roll_left", "roll_right", "roll_reset",
	"zoom_in", "zoom_out", "zoom_reset",
	"jump", "crouch",
	"fly_toggle", "mouselook_toggle", "flycam_toggle", "run_toggle",
}

func (b Button) String() string {
	if b < 0 || int(b) >= NumButtons {
		return "unknown"
	}
	return buttonNames[b]
}

// Buttons returns every button in declaration order.
func Buttons() []Button {
	out := make([]Button, NumButtons)
	for i := range out {
		out[i] = Button(i)
	}
	return out
}

// Context is the single consumer of the conditioned signal for a frame.
type Context int

const (
	None Context = iota
	Avatar
	ObjectBuild
	Flycam
)

func (c Context) String() string {
	switch c {
	case Avatar:
		return "avatar"
	case ObjectBuild:
		return "build"
	case Flycam:
		return "flycam"
	default:
		return "none"
	}
}

// Contexts returns the contexts that carry their own tuning parameters.
func Contexts() []Context {
	return []Context{Avatar, ObjectBuild, Flycam}
}

// Key addresses a per-context, per-axis parameter.
type Key struct {
	Context Context
	Axis    Axis
}

// Binding ties a logical channel to a raw device index. The zero value is
// unmapped.
type Binding struct {
	index  int
	mapped bool
}

// Bind returns a binding to raw index i. Negative indices are unmapped.
func Bind(i int) Binding {
	if i < 0 {
		return Binding{}
	}
	return Binding{index: i, mapped: true}
}

// Unmapped returns a binding that never reads the device.
func Unmapped() Binding { return Binding{} }

// Index returns the raw index and whether the binding is mapped.
func (b Binding) Index() (int, bool) {
	return b.index, b.mapped
}

// Mapped reports whether the binding reads the device.
func (b Binding) Mapped() bool { return b.mapped }

// Raw returns the persisted form of the binding: the index, or -1.
func (b Binding) Raw() int {
	if !b.mapped {
		return -1
	}
	return b.index
}
