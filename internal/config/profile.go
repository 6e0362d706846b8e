package config

import "github.com/soar/inputmapper/internal/channel"

// DeviceClass groups devices that share a default control layout.
type DeviceClass string

const (
	ClassNDOF        DeviceClass = "ndof"
	ClassXbox        DeviceClass = "xbox"
	ClassPlayStation DeviceClass = "playstation"
	ClassSwitchPro   DeviceClass = "switch_pro"
	ClassGeneric     DeviceClass = "generic"
)

// Profile is a complete set of mapping and tuning values for one class.
type Profile struct {
	Class      DeviceClass
	Relative   bool
	Axes       map[channel.Axis]int
	Buttons    map[channel.Button]int
	Scale      map[channel.Key]float64
	Deadzone   map[channel.Key]float64
	Feathering map[channel.Context]float64
}

var defaultFeathering = map[channel.Context]float64{
	channel.Avatar:      6,
	channel.ObjectBuild: 12,
	channel.Flycam:      16,
}

// Per-context sensitivity magnitudes. Translation is m/s for build and
// flycam, a unitless push for the avatar; rotation is rad/s.
func magnitude(c channel.Context, a channel.Axis) float64 {
	switch {
	case a == channel.Zoom:
		return 1
	case a >= channel.RotateX:
		if c == channel.ObjectBuild {
			return 1
		}
		return 1.5
	case c == channel.ObjectBuild:
		return 1.25
	case c == channel.Flycam:
		return 8
	default:
		return 1
	}
}

func newProfile(class DeviceClass, deadzone float64, axes map[channel.Axis]int, sign map[channel.Axis]float64, buttons map[channel.Button]int) Profile {
	p := Profile{
		Class:      class,
		Axes:       make(map[channel.Axis]int, channel.NumAxes),
		Buttons:    make(map[channel.Button]int, channel.NumButtons),
		Scale:      make(map[channel.Key]float64),
		Deadzone:   make(map[channel.Key]float64),
		Feathering: make(map[channel.Context]float64),
	}
	for _, a := range channel.Axes() {
		idx, ok := axes[a]
		if !ok {
			idx = -1
		}
		p.Axes[a] = idx
		s, ok := sign[a]
		if !ok {
			s = 1
		}
		for _, c := range channel.Contexts() {
			k := channel.Key{Context: c, Axis: a}
			p.Scale[k] = s * magnitude(c, a)
			p.Deadzone[k] = deadzone
		}
	}
	for _, b := range channel.Buttons() {
		idx, ok := buttons[b]
		if !ok {
			idx = -1
		}
		p.Buttons[b] = idx
	}
	for c, f := range defaultFeathering {
		p.Feathering[c] = f
	}
	return p
}

// SDL reports stick up as negative and stick right as positive;
// logical channels are forward, left, up and counter-clockwise positive.
var gamepadAxes = map[channel.Axis]int{
	channel.TranslateX: 0,
	channel.TranslateZ: 1,
	channel.RotateY:    2,
	channel.RotateX:    3,
}

var gamepadSign = map[channel.Axis]float64{
	channel.TranslateX: -1,
	channel.TranslateZ: -1,
	channel.RotateY:    -1,
	channel.RotateX:    -1,
}

var ndofProfile = newProfile(ClassNDOF, 0.1,
	map[channel.Axis]int{
		channel.TranslateX: 0,
		channel.TranslateZ: 1,
		channel.TranslateY: 2,
		channel.RotateX:    3,
		channel.RotateZ:    4,
		channel.RotateY:    5,
	},
	map[channel.Axis]float64{
		channel.TranslateX: -1,
		channel.TranslateZ: -1,
		channel.TranslateY: -1,
		channel.RotateX:    -1,
		channel.RotateY:    -1,
	},
	map[channel.Button]int{
		channel.FlycamToggle: 0,
		channel.Jump:         1,
	},
)

var xboxButtons = map[channel.Button]int{
	channel.Jump:            0, // a
	channel.Crouch:          1, // b
	channel.FlyToggle:       2, // x
	channel.FlycamToggle:    3, // y
	channel.RollLeft:        4, // lb
	channel.RollRight:       5, // rb
	channel.MouselookToggle: 6, // select
	channel.RunToggle:       7, // start
	channel.RollReset:       8, // l3
	channel.ZoomReset:       9, // r3
}

var xboxProfile = newProfile(ClassXbox, 0.15, gamepadAxes, gamepadSign, xboxButtons)

var playstationProfile = newProfile(ClassPlayStation, 0.15, gamepadAxes, gamepadSign,
	map[channel.Button]int{
		channel.Jump:            0, // cross
		channel.Crouch:          1, // circle
		channel.FlyToggle:       2, // square
		channel.FlycamToggle:    3, // triangle
		channel.MouselookToggle: 4, // share
		channel.RunToggle:       6, // options
		channel.RollReset:       7, // l3
		channel.ZoomReset:       8, // r3
		channel.RollLeft:        9, // l1
		channel.RollRight:       10,
	},
)

var switchProProfile = newProfile(ClassSwitchPro, 0.15, gamepadAxes, gamepadSign, xboxButtons)

var genericProfile = newProfile(ClassGeneric, 0.15, gamepadAxes, gamepadSign, xboxButtons)

// ProfileFor returns the default profile of class, or the generic profile.
func ProfileFor(class DeviceClass) Profile {
	switch class {
	case ClassNDOF:
		return ndofProfile
	case ClassXbox:
		return xboxProfile
	case ClassPlayStation:
		return playstationProfile
	case ClassSwitchPro:
		return switchProProfile
	default:
		return genericProfile
	}
}
