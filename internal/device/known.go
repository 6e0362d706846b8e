package device

import (
	"math"
	"strings"

	"github.com/soar/inputmapper/internal/config"
)

type deviceKey struct {
	VendorID  uint16
	ProductID uint16
}

var knownDevices = map[deviceKey]config.DeviceClass{
	// 3Dconnexion, Logitech era
	{0x046D, 0xC623}: config.ClassNDOF, // SpaceTraveler
	{0x046D, 0xC625}: config.ClassNDOF, // SpacePilot
	{0x046D, 0xC626}: config.ClassNDOF, // SpaceNavigator
	{0x046D, 0xC627}: config.ClassNDOF, // SpaceExplorer
	{0x046D, 0xC628}: config.ClassNDOF, // SpaceNavigator for Notebooks
	{0x046D, 0xC629}: config.ClassNDOF, // SpacePilot Pro
	{0x046D, 0xC62B}: config.ClassNDOF, // SpaceMouse Pro
	// 3Dconnexion
	{0x256F, 0xC62E}: config.ClassNDOF, // SpaceMouse Wireless (cabled)
	{0x256F, 0xC62F}: config.ClassNDOF, // SpaceMouse Wireless (receiver)
	{0x256F, 0xC631}: config.ClassNDOF, // SpaceMouse Pro Wireless
	{0x256F, 0xC633}: config.ClassNDOF, // SpaceMouse Enterprise
	{0x256F, 0xC635}: config.ClassNDOF, // SpaceMouse Compact
	// Microsoft Xbox controllers
	{0x045E, 0x028E}: config.ClassXbox, // Xbox 360
	{0x045E, 0x02FF}: config.ClassXbox, // Xbox One
	{0x045E, 0x0B12}: config.ClassXbox, // Xbox Series X|S
	{0x045E, 0x0B13}: config.ClassXbox, // Xbox Series X|S (wireless)
	// Sony PlayStation controllers
	{0x054C, 0x0CE6}: config.ClassPlayStation, // DualSense
	{0x054C, 0x09CC}: config.ClassPlayStation, // DualShock 4 v2
	{0x054C, 0x05C4}: config.ClassPlayStation, // DualShock 4 v1
	// Nintendo Switch Pro Controller
	{0x057E, 0x2009}: config.ClassSwitchPro,
}

// Name fragments for drivers that do not report vendor/product IDs.
var knownNames = []struct {
	fragment string
	class    config.DeviceClass
}{
	{"spacenavigator", config.ClassNDOF},
	{"spacemouse", config.ClassNDOF},
	{"spaceexplorer", config.ClassNDOF},
	{"spacetraveler", config.ClassNDOF},
	{"spacepilot", config.ClassNDOF},
	{"3dconnexion", config.ClassNDOF},
	{"xbox", config.ClassXbox},
	{"x-box", config.ClassXbox},
	{"xinput", config.ClassXbox},
	{"dualsense", config.ClassPlayStation},
	{"dualshock", config.ClassPlayStation},
	{"playstation", config.ClassPlayStation},
	{"pro controller", config.ClassSwitchPro},
}

// Classify returns the device class of c and whether c is a known device.
// Unknown devices are ClassGeneric.
func Classify(c Candidate) (config.DeviceClass, bool) {
	if class, ok := knownDevices[deviceKey{VendorID: c.VendorID, ProductID: c.ProductID}]; ok {
		return class, true
	}
	name := strings.ToLower(c.Name)
	for _, k := range knownNames {
		if strings.Contains(name, k.fragment) {
			return k.class, true
		}
	}
	return config.ClassGeneric, false
}

// NormalizeAxis converts a raw axis value (-32768..32767) to -1.0..1.0.
func NormalizeAxis(raw int16) float64 {
	v := float64(raw) / math.MaxInt16
	if v < -1.0 {
		v = -1.0
	}
	return v
}

// Hat direction bits, as reported by SDL and the HID hat switch.
const (
	HatUp    = 0x01
	HatRight = 0x02
	HatDown  = 0x04
	HatLeft  = 0x08
)

// HatButtons is the number of button slots one hat occupies.
const HatButtons = 4

// SetHat exposes a hat as four buttons starting at slot first, in the order
// up, right, down, left. Slots past MaxButtons are dropped.
func SetHat(s *Snapshot, first int, hat uint8) {
	for i, bit := range [HatButtons]uint8{HatUp, HatRight, HatDown, HatLeft} {
		if idx := first + i; idx >= 0 && idx < MaxButtons {
			s.Buttons[idx] = hat&bit != 0
		}
	}
}

// normalizeInt is NormalizeAxis for drivers that widen samples to int.
func normalizeInt(raw int) float64 {
	v := float64(raw) / math.MaxInt16
	switch {
	case v < -1:
		return -1
	case v > 1:
		return 1
	default:
		return v
	}
}
