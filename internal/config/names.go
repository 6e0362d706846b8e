package config

import "github.com/soar/inputmapper/internal/channel"

// Setting names. Viper keys are case-insensitive, so everything is lowercase.
const (
	KeyEnabled        = "joystick.enabled"
	KeyRelative       = "joystick.relative"
	KeyDeviceIdentity = "joystick.device_identity"

	KeyAvatarEnabled = "avatar.enabled"
	KeyRunThreshold  = "avatar.run_threshold"

	KeyBuildEnabled = "build.enabled"

	KeyFlycamEnabled = "flycam.enabled"
	KeyAutoLevel     = "flycam.auto_level"
	KeyDirectZoom    = "flycam.direct_zoom"
	KeyRollRate      = "flycam.roll_rate"
	KeyZoomRate      = "flycam.zoom_rate"
)

// AxisKey names the raw axis index bound to a.
func AxisKey(a channel.Axis) string {
	return "joystick.axis." + a.String()
}

// ButtonKey names the raw button index bound to b.
func ButtonKey(b channel.Button) string {
	return "joystick.button." + b.String()
}

// ScaleKey names the sensitivity of axis a while c is active.
func ScaleKey(c channel.Context, a channel.Axis) string {
	return c.String() + ".scale." + a.String()
}

// DeadzoneKey names the deadzone of axis a while c is active.
func DeadzoneKey(c channel.Context, a channel.Axis) string {
	return c.String() + ".deadzone." + a.String()
}

// FeatheringKey names the smoothing rate used while c is active.
func FeatheringKey(c channel.Context) string {
	return c.String() + ".feathering"
}

// ProfileAppliedKey records that the default profile of class was written.
func ProfileAppliedKey(class DeviceClass) string {
	return "profile." + string(class) + ".applied"
}
