//go:build nosdl

package main

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/soar/inputmapper/internal/device"
)

const (
	defaultDriver = "joystick"
	driverNames   = "joystick (built without sdl)"
)

func newDriver(name string, logger *slog.Logger) (device.Driver, error) {
	switch name {
	case "joystick", "":
		return device.NewJoystickDriver(logger), nil
	case "sdl":
		return nil, errors.New("sdl driver not available in this build")
	}
	return nil, errors.Errorf("unknown driver %q", name)
}
