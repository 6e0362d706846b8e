//go:build !nosdl

package main

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/soar/inputmapper/internal/device"
	"github.com/soar/inputmapper/internal/device/sdljoy"
)

const (
	defaultDriver = "sdl"
	driverNames   = "sdl or joystick"
)

func newDriver(name string, logger *slog.Logger) (device.Driver, error) {
	switch name {
	case "sdl", "":
		return sdljoy.New(logger), nil
	case "joystick":
		return device.NewJoystickDriver(logger), nil
	}
	return nil, errors.Errorf("unknown driver %q", name)
}
