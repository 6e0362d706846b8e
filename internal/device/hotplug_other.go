//go:build !linux

package device

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
)

var errHotplugUnsupported = errors.New("hot-plug watching is not supported on this platform")

func watchInputDir(_ context.Context, _ *slog.Logger, _ func(name string, created bool)) error {
	return errHotplugUnsupported
}
