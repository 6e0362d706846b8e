//go:build linux

package device

import (
	"bytes"
	"context"
	"log/slog"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const inputPath = "/dev/input"

// watchInputDir reports node creation and deletion under /dev/input. An
// attribute change counts as creation: udev fixes node permissions after
// the node appears, and the open only succeeds then.
func watchInputDir(ctx context.Context, logger *slog.Logger, fn func(name string, created bool)) error {
	fd, err := unix.InotifyInit1(unix.IN_CLOEXEC | unix.IN_NONBLOCK)
	if err != nil {
		return errors.Wrap(err, "inotify init")
	}
	wd, err := unix.InotifyAddWatch(fd, inputPath, unix.IN_CREATE|unix.IN_DELETE|unix.IN_ATTRIB)
	if err != nil {
		_ = unix.Close(fd)
		return errors.Wrapf(err, "inotify watch %s", inputPath)
	}

	go func() {
		defer func() {
			_, _ = unix.InotifyRmWatch(fd, uint32(wd))
			_ = unix.Close(fd)
		}()

		buf := make([]byte, 4096)
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		for {
			if ctx.Err() != nil {
				return
			}
			n, err := unix.Poll(fds, 250)
			if err != nil {
				if err == unix.EINTR {
					continue
				}
				logger.Warn("Hot-plug watcher stopped", "error", err)
				return
			}
			if n == 0 {
				continue
			}
			n, err = unix.Read(fd, buf)
			if err != nil {
				if err == unix.EAGAIN || err == unix.EINTR {
					continue
				}
				logger.Warn("Hot-plug watcher stopped", "error", err)
				return
			}

			var offset uint32
			for offset+unix.SizeofInotifyEvent <= uint32(n) {
				event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
				start := offset + unix.SizeofInotifyEvent
				name := string(bytes.TrimRight(buf[start:start+event.Len], "\x00"))
				switch {
				case event.Mask&(unix.IN_CREATE|unix.IN_ATTRIB) != 0:
					fn(name, true)
				case event.Mask&unix.IN_DELETE != 0:
					fn(name, false)
				}
				offset = start + event.Len
			}
		}
	}()
	return nil
}
