package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/soar/inputmapper/internal/config"
	"github.com/soar/inputmapper/internal/control"
	"github.com/soar/inputmapper/internal/device"
	"github.com/soar/inputmapper/internal/hub"
	pkglog "github.com/soar/inputmapper/internal/log"
	"github.com/soar/inputmapper/internal/monitor"
	"github.com/soar/inputmapper/internal/server"
	"github.com/soar/inputmapper/internal/sim"
	"github.com/soar/inputmapper/internal/tray"
)

// Cross-platform signal handling: use os.Interrupt on all platforms
// On Windows: os.Interrupt is sent when Ctrl+C is pressed
// On Unix: os.Interrupt is equivalent to syscall.SIGINT
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "inputmapper:", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "inputmapper.yaml"
	}
	return filepath.Join(dir, "inputmapper", "config.yaml")
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("inputmapper", pflag.ContinueOnError)
	fs.String("config", defaultConfigPath(), "configuration file (created on save)")
	fs.String("addr", "127.0.0.1:8080", "telemetry server listen address")
	fs.String("driver", defaultDriver, "input driver: "+driverNames)
	fs.Int("fps", 60, "control frame rate")
	fs.Bool("autoenable", true, "enable joystick control when a device is first opened")
	fs.String("log-level", "info", "trace, debug, info, warn or error")
	fs.String("log-file", "", "also write logs to this file")
	fs.Bool("no-server", false, "do not start the telemetry server")
	fs.String("monitor", "", "print telemetry of a running instance at this ws:// URL and exit")
	return fs
}

func run(args []string) error {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	configPath, _ := fs.GetString("config")
	if configPath != "" {
		if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
			return errors.Wrap(err, "create config directory")
		}
	}
	tbl, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := tbl.BindFlags(fs); err != nil {
		return err
	}

	logger, closers, err := pkglog.SetupLogger(tbl.GetString("log-level"), tbl.GetString("log-file"))
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	// Create cancellable context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	defer signal.Stop(sigCh)

	if url := tbl.GetString("monitor"); url != "" {
		go func() {
			<-sigCh
			cancel()
		}()
		return monitor.Run(ctx, url, os.Stdout, logger)
	}

	driver, err := newDriver(tbl.GetString("driver"), logger)
	if err != nil {
		return err
	}
	session := device.NewSession(driver, tbl, logger)
	if jd, ok := driver.(*device.JoystickDriver); ok {
		if err := jd.Watch(ctx, session); err != nil {
			logger.Warn("Hot-plug watching disabled", "error", err)
		}
	}

	host := sim.NewHost(logger)
	dispatcher := control.NewDispatcher(session, tbl, host.Collaborators(), logger)
	commands := make(chan hub.Command, 16)

	loop := &frameLoop{
		driver:     driver.Name(),
		session:    session,
		dispatcher: dispatcher,
		host:       host,
		table:      tbl,
		commands:   commands,
		logger:     logger,
		fps:        tbl.GetInt("fps"),
		autoenable: tbl.GetBool("autoenable"),
	}

	// Create and start hub and broadcaster
	h := hub.NewHub(logger)
	go h.Run(ctx)
	broadcaster := hub.NewBroadcaster(h, dispatcher.Reports(), logger)
	go broadcaster.Run(ctx)

	addr := tbl.GetString("addr")
	var srv *server.Server
	serverErrCh := make(chan error, 1)
	if !tbl.GetBool("no-server") {
		srv = server.New(h, broadcaster, commands, loop.snapshot, addr, logger)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErrCh <- err
			}
		}()
	}

	// Channel for tray-triggered shutdown
	shutdownRequested := make(chan struct{})

	// Initialize system tray on Windows only
	if runtime.GOOS == "windows" {
		url := ""
		if srv != nil {
			url = "http://" + addr
		}
		go func() {
			t := tray.New(url, commands, func() {
				close(shutdownRequested)
			}, logger)
			t.Run(tray.Icon())
		}()
	} else {
		logger.Info("Press Ctrl+C to exit")
	}

	// The SDL driver must stay on one OS thread for its whole life.
	loopDone := make(chan struct{})
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(loopDone)
		loop.run(ctx)
	}()

	logger.Info("inputmapper started", "driver", driver.Name(), "config", tbl.Path())

	// Wait for shutdown signal, tray request, or server error
	var runErr error
	select {
	case <-sigCh:
		logger.Info("Shutting down")
	case <-shutdownRequested:
		logger.Info("Shutdown requested from tray")
	case err := <-serverErrCh:
		runErr = err
	}
	cancel()

	// Wait for the frame loop to release the device
	<-loopDone

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP server shutdown error", "error", err)
		}
	}

	if err := tbl.Save(); err != nil {
		logger.Error("Save config", "error", err)
	}
	logger.Info("inputmapper stopped")
	return runErr
}
