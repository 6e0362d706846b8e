// Package tray shows the system tray icon with device and config actions.
package tray

import (
	"log/slog"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"

	"fyne.io/systray"

	"github.com/soar/inputmapper/internal/hub"
)

// ShutdownFunc is called when "Exit" is clicked
type ShutdownFunc func()

// Tray manages the system tray icon and menu
type Tray struct {
	url          string
	commands     chan<- hub.Command
	shutdownFunc ShutdownFunc
	logger       *slog.Logger
	once         sync.Once
	shuttingDown atomic.Bool

	menuOpen   *systray.MenuItem
	menuRescan *systray.MenuItem
	menuReload *systray.MenuItem
	menuFlycam *systray.MenuItem
	menuExit   *systray.MenuItem
}

// New creates a tray. url is the status page opened by "Open status page";
// an empty url hides that entry.
func New(url string, commands chan<- hub.Command, shutdownFn ShutdownFunc, logger *slog.Logger) *Tray {
	return &Tray{
		url:          url,
		commands:     commands,
		shutdownFunc: shutdownFn,
		logger:       logger.With("component", "tray"),
	}
}

// Run initializes and runs the system tray (blocks until Quit())
func (t *Tray) Run(iconData []byte) {
	systray.Run(func() {
		t.onReady(iconData)
	}, func() {
		t.onExit()
	})
}

func (t *Tray) onReady(iconData []byte) {
	if iconData != nil {
		systray.SetIcon(iconData)
	}
	systray.SetTitle("inputmapper")
	tooltip := "inputmapper"
	if t.url != "" {
		tooltip += " - " + t.url
	}
	systray.SetTooltip(tooltip)

	t.menuOpen = systray.AddMenuItem("Open status page", "Open web interface")
	if t.url == "" {
		t.menuOpen.Hide()
	}
	systray.AddSeparator()
	t.menuRescan = systray.AddMenuItem("Rescan device", "Close and re-open the input device")
	t.menuReload = systray.AddMenuItem("Reload config", "Re-read the configuration file")
	t.menuFlycam = systray.AddMenuItem("Toggle flycam", "Enter or leave free camera")
	systray.AddSeparator()
	t.menuExit = systray.AddMenuItem("Exit", "Quit application")

	// Handle menu clicks in separate goroutines to prevent blocking
	go t.handleMenuClicks()

	t.logger.Info("System tray initialized")
}

// handleMenuClicks processes menu item clicks without blocking
func (t *Tray) handleMenuClicks() {
	for {
		select {
		case <-t.menuOpen.ClickedCh:
			if !t.shuttingDown.Load() {
				t.openBrowser()
			}
		case <-t.menuRescan.ClickedCh:
			t.send(hub.CommandRescan)
		case <-t.menuReload.ClickedCh:
			t.send(hub.CommandReload)
		case <-t.menuFlycam.ClickedCh:
			t.send(hub.CommandFlycam)
		case <-t.menuExit.ClickedCh:
			if t.shuttingDown.CompareAndSwap(false, true) {
				t.once.Do(t.shutdownFunc)
				systray.Quit()
				return
			}
		}
	}
}

func (t *Tray) send(kind hub.CommandKind) {
	if t.shuttingDown.Load() {
		return
	}
	select {
	case t.commands <- hub.Command{Kind: kind}:
	default:
		t.logger.Warn("Command queue full, dropped", "type", kind)
	}
}

func (t *Tray) onExit() {
	t.shuttingDown.Store(true)
	t.logger.Info("System tray exiting")
}

// openBrowser opens the default web browser
func (t *Tray) openBrowser() {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", t.url)
	case "darwin":
		cmd = exec.Command("open", t.url)
	default:
		cmd = exec.Command("xdg-open", t.url)
	}

	if err := cmd.Start(); err != nil {
		t.logger.Warn("Failed to open browser", "error", err)
	}
}
