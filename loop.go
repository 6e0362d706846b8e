package main

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/soar/inputmapper/internal/config"
	"github.com/soar/inputmapper/internal/control"
	"github.com/soar/inputmapper/internal/device"
	"github.com/soar/inputmapper/internal/hub"
	"github.com/soar/inputmapper/internal/sim"
)

// Status is the /api/state payload.
type Status struct {
	Driver  string    `json:"driver"`
	State   string    `json:"state"`
	Device  string    `json:"device,omitempty"`
	Class   string    `json:"class,omitempty"`
	Context string    `json:"context"`
	Flycam  bool      `json:"flycam"`
	Sim     sim.State `json:"sim"`
}

// frameLoop owns the session, the dispatcher and the table. Everything it
// touches runs on its goroutine; other goroutines reach it through commands
// and read it through status.
type frameLoop struct {
	driver     string
	session    *device.Session
	dispatcher *control.Dispatcher
	host       *sim.Host
	table      *config.Table
	commands   <-chan hub.Command
	logger     *slog.Logger
	fps        int
	autoenable bool

	status atomic.Pointer[Status]
}

func (l *frameLoop) run(ctx context.Context) {
	l.session.Initialize(l.autoenable)
	defer l.session.Terminate()
	l.publish()

	fps := l.fps
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return

		case cmd := <-l.commands:
			l.handle(cmd)
			l.publish()

		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			l.dispatcher.Tick(dt)
			l.host.Step(dt)
			l.publish()
		}
	}
}

func (l *frameLoop) handle(cmd hub.Command) {
	l.logger.Info("Command", "type", cmd.Kind)
	switch cmd.Kind {
	case hub.CommandRescan:
		l.session.Terminate()
		l.session.Initialize(l.autoenable)
		l.dispatcher.Reload()
	case hub.CommandReload:
		if err := l.table.Refresh(); err != nil {
			l.logger.Error("Reload config", "error", err)
			return
		}
		l.dispatcher.Reload()
	case hub.CommandSave:
		if err := l.table.Save(); err != nil {
			l.logger.Error("Save config", "error", err)
		}
	case hub.CommandFlycam:
		l.dispatcher.ToggleFlycam()
	case hub.CommandSelect:
		l.host.Select(cmd.Active)
	}
}

func (l *frameLoop) publish() {
	st := &Status{
		Driver:  l.driver,
		State:   l.session.State().String(),
		Context: l.dispatcher.Context().String(),
	}
	if cand, class, ok := l.session.Current(); ok {
		st.Device = cand.Name
		st.Class = string(class)
	}
	_, st.Flycam = l.dispatcher.Flycam()
	l.status.Store(st)
}

// snapshot is safe from any goroutine.
func (l *frameLoop) snapshot() any {
	st := Status{}
	if p := l.status.Load(); p != nil {
		st = *p
	}
	st.Sim = l.host.State()
	return st
}
