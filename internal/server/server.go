// Package server exposes telemetry over HTTP: the /ws stream, a JSON
// snapshot at /api/state and a status page at /.
package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/pkg/errors"

	"github.com/soar/inputmapper/internal/hub"
)

// StateFunc returns a JSON-encodable snapshot for /api/state. It is called
// from HTTP goroutines.
type StateFunc func() any

type Server struct {
	hub         *hub.Hub
	broadcaster *hub.Broadcaster
	commands    chan<- hub.Command
	state       StateFunc
	addr        string
	logger      *slog.Logger
	httpServer  *http.Server
}

func New(h *hub.Hub, b *hub.Broadcaster, commands chan<- hub.Command, state StateFunc, addr string, logger *slog.Logger) *Server {
	return &Server{
		hub:         h,
		broadcaster: b,
		commands:    commands,
		state:       state,
		addr:        addr,
		logger:      logger.With("component", "server"),
	}
}

// Handler builds the route table.
func (s *Server) Handler() (http.Handler, error) {
	page, err := minifiedPage()
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handleWebSocket(s.hub, s.broadcaster, s.commands, s.logger))
	mux.HandleFunc("/api/state", handleState(s.state, s.logger))
	mux.HandleFunc("/", handlePage(page))
	return mux, nil
}

func (s *Server) ListenAndServe() error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", s.addr)
	}

	s.httpServer = &http.Server{Handler: handler}
	s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		s.logger.Info("Shutting down HTTP server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
