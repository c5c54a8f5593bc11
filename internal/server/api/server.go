// Package api implements the line-oriented TCP control API of the emulator.
package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/Alia5/padmap/apitypes"
	"github.com/Alia5/padmap/internal/emulator"
)

// Server implements a small TCP API for inspecting and driving the gamepad.
type Server struct {
	dev    *emulator.Device
	addr   string
	ln     net.Listener
	logger *slog.Logger
	router *Router
	config ServerConfig
	wg     sync.WaitGroup
}

// New creates a new Server bound to dev.
func New(dev *emulator.Device, addr string, config ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		dev:    dev,
		addr:   addr,
		logger: logger,
		config: config,
		router: NewRouter(),
	}
}

// Router returns the router used by the API server so callers can register handlers.
func (a *Server) Router() *Router { return a.router }

// Device returns the emulated gamepad.
func (a *Server) Device() *emulator.Device { return a.dev }

// Config returns the server configuration.
func (a *Server) Config() ServerConfig { return a.config }

// Addr returns the bound listen address once started.
func (a *Server) Addr() string {
	if a.ln != nil {
		return a.ln.Addr().String()
	}
	return a.addr
}

// Start listens on the configured address and serves incoming API commands.
func (a *Server) Start() error {
	ln, err := net.Listen("tcp", a.addr)
	if err != nil {
		return err
	}
	a.ln = ln
	a.logger.Info("API listening", "addr", ln.Addr().String())
	a.wg.Add(1)
	go a.serve()
	return nil
}

// Close stops accepting connections.
func (a *Server) Close() {
	if a.ln != nil {
		_ = a.ln.Close()
	}
	a.wg.Wait()
}

func (a *Server) serve() {
	defer a.wg.Done()
	for {
		conn, err := a.ln.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				a.logger.Warn("API accept failed", "error", err)
			}
			a.logger.Info("API server stopped")
			return
		}
		go a.handleConn(conn)
	}
}

// session is one client connection. Requests are served in order until the
// client disconnects, the idle timeout fires, or a stream route takes over.
type session struct {
	srv    *Server
	conn   net.Conn
	ctx    context.Context
	logger *slog.Logger
}

func (a *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &session{srv: a, conn: conn, ctx: ctx, logger: a.logger.With("remote", conn.RemoteAddr().String())}
	lines := bufio.NewReader(conn)
	for {
		if a.config.ConnectionTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(a.config.ConnectionTimeout))
		}
		line, err := lines.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				s.logger.Debug("api read", "error", err)
			}
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if !s.dispatch(strings.ToLower(fields[0]), fields[1:]) {
			return
		}
	}
}

// dispatch serves one request and reports whether the connection stays open.
func (s *session) dispatch(path string, args []string) bool {
	s.logger.Debug("api cmd", "path", path, "args", args)
	req := &Request{Ctx: s.ctx, Args: args}

	if h, params := s.srv.router.Match(path); h != nil {
		req.Params = params
		res := &Response{}
		if err := h(req, res, s.logger); err != nil {
			s.logger.Warn("api handler error", "path", path, "error", err)
			s.reply(errorLine(err.Error()))
			return true
		}
		s.reply(res.JSON)
		return true
	}

	if h, params := s.srv.router.MatchStream(path); h != nil {
		req.Params = params
		_ = s.conn.SetReadDeadline(time.Time{})
		s.logger.Info("api stream begin", "path", path)
		if err := h(s.conn, req, s.logger); err != nil {
			s.logger.Error("api stream error", "path", path, "error", err)
		}
		s.logger.Info("api stream end", "path", path)
		return false
	}

	s.logger.Warn("api unknown path", "path", path)
	s.reply(errorLine("unknown path"))
	return true
}

// reply writes one response line. An empty body is sent as a bare newline.
func (s *session) reply(body string) {
	if _, err := io.WriteString(s.conn, body+"\n"); err != nil {
		s.logger.Debug("api write", "error", err)
	}
}

func errorLine(msg string) string {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(apitypes.ApiError{Error: msg})
	return strings.TrimSuffix(b.String(), "\n")
}
