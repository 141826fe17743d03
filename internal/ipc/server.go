package ipc

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/winchrome/internal/chrome"
	"github.com/1broseidon/winchrome/internal/geometry"
	"github.com/1broseidon/winchrome/internal/platform"
	"github.com/1broseidon/winchrome/internal/runtimepath"
)

// Managed is the daemon-side view of the chrome-managed window the server
// reports on.
type Managed interface {
	Status() chrome.Status
	Alive() bool
}

// Replanner recomputes and applies the managed window's frame.
type Replanner func() (geometry.Frame, bool)

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	listener   net.Listener
	backend    platform.Backend
	managed    Managed
	replan     Replanner
	logger     *slog.Logger
	startTime  time.Time

	shutdownMu   sync.Mutex
	shuttingDown bool
}

// NewServer creates a new IPC server
func NewServer(backend platform.Backend, managed Managed, replan Replanner, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		backend:    backend,
		managed:    managed,
		replan:     replan,
		logger:     logger,
		startTime:  time.Now(),
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("ipc server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

// Stop shuts the server down and removes the socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			done := s.shuttingDown
			s.shutdownMu.Unlock()
			if done {
				return
			}
			s.logger.Warn("ipc accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(5 * time.Second))

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("ipc read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.writeResponse(conn, NewErrorResponse(err))
		return
	}

	s.writeResponse(conn, s.dispatch(req))
}

func (s *Server) dispatch(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetDisplays:
		return s.handleGetDisplays()
	case CommandReplan:
		return s.handleReplan()
	default:
		return NewErrorResponse(fmt.Errorf("unknown command %q", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	data := StatusData{
		DaemonRunning: true,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	}
	if s.managed != nil {
		status := s.managed.Status()
		data.Window = &status
	}

	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err)
	}
	return resp
}

func (s *Server) handleGetDisplays() *Response {
	displays, err := s.backend.Displays()
	if err != nil {
		return NewErrorResponse(err)
	}

	data := DisplaysData{}
	for _, d := range displays {
		data.Displays = append(data.Displays, DisplayInfo{
			ID:     d.ID,
			Name:   d.Name,
			X:      d.Usable.X,
			Y:      d.Usable.Y,
			Width:  d.Usable.Width,
			Height: d.Usable.Height,
		})
	}

	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err)
	}
	return resp
}

func (s *Server) handleReplan() *Response {
	if s.replan == nil {
		return NewErrorResponse(fmt.Errorf("no managed window"))
	}

	frame, applied := s.replan()
	resp, err := NewOKResponse(ReplanData{
		Applied: applied,
		X:       frame.X,
		Y:       frame.Y,
		Width:   frame.Width,
		Height:  frame.Height,
	})
	if err != nil {
		return NewErrorResponse(err)
	}
	return resp
}

func (s *Server) writeResponse(conn net.Conn, resp *Response) {
	data, err := marshalResponse(resp)
	if err != nil {
		s.logger.Warn("ipc marshal error", "error", err)
		return
	}
	if _, err := conn.Write(data); err != nil {
		s.logger.Warn("ipc write error", "error", err)
	}
}
